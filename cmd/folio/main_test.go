package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/benjaminschreck/go-folio/pkg/folio"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func restoreConfig(t *testing.T) {
	t.Helper()
	original := folio.GetGlobalConfig()
	logger := folio.GetLogger()
	t.Cleanup(func() {
		folio.SetLogger(logger)
		folio.SetGlobalConfig(original)
	})
}

var siteFiles = map[string]string{
	"first.txt":  "TITLE: First & best\nDATE: 2010-05-06 19:08:00\n----\nHello",
	"second.txt": "TITLE: Second\nDATE: 2011-05-06 19:08:00\n----\nWorld",
	"entry.tmpl": "{% block entry %}<h1>{{ TITLE }}</h1>{{ CONTENT | raw }}{% endblock %}",
	"list.tmpl":  "{{ SITE_TITLE }}:{% foreach POSTS %} {{ FILENAME }}{% endforeach %} ({{ FILENAME_FIRST }}..{{ DATE_LAST }})",
	"site.yaml": `global:
  SITE_TITLE: Notes
  AUTHOR_NAME: Ana
  AUTHOR_EMAIL: ana@example.org
  SITE_TAGLINE: Things
  BASE_DOMAIN: https://example.org
`,
}

func TestRunEntry(t *testing.T) {
	restoreConfig(t)
	dir := writeFiles(t, siteFiles)

	var out, errOut bytes.Buffer
	err := run(context.Background(), &out, &errOut, []string{
		"-t", filepath.Join(dir, "entry.tmpl"),
		filepath.Join(dir, "first.txt"),
	})
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}

	want := "<h1>First &amp; best</h1><p>Hello</p>\n"
	if out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
}

func TestRunListingToFile(t *testing.T) {
	restoreConfig(t)
	dir := writeFiles(t, siteFiles)
	output := filepath.Join(dir, "out", "index.html")

	var out, errOut bytes.Buffer
	err := run(context.Background(), &out, &errOut, []string{
		"-l", "-j", "2",
		"-c", filepath.Join(dir, "site.yaml"),
		"-D", "SITE_TITLE=Overridden",
		"-t", filepath.Join(dir, "list.tmpl"),
		"-o", output,
		filepath.Join(dir, "first.txt"),
		filepath.Join(dir, "second.txt"),
	})
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("unexpected stdout output: %q", out.String())
	}

	got, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	want := "Overridden: first second (first..2011-05-06 19:08:00)"
	if string(got) != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestRunPrint(t *testing.T) {
	restoreConfig(t)
	dir := writeFiles(t, siteFiles)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"entry variable", []string{"-p", "TITLE", filepath.Join(dir, "first.txt")}, "First & best\n"},
		{"global from settings", []string{"-p", "AUTHOR_NAME", "-c", filepath.Join(dir, "site.yaml")}, "Ana\n"},
		{"aggregate in listing", []string{"-l", "-p", "FILENAME_LAST", filepath.Join(dir, "first.txt"), filepath.Join(dir, "second.txt")}, "second\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out, errOut bytes.Buffer
			if err := run(context.Background(), &out, &errOut, tt.args); err != nil {
				t.Fatalf("run() error = %v", err)
			}
			if out.String() != tt.want {
				t.Errorf("output = %q, want %q", out.String(), tt.want)
			}
		})
	}
}

func TestRunErrors(t *testing.T) {
	restoreConfig(t)
	dir := writeFiles(t, map[string]string{
		"bad.txt":  "TITLE: x\nno separator here",
		"ok.txt":   "TITLE: x\n----\n",
		"bad.tmpl": "{% if TITLE %}open",
	})

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"bad source", []string{"-p", "TITLE", filepath.Join(dir, "bad.txt")}, "bad.txt"},
		{"missing source", []string{"-p", "TITLE", filepath.Join(dir, "missing.txt")}, "missing.txt"},
		{"bad template", []string{"-t", filepath.Join(dir, "bad.tmpl"), filepath.Join(dir, "ok.txt")}, "'if' statement is never closed"},
		{"unknown variable", []string{"-p", "NOPE", filepath.Join(dir, "ok.txt")}, "variable not found: NOPE"},
		{"bad log level", []string{"-log-level", "loud", "-p", "TITLE"}, "invalid log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out, errOut bytes.Buffer
			err := run(context.Background(), &out, &errOut, tt.args)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want it to contain %q", err.Error(), tt.want)
			}
		})
	}
}

func TestRunLogsToErrorWriter(t *testing.T) {
	restoreConfig(t)
	dir := writeFiles(t, siteFiles)

	var out, errOut bytes.Buffer
	err := run(context.Background(), &out, &errOut, []string{
		"-log-level", "debug", "-p", "TITLE", filepath.Join(dir, "first.txt"),
	})
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if !strings.Contains(errOut.String(), "[DEBUG] Sources loaded documents=1") {
		t.Errorf("stderr = %q, want debug log lines", errOut.String())
	}
	if out.String() != "First & best\n" {
		t.Errorf("output = %q", out.String())
	}
}

func TestRunPartialDatesWarns(t *testing.T) {
	restoreConfig(t)
	dir := writeFiles(t, map[string]string{
		"a.txt": "DATE: 2010-01-01\n----\n",
		"b.txt": "----\n",
	})

	var out, errOut bytes.Buffer
	err := run(context.Background(), &out, &errOut, []string{
		"-l", "-p", "DATE_LAST", filepath.Join(dir, "a.txt"), filepath.Join(dir, "b.txt"),
	})
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if !strings.Contains(errOut.String(), "warning: 'DATE' variable provided for at least one source file") {
		t.Errorf("stderr = %q", errOut.String())
	}
	if out.String() != "2010-01-01\n" {
		t.Errorf("output = %q", out.String())
	}
}
