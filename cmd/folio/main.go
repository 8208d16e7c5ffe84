// Command folio compiles source documents through a template into a single
// output page.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/benjaminschreck/go-folio/pkg/folio"
	"github.com/benjaminschreck/go-folio/pkg/folio/settings"
	"github.com/natefinch/atomic"
)

func main() {
	if err := run(context.Background(), os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		if exitErr, ok := err.(*ExitError); ok {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run executes one compilation. Rendered output goes to outW unless -o is
// given; warnings go to errW.
func run(ctx context.Context, outW, errW io.Writer, args []string) error {
	opts, shouldExit, err := parseArgs(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	config, err := configure(opts)
	if err != nil {
		return err
	}
	logger := folio.NewLogger(errW, folio.ParseLogLevel(config.LogLevel))
	folio.SetLogger(logger)

	globals := folio.NewVariables()
	if opts.Settings != "" {
		s, err := settings.ParseFile(opts.Settings)
		if err != nil {
			return failure(err)
		}
		globals = s.Globals()
	}
	for _, kv := range opts.Defines {
		globals.Set(kv[0], kv[1])
	}

	loader := folio.NewLoader(folio.ByteProviderFunc(os.ReadFile))
	loader.Sink = folio.WriterSink{W: errW}

	var docs folio.DocumentSet
	if opts.Workers > 1 {
		docs, err = loader.LoadParallel(ctx, globals, opts.Sources, opts.Workers)
	} else {
		docs, err = loader.Load(globals, opts.Sources)
	}
	if err != nil {
		return failure(err)
	}
	logger.WithField("documents", len(docs)).Debug("Sources loaded")

	var entry *folio.Variables
	if !opts.Listing && len(docs) == 1 {
		entry = docs[0]
	}

	if opts.Print != "" {
		return printVariable(outW, opts.Print, entry, globals)
	}

	src, err := os.ReadFile(opts.Template)
	if err != nil {
		return failure(folio.NewDocumentError("read", opts.Template, err))
	}
	tmpl, err := folio.DefaultTemplateCache().Parse(opts.Template, string(src))
	if err != nil {
		return failure(folio.NewDocumentError("parse", opts.Template, err))
	}

	var out string
	if opts.Listing {
		out = folio.RenderListing(tmpl, globals, docs)
	} else {
		out = folio.RenderEntry(tmpl, globals, entry)
	}

	if opts.Output == "" {
		_, err := io.WriteString(outW, out)
		return err
	}
	return writeOutput(opts.Output, out)
}

// configure applies logging and content options to the global configuration.
func configure(opts *options) (*folio.Config, error) {
	config := folio.GetGlobalConfig()
	if opts.LogLevel != "" {
		config.LogLevel = strings.ToLower(opts.LogLevel)
	}
	if opts.ContentFormat != "" {
		config.ContentFormat = strings.ToLower(opts.ContentFormat)
	}
	if err := config.Validate(); err != nil {
		return nil, usageError("%v", err)
	}
	folio.SetGlobalConfig(config)
	return config, nil
}

// printVariable writes the value of name, looking in the entry document first.
func printVariable(w io.Writer, name string, entry, globals *folio.Variables) error {
	value, ok := entry.Get(name)
	if !ok {
		value, ok = globals.Get(name)
	}
	if !ok {
		return &ExitError{Code: 1, Message: fmt.Sprintf("folio: error: variable not found: %s", name)}
	}
	_, err := fmt.Fprintln(w, value)
	return err
}

func writeOutput(path, content string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return failure(folio.NewDocumentError("write", path, err))
		}
	}
	if err := atomic.WriteFile(path, strings.NewReader(content)); err != nil {
		return failure(folio.NewDocumentError("write", path, err))
	}
	folio.GetLogger().WithField("path", path).Debug("Output written")
	return nil
}

func failure(err error) *ExitError {
	return &ExitError{Code: 1, Message: "folio: error: " + err.Error()}
}
