// Package settings reads the site settings file that seeds a folio build:
// global template variables, build options and the lists of posts, pages,
// tags and static files.
package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/benjaminschreck/go-folio/pkg/folio"
)

// Format identifies the syntax of a settings file.
type Format string

const (
	FormatHCL  Format = "hcl"
	FormatYAML Format = "yaml"
)

// RequiredGlobals must be present and non-empty in the global section.
var RequiredGlobals = []string{
	"AUTHOR_NAME",
	"AUTHOR_EMAIL",
	"SITE_TITLE",
	"SITE_TAGLINE",
	"BASE_DOMAIN",
}

// defaults for the settings section. A missing entry has no default.
var defaults = map[string]string{
	"content_dir":         "content",
	"template_dir":        "templates",
	"main_template":       "main.tmpl",
	"source_ext":          ".txt",
	"output_dir":          "_build",
	"pagination_prefix":   "page",
	"posts_per_page":      "10",
	"atom_posts_per_page": "10",
	"html_ext":            "/index.html",
	"post_prefix":         "post",
	"tag_prefix":          "tag",
	"atom_prefix":         "atom",
	"atom_ext":            ".xml",
	"runserver_host":      "127.0.0.1",
	"runserver_port":      "8080",
	"runserver_threads":   "20",
	"date_format":         "%b %d, %Y, %I:%M %p GMT",
}

// aliases lists accepted names per section, most preferred first.
var aliases = map[string][]string{
	"global": {"global", "environment"},
	"copy":   {"copy", "copy_files"},
}

// resolve returns the entry stored under name or, failing that, under the
// first of its aliases that is present.
func resolve[T any](entries map[string]T, name string) (T, bool) {
	names, ok := aliases[name]
	if !ok {
		names = []string{name}
	}
	for _, n := range names {
		if v, ok := entries[n]; ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// document is the syntax-independent result of decoding a settings file.
type document struct {
	sections map[string]*folio.Variables
	lists    map[string][]string
}

func newDocument() *document {
	return &document{
		sections: make(map[string]*folio.Variables),
		lists:    make(map[string][]string),
	}
}

// Settings is a validated settings file.
type Settings struct {
	// Global holds the template variables of the global section, in file order
	Global *folio.Variables
	// Options holds the settings section as written, without defaults
	Options *folio.Variables

	Posts []string
	Pages []string
	Copy  []string
	Tags  []string
}

// Parse decodes src in the given format and validates it. name is used in
// diagnostics only.
func Parse(src []byte, name string, format Format) (*Settings, error) {
	var (
		doc *document
		err error
	)
	switch format {
	case FormatHCL:
		doc, err = decodeHCL(src, name)
	case FormatYAML:
		doc, err = decodeYAML(src, name)
	default:
		return nil, fmt.Errorf("unsupported settings format %q", format)
	}
	if err != nil {
		return nil, err
	}
	return build(doc)
}

// ParseFile reads a settings file, choosing the format from its extension.
func ParseFile(path string) (*Settings, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, folio.NewDocumentError("read", path, err)
	}
	s, err := Parse(src, path, format)
	if err != nil {
		return nil, folio.NewDocumentError("settings", path, err)
	}
	folio.GetLogger().WithFields(folio.Fields{"path": path, "globals": s.Global.Len()}).Debug("Settings loaded")
	return s, nil
}

// FormatFromPath maps a file extension onto a Format.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".hcl":
		return FormatHCL, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("cannot determine settings format of %s: use .hcl, .yaml or .yml", path)
	}
}

func build(doc *document) (*Settings, error) {
	global, ok := resolve(doc.sections, "global")
	if !ok {
		return nil, fmt.Errorf("settings must contain a global section")
	}

	for _, key := range global.Keys() {
		if !isGlobalKey(key) {
			return nil, fmt.Errorf("invalid global key %q: keys must contain only uppercase letters and '_'", key)
		}
	}
	for _, key := range RequiredGlobals {
		if global.Lookup(key) == "" {
			return nil, fmt.Errorf("global key required but not found or empty: %s", key)
		}
	}

	options, ok := resolve(doc.sections, "settings")
	if !ok {
		options = folio.NewVariables()
	}

	s := &Settings{Global: global, Options: options}
	s.Posts, _ = resolve(doc.lists, "posts")
	s.Pages, _ = resolve(doc.lists, "pages")
	s.Copy, _ = resolve(doc.lists, "copy")
	s.Tags, _ = resolve(doc.lists, "tags")
	return s, nil
}

func isGlobalKey(key string) bool {
	if key == "" {
		return false
	}
	for _, c := range key {
		if (c < 'A' || c > 'Z') && c != '_' {
			return false
		}
	}
	return true
}

// Get returns a setting, falling back to its default. ok is false when the
// setting is neither set nor has a default.
func (s *Settings) Get(key string) (string, bool) {
	if v, ok := s.Options.Get(key); ok {
		return v, true
	}
	v, ok := defaults[key]
	return v, ok
}

// Int returns a setting as an integer.
func (s *Settings) Int(key string) (int, error) {
	v, ok := s.Get(key)
	if !ok {
		return 0, fmt.Errorf("setting %s is not set", key)
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("setting %s must be an integer, got %q", key, v)
	}
	return n, nil
}

// Globals returns a fresh variable mapping seeded from the global section.
// DATE_FORMAT and LOCALE are added from the date_format and locale settings
// unless the global section already defines them.
func (s *Settings) Globals() *folio.Variables {
	vars := s.Global.Clone()
	if !vars.Has("DATE_FORMAT") {
		if v, ok := s.Get("date_format"); ok {
			vars.Set("DATE_FORMAT", v)
		}
	}
	if !vars.Has("LOCALE") {
		if v, ok := s.Get("locale"); ok {
			vars.Set("LOCALE", v)
		}
	}
	return vars
}

// DefaultKeys lists the settings that have a default value, sorted.
func DefaultKeys() []string {
	keys := make([]string, 0, len(defaults))
	for k := range defaults {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
