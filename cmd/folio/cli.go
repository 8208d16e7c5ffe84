package main

import (
	"flag"
	"fmt"
	"io"
	"strings"
)

const version = "0.1.0"

// ExitError carries the process exit code for a failed run.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	return e.Message
}

func usageError(format string, args ...interface{}) *ExitError {
	return &ExitError{Code: 2, Message: "folio: error: " + fmt.Sprintf(format, args...)}
}

// defines collects repeated -D KEY=VALUE flags in order.
type defines []string

func (d *defines) String() string {
	return strings.Join(*d, ",")
}

func (d *defines) Set(value string) error {
	*d = append(*d, value)
	return nil
}

type options struct {
	Settings      string
	Defines       [][2]string
	Listing       bool
	Template      string
	Output        string
	Print         string
	Workers       int
	LogLevel      string
	ContentFormat string
	Sources       []string
}

// parseArgs processes command-line arguments. It returns the options, whether
// the program should exit cleanly, or an ExitError.
func parseArgs(args []string, output io.Writer) (*options, bool, error) {
	flagSet := flag.NewFlagSet("folio", flag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.Usage = func() {
		fmt.Fprint(output, `
folio - a static page compiler.

Usage:
  folio [options] [SOURCE ...]

Arguments:
  SOURCE
    Source document: headers, a line of four or more '-' characters, then content.

Options:
`)
		flagSet.PrintDefaults()
	}

	var defs defines
	opts := &options{}
	flagSet.StringVar(&opts.Settings, "c", "", "Settings file (.hcl, .yaml or .yml) providing global variables.")
	flagSet.Var(&defs, "D", "Global variable as KEY=VALUE. May be repeated.")
	flagSet.BoolVar(&opts.Listing, "l", false, "Listing mode: render all sources through foreach loops.")
	flagSet.StringVar(&opts.Template, "t", "", "Template file. Required unless -p is given.")
	flagSet.StringVar(&opts.Output, "o", "", "Output file. Defaults to standard output.")
	flagSet.StringVar(&opts.Print, "p", "", "Print the value of a variable instead of rendering.")
	flagSet.IntVar(&opts.Workers, "j", 1, "Number of sources parsed concurrently.")
	flagSet.StringVar(&opts.LogLevel, "log-level", "", "Logging level: debug, info, warn, error or off.")
	flagSet.StringVar(&opts.ContentFormat, "content-format", "", "Content converter: goldmark or commonmark.")
	showVersion := flagSet.Bool("v", false, "Show version information.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	if *showVersion {
		fmt.Fprintf(output, "folio version %s\n", version)
		return nil, true, nil
	}

	for _, d := range defs {
		key, value, ok := strings.Cut(d, "=")
		if !ok {
			return nil, false, usageError("invalid value for -D (must have an '='): %s", d)
		}
		key = strings.TrimSpace(key)
		if !isDefineKey(key) {
			return nil, false, usageError("invalid value for -D (configuration key must be uppercase with '_' and digits after first char): %s", d)
		}
		opts.Defines = append(opts.Defines, [2]string{key, strings.TrimSpace(value)})
	}

	opts.Sources = flagSet.Args()
	if !opts.Listing && len(opts.Sources) > 1 {
		return nil, false, usageError("only one source file should be provided, if running without '-l'")
	}
	if opts.Print == "" && opts.Template == "" {
		return nil, false, usageError("argument -t is required when rendering")
	}
	if opts.Workers < 1 {
		return nil, false, usageError("argument -j must be at least 1")
	}

	return opts, false, nil
}

func isDefineKey(key string) bool {
	if key == "" {
		return false
	}
	for i, c := range key {
		switch {
		case c >= 'A' && c <= 'Z', c == '_':
		case i > 0 && c >= '0' && c <= '9':
		default:
			return false
		}
	}
	return true
}
