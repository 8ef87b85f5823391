package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// ErrUsage indicates invalid flags or arguments.
var ErrUsage = errors.New("invalid usage")

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	verbose bool
}

// renderSettingsFlags override the render section of the config.
type renderSettingsFlags struct {
	hardWraps      bool
	noRawHTML      bool
	highlightStyle string
}

// serveFlags holds all flags for the serve command.
type serveFlags struct {
	common      commonFlags
	render      renderSettingsFlags
	addr        string
	baseURL     string
	logLevel    string
	logFormat   string
	assetPath   string
	export      bool
	printConfig bool
}

// renderFlags holds all flags for the render command.
type renderFlags struct {
	common commonFlags
	render renderSettingsFlags
	output string
	css    bool
}

// shareFlags holds all flags for the share command.
type shareFlags struct {
	common commonFlags
	origin string
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "log at debug level")
}

// addRenderSettingsFlags adds render behaviour flags to a FlagSet.
func addRenderSettingsFlags(fs *flag.FlagSet, f *renderSettingsFlags) {
	fs.BoolVar(&f.hardWraps, "hard-wraps", false, "render single newlines as <br>")
	fs.BoolVar(&f.noRawHTML, "no-raw-html", false, "drop inline HTML instead of sanitizing it")
	fs.StringVar(&f.highlightStyle, "highlight-style", "", "chroma style for code blocks")
}

// newFlagSet creates a quiet FlagSet; errors are reported by the caller.
func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.SortFlags = false
	return fs
}

// parseServeFlags parses serve command flags.
func parseServeFlags(args []string) (*serveFlags, error) {
	f := &serveFlags{}
	fs := newFlagSet("serve")
	addCommonFlags(fs, &f.common)
	addRenderSettingsFlags(fs, &f.render)
	fs.StringVarP(&f.addr, "addr", "a", "", "listen address (host:port)")
	fs.StringVar(&f.baseURL, "base-url", "", "origin used in share URLs")
	fs.StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn, error")
	fs.StringVar(&f.logFormat, "log-format", "", "log format: text, json")
	fs.StringVar(&f.assetPath, "asset-path", "", "directory overriding embedded styles and templates")
	fs.BoolVar(&f.export, "export", false, "enable PDF export (requires Chrome)")
	fs.BoolVar(&f.printConfig, "print-config", false, "print the effective config and exit")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUsage, err)
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%w: serve takes no arguments, got %q", ErrUsage, fs.Arg(0))
	}
	return f, nil
}

// parseRenderFlags parses render command flags and returns positional args.
func parseRenderFlags(args []string) (*renderFlags, []string, error) {
	f := &renderFlags{}
	fs := newFlagSet("render")
	addCommonFlags(fs, &f.common)
	addRenderSettingsFlags(fs, &f.render)
	fs.StringVarP(&f.output, "output", "o", "", "output file (default stdout)")
	fs.BoolVar(&f.css, "css", false, "print the code highlighting stylesheet instead")

	if err := fs.Parse(args); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrUsage, err)
	}
	if fs.NArg() > 1 {
		return nil, nil, fmt.Errorf("%w: render takes at most one input", ErrUsage)
	}
	return f, fs.Args(), nil
}

// parseShareFlags parses share command flags and returns positional args.
func parseShareFlags(args []string) (*shareFlags, []string, error) {
	f := &shareFlags{}
	fs := newFlagSet("share")
	addCommonFlags(fs, &f.common)
	fs.StringVar(&f.origin, "origin", "", "origin of the share URL (default server.baseURL)")

	if err := fs.Parse(args); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrUsage, err)
	}
	if fs.NArg() > 1 {
		return nil, nil, fmt.Errorf("%w: share takes at most one input", ErrUsage)
	}
	return f, fs.Args(), nil
}
