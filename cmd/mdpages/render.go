package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/alnah/go-mdpages"
	"github.com/alnah/go-mdpages/internal/config"
	"github.com/alnah/go-mdpages/internal/share"
)

// Render command errors.
var (
	ErrReadInput    = errors.New("cannot read input")
	ErrWriteOutput  = errors.New("cannot write output")
	ErrRenderFailed = errors.New("render failed")
)

// runRender renders one Markdown file (or stdin) to an HTML fragment.
func runRender(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseRenderFlags(args)
	if err != nil {
		return err
	}

	cfg, err := resolveConfig(flags.common, env, func(cfg *config.Config) {
		applyRenderSettings(flags.render, cfg)
	})
	if err != nil {
		return err
	}
	eng := newEngine(cfg, env)

	var out string
	if flags.css {
		out, err = eng.HighlightCSS(ctx)
		if err != nil {
			return err
		}
	} else {
		doc, err := readInput(positional, env)
		if err != nil {
			return err
		}
		res, err := eng.Render(ctx, doc)
		if err != nil {
			return err
		}
		if !res.OK() {
			return fmt.Errorf("%w (%s): %s", ErrRenderFailed, res.Kind(), res.Detail())
		}
		out = res.HTML
	}

	return writeOutput(flags.output, out, env)
}

// runShare prints the share URL for one Markdown file (or stdin).
func runShare(args []string, env *Environment) error {
	flags, positional, err := parseShareFlags(args)
	if err != nil {
		return err
	}

	cfg, err := resolveConfig(flags.common, env, nil)
	if err != nil {
		return err
	}

	doc, err := readInput(positional, env)
	if err != nil {
		return err
	}

	origin := flags.origin
	if origin == "" {
		origin = cfg.Server.BaseURL
	}
	if origin == "" {
		origin = "http://" + cfg.Server.Addr + "/"
	}

	fmt.Fprintln(env.Stdout, newEngine(cfg, env).ShareURL(origin, doc))
	return nil
}

// runDecode prints the document carried by a token or a share URL.
func runDecode(args []string, env *Environment) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: decode takes exactly one token or URL", ErrUsage)
	}

	token, err := tokenFromArg(args[0])
	if err != nil {
		return err
	}

	doc, err := share.Codec{MaxTokenLength: config.MaxTokenLimit}.Decode(token)
	if err != nil {
		return err
	}
	_, err = io.WriteString(env.Stdout, doc)
	return err
}

// tokenFromArg accepts a bare token or a URL carrying one in its query.
func tokenFromArg(arg string) (string, error) {
	if !strings.ContainsAny(arg, "?:/") {
		return arg, nil
	}
	u, err := url.Parse(arg)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUsage, err)
	}
	token, ok := share.TokenFrom(u.Query())
	if !ok {
		return "", fmt.Errorf("%w: URL has no %q parameter", ErrUsage, share.Param)
	}
	return token, nil
}

// newEngine builds the library engine from the render and share sections.
// Zero limits keep the engine defaults.
func newEngine(cfg *config.Config, env *Environment) *mdpages.Engine {
	opts := []mdpages.Option{
		mdpages.WithRawHTML(cfg.Render.RawHTML),
		mdpages.WithHardWraps(cfg.Render.HardWraps),
		mdpages.WithHighlightStyle(cfg.Render.HighlightStyle),
		mdpages.WithLogger(newLogger(env.Stderr, cfg.Log.Level, cfg.Log.Format)),
	}
	if cfg.Render.MaxMathSpan > 0 {
		opts = append(opts, mdpages.WithMaxMathSpan(cfg.Render.MaxMathSpan))
	}
	if cfg.Share.MaxTokenLength > 0 {
		opts = append(opts, mdpages.WithMaxTokenLength(cfg.Share.MaxTokenLength))
	}
	return mdpages.New(opts...)
}

// readInput reads the named file, or stdin when no name or "-" is given.
func readInput(positional []string, env *Environment) (string, error) {
	var (
		data []byte
		err  error
	)
	if len(positional) == 0 || positional[0] == "-" {
		data, err = io.ReadAll(env.Stdin)
	} else {
		data, err = os.ReadFile(positional[0]) // #nosec G304 -- path is user-provided
	}
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrReadInput, err)
	}
	return string(data), nil
}

// writeOutput writes s to path, or stdout when path is empty.
func writeOutput(path, s string, env *Environment) error {
	if path == "" {
		_, err := io.WriteString(env.Stdout, s)
		return err
	}
	if err := os.WriteFile(path, []byte(s), 0o600); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}
	return nil
}
