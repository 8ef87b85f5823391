package pipeline

import (
	"bytes"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
)

// ErrNonTextOutput indicates the parser produced bytes that are not UTF-8 text.
var ErrNonTextOutput = errors.New("parser returned non-text output")

// Parser converts Markdown to an HTML fragment.
type Parser interface {
	Parse(markdown string) (string, error)
}

// GoldmarkOptions configures a GoldmarkParser.
type GoldmarkOptions struct {
	// RawHTML passes inline HTML through to the sanitizer instead of
	// replacing it with an "omitted" comment.
	RawHTML bool
	// HardWraps renders single newlines as <br>.
	HardWraps bool
}

// GoldmarkParser converts Markdown to HTML using goldmark (pure Go).
type GoldmarkParser struct {
	md goldmark.Markdown
}

// NewGoldmarkParser creates a GoldmarkParser with GFM extensions.
func NewGoldmarkParser(opts GoldmarkOptions) *GoldmarkParser {
	var htmlOpts []renderer.Option
	if opts.HardWraps {
		htmlOpts = append(htmlOpts, html.WithHardWraps()) // Treat newlines as <br>
	}
	if opts.RawHTML {
		// Safe only because every render is sanitized afterwards.
		htmlOpts = append(htmlOpts, html.WithUnsafe())
	}

	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,      // Tables, strikethrough, autolinks, task lists
			extension.Footnote, // [^1] footnotes
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(htmlOpts...),
	)

	return &GoldmarkParser{md: md}
}

// Parse converts Markdown to an HTML fragment.
// Goldmark panics are returned as errors so one bad document cannot take the
// session down with it.
func (p *GoldmarkParser) Parse(markdown string) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = "", fmt.Errorf("internal parser error: %v", r)
		}
	}()

	var buf bytes.Buffer
	if err := p.md.Convert([]byte(normalizeLineEndings(markdown)), &buf); err != nil {
		return "", err
	}
	if !utf8.Valid(buf.Bytes()) {
		return "", ErrNonTextOutput
	}
	return buf.String(), nil
}
