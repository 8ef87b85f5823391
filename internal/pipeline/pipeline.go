package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/alnah/go-mdpages/internal/fault"
)

// Sentinel errors for the pipeline.
var (
	// ErrServicesUnavailable indicates Render could not wait for its services.
	// It is a runtime fault, never a render Failure.
	ErrServicesUnavailable = errors.New("render services unavailable")
)

// parseErrorPrefix prefixes every parse Failure detail.
const parseErrorPrefix = "markdown render error"

// Options configures a Pipeline.
type Options struct {
	MaxMathSpan int
	Logger      *slog.Logger
}

// Pipeline renders documents. It holds no mutable state between calls.
type Pipeline struct {
	services    Services
	sanitizer   Sanitizer
	maxMathSpan int
	logger      *slog.Logger
}

// New creates a Pipeline.
func New(services Services, sanitizer Sanitizer, opts Options) *Pipeline {
	if opts.MaxMathSpan <= 0 {
		opts.MaxMathSpan = DefaultMaxMathSpan
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	return &Pipeline{
		services:    services,
		sanitizer:   sanitizer,
		maxMathSpan: opts.MaxMathSpan,
		logger:      opts.Logger,
	}
}

// Services returns the pipeline's service gates.
func (p *Pipeline) Services() Services { return p.services }

// Ready reports whether every service has loaded.
func (p *Pipeline) Ready() bool { return p.services.Ready() }

// Render runs parse, math substitution and sanitize on rawText.
//
// Render first blocks until the parser, typesetter and highlighter all report
// ready. The returned error is non-nil only if that wait fails; every render
// problem after it is reported through the Outcome.
func (p *Pipeline) Render(ctx context.Context, rawText string) (Outcome, error) {
	svc, err := p.services.Await(ctx)
	if err != nil {
		return Outcome{}, err
	}
	return p.render(svc, rawText), nil
}

func (p *Pipeline) render(svc Loaded, rawText string) Outcome {
	fragment, err := svc.Parser.Parse(rawText)
	if err != nil {
		return Failure(fault.Wrap(fault.ParseFailure, parseErrorPrefix, err))
	}

	fragment = substituteMath(fragment, svc.Typesetter, p.maxMathSpan)

	safe, err := p.sanitize(fragment)
	if err != nil {
		return Failure(fault.Wrap(fault.SanitizeFailure, "sanitize error", err))
	}

	p.logger.Debug("rendered document", "input_bytes", len(rawText), "output_bytes", len(safe))
	return Success(safe)
}

// sanitize converts a sanitizer panic into an error. The sanitizer contract
// says this never happens; if it does the render fails as a whole.
func (p *Pipeline) sanitize(fragment string) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = "", fmt.Errorf("internal sanitizer error: %v", r)
		}
	}()
	return p.sanitizer.Sanitize(fragment), nil
}

// Highlight applies the code highlighter to rendered output. It is the
// post-render side effect: a failure returns html unchanged plus the error,
// which callers log and otherwise ignore.
func (p *Pipeline) Highlight(ctx context.Context, html string) (string, error) {
	h, err := p.services.Highlighter.Get(ctx)
	if err != nil {
		return html, err
	}
	out, err := h.Highlight(html)
	if err != nil {
		return html, err
	}
	return out, nil
}

// HighlightCSS returns the highlighter stylesheet.
func (p *Pipeline) HighlightCSS(ctx context.Context) (string, error) {
	h, err := p.services.Highlighter.Get(ctx)
	if err != nil {
		return "", err
	}
	return h.CSS()
}
