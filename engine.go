package mdpages

import (
	"context"
	"log/slog"

	"github.com/alnah/go-mdpages/internal/fault"
	"github.com/alnah/go-mdpages/internal/pipeline"
	"github.com/alnah/go-mdpages/internal/share"
)

// Engine renders and shares documents. It is safe for concurrent use.
// Create with New.
type Engine struct {
	cfg      engineConfig
	services pipeline.Services
	pipeline *pipeline.Pipeline
	codec    share.Codec
}

// New creates an Engine. Nothing is loaded until the first render or Start.
func New(opts ...Option) *Engine {
	e := &Engine{
		cfg: engineConfig{
			rawHTML:        true,
			maxMathSpan:    pipeline.DefaultMaxMathSpan,
			highlightStyle: pipeline.DefaultHighlightStyle,
			maxTokenLength: share.DefaultMaxTokenLength,
			logger:         slog.New(slog.DiscardHandler),
		},
	}

	for _, opt := range opts {
		opt(e)
	}

	e.services = pipeline.NewServices(pipeline.ServiceOptions{
		Goldmark: pipeline.GoldmarkOptions{
			RawHTML:   e.cfg.rawHTML,
			HardWraps: e.cfg.hardWraps,
		},
		HighlightStyle: e.cfg.highlightStyle,
	})
	e.pipeline = pipeline.New(e.services, pipeline.NewDefaultSanitizer(), pipeline.Options{
		MaxMathSpan: e.cfg.maxMathSpan,
		Logger:      e.cfg.logger,
	})
	e.codec = share.Codec{MaxTokenLength: e.cfg.maxTokenLength}
	return e
}

// Start begins loading the render services in the background.
func (e *Engine) Start() { e.services.Start() }

// Ready reports whether every render service has loaded.
func (e *Engine) Ready() bool { return e.pipeline.Ready() }

// Render renders raw and highlights the result.
//
// The error is non-nil only when the services could not be loaded
// (ErrServicesUnavailable). Parse and sanitize failures are reported in the
// Result; math failures leave the span as literal text.
func (e *Engine) Render(ctx context.Context, raw string) (Result, error) {
	out, err := e.pipeline.Render(ctx, raw)
	if err != nil {
		return Result{}, err
	}
	if !out.OK() {
		return Result{Err: out.Err}, nil
	}

	html, err := e.pipeline.Highlight(ctx, out.HTML)
	if err != nil {
		e.cfg.logger.Warn("highlight failed", "error", err)
	}
	return Result{HTML: html}, nil
}

// RenderShared decodes token and renders the document it carries.
// A malformed token yields a DecodeFailure Result and a nil error.
func (e *Engine) RenderShared(ctx context.Context, token string) (Result, error) {
	doc, err := e.codec.Decode(token)
	if err != nil {
		return Result{Err: fault.Wrap(fault.DecodeFailure, "", err)}, nil
	}
	return e.Render(ctx, doc)
}

// Encode returns the share token for raw.
func (e *Engine) Encode(raw string) string { return string(e.codec.Encode(raw)) }

// Decode returns the document carried by token.
// Errors wrap ErrMalformedToken.
func (e *Engine) Decode(token string) (string, error) { return e.codec.Decode(token) }

// ShareURL returns the URL under origin that opens raw read-only.
// Any query or fragment already on origin is dropped.
func (e *Engine) ShareURL(origin, raw string) string {
	return share.URL(origin, e.codec.Encode(raw))
}

// HighlightCSS returns the stylesheet for the highlighted code blocks.
func (e *Engine) HighlightCSS(ctx context.Context) (string, error) {
	return e.pipeline.HighlightCSS(ctx)
}
