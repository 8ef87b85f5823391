package mdpages

import (
	"log/slog"

	"github.com/alnah/go-mdpages/internal/fault"
)

// Kind classifies a render failure.
type Kind = fault.Kind

// Failure kinds reported in Result.
const (
	RuntimeFault    = fault.RuntimeFault
	ParseFailure    = fault.ParseFailure
	SanitizeFailure = fault.SanitizeFailure
	DecodeFailure   = fault.DecodeFailure
)

// Fault is a render failure. Its Detail is meant to be shown to the author as-is.
type Fault = fault.Error

// Result is the outcome of one render.
type Result struct {
	// HTML is the sanitized, highlighted output. Empty on failure.
	HTML string
	// Err is nil on success.
	Err *Fault
}

// OK reports whether the render succeeded.
func (r Result) OK() bool { return r.Err == nil }

// Kind returns the failure kind. Only meaningful when OK is false.
func (r Result) Kind() Kind {
	if r.Err == nil {
		return RuntimeFault
	}
	return r.Err.Kind
}

// Detail returns the failure message, or "" on success.
func (r Result) Detail() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Detail
}

// Option configures an Engine.
type Option func(*Engine)

// engineConfig holds internal configuration for Engine.
type engineConfig struct {
	rawHTML        bool
	hardWraps      bool
	maxMathSpan    int
	highlightStyle string
	maxTokenLength int
	logger         *slog.Logger
}

// WithRawHTML controls whether inline HTML in the source reaches the sanitizer.
// When false it is replaced with an HTML comment. Default true.
func WithRawHTML(enabled bool) Option {
	return func(e *Engine) {
		e.cfg.rawHTML = enabled
	}
}

// WithHardWraps renders single newlines as <br>. Default false.
func WithHardWraps(enabled bool) Option {
	return func(e *Engine) {
		e.cfg.hardWraps = enabled
	}
}

// WithMaxMathSpan bounds the inner length in bytes of one $...$ span.
// Longer candidates are left as literal text.
// Panics if n <= 0 (programmer error, similar to time.NewTicker).
func WithMaxMathSpan(n int) Option {
	if n <= 0 {
		panic("mdpages: WithMaxMathSpan length must be positive")
	}
	return func(e *Engine) {
		e.cfg.maxMathSpan = n
	}
}

// WithHighlightStyle sets the chroma style name. Unknown names fall back to
// chroma's default style.
func WithHighlightStyle(name string) Option {
	return func(e *Engine) {
		e.cfg.highlightStyle = name
	}
}

// WithMaxTokenLength caps accepted share tokens.
// Panics if n <= 0 (programmer error, similar to time.NewTicker).
func WithMaxTokenLength(n int) Option {
	if n <= 0 {
		panic("mdpages: WithMaxTokenLength length must be positive")
	}
	return func(e *Engine) {
		e.cfg.maxTokenLength = n
	}
}

// WithLogger sets the logger. Default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.cfg.logger = logger
		}
	}
}
