package pipeline

import (
	"context"
	"fmt"

	"github.com/alnah/go-mdpages/internal/ready"
)

// Services holds the readiness gates of the lazily loaded services.
type Services struct {
	Parser      *ready.Gate[Parser]
	Typesetter  *ready.Gate[Typesetter]
	Highlighter *ready.Gate[Highlighter]
}

// Loaded is the set of services after every gate reported ready.
type Loaded struct {
	Parser      Parser
	Typesetter  Typesetter
	Highlighter Highlighter
}

// ServiceOptions configures the default service loaders.
type ServiceOptions struct {
	Goldmark       GoldmarkOptions
	HighlightStyle string
}

// NewServices returns gates for the default goldmark, KaTeX and chroma services.
// Nothing is loaded until the first Await.
func NewServices(opts ServiceOptions) Services {
	return Services{
		Parser: ready.New("markdown parser", func(context.Context) (Parser, error) {
			return NewGoldmarkParser(opts.Goldmark), nil
		}),
		Typesetter: ready.New("math typesetter", func(context.Context) (Typesetter, error) {
			ts := NewKatexTypesetter()
			// Warm up the JS runtime so a broken KaTeX build fails the load,
			// not every math span.
			if _, err := ts.Typeset("x"); err != nil {
				return nil, err
			}
			return ts, nil
		}),
		Highlighter: ready.New("code highlighter", func(context.Context) (Highlighter, error) {
			h := NewChromaHighlighter(opts.HighlightStyle)
			if _, err := h.CSS(); err != nil {
				return nil, err
			}
			return h, nil
		}),
	}
}

// StaticServices wraps already constructed services in ready gates.
func StaticServices(p Parser, ts Typesetter, h Highlighter) Services {
	return Services{
		Parser:      ready.Of("markdown parser", p),
		Typesetter:  ready.Of("math typesetter", ts),
		Highlighter: ready.Of("code highlighter", h),
	}
}

// Start begins loading every service in the background.
func (s Services) Start() {
	s.Parser.Start()
	s.Typesetter.Start()
	s.Highlighter.Start()
}

// OnLoaded registers fn on every gate. Call before Start.
func (s Services) OnLoaded(fn func(name string, err error)) {
	s.Parser.OnLoaded(fn)
	s.Typesetter.OnLoaded(fn)
	s.Highlighter.OnLoaded(fn)
}

// Ready reports whether every service finished loading.
func (s Services) Ready() bool {
	return s.Parser.Ready() && s.Typesetter.Ready() && s.Highlighter.Ready()
}

// Await blocks until all three services are ready and returns them.
func (s Services) Await(ctx context.Context) (Loaded, error) {
	if err := ready.All(ctx, s.Parser, s.Typesetter, s.Highlighter); err != nil {
		return Loaded{}, fmt.Errorf("%w: %v", ErrServicesUnavailable, err)
	}
	// All gates are done; Get returns immediately.
	p, _ := s.Parser.Get(ctx)
	ts, _ := s.Typesetter.Get(ctx)
	h, _ := s.Highlighter.Get(ctx)
	return Loaded{Parser: p, Typesetter: ts, Highlighter: h}, nil
}
