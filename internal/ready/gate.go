// Package ready provides lazy, load-once readiness gates for heavy services.
//
// A Gate starts loading its value on first need and every caller blocks until
// the load finishes. A failed load is remembered: the service is never called
// half-initialized and later callers see the same error.
package ready

import (
	"context"
	"fmt"
	"sync"
)

// Loader builds a service value. It runs at most once per Gate.
type Loader[T any] func(ctx context.Context) (T, error)

// Gate guards one lazily loaded service.
type Gate[T any] struct {
	name   string
	load   Loader[T]
	once   sync.Once
	done   chan struct{}
	value  T
	err    error
	loaded func(name string, err error)
}

// New creates a Gate. Nothing is loaded until Start, Wait or Get is called.
func New[T any](name string, load Loader[T]) *Gate[T] {
	return &Gate[T]{name: name, load: load, done: make(chan struct{})}
}

// Of returns an already ready Gate holding v.
func Of[T any](name string, v T) *Gate[T] {
	g := New(name, func(context.Context) (T, error) { return v, nil })
	g.Start()
	return g
}

// Name returns the service name.
func (g *Gate[T]) Name() string { return g.name }

// OnLoaded registers fn to be called once when loading finishes.
// It must be set before the first Start.
func (g *Gate[T]) OnLoaded(fn func(name string, err error)) { g.loaded = fn }

// Start begins loading in the background if it has not started yet.
// Loading is detached from any caller context so one cancelled caller cannot
// poison the gate for everyone else.
func (g *Gate[T]) Start() {
	g.once.Do(func() {
		go g.run()
	})
}

func (g *Gate[T]) run() {
	defer close(g.done)
	defer func() {
		if r := recover(); r != nil {
			g.err = fmt.Errorf("loading %s: panic: %v", g.name, r)
		}
		if g.loaded != nil {
			g.loaded(g.name, g.err)
		}
	}()

	v, err := g.load(context.Background())
	if err != nil {
		g.err = fmt.Errorf("loading %s: %w", g.name, err)
		return
	}
	g.value = v
}

// Ready reports whether loading has finished (successfully or not).
func (g *Gate[T]) Ready() bool {
	select {
	case <-g.done:
		return true
	default:
		return false
	}
}

// Wait starts loading if needed and blocks until it finishes or ctx is done.
func (g *Gate[T]) Wait(ctx context.Context) error {
	g.Start()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-g.done:
		return g.err
	}
}

// Get waits for the gate and returns the loaded value.
func (g *Gate[T]) Get(ctx context.Context) (T, error) {
	if err := g.Wait(ctx); err != nil {
		var zero T
		return zero, err
	}
	return g.value, nil
}
