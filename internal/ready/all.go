package ready

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Waiter is implemented by every Gate.
type Waiter interface {
	Name() string
	Wait(ctx context.Context) error
}

// All blocks until every gate is ready. Loads run concurrently; the first
// failure is returned.
func All(ctx context.Context, gates ...Waiter) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, w := range gates {
		g.Go(func() error {
			return w.Wait(ctx)
		})
	}
	return g.Wait()
}
