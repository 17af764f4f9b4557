package sweep

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// RunAll executes fn for every case with at most workers in flight.
// Generated cases are independent, so order does not matter; the first
// error cancels the remaining work via the group context. workers <= 0
// means unbounded.
func RunAll(ctx context.Context, cases []Case, workers int, fn func(context.Context, Case) error) error {
	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for _, c := range cases {
		c := c
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return fn(ctx, c)
		})
	}
	return g.Wait()
}
