package dynamo

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Sweep evaluates fn for every index in [0, n) on a bounded worker group
// and returns the results in index order. The first error cancels the
// remaining work.
func Sweep[T any](ctx context.Context, n, workers int, fn func(ctx context.Context, i int) (T, error)) ([]T, error) {
	if n <= 0 {
		return []T{}, nil
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]T, n)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := 0; i < n; i++ {
		idx := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r, err := fn(gctx, idx)
			if err != nil {
				return err
			}
			results[idx] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
