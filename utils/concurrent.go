package utils

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Concurrent runs execute for every element with at most limit calls in flight.
// The first error cancels the context handed to the remaining calls and is returned.
func Concurrent[T any](ctx context.Context, array []T, limit int, execute func(ctx context.Context, one T, idx int) error) error {
	group, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		group.SetLimit(limit)
	}

	for idx, one := range array {
		idx, one := idx, one
		group.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			return execute(ctx, one, idx)
		})
	}

	return group.Wait()
}
