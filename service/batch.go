package service

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// chunk splits items into fixed-size batches, the last batch possibly
// shorter. size <= 0 yields a single batch.
func chunk[T any](items []T, size int) [][]T {
	if len(items) == 0 {
		return nil
	}
	if size <= 0 {
		return [][]T{items}
	}
	batches := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		batches = append(batches, items[start:end])
	}
	return batches
}

// batchWorkers bounds how many inference batches run at once within a
// pipeline stage
const batchWorkers = 4

// runBatches executes fn over every batch through a bounded worker pool
// and returns results merged by batch index, so callers never share
// mutable collections across goroutines. fn must fail soft: a batch error
// is reported as a nil result for that index, never as a stage failure.
func runBatches[T, R any](ctx context.Context, items []T, size int, fn func(ctx context.Context, batch []T) (R, error)) []R {
	batches := chunk(items, size)
	results := make([]R, len(batches))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(batchWorkers)
	for i, batch := range batches {
		g.Go(func() error {
			res, err := fn(gctx, batch)
			if err != nil {
				return nil // fail soft, leave the zero value in place
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()
	return results
}
