// Package parallel splits row ranges across CPU cores.
package parallel

import (
	"context"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
)

// DefaultThreshold is the row count below which work runs on the calling goroutine.
const DefaultThreshold = 1000

// chunks returns the [start, end) ranges handed to each worker.
func chunks(items int) [][2]int {
	numWorkers := runtime.NumCPU()
	if numWorkers > items {
		numWorkers = items
	}
	chunkSize := (items + numWorkers - 1) / numWorkers

	out := make([][2]int, 0, numWorkers)
	for start := 0; start < items; start += chunkSize {
		end := start + chunkSize
		if end > items {
			end = items
		}
		out = append(out, [2]int{start, end})
	}
	return out
}

// Parallelize divides items according to the number of CPU cores and runs
// fn for each range (start, end) concurrently.
func Parallelize(items int, fn func(start, end int)) {
	if items <= 0 {
		return
	}

	var wg sync.WaitGroup
	for _, c := range chunks(items) {
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(c[0], c[1])
	}
	wg.Wait()
}

// ParallelizeWithThreshold parallelizes only when items exceeds threshold.
func ParallelizeWithThreshold(items int, threshold int, fn func(start, end int)) {
	if items <= threshold {
		if items > 0 {
			fn(0, items)
		}
		return
	}
	Parallelize(items, fn)
}

// ParallelizeErr is ParallelizeWithThreshold for range functions that can fail.
// The first error cancels ctx for the remaining workers and is returned.
func ParallelizeErr(ctx context.Context, items, threshold int, fn func(ctx context.Context, start, end int) error) error {
	if items <= 0 {
		return nil
	}
	if items <= threshold {
		return fn(ctx, 0, items)
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, c := range chunks(items) {
		s, e := c[0], c[1]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn(gctx, s, e)
		})
	}
	return g.Wait()
}
