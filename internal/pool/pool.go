// Package pool runs bounded fan-outs and collects one result per unit of work.
package pool

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// MaxSize caps any configured concurrency
const MaxSize = 50

// Result is the outcome of one unit of work
type Result[T any] struct {
	Index int
	Value T
	Err   error
}

// DefaultSize derives a pool size from available parallelism. Work is I/O
// bound, so a small multiple of the CPU count is used.
func DefaultSize() int {
	numCPU := runtime.NumCPU()
	optimal := numCPU * 3
	if optimal > MaxSize {
		optimal = MaxSize
	}
	if optimal < 1 {
		optimal = 1
	}
	return optimal
}

// Clamp normalizes a configured size into [1, MaxSize]; non-positive selects DefaultSize.
func Clamp(size int) int {
	if size <= 0 {
		return DefaultSize()
	}
	if size > MaxSize {
		return MaxSize
	}
	return size
}

// Map calls fn for every item with at most limit calls in flight. A failing
// unit never cancels its siblings. Results come back in input order; units that
// never started because ctx ended carry ctx.Err().
func Map[In, Out any](ctx context.Context, limit int, items []In, fn func(context.Context, In) (Out, error)) []Result[Out] {
	results := make([]Result[Out], len(items))
	if len(items) == 0 {
		return results
	}

	var g errgroup.Group
	g.SetLimit(Clamp(limit))

	for i, item := range items {
		results[i].Index = i

		if err := ctx.Err(); err != nil {
			results[i].Err = err
			continue
		}

		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			value, err := fn(ctx, item)
			results[i].Value = value
			results[i].Err = err
			return nil
		})
	}

	_ = g.Wait()
	return results
}

// Split separates successful values from failures, preserving order
func Split[T any](results []Result[T]) (values []T, failed []Result[T]) {
	for _, r := range results {
		if r.Err != nil {
			failed = append(failed, r)
			continue
		}
		values = append(values, r.Value)
	}
	return values, failed
}
