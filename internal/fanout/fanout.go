// Package fanout runs independent fetches concurrently and collects every
// outcome into index-keyed slots, so one failed branch never aborts its siblings.
package fanout

import (
	"context"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"sleeper-trade-lab/internal/observability"
)

// DefaultLimit is the gate for fan-outs whose breadth scales with roster size.
const DefaultLimit = 5

// Result is the outcome of one branch.
type Result[T any] struct {
	Index int
	Value T
	Err   error
}

// OK reports whether the branch succeeded.
func (r Result[T]) OK() bool {
	return r.Err == nil
}

// Gather runs fn for every index in [0, n) with at most limit branches in
// flight (limit <= 0 means unbounded) and returns one Result per index.
// Each branch writes only its own slot. Gather itself returns an error only
// when ctx is cancelled before all branches were started.
func Gather[T any](ctx context.Context, n, limit int, fn func(ctx context.Context, i int) (T, error)) ([]Result[T], error) {
	results := make([]Result[T], n)
	if n == 0 {
		return results, nil
	}

	var sem *semaphore.Weighted
	if limit > 0 {
		sem = semaphore.NewWeighted(int64(limit))
	}

	// Branch errors are stored in slots, never returned to the group.
	var g errgroup.Group
	for i := 0; i < n; i++ {
		if sem != nil {
			if err := sem.Acquire(ctx, 1); err != nil {
				_ = g.Wait()
				for j := i; j < n; j++ {
					results[j] = Result[T]{Index: j, Err: err}
				}
				return results, err
			}
		}
		g.Go(func() error {
			if sem != nil {
				defer sem.Release(1)
			}
			v, err := fn(ctx, i)
			results[i] = Result[T]{Index: i, Value: v, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	return results, nil
}

// Failure names a skipped branch.
type Failure struct {
	Key string
	Err error
}

// Split separates successful values from failures, preserving index order.
// key labels each failure; operation labels the failure metric.
func Split[T any](results []Result[T], operation string, key func(i int) string) ([]T, []Failure) {
	values := make([]T, 0, len(results))
	var failures []Failure
	for _, r := range results {
		if r.Err != nil {
			observability.RecordFanoutFailure(operation)
			failures = append(failures, Failure{Key: key(r.Index), Err: r.Err})
			continue
		}
		values = append(values, r.Value)
	}
	return values, failures
}
