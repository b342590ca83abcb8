// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package batch runs independent jobs with bounded concurrency.
//
// Every job runs to completion. A failing job never cancels its
// siblings: its error is recorded in its [Result] and the rest of the
// batch proceeds. Cancelling the context stops jobs that have not
// started yet; they report the context error.
package batch

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Result is the outcome of one job.
type Result[T any] struct {
	Item T
	Err  error
}

// Run calls job for every item with at most limit jobs in flight and
// waits for all of them. Results are in input order. A limit below one
// means GOMAXPROCS.
func Run[T any](ctx context.Context, items []T, limit int, job func(context.Context, T) error) []Result[T] {
	if limit < 1 {
		limit = runtime.GOMAXPROCS(0)
	}

	results := make([]Result[T], len(items))
	var group errgroup.Group
	group.SetLimit(limit)

	for i, item := range items {
		results[i].Item = item
		if err := ctx.Err(); err != nil {
			results[i].Err = err
			continue
		}
		group.Go(func() error {
			results[i].Err = job(ctx, item)
			return nil
		})
	}
	group.Wait()
	return results
}

// Failed returns the results that carry an error.
func Failed[T any](results []Result[T]) []Result[T] {
	var failed []Result[T]
	for _, result := range results {
		if result.Err != nil {
			failed = append(failed, result)
		}
	}
	return failed
}
