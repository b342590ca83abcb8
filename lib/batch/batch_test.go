// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package batch

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bureau-foundation/blockarchive/lib/testutil"
)

func TestRunOrderAndErrors(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6}
	errOdd := errors.New("odd")

	results := Run(context.Background(), items, 2, func(_ context.Context, item int) error {
		if item%2 == 1 {
			return fmt.Errorf("item %d: %w", item, errOdd)
		}
		return nil
	})

	if len(results) != len(items) {
		t.Fatalf("got %d results, want %d", len(results), len(items))
	}
	for i, result := range results {
		if result.Item != items[i] {
			t.Errorf("result %d is for item %d, want %d", i, result.Item, items[i])
		}
		wantErr := items[i]%2 == 1
		if (result.Err != nil) != wantErr {
			t.Errorf("item %d error = %v, want error %v", result.Item, result.Err, wantErr)
		}
		if wantErr && !errors.Is(result.Err, errOdd) {
			t.Errorf("item %d error = %v, want errOdd", result.Item, result.Err)
		}
	}

	if failed := Failed(results); len(failed) != 3 {
		t.Errorf("Failed returned %d results, want 3", len(failed))
	}
}

func TestRunLimit(t *testing.T) {
	const limit = 3
	var running, peak atomic.Int32

	items := make([]int, 20)
	Run(context.Background(), items, limit, func(context.Context, int) error {
		current := running.Add(1)
		for {
			previous := peak.Load()
			if current <= previous || peak.CompareAndSwap(previous, current) {
				break
			}
		}
		time.Sleep(time.Millisecond)
		running.Add(-1)
		return nil
	})

	if got := peak.Load(); got > limit {
		t.Errorf("peak concurrency = %d, want at most %d", got, limit)
	}
}

func TestRunFailureDoesNotCancelSiblings(t *testing.T) {
	release := make(chan struct{})
	started := make(chan int, 2)

	done := make(chan []Result[int], 1)
	go func() {
		done <- Run(context.Background(), []int{0, 1}, 2, func(ctx context.Context, item int) error {
			started <- item
			if item == 0 {
				return errors.New("boom")
			}
			<-release
			return ctx.Err()
		})
	}()

	testutil.RequireReceive(t, started, 5*time.Second, "first job did not start")
	testutil.RequireReceive(t, started, 5*time.Second, "second job did not start")
	close(release)

	results := testutil.RequireReceive(t, done, 5*time.Second, "Run did not return")
	if results[0].Err == nil {
		t.Error("failing job reported no error")
	}
	if results[1].Err != nil {
		t.Errorf("sibling job error = %v, want nil", results[1].Err)
	}
}

func TestRunCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls atomic.Int32
	results := Run(ctx, []string{"a", "b"}, 1, func(context.Context, string) error {
		calls.Add(1)
		return nil
	})

	if calls.Load() != 0 {
		t.Errorf("job ran %d times after cancellation", calls.Load())
	}
	for _, result := range results {
		if !errors.Is(result.Err, context.Canceled) {
			t.Errorf("%s error = %v, want context.Canceled", result.Item, result.Err)
		}
	}
}
