// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time source.
//
// Code that reads the time or ticks periodically (progress display,
// elapsed-time reporting) takes a [Clock] instead of calling time.Now
// or time.NewTicker directly. [Real] wraps the time package; [Fake]
// stands still until the test calls Advance:
//
//	c := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	tracker := progress.New(out, 10, progress.Options{Clock: c})
//	c.WaitForTickers(1)
//	c.Advance(time.Second)
package clock
