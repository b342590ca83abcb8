// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package progress reports how far a directory run has got.
//
// On a terminal a [Tracker] redraws a single status line holding a
// progress bar, elapsed time, position, ETA and throughput. Anywhere
// else it emits a structured log record at a fixed interval instead,
// so CI logs and journald stay readable.
package progress

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"
	"golang.org/x/term"

	"github.com/bureau-foundation/blockarchive/lib/clock"
)

const (
	defaultWidth       = 100
	defaultBarWidth    = 40
	defaultRefresh     = 100 * time.Millisecond
	defaultLogInterval = 10 * time.Second
)

// Options configures a Tracker. The zero value detects the terminal
// from the output and uses the real clock.
type Options struct {
	// Label prefixes the status line and names the log records.
	Label string

	// Terminal forces line mode (true) or log mode (false). Nil
	// detects it from the output.
	Terminal *bool

	// Width is the terminal width in columns. Zero asks the
	// terminal, falling back to 100.
	Width int

	// Logger receives the records in log mode. Nil discards.
	Logger *slog.Logger

	// LogInterval is the spacing of log records. Zero means 10s.
	LogInterval time.Duration

	Clock clock.Clock
}

// Stats is a snapshot of a Tracker.
type Stats struct {
	Position int
	Total    int
	Bytes    uint64
	Failed   int
	Elapsed  time.Duration

	// ETA is zero until the first item completes.
	ETA time.Duration

	// Rate is items per second.
	Rate float64
}

// Tracker counts completed items. It is safe for concurrent use.
type Tracker struct {
	output   io.Writer
	label    string
	terminal bool
	width    int
	logger   *slog.Logger
	clock    clock.Clock
	bar      progress.Model
	style    lipgloss.Style

	mu       sync.Mutex
	start    time.Time
	position int
	total    int
	bytes    uint64
	failed   int

	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// New starts a tracker for total items. Call Finish when done.
func New(output io.Writer, total int, options Options) *Tracker {
	if options.Clock == nil {
		options.Clock = clock.Real()
	}
	if options.Logger == nil {
		options.Logger = slog.New(slog.DiscardHandler)
	}
	if options.LogInterval <= 0 {
		options.LogInterval = defaultLogInterval
	}

	terminal := false
	if options.Terminal != nil {
		terminal = *options.Terminal
	} else if file, ok := output.(*os.File); ok {
		terminal = term.IsTerminal(int(file.Fd()))
	}

	width := options.Width
	if width <= 0 {
		width = defaultWidth
		if file, ok := output.(*os.File); ok && terminal {
			if columns, _, err := term.GetSize(int(file.Fd())); err == nil && columns > 0 {
				width = columns
			}
		}
	}

	tracker := &Tracker{
		output:   output,
		label:    options.Label,
		terminal: terminal,
		width:    width,
		logger:   options.Logger,
		clock:    options.Clock,
		bar: progress.New(
			progress.WithGradient("#00B7EB", "#3C50E0"),
			progress.WithWidth(defaultBarWidth),
			progress.WithoutPercentage(),
		),
		style: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		start: options.Clock.Now(),
		total: total,
		stop:  make(chan struct{}),
		done:  make(chan struct{}),
	}

	interval := options.LogInterval
	if terminal {
		interval = defaultRefresh
	}
	go tracker.run(interval)
	return tracker
}

func (t *Tracker) run(interval time.Duration) {
	defer close(t.done)
	ticker := t.clock.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			t.emit()
		case <-t.stop:
			return
		}
	}
}

// Add records one completed item of the given size.
func (t *Tracker) Add(size int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.position++
	t.bytes += uint64(size)
}

// Fail records one item that did not complete.
func (t *Tracker) Fail() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.position++
	t.failed++
}

// Stats returns the current counters.
func (t *Tracker) Stats() Stats {
	t.mu.Lock()
	defer t.mu.Unlock()

	stats := Stats{
		Position: t.position,
		Total:    t.total,
		Bytes:    t.bytes,
		Failed:   t.failed,
		Elapsed:  t.clock.Now().Sub(t.start),
	}
	if stats.Elapsed > 0 {
		stats.Rate = float64(stats.Position) / stats.Elapsed.Seconds()
	}
	if stats.Position > 0 && stats.Position < stats.Total {
		perItem := stats.Elapsed / time.Duration(stats.Position)
		stats.ETA = perItem * time.Duration(stats.Total-stats.Position)
	}
	return stats
}

// Finish stops the display and writes the final state. Finish is
// idempotent.
func (t *Tracker) Finish() {
	t.stopOnce.Do(func() {
		close(t.stop)
		<-t.done
		t.emit()
		if t.terminal {
			fmt.Fprintln(t.output)
		}
	})
}

func (t *Tracker) emit() {
	stats := t.Stats()
	if t.terminal {
		fmt.Fprint(t.output, "\r"+t.Line(stats)+ansi.EraseLineRight)
		return
	}
	t.logger.Info("progress",
		"label", t.label,
		"position", stats.Position,
		"total", stats.Total,
		"failed", stats.Failed,
		"bytes", humanize.Bytes(stats.Bytes),
		"elapsed", stats.Elapsed.Round(time.Second),
		"eta", stats.ETA.Round(time.Second),
		"rate", fmt.Sprintf("%.2f/s", stats.Rate),
	)
}

// Line renders the status line for stats, truncated to the tracker
// width.
func (t *Tracker) Line(stats Stats) string {
	fraction := 0.0
	if stats.Total > 0 {
		fraction = float64(stats.Position) / float64(stats.Total)
	}

	line := fmt.Sprintf("[%s] %s %s/%s ETA: %s. RPS: %.2f",
		formatDuration(stats.Elapsed),
		t.bar.ViewAs(fraction),
		humanize.Comma(int64(stats.Position)),
		humanize.Comma(int64(stats.Total)),
		formatDuration(stats.ETA),
		stats.Rate,
	)
	if stats.Bytes > 0 {
		line += " " + t.style.Render(humanize.Bytes(stats.Bytes))
	}
	if stats.Failed > 0 {
		line += " " + t.style.Render(fmt.Sprintf("(%d failed)", stats.Failed))
	}
	if t.label != "" {
		line = t.label + " " + line
	}
	return ansi.Truncate(line, t.width, "…")
}

// formatDuration renders d as hh:mm:ss.
func formatDuration(d time.Duration) string {
	seconds := int64(d.Round(time.Second) / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, seconds/60%60, seconds%60)
}
