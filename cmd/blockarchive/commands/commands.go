// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the blockarchive command tree.
//
// Every command writes through an [App] rather than the process
// streams, so tests drive the full tree against buffers.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/bureau-foundation/blockarchive/cmd/blockarchive/cli"
	"github.com/bureau-foundation/blockarchive/lib/version"
)

// App carries the streams and logger factory shared by every command.
type App struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Logger builds the command logger. Nil uses cli.NewCommandLogger.
	Logger func(verbose bool) *slog.Logger

	// Terminal forces the progress display mode. Nil detects it from
	// Stderr.
	Terminal *bool
}

// DefaultApp returns an App bound to the process streams.
func DefaultApp() *App {
	return &App{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

func (a *App) logger(command string, verbose bool) *slog.Logger {
	var logger *slog.Logger
	if a.Logger != nil {
		logger = a.Logger(verbose)
	} else {
		logger = cli.NewCommandLogger(verbose)
	}
	return logger.With("command", command)
}

// Root builds the complete command tree.
func Root(app *App) *cli.Command {
	return &cli.Command{
		Name: "blockarchive",
		Description: `blockarchive: block archive verification tool.

Reads block archive containers, verifies every block and proof against
the hashes in its entry name, and checks that the masterchain and all
shardchains are complete, following shard splits and merges.`,
		HelpOutput: app.Stderr,
		Subcommands: []*cli.Command{
			checkCommand(app),
			listCommand(app),
			uploadCommand(app),
			packCommand(app),
			{
				Name:    "version",
				Summary: "Print version information",
				Run: func(args []string) error {
					fmt.Fprintf(app.Stdout, "blockarchive %s\n", version.Full())
					return nil
				},
			},
		},
		Examples: []cli.Example{
			{
				Description: "Check one archive",
				Command:     "blockarchive check --path archive.12983255.pack",
			},
			{
				Description: "Check an archive piped on stdin and print notable blocks",
				Command:     "cat archive.pack | blockarchive check --all",
			},
			{
				Description: "Check every archive under a directory, reporting all failures",
				Command:     "blockarchive check --path /data/archives --continue",
			},
			{
				Description: "List the entries of an archive with their sizes",
				Command:     "blockarchive list --path archive.pack --size",
			},
			{
				Description: "Upload verified archives to an object store",
				Command:     "blockarchive upload --path /data/archives --destination https://storage.example.net",
			},
		},
	}
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
