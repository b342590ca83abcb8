// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/dustin/go-humanize"
	"github.com/spf13/pflag"

	"github.com/bureau-foundation/blockarchive/cmd/blockarchive/cli"
	"github.com/bureau-foundation/blockarchive/lib/archive"
	"github.com/bureau-foundation/blockarchive/lib/archivestore"
	"github.com/bureau-foundation/blockarchive/lib/archivewalk"
	"github.com/bureau-foundation/blockarchive/lib/batch"
	"github.com/bureau-foundation/blockarchive/lib/progress"
	"github.com/bureau-foundation/blockarchive/lib/rawarchive"
)

type uploadParams struct {
	Global      globalFlags
	Range       rangeFlags
	Path        string `flag:"path,p"        desc:"directory of archives to upload"`
	Destination string `flag:"destination,d" desc:"file:// directory or http(s):// endpoint (default: upload.destination)"`
	Jobs        int    `flag:"jobs,j"        desc:"concurrent uploads (default: upload.jobs)"`
}

func uploadCommand(app *App) *cli.Command {
	var params uploadParams

	return &cli.Command{
		Name:    "upload",
		Summary: "Verify archives and upload them to a store",
		Description: `Walk a directory of archives, verify each one as check does, and
upload the ones that pass. Each archive is stored under the seqno of its
lowest masterchain block, zero-padded to ten digits after the key
prefix.

A failing archive is logged and skipped; the others still upload. The
command exits non-zero when any archive failed.`,
		Usage: "blockarchive upload --path DIR [--destination URL] [--jobs N]",
		Examples: []cli.Example{
			{
				Description: "Upload to an HTTP object store with 8 concurrent jobs",
				Command:     "blockarchive upload --path /data/archives --destination https://storage.example.net --jobs 8",
			},
			{
				Description: "Copy verified archives into a local directory",
				Command:     "blockarchive upload --path /data/archives --destination file:///srv/verified",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("upload", &params)
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected argument %q", args[0])
			}
			if params.Path == "" {
				return errors.New("--path is required")
			}

			cfg, err := params.Global.loadConfig()
			if err != nil {
				return err
			}
			params.Range.apply(&cfg.Walk)
			if params.Destination != "" {
				cfg.Upload.Destination = params.Destination
			}
			if params.Jobs > 0 {
				cfg.Upload.Jobs = params.Jobs
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			logger := app.logger("upload", params.Global.Verbose)

			uploader, err := archivestore.New(cfg.Upload, logger)
			if err != nil {
				return err
			}

			ctx, cancel := signalContext()
			defer cancel()
			return uploadDirectory(ctx, app, params.Path, walkFilter(cfg.Walk), cfg.Upload.Jobs, uploader, logger)
		},
	}
}

func uploadDirectory(ctx context.Context, app *App, root string, filter archivewalk.Filter, jobs int, uploader archivestore.Uploader, logger *slog.Logger) error {
	archives, err := archivewalk.Walk(root, filter, func(path string, reason error) {
		logger.Warn("bad archive found", "path", path, "error", reason)
	})
	if err != nil {
		return err
	}
	logger.Info("uploading archives", "count", len(archives), "root", root, "jobs", jobs)

	tracker := progress.New(app.Stderr, len(archives), progress.Options{
		Label:    "upload",
		Terminal: app.Terminal,
		Logger:   logger,
	})
	var uploaded atomic.Uint64
	results := batch.Run(ctx, archives, jobs, func(ctx context.Context, found archivewalk.Archive) error {
		size, err := uploadArchive(ctx, found.Path, uploader, logger)
		if err != nil {
			tracker.Fail()
			return err
		}
		uploaded.Add(uint64(size))
		tracker.Add(size)
		return nil
	})
	tracker.Finish()

	failed := batch.Failed(results)
	for _, result := range failed {
		logger.Error("archive upload failed", "path", result.Item.Path, "error", result.Err)
	}
	fmt.Fprintf(app.Stdout, "uploaded %d of %d archives (%s), %d failed\n",
		len(results)-len(failed), len(results), humanize.IBytes(uploaded.Load()), len(failed))

	if len(failed) > 0 {
		return &cli.ExitError{Code: 1}
	}
	return nil
}

// uploadArchive verifies one archive and uploads its raw bytes. It
// returns the archive size.
func uploadArchive(ctx context.Context, path string, uploader archivestore.Uploader, logger *slog.Logger) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	buffer, err := rawarchive.Open(path)
	if err != nil {
		return 0, err
	}
	defer buffer.Close()

	assembler := archive.Assembler{Logger: logger.With("archive", path)}
	data, err := assembler.AssembleBuffer(buffer)
	if err != nil {
		return 0, err
	}
	defer data.Close()

	if err := data.Check(); err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}
	lowest, ok := data.LowestMasterchainID()
	if !ok {
		return 0, fmt.Errorf("%s: %w", path, archive.ErrEmptyArchive)
	}

	if err := uploader.Upload(ctx, lowest.Seqno, buffer.Bytes()); err != nil {
		return 0, fmt.Errorf("uploading %s as seqno %d: %w", path, lowest.Seqno, err)
	}
	logger.Debug("archive uploaded", "path", path, "seqno", lowest.Seqno, "size", buffer.Len())
	return buffer.Len(), nil
}
