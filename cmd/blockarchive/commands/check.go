// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/blockarchive/cmd/blockarchive/cli"
	"github.com/bureau-foundation/blockarchive/lib/archive"
	"github.com/bureau-foundation/blockarchive/lib/archivewalk"
	"github.com/bureau-foundation/blockarchive/lib/batch"
	"github.com/bureau-foundation/blockarchive/lib/progress"
	"github.com/bureau-foundation/blockarchive/lib/rawarchive"
	"github.com/bureau-foundation/blockarchive/lib/shard"
)

type checkParams struct {
	cli.JSONOutput
	Global   globalFlags
	Range    rangeFlags
	Path     string `flag:"path,p"   desc:"archive file or directory (default: stdin)"`
	All      bool   `flag:"all,a"    desc:"print key blocks, merges, splits, first and last blocks"`
	Continue bool   `flag:"continue" desc:"report every failing archive instead of stopping at the first"`
	Jobs     int    `flag:"jobs,j"   desc:"archives checked in parallel in directory mode (default: upload.jobs)"`
}

// checkResult is the outcome for one archive.
type checkResult struct {
	Path              string          `json:"path"`
	Size              int             `json:"size"`
	Blocks            int             `json:"blocks"`
	MasterchainBlocks int             `json:"masterchain_blocks"`
	FirstMasterchain  *shard.BlockID  `json:"first_masterchain,omitempty"`
	LastMasterchain   *shard.BlockID  `json:"last_masterchain,omitempty"`
	Report            *archive.Report `json:"report,omitempty"`
	Error             string          `json:"error,omitempty"`
}

func checkCommand(app *App) *cli.Command {
	var params checkParams

	return &cli.Command{
		Name:    "check",
		Summary: "Verify archive integrity and shard consistency",
		Description: `Verify block archives.

Every block must match the file hash in its entry name and carry a
proof. The masterchain must be contiguous, and every gap in a
shardchain must be explained by a split or merge.

Without --path the archive is read from stdin. When --path names a
directory, every archive under it whose file name is a masterchain
seqno inside the walk range is checked, with progress on stderr.`,
		Usage: "blockarchive check [--path P] [-a|--all] [--json] [--continue]",
		Examples: []cli.Example{
			{
				Description: "Check an archive and print its notable blocks",
				Command:     "blockarchive check --path archive.pack --all",
			},
			{
				Description: "Check a directory of archives as JSON",
				Command:     "blockarchive check --path /data/archives --continue --json",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("check", &params)
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected argument %q", args[0])
			}
			cfg, err := params.Global.loadConfig()
			if err != nil {
				return err
			}
			params.Range.apply(&cfg.Walk)
			if params.Jobs > 0 {
				cfg.Upload.Jobs = params.Jobs
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			logger := app.logger("check", params.Global.Verbose)

			if params.Path != "" {
				info, err := os.Stat(params.Path)
				if err != nil {
					return err
				}
				if info.IsDir() {
					ctx, cancel := signalContext()
					defer cancel()
					return checkDirectory(ctx, app, &params, walkFilter(cfg.Walk), cfg.Upload.Jobs, logger)
				}
			}
			return checkSingle(app, &params, logger)
		},
	}
}

func checkSingle(app *App, params *checkParams, logger *slog.Logger) error {
	result := &checkResult{Path: params.Path}
	if result.Path == "" {
		result.Path = rawarchive.Stdin
	}
	err := checkArchive(app, result, params.All, logger)

	if params.OutputJSON {
		if err != nil {
			result.Error = err.Error()
		}
		if writeErr := cli.WriteJSON(app.Stdout, result); writeErr != nil {
			return writeErr
		}
		if err != nil {
			return &cli.ExitError{Code: 1}
		}
		return nil
	}

	if err != nil {
		return err
	}
	printCheckResult(app.Stdout, result)
	return nil
}

func checkDirectory(ctx context.Context, app *App, params *checkParams, filter archivewalk.Filter, jobs int, logger *slog.Logger) error {
	archives, err := archivewalk.Walk(params.Path, filter, func(path string, reason error) {
		logger.Warn("bad archive found", "path", path, "error", reason)
	})
	if err != nil {
		return err
	}
	logger.Debug("archives found", "count", len(archives), "root", params.Path)

	results := make([]*checkResult, len(archives))
	for i, found := range archives {
		results[i] = &checkResult{Path: found.Path}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	tracker := progress.New(app.Stderr, len(results), progress.Options{
		Label:    "check",
		Terminal: app.Terminal,
		Logger:   logger,
	})
	outcomes := batch.Run(ctx, results, jobs, func(ctx context.Context, result *checkResult) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := checkArchive(app, result, params.All, logger); err != nil {
			tracker.Fail()
			if !params.Continue {
				cancel()
			}
			return err
		}
		tracker.Add(result.Size)
		return nil
	})
	tracker.Finish()

	failed := 0
	for _, outcome := range outcomes {
		if outcome.Err == nil {
			continue
		}
		if errors.Is(outcome.Err, context.Canceled) && outcome.Item.Error == "" {
			continue
		}
		failed++
		outcome.Item.Error = outcome.Err.Error()
		if !params.Continue {
			return outcome.Err
		}
		logger.Error("archive check failed", "path", outcome.Item.Path, "error", outcome.Err)
	}
	if err := ctx.Err(); err != nil && failed == 0 {
		return err
	}

	if done, err := params.EmitJSON(app.Stdout, results); done {
		if err != nil {
			return err
		}
	} else {
		for _, result := range results {
			if result.Error != "" {
				fmt.Fprintf(app.Stdout, "FAIL %s\n", result.Error)
				continue
			}
			printCheckResult(app.Stdout, result)
		}
		fmt.Fprintf(app.Stdout, "checked %d archives, %d failed\n", len(results), failed)
	}

	if failed > 0 {
		return &cli.ExitError{Code: 1}
	}
	return nil
}

// checkArchive reads, assembles and checks the archive named by
// result.Path, filling in result as it goes.
func checkArchive(app *App, result *checkResult, all bool, logger *slog.Logger) error {
	path := result.Path
	if path == rawarchive.Stdin {
		path = ""
	}
	buffer, err := openInput(app, path)
	if err != nil {
		return err
	}
	defer buffer.Close()
	result.Size = buffer.Len()

	assembler := archive.Assembler{Logger: logger.With("archive", result.Path)}
	data, err := assembler.AssembleBuffer(buffer)
	if err != nil {
		return err
	}
	defer data.Close()

	result.Blocks = data.Len()
	result.MasterchainBlocks = data.MasterchainLen()
	if id, ok := data.LowestMasterchainID(); ok {
		result.FirstMasterchain = &id
	}
	if id, ok := data.HighestMasterchainID(); ok {
		result.LastMasterchain = &id
	}

	if err := data.Check(); err != nil {
		return fmt.Errorf("%s: %w", result.Path, err)
	}
	if all {
		report, err := archive.Summarize(data)
		if err != nil {
			return fmt.Errorf("%s: %w", result.Path, err)
		}
		result.Report = report
	}
	logger.Debug("archive ok", "path", result.Path, "blocks", result.Blocks)
	return nil
}

func printCheckResult(w io.Writer, result *checkResult) {
	fmt.Fprintf(w, "OK %s: %d blocks, %d masterchain", result.Path, result.Blocks, result.MasterchainBlocks)
	if result.FirstMasterchain != nil && result.LastMasterchain != nil {
		fmt.Fprintf(w, " (seqno %d..%d)", result.FirstMasterchain.Seqno, result.LastMasterchain.Seqno)
	}
	fmt.Fprintln(w)

	if result.Report == nil {
		return
	}
	sections := []struct {
		title string
		ids   []shard.BlockID
	}{
		{"Key blocks", result.Report.KeyBlocks},
		{"Merges", result.Report.Merges},
		{"Splits", result.Report.Splits},
		{"First blocks", result.Report.FirstBlocks},
		{"Last blocks", result.Report.LastBlocks},
	}
	for _, section := range sections {
		fmt.Fprintf(w, "%s:\n", section.title)
		for _, id := range section.ids {
			fmt.Fprintf(w, "  %s\n", id)
		}
	}
}
