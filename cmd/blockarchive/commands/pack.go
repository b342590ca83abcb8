// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/pflag"

	"github.com/bureau-foundation/blockarchive/cmd/blockarchive/cli"
	"github.com/bureau-foundation/blockarchive/lib/container"
	"github.com/bureau-foundation/blockarchive/lib/entryid"
)

type packParams struct {
	Output string `flag:"output,o" desc:"container file to write"`
	Force  bool   `flag:"force,f"  desc:"overwrite an existing output file"`
	Strict bool   `flag:"strict"   desc:"require every name to be a block, proof or proof link identifier"`
}

func packCommand(app *App) *cli.Command {
	var params packParams

	return &cli.Command{
		Name:    "pack",
		Summary: "Write files into a new archive container",
		Description: `Build an archive container from files. Each argument is NAME=PATH:
the contents of PATH become an entry named NAME, in argument order.

Names are written as given. With --strict, every name must parse as a
block, proof or proof link identifier.`,
		Usage: "blockarchive pack --output FILE NAME=PATH...",
		Examples: []cli.Example{
			{
				Description: "Pack a masterchain block and its proof",
				Command:     "blockarchive pack -o out.pack block_(-1,8000000000000000,10):ROOT:FILE=block.boc proof_(-1,8000000000000000,10):ROOT:FILE=proof.boc",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("pack", &params)
		},
		Run: func(args []string) error {
			if params.Output == "" {
				return errors.New("--output is required")
			}
			if len(args) == 0 {
				return errors.New("at least one NAME=PATH argument is required")
			}

			builder := container.NewBuilder()
			for _, arg := range args {
				// Entry names never contain '=', paths might.
				name, path, ok := strings.Cut(arg, "=")
				if !ok || name == "" || path == "" {
					return fmt.Errorf("argument %q is not NAME=PATH", arg)
				}

				if params.Strict {
					if _, err := entryid.Parse(name); err != nil {
						return err
					}
				}
				data, err := os.ReadFile(path)
				if err != nil {
					return err
				}
				if err := builder.Add(name, data); err != nil {
					return err
				}
			}

			if err := writeContainer(params.Output, builder, params.Force); err != nil {
				return err
			}
			fmt.Fprintf(app.Stdout, "wrote %d entries (%s) to %s\n",
				builder.Len(), humanize.IBytes(uint64(builder.Size())), params.Output)
			return nil
		},
	}
}

// writeContainer writes through a temporary file in the destination
// directory so a failed write never leaves a partial archive behind.
func writeContainer(path string, builder *container.Builder, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}

	temporary, err := os.CreateTemp(filepath.Dir(path), ".pack-*")
	if err != nil {
		return err
	}
	defer os.Remove(temporary.Name())

	if _, err := builder.WriteTo(temporary); err != nil {
		temporary.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := temporary.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.Chmod(temporary.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(temporary.Name(), path)
}
