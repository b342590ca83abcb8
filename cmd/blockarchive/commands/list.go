// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/pflag"

	"github.com/bureau-foundation/blockarchive/cmd/blockarchive/cli"
	"github.com/bureau-foundation/blockarchive/lib/codec"
	"github.com/bureau-foundation/blockarchive/lib/container"
	"github.com/bureau-foundation/blockarchive/lib/entryid"
)

type listParams struct {
	cli.JSONOutput
	Path          string `flag:"path,p"           desc:"archive file (default: stdin)"`
	Size          bool   `flag:"size,s"           desc:"print entry sizes"`
	IgnoreInvalid bool   `flag:"ignore-invalid,i" desc:"list entries whose names do not parse instead of failing"`
	Dump          bool   `flag:"dump"             desc:"print each payload in CBOR diagnostic notation"`
}

type listEntry struct {
	Name       string      `json:"name"`
	ID         *entryid.ID `json:"id,omitempty"`
	Size       int         `json:"size"`
	Invalid    string      `json:"invalid,omitempty"`
	Diagnostic string      `json:"diagnostic,omitempty"`
}

func listCommand(app *App) *cli.Command {
	var params listParams

	return &cli.Command{
		Name:    "list",
		Summary: "List the entries of an archive",
		Description: `List the entry names of an archive in container order.

Names that are not block, proof or proof link identifiers abort the
listing unless --ignore-invalid is given, in which case they are
printed with the parse error. Payloads are not verified; use check
for that.`,
		Usage: "blockarchive list [--path P] [-s|--size] [-i|--ignore-invalid] [--json] [--dump]",
		Examples: []cli.Example{
			{
				Description: "List entries with human-readable sizes",
				Command:     "blockarchive list --path archive.pack --size",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("list", &params)
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected argument %q", args[0])
			}

			buffer, err := openInput(app, params.Path)
			if err != nil {
				return err
			}
			defer buffer.Close()

			entries, err := listEntries(buffer.Bytes(), params.IgnoreInvalid, params.Dump)
			if err != nil {
				return fmt.Errorf("%s: %w", buffer.Name(), err)
			}

			if done, err := params.EmitJSON(app.Stdout, entries); done {
				return err
			}
			for _, entry := range entries {
				printListEntry(app.Stdout, entry, params.Size)
			}
			return nil
		},
	}
}

func listEntries(data []byte, ignoreInvalid, dump bool) ([]listEntry, error) {
	var entries []listEntry
	for entry, err := range container.Entries(data) {
		if err != nil {
			return nil, err
		}

		item := listEntry{Name: entry.Name, Size: len(entry.Data)}
		id, err := entryid.Parse(entry.Name)
		switch {
		case err == nil:
			item.ID = &id
		case ignoreInvalid:
			item.Invalid = err.Error()
		default:
			return nil, err
		}

		if dump {
			diagnostic, err := codec.Diagnose(entry.Data)
			if err != nil {
				diagnostic = fmt.Sprintf("<not cbor: %v>", err)
			}
			item.Diagnostic = diagnostic
		}
		entries = append(entries, item)
	}
	return entries, nil
}

func printListEntry(w io.Writer, entry listEntry, size bool) {
	line := entry.Name
	if entry.Invalid != "" {
		line += " <invalid: " + entry.Invalid + ">"
	}
	if size {
		line += "  " + humanize.IBytes(uint64(entry.Size))
	}
	fmt.Fprintln(w, line)

	if entry.Diagnostic == "" {
		return
	}
	for diagnosticLine := range strings.Lines(entry.Diagnostic) {
		fmt.Fprintf(w, "    %s\n", strings.TrimRight(diagnosticLine, "\n"))
	}
}
