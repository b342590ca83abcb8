// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"github.com/spf13/pflag"

	"github.com/bureau-foundation/blockarchive/lib/archivewalk"
	"github.com/bureau-foundation/blockarchive/lib/config"
	"github.com/bureau-foundation/blockarchive/lib/rawarchive"
)

// globalFlags are accepted by every command that reads configuration.
type globalFlags struct {
	ConfigPath string
	Verbose    bool
}

func (g *globalFlags) AddFlags(flagSet *pflag.FlagSet) {
	flagSet.StringVar(&g.ConfigPath, "config", "", "configuration file (default: $"+config.EnvironmentVariable+")")
	flagSet.BoolVarP(&g.Verbose, "verbose", "v", false, "log debug records")
}

// loadConfig reads --config, or the file the environment names, or
// the defaults. Callers validate after applying their own flags.
func (g *globalFlags) loadConfig() (*config.Config, error) {
	if g.ConfigPath != "" {
		return config.LoadFile(g.ConfigPath)
	}
	return config.Load()
}

// rangeFlags narrow the walked seqno range below the configured one.
type rangeFlags struct {
	MinSeqno uint64
	MaxSeqno uint64
}

func (r *rangeFlags) AddFlags(flagSet *pflag.FlagSet) {
	flagSet.Uint64Var(&r.MinSeqno, "min-seqno", 0, "lowest archive seqno to include (default: walk.min_seqno)")
	flagSet.Uint64Var(&r.MaxSeqno, "max-seqno", 0, "highest archive seqno to include (default: walk.max_seqno)")
}

// apply overrides the configured walk range with any flags given.
func (r *rangeFlags) apply(walk *config.WalkConfig) {
	if r.MinSeqno != 0 {
		walk.MinSeqno = r.MinSeqno
	}
	if r.MaxSeqno != 0 {
		walk.MaxSeqno = r.MaxSeqno
	}
}

func walkFilter(walk config.WalkConfig) archivewalk.Filter {
	return archivewalk.Filter{MinSeqno: walk.MinSeqno, MaxSeqno: walk.MaxSeqno}
}

// openInput maps the archive at path, or buffers stdin when path is
// empty or "-".
func openInput(app *App, path string) (*rawarchive.Buffer, error) {
	if path == "" || path == "-" {
		return rawarchive.ReadAll(rawarchive.Stdin, app.Stdin)
	}
	return rawarchive.Open(path)
}
