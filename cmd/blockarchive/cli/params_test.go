// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

type verbosity struct {
	level int
}

func (v *verbosity) AddFlags(flagSet *pflag.FlagSet) {
	flagSet.CountVarP(&v.level, "verbose", "v", "increase verbosity")
}

type testParams struct {
	JSONOutput
	Verbosity verbosity
	Path      string        `flag:"path,p" desc:"archive path"`
	Jobs      int           `flag:"jobs" desc:"parallel jobs" default:"4"`
	MinSeqno  uint64        `flag:"min-seqno" default:"11650126"`
	Timeout   time.Duration `flag:"timeout" default:"30s"`
	Tags      []string      `flag:"tag" default:"a,b"`
	Ignored   string
}

func TestFlagsFromParams_Defaults(t *testing.T) {
	var params testParams
	flagSet := FlagsFromParams("test", &params)
	if err := flagSet.Parse(nil); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if params.Jobs != 4 {
		t.Errorf("Jobs = %d, want 4", params.Jobs)
	}
	if params.MinSeqno != 11650126 {
		t.Errorf("MinSeqno = %d, want 11650126", params.MinSeqno)
	}
	if params.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", params.Timeout)
	}
	if len(params.Tags) != 2 || params.Tags[0] != "a" || params.Tags[1] != "b" {
		t.Errorf("Tags = %v, want [a b]", params.Tags)
	}
	if flagSet.Lookup("ignored") != nil {
		t.Error("untagged field was bound")
	}
}

func TestFlagsFromParams_Parse(t *testing.T) {
	var params testParams
	flagSet := FlagsFromParams("test", &params)
	err := flagSet.Parse([]string{"-p", "/tmp/a.pack", "--json", "--jobs=9", "-vv", "--timeout", "1m"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if params.Path != "/tmp/a.pack" {
		t.Errorf("Path = %q", params.Path)
	}
	if !params.OutputJSON {
		t.Error("OutputJSON = false, want true")
	}
	if params.Jobs != 9 {
		t.Errorf("Jobs = %d, want 9", params.Jobs)
	}
	if params.Verbosity.level != 2 {
		t.Errorf("verbosity = %d, want 2", params.Verbosity.level)
	}
	if params.Timeout != time.Minute {
		t.Errorf("Timeout = %v, want 1m", params.Timeout)
	}
}

func TestBindFlags_Errors(t *testing.T) {
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	if err := BindFlags(testParams{}, flagSet); err == nil {
		t.Error("BindFlags(non-pointer) = nil, want error")
	}

	var unsupported struct {
		Ratio complex128 `flag:"ratio"`
	}
	if err := BindFlags(&unsupported, flagSet); err == nil || !strings.Contains(err.Error(), "unsupported type") {
		t.Errorf("BindFlags(complex128) error = %v, want unsupported type", err)
	}

	var badDefault struct {
		Jobs int `flag:"jobs" default:"many"`
	}
	if err := BindFlags(&badDefault, flagSet); err == nil {
		t.Error("BindFlags(bad default) = nil, want error")
	}
}

func TestEmitJSON(t *testing.T) {
	var output bytes.Buffer
	off := JSONOutput{}
	done, err := off.EmitJSON(&output, []string{"x"})
	if done || err != nil || output.Len() != 0 {
		t.Fatalf("EmitJSON without --json = (%v, %v), wrote %q", done, err, output.String())
	}

	on := JSONOutput{OutputJSON: true}
	var entries []string
	done, err = on.EmitJSON(&output, entries)
	if !done || err != nil {
		t.Fatalf("EmitJSON = (%v, %v), want (true, nil)", done, err)
	}
	if got := strings.TrimSpace(output.String()); got != "[]" {
		t.Errorf("nil slice encoded as %q, want []", got)
	}
}
