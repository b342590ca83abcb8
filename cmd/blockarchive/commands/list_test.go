// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/bureau-foundation/blockarchive/lib/archivetest"
	"github.com/bureau-foundation/blockarchive/lib/entryid"
	"github.com/bureau-foundation/blockarchive/lib/shard"
)

func TestList(t *testing.T) {
	builder := archivetest.New(t)
	ids := builder.Range(shard.Masterchain, 1, 2)
	app := newTestApp(t, builder.Bytes())

	if err := app.run("list"); err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{
		entryid.Block(ids[0]).Filename(),
		entryid.Proof(ids[0]).Filename(),
		entryid.Block(ids[1]).Filename(),
		entryid.Proof(ids[1]).Filename(),
	}
	got := strings.Split(strings.TrimSpace(app.stdout.String()), "\n")
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Errorf("list output:\n%s\nwant:\n%s", strings.Join(got, "\n"), strings.Join(want, "\n"))
	}
}

func TestListSizes(t *testing.T) {
	builder := archivetest.New(t)
	builder.AddEntry("block_(-1,8000000000000000,1):"+strings.Repeat("A", 64)+":"+strings.Repeat("B", 64), make([]byte, 2048))
	app := newTestApp(t, builder.Bytes())

	if err := app.run("list", "-s"); err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.HasSuffix(strings.TrimSpace(app.stdout.String()), "  2.0 KiB") {
		t.Errorf("output = %q, want a 2.0 KiB size", app.stdout.String())
	}
}

func TestListInvalidName(t *testing.T) {
	builder := archivetest.New(t)
	builder.Range(shard.Masterchain, 1, 1)
	builder.AddEntry("readme.txt", []byte("hello"))

	app := newTestApp(t, builder.Bytes())
	err := app.run("list")
	if !errors.Is(err, entryid.ErrInvalidFileName) {
		t.Fatalf("list error = %v, want ErrInvalidFileName", err)
	}

	app = newTestApp(t, builder.Bytes())
	if err := app.run("list", "--ignore-invalid"); err != nil {
		t.Fatalf("list -i: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(app.stdout.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), app.stdout.String())
	}
	if !strings.HasPrefix(lines[2], "readme.txt <invalid: ") {
		t.Errorf("invalid entry printed as %q", lines[2])
	}
}

func TestListJSONDump(t *testing.T) {
	builder := archivetest.New(t)
	ids := builder.Range(shard.Masterchain, 7, 7)
	builder.AddEntry("raw", []byte{0xff, 0xff})
	app := newTestApp(t, builder.Bytes())

	if err := app.run("list", "--json", "--dump", "-i"); err != nil {
		t.Fatalf("list: %v", err)
	}
	var entries []listEntry
	if err := json.Unmarshal([]byte(app.stdout.String()), &entries); err != nil {
		t.Fatalf("decoding output: %v\n%s", err, app.stdout.String())
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	block := entries[0]
	if block.ID == nil || block.ID.Kind != entryid.KindBlock || block.ID.Block != ids[0] {
		t.Errorf("block entry id = %+v, want %s", block.ID, ids[0])
	}
	if !strings.HasPrefix(block.Diagnostic, "{") {
		t.Errorf("block diagnostic = %q, want a CBOR map", block.Diagnostic)
	}
	raw := entries[2]
	if raw.ID != nil || raw.Invalid == "" {
		t.Errorf("raw entry = %+v, want invalid without id", raw)
	}
	if !strings.HasPrefix(raw.Diagnostic, "<not cbor: ") {
		t.Errorf("raw diagnostic = %q", raw.Diagnostic)
	}
}

func TestListEmptyArchiveJSON(t *testing.T) {
	app := newTestApp(t, archivetest.New(t).Bytes())
	if err := app.run("list", "--json"); err != nil {
		t.Fatalf("list: %v", err)
	}
	if got := strings.TrimSpace(app.stdout.String()); got != "[]" {
		t.Errorf("output = %q, want []", got)
	}
}
