// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bureau-foundation/blockarchive/lib/archivestore"
	"github.com/bureau-foundation/blockarchive/lib/archivetest"
)

func TestUploadToDirectory(t *testing.T) {
	source := t.TempDir()
	first := archivetest.Archive(t, 10, 13)
	second := archivetest.Archive(t, 14, 15)
	writeFile(t, source, "10", first)
	writeFile(t, source, "14", second)
	destination := filepath.Join(t.TempDir(), "store")

	app := newTestApp(t, nil)
	err := app.run("upload", "--path", source, "--destination", "file://"+destination, "--jobs", "2")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if !strings.HasPrefix(app.stdout.String(), "uploaded 2 of 2 archives (") {
		t.Errorf("summary = %q", app.stdout.String())
	}

	store, err := archivestore.NewDirStore(destination, archivestore.DirStoreOptions{})
	if err != nil {
		t.Fatalf("NewDirStore: %v", err)
	}
	for seqno, want := range map[uint32][]byte{10: first, 14: second} {
		got, err := store.Fetch(context.Background(), seqno)
		if err != nil {
			t.Fatalf("Fetch(%d): %v", seqno, err)
		}
		if !bytes.Equal(got, want) {
			t.Errorf("Fetch(%d) returned different bytes", seqno)
		}
	}
}

func TestUploadSkipsFailingArchives(t *testing.T) {
	source := t.TempDir()
	good := archivetest.Archive(t, 30, 31)
	writeFile(t, source, "30", good)
	writeFile(t, source, "40", brokenArchive(t))
	destination := t.TempDir()

	app := newTestApp(t, nil)
	requireExitCode(t, app.run("upload", "-p", source, "-d", "file://"+destination), 1)

	if !strings.HasPrefix(app.stdout.String(), "uploaded 1 of 2 archives") {
		t.Errorf("summary = %q", app.stdout.String())
	}
	if !strings.Contains(app.logs.String(), "archive upload failed") {
		t.Errorf("failure not logged:\n%s", app.logs.String())
	}

	store, err := archivestore.NewDirStore(destination, archivestore.DirStoreOptions{})
	if err != nil {
		t.Fatalf("NewDirStore: %v", err)
	}
	if _, err := store.Fetch(context.Background(), 30); err != nil {
		t.Errorf("passing archive not uploaded: %v", err)
	}
	if _, err := store.Fetch(context.Background(), 10); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("failing archive Fetch error = %v, want not exist", err)
	}
}

func TestUploadArguments(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no path", []string{"upload", "--destination", "file:///tmp/x"}, "--path is required"},
		{"no destination", []string{"upload", "--path", "/tmp"}, "no upload destination"},
		{"bad scheme", []string{"upload", "--path", "/tmp", "--destination", "ftp://host"}, "upload.destination"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			app := newTestApp(t, nil)
			err := app.run(test.args...)
			if err == nil || !strings.Contains(err.Error(), test.want) {
				t.Fatalf("error = %v, want it to mention %q", err, test.want)
			}
		})
	}
}
