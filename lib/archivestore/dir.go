// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package archivestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/bureau-foundation/blockarchive/lib/codec"
)

// manifestSuffix is appended to an archive's key to name its manifest.
const manifestSuffix = ".cbor"

// ErrKeyConflict is returned when a key already holds an archive with
// different contents.
var ErrKeyConflict = errors.New("key already holds a different archive")

// Manifest describes one stored archive.
type Manifest struct {
	Key         string
	Seqno       uint32
	Size        int64
	StoredSize  int64
	Compression CompressionTag
	Digest      Digest
}

// manifestWire is the on-disk form of a Manifest.
type manifestWire struct {
	Key         string `cbor:"key"`
	Seqno       uint32 `cbor:"seqno"`
	Size        int64  `cbor:"size"`
	StoredSize  int64  `cbor:"stored_size"`
	Compression uint8  `cbor:"compression"`
	Digest      []byte `cbor:"blake3"`
}

// DirStoreOptions configures a DirStore.
type DirStoreOptions struct {
	KeyPrefix   string
	Compression CompressionTag

	// Logger receives a record per stored archive. Nil discards.
	Logger *slog.Logger
}

// DirStore stores archives as files under a root directory.
type DirStore struct {
	root        string
	keyPrefix   string
	compression CompressionTag
	logger      *slog.Logger
}

// NewDirStore creates the root directory if needed.
func NewDirStore(root string, options DirStoreOptions) (*DirStore, error) {
	if root == "" {
		return nil, errors.New("directory store needs a root directory")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}
	logger := options.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &DirStore{
		root:        root,
		keyPrefix:   options.KeyPrefix,
		compression: options.Compression,
		logger:      logger,
	}, nil
}

func (s *DirStore) path(key string) string {
	return filepath.Join(s.root, filepath.FromSlash(key))
}

// Upload stores data under the key for seqno. Uploading identical
// bytes again is a no-op; different bytes under an existing key fail
// with ErrKeyConflict. The manifest is written last, so a key without
// a manifest was never completely stored.
func (s *DirStore) Upload(ctx context.Context, seqno uint32, data []byte) error {
	key := Key(s.keyPrefix, seqno)
	digest := Sum(data)

	existing, err := s.Stat(seqno)
	switch {
	case err == nil && existing.Digest == digest:
		s.logger.Debug("archive already stored", "key", key)
		return nil
	case err == nil:
		return fmt.Errorf("%s: %w (stored %s, uploading %s)", key, ErrKeyConflict, existing.Digest, digest)
	case !errors.Is(err, fs.ErrNotExist):
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	stored, tag, err := Compress(data, s.compression)
	if err != nil {
		return fmt.Errorf("compressing %s: %w", key, err)
	}

	manifest, err := codec.Marshal(manifestWire{
		Key:         key,
		Seqno:       seqno,
		Size:        int64(len(data)),
		StoredSize:  int64(len(stored)),
		Compression: uint8(tag),
		Digest:      digest[:],
	})
	if err != nil {
		return fmt.Errorf("encoding manifest for %s: %w", key, err)
	}

	path := s.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", key, err)
	}
	if err := writeFileAtomic(path, stored); err != nil {
		return err
	}
	if err := writeFileAtomic(path+manifestSuffix, manifest); err != nil {
		return err
	}

	s.logger.Info("archive stored",
		"key", key,
		"size", len(data),
		"stored_size", len(stored),
		"compression", tag.String(),
	)
	return nil
}

// Stat reads the manifest for seqno. A missing archive yields an
// error matching fs.ErrNotExist.
func (s *DirStore) Stat(seqno uint32) (*Manifest, error) {
	key := Key(s.keyPrefix, seqno)
	raw, err := os.ReadFile(s.path(key) + manifestSuffix)
	if err != nil {
		return nil, fmt.Errorf("reading manifest for %s: %w", key, err)
	}

	var wire manifestWire
	if err := codec.Unmarshal(raw, &wire); err != nil {
		return nil, fmt.Errorf("decoding manifest for %s: %w", key, err)
	}
	if len(wire.Digest) != len(Digest{}) {
		return nil, fmt.Errorf("manifest for %s: digest is %d bytes", key, len(wire.Digest))
	}

	manifest := &Manifest{
		Key:         wire.Key,
		Seqno:       wire.Seqno,
		Size:        wire.Size,
		StoredSize:  wire.StoredSize,
		Compression: CompressionTag(wire.Compression),
	}
	copy(manifest.Digest[:], wire.Digest)
	return manifest, nil
}

// Fetch returns the original bytes of the archive stored for seqno,
// verified against the manifest digest.
func (s *DirStore) Fetch(ctx context.Context, seqno uint32) ([]byte, error) {
	manifest, err := s.Stat(seqno)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stored, err := os.ReadFile(s.path(manifest.Key))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", manifest.Key, err)
	}
	if int64(len(stored)) != manifest.StoredSize {
		return nil, fmt.Errorf("%s: stored size %d, manifest says %d", manifest.Key, len(stored), manifest.StoredSize)
	}

	data, err := Decompress(stored, manifest.Compression, int(manifest.Size))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", manifest.Key, err)
	}
	if digest := Sum(data); digest != manifest.Digest {
		return nil, fmt.Errorf("%s: %w: computed %s, manifest %s", manifest.Key, ErrDigestMismatch, digest, manifest.Digest)
	}
	return data, nil
}

// writeFileAtomic writes data to a temporary file beside path and
// renames it into place.
func writeFileAtomic(path string, data []byte) error {
	file, err := os.CreateTemp(filepath.Dir(path), ".upload-*")
	if err != nil {
		return fmt.Errorf("creating temporary file for %s: %w", path, err)
	}
	temporary := file.Name()
	defer os.Remove(temporary)

	if _, err := file.Write(data); err != nil {
		file.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		return fmt.Errorf("syncing %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	if err := os.Rename(temporary, path); err != nil {
		return fmt.Errorf("renaming into %s: %w", path, err)
	}
	return nil
}
