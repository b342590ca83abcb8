// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package archivestore

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"

	"github.com/zeebo/blake3"

	"github.com/bureau-foundation/blockarchive/lib/config"
)

// ErrDigestMismatch is returned when stored bytes do not hash to the
// digest recorded for them.
var ErrDigestMismatch = errors.New("archive digest mismatch")

// Uploader persists the raw bytes of a verified archive keyed by its
// lowest masterchain seqno. Implementations are safe for concurrent
// use.
type Uploader interface {
	Upload(ctx context.Context, seqno uint32, data []byte) error
}

// Key returns the object key for an archive: the prefix followed by
// the seqno zero-padded to ten digits, so keys sort by seqno.
func Key(prefix string, seqno uint32) string {
	return fmt.Sprintf("%s%010d", prefix, seqno)
}

// Digest is the BLAKE3-256 digest of an archive's raw bytes.
type Digest [32]byte

// Sum computes the digest of data.
func Sum(data []byte) Digest {
	return blake3.Sum256(data)
}

// String returns the lowercase hex encoding.
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// New creates the store a configuration names. A file:// destination
// selects a DirStore; http:// and https:// select an HTTPStore whose
// bearer token is read from the environment variable TokenEnv names.
func New(cfg config.UploadConfig, logger *slog.Logger) (Uploader, error) {
	if cfg.Destination == "" {
		return nil, errors.New("no upload destination configured")
	}
	destination, err := url.Parse(cfg.Destination)
	if err != nil {
		return nil, fmt.Errorf("parsing upload destination: %w", err)
	}

	switch destination.Scheme {
	case "file":
		tag, err := ParseCompressionTag(string(cfg.Compression))
		if err != nil {
			return nil, err
		}
		return NewDirStore(destination.Path, DirStoreOptions{
			KeyPrefix:   cfg.KeyPrefix,
			Compression: tag,
			Logger:      logger,
		})

	case "http", "https":
		var token string
		if cfg.TokenEnv != "" {
			token = os.Getenv(cfg.TokenEnv)
		}
		return NewHTTPStore(HTTPStoreOptions{
			Endpoint:      destination,
			Bucket:        cfg.Bucket,
			KeyPrefix:     cfg.KeyPrefix,
			Token:         token,
			RetryInterval: cfg.RetryInterval,
			MaxElapsed:    cfg.MaxElapsed,
			Logger:        logger,
		})

	default:
		return nil, fmt.Errorf("unsupported upload destination scheme %q", destination.Scheme)
	}
}
