// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package binhash

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// Size is the length of a digest in bytes.
const Size = sha256.Size

// Digest is a 256-bit hash. Block root hashes and file hashes are both
// digests, and both are SHA-256 in the reference block envelope.
type Digest [Size]byte

// Sum returns the SHA-256 digest of data.
func Sum(data []byte) Digest {
	return sha256.Sum256(data)
}

// FormatDigest returns the canonical text form of a digest: 64
// uppercase hex characters. This is the form used in archive entry
// filenames and in command output.
func FormatDigest(digest Digest) string {
	return strings.ToUpper(hex.EncodeToString(digest[:]))
}

// ParseDigest parses a 64-character hex string in either case.
func ParseDigest(hexString string) (Digest, error) {
	var digest Digest
	if len(hexString) != 2*Size {
		return digest, fmt.Errorf("hash digest is %d hex characters, want %d", len(hexString), 2*Size)
	}
	if _, err := hex.Decode(digest[:], []byte(hexString)); err != nil {
		return digest, fmt.Errorf("parsing hash digest: %w", err)
	}
	return digest, nil
}

// String returns the canonical uppercase hex form.
func (d Digest) String() string {
	return FormatDigest(d)
}

// IsZero reports whether every byte of the digest is zero.
func (d Digest) IsZero() bool {
	return d == Digest{}
}

// Compare orders digests bytewise.
func (d Digest) Compare(other Digest) int {
	return bytes.Compare(d[:], other[:])
}

// MarshalText encodes the digest in its canonical hex form so JSON
// output shows hashes the same way filenames do.
func (d Digest) MarshalText() ([]byte, error) {
	return []byte(FormatDigest(d)), nil
}

// UnmarshalText is the inverse of MarshalText.
func (d *Digest) UnmarshalText(text []byte) error {
	parsed, err := ParseDigest(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
