// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package binhash provides the 256-bit digest type used for block
// root hashes and file hashes.
//
// Archive entry filenames carry both hashes as 64 uppercase hex
// characters. [FormatDigest] produces that form and [ParseDigest]
// accepts it (and lowercase, which some producers emit). [Sum] is the
// SHA-256 used to compute file hashes over raw entry bytes.
//
// This package has no dependencies on other packages in this module.
package binhash
