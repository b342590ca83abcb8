// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package archivestore persists verified archives.
//
// An archive is stored under the key [Key] derives from the lowest
// masterchain seqno it holds. Two stores implement [Uploader]:
//
//   - [DirStore] writes into a local directory. Each archive is stored
//     optionally compressed (zstd or LZ4 block) next to a CBOR manifest
//     recording the BLAKE3 digest of the original bytes, both sizes and
//     the compression tag. [DirStore.Fetch] restores the archive and
//     verifies the digest.
//   - [HTTPStore] PUTs the raw bytes to an object endpoint with the
//     BLAKE3 digest in a request header, retrying transient failures
//     with exponential backoff.
//
// [New] picks a store from an upload configuration by URL scheme.
// Retries and backoff are the store's concern; callers upload once.
package archivestore
