// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package blockcodec decodes and verifies block and proof payloads.
//
// Archive entries carry blocks as opaque bytes. Verifying one takes
// three checks, in order:
//
//  1. The file hash: SHA-256 of the raw entry bytes must equal the
//     file hash in the entry name ([ErrInvalidFileHash]).
//  2. The root hash: the hash of the block's top-level structure must
//     equal the root hash in the entry name ([ErrInvalidRootHash]).
//  3. Structure: the payload must decode and describe the block it
//     claims to be ([ErrInvalidBlockData]).
//
// Proofs are checked against the block they name
// ([ErrProofForAnotherBlock]), against the kind of proof the entry
// requires (full proofs for the masterchain, links for shardchains),
// and against the root hash of the block.
//
// The payload format implemented here is a deterministic CBOR envelope:
//
//	block: {"root": bstr, "body": bstr?}
//	proof: {"proof_for": id, "root": bstr, "signatures": [...]?}
//
// The "root" byte string is the encoded top-level structure
// ([BlockInfo] plus, for masterchain blocks, the shard descriptors); its
// SHA-256 is the root hash. A proof without signatures is a proof link.
//
// [Decoder] is the verifying decoder. [EncodeBlock] and [EncodeProof]
// build payloads that Decoder accepts, for tooling and tests.
package blockcodec
