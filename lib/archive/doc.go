// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package archive assembles block archives into a verified index and
// checks that the index is a gap-free slice of the chain.
//
// [Assemble] reads every entry of a container, parses its name into a
// kinded block identifier, and hands the payload to a [Decoder] that
// verifies hashes and structure. The result is a [Data] store with two
// ordered indexes:
//
//   - masterchain seqno to masterchain block id, ordered by seqno
//   - block id to [Record], ordered by shard then seqno
//
// Each Record holds the decoded block and proof along with the raw
// bytes they came from. Entry kinds apply to one side of the chain
// only: full proofs are kept for masterchain blocks and proof links for
// shardchain blocks. A proof entry for a shardchain block, or a proof
// link entry for a masterchain block, is skipped without error. Every
// other failure aborts assembly with the entry name in the error.
//
// [Data.Check] then verifies that the masterchain seqnos form one
// contiguous run and that every shard's seqnos are contiguous, allowing
// a gap only when the missing predecessor sits one level away in the
// shard tree: in a child shard (the children merged into this shard)
// or in the parent (the parent split into this shard). Only one level
// is examined; an archive is expected to be short enough that a shard
// goes through at most one split or merge inside it.
//
// Raw bytes in a Record alias the archive buffer. [AssembleBuffer]
// takes a reference on a [rawarchive.Buffer] that [Data.Close]
// returns, so a mapped file stays mapped for as long as the Data is
// in use.
package archive
