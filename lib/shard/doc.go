// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package shard defines shard identifiers and block identifiers.
//
// A shard is a node in a binary tree rooted at the full shard of each
// workchain. [ShardIdent] stores the node as a 64-bit tagged prefix:
// the high bits are the path from the root and the lowest set bit is a
// marker whose position gives the depth. The root has only the top bit
// set (0x8000000000000000); its children are 0x4000000000000000 and
// 0xc000000000000000; and so on down to [MaxDepth].
//
// [ShardIdent.Split] and [ShardIdent.Merge] move one level down and up
// the tree with plain bit arithmetic. Both fail at the tree boundaries
// instead of producing an invalid prefix.
//
// [BlockID] names one block: shard, sequence number, and the two
// 256-bit hashes (root hash of the block structure and file hash of
// the serialized bytes). BlockID is comparable, so it works directly
// as a map key, and [BlockID.Compare] gives the shard-then-seqno order
// used by archive indexes.
package shard
