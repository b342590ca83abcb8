// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package shard

import (
	"cmp"
	"fmt"

	"github.com/bureau-foundation/blockarchive/lib/binhash"
)

// BlockID fully identifies a block. Two ids are the same block only if
// all four fields match.
type BlockID struct {
	Shard    ShardIdent     `json:"shard"`
	Seqno    uint32         `json:"seqno"`
	RootHash binhash.Digest `json:"root_hash"`
	FileHash binhash.Digest `json:"file_hash"`
}

// IsMasterchain reports whether the block belongs to the masterchain.
func (id BlockID) IsMasterchain() bool {
	return id.Shard.IsMasterchain()
}

// Compare orders ids by shard, seqno, root hash, then file hash.
func (id BlockID) Compare(other BlockID) int {
	if c := id.Shard.Compare(other.Shard); c != 0 {
		return c
	}
	if c := cmp.Compare(id.Seqno, other.Seqno); c != 0 {
		return c
	}
	if c := id.RootHash.Compare(other.RootHash); c != 0 {
		return c
	}
	return id.FileHash.Compare(other.FileHash)
}

// Less reports whether id sorts before other.
func (id BlockID) Less(other BlockID) bool {
	return id.Compare(other) < 0
}

// String formats the id as "workchain:prefix:seqno:root:file".
func (id BlockID) String() string {
	return fmt.Sprintf("%s:%d:%s:%s", id.Shard, id.Seqno, id.RootHash, id.FileHash)
}

// ShortString formats only shard and seqno, for log lines.
func (id BlockID) ShortString() string {
	return fmt.Sprintf("(%s, %d)", id.Shard, id.Seqno)
}
