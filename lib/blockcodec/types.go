// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package blockcodec

import (
	"github.com/bureau-foundation/blockarchive/lib/binhash"
	"github.com/bureau-foundation/blockarchive/lib/shard"
)

// Block is a decoded block.
type Block struct {
	// Info is the block header.
	Info BlockInfo

	// Shards lists the shardchain tops a masterchain block commits
	// to. Empty for shardchain blocks.
	Shards []ShardDescr

	// Root is the encoded top-level structure.
	Root []byte

	// Body is the remainder of the block (transactions, state
	// updates). It is carried but not interpreted.
	Body []byte
}

// BlockInfo is the block header.
type BlockInfo struct {
	GlobalID    int32            `json:"global_id"`
	Shard       shard.ShardIdent `json:"shard"`
	Seqno       uint32           `json:"seqno"`
	GenUtime    uint32           `json:"gen_utime"`
	KeyBlock    bool             `json:"key_block"`
	AfterMerge  bool             `json:"after_merge"`
	AfterSplit  bool             `json:"after_split"`
	BeforeSplit bool             `json:"before_split"`
}

// ShardDescr describes the latest block of one shardchain as recorded
// in a masterchain block.
type ShardDescr struct {
	Shard       shard.ShardIdent `json:"shard"`
	Seqno       uint32           `json:"seqno"`
	RootHash    binhash.Digest   `json:"root_hash"`
	FileHash    binhash.Digest   `json:"file_hash"`
	BeforeSplit bool             `json:"before_split"`
	BeforeMerge bool             `json:"before_merge"`
}

// BlockID returns the identifier of the described block.
func (d ShardDescr) BlockID() shard.BlockID {
	return shard.BlockID{
		Shard:    d.Shard,
		Seqno:    d.Seqno,
		RootHash: d.RootHash,
		FileHash: d.FileHash,
	}
}

// Proof is a decoded block proof or proof link.
type Proof struct {
	// ProofFor is the block the proof attests.
	ProofFor shard.BlockID

	// Root is the proven top-level structure of the block. Its hash
	// is the block's root hash.
	Root []byte

	// Signatures are the validator signatures of a full proof.
	Signatures []Signature
}

// IsLink reports whether the proof is a proof link (no signatures).
func (p *Proof) IsLink() bool {
	return len(p.Signatures) == 0
}

// Signature is one validator signature over a block.
type Signature struct {
	NodeID    [32]byte
	Signature [64]byte
}
