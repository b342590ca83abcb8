// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package blockcodec

import (
	"fmt"

	"github.com/bureau-foundation/blockarchive/lib/binhash"
	"github.com/bureau-foundation/blockarchive/lib/shard"
)

// Wire types mirror the public types with fixed-width fields replaced
// by byte strings, so that length checks happen here and not inside
// the CBOR library.

type blockEnvelope struct {
	Root []byte `cbor:"root"`
	Body []byte `cbor:"body,omitempty"`
}

type blockRoot struct {
	GlobalID    int32        `cbor:"global_id"`
	Workchain   int32        `cbor:"wc"`
	Prefix      uint64       `cbor:"prefix"`
	Seqno       uint32       `cbor:"seqno"`
	GenUtime    uint32       `cbor:"gen_utime"`
	KeyBlock    bool         `cbor:"key_block,omitempty"`
	AfterMerge  bool         `cbor:"after_merge,omitempty"`
	AfterSplit  bool         `cbor:"after_split,omitempty"`
	BeforeSplit bool         `cbor:"before_split,omitempty"`
	Shards      []shardDescr `cbor:"shards,omitempty"`
}

type shardDescr struct {
	Workchain   int32  `cbor:"wc"`
	Prefix      uint64 `cbor:"prefix"`
	Seqno       uint32 `cbor:"seqno"`
	RootHash    []byte `cbor:"root_hash"`
	FileHash    []byte `cbor:"file_hash"`
	BeforeSplit bool   `cbor:"before_split,omitempty"`
	BeforeMerge bool   `cbor:"before_merge,omitempty"`
}

type blockID struct {
	Workchain int32  `cbor:"wc"`
	Prefix    uint64 `cbor:"prefix"`
	Seqno     uint32 `cbor:"seqno"`
	RootHash  []byte `cbor:"root_hash"`
	FileHash  []byte `cbor:"file_hash"`
}

type proofEnvelope struct {
	ProofFor   blockID     `cbor:"proof_for"`
	Root       []byte      `cbor:"root"`
	Signatures []signature `cbor:"signatures,omitempty"`
}

type signature struct {
	NodeID    []byte `cbor:"node_id"`
	Signature []byte `cbor:"sig"`
}

func digestFromBytes(field string, value []byte) (binhash.Digest, error) {
	var digest binhash.Digest
	if len(value) != binhash.Size {
		return digest, fmt.Errorf("%s is %d bytes, want %d", field, len(value), binhash.Size)
	}
	copy(digest[:], value)
	return digest, nil
}

func wireBlockID(id shard.BlockID) blockID {
	return blockID{
		Workchain: id.Shard.Workchain(),
		Prefix:    id.Shard.Prefix(),
		Seqno:     id.Seqno,
		RootHash:  id.RootHash[:],
		FileHash:  id.FileHash[:],
	}
}

func (w blockID) toBlockID() (shard.BlockID, error) {
	ident, err := shard.New(w.Workchain, w.Prefix)
	if err != nil {
		return shard.BlockID{}, err
	}
	rootHash, err := digestFromBytes("root hash", w.RootHash)
	if err != nil {
		return shard.BlockID{}, err
	}
	fileHash, err := digestFromBytes("file hash", w.FileHash)
	if err != nil {
		return shard.BlockID{}, err
	}
	return shard.BlockID{Shard: ident, Seqno: w.Seqno, RootHash: rootHash, FileHash: fileHash}, nil
}

func wireShardDescr(descr ShardDescr) shardDescr {
	return shardDescr{
		Workchain:   descr.Shard.Workchain(),
		Prefix:      descr.Shard.Prefix(),
		Seqno:       descr.Seqno,
		RootHash:    descr.RootHash[:],
		FileHash:    descr.FileHash[:],
		BeforeSplit: descr.BeforeSplit,
		BeforeMerge: descr.BeforeMerge,
	}
}

func (w shardDescr) toShardDescr() (ShardDescr, error) {
	id, err := blockID{
		Workchain: w.Workchain,
		Prefix:    w.Prefix,
		Seqno:     w.Seqno,
		RootHash:  w.RootHash,
		FileHash:  w.FileHash,
	}.toBlockID()
	if err != nil {
		return ShardDescr{}, err
	}
	return ShardDescr{
		Shard:       id.Shard,
		Seqno:       id.Seqno,
		RootHash:    id.RootHash,
		FileHash:    id.FileHash,
		BeforeSplit: w.BeforeSplit,
		BeforeMerge: w.BeforeMerge,
	}, nil
}

func (w signature) toSignature() (Signature, error) {
	var result Signature
	if len(w.NodeID) != len(result.NodeID) {
		return result, fmt.Errorf("node id is %d bytes, want %d", len(w.NodeID), len(result.NodeID))
	}
	if len(w.Signature) != len(result.Signature) {
		return result, fmt.Errorf("signature is %d bytes, want %d", len(w.Signature), len(result.Signature))
	}
	copy(result.NodeID[:], w.NodeID)
	copy(result.Signature[:], w.Signature)
	return result, nil
}
