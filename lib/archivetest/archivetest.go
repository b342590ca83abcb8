// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package archivetest builds block archives for tests.
//
// A [Builder] encodes blocks with blockcodec, adds them to a container
// together with the proof each needs (a full proof for masterchain
// blocks, a proof link for shardchain blocks), and returns the ids the
// hashes produce:
//
//	builder := archivetest.New(t)
//	builder.Range(shard.Masterchain, 10, 13)
//	data := builder.Bytes()
package archivetest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bureau-foundation/blockarchive/lib/blockcodec"
	"github.com/bureau-foundation/blockarchive/lib/container"
	"github.com/bureau-foundation/blockarchive/lib/entryid"
	"github.com/bureau-foundation/blockarchive/lib/shard"
)

// Builder accumulates archive entries. Methods fail the test on error.
type Builder struct {
	t         testing.TB
	container *container.Builder
}

// New creates an empty archive builder.
func New(t testing.TB) *Builder {
	return &Builder{t: t, container: container.NewBuilder()}
}

// Signatures returns a single fixed validator signature, enough to make
// a proof full rather than a link.
func Signatures() []blockcodec.Signature {
	var signature blockcodec.Signature
	signature.NodeID[0] = 0x01
	signature.Signature[0] = 0x02
	return []blockcodec.Signature{signature}
}

// Encode serializes a block without adding it.
func (b *Builder) Encode(info blockcodec.BlockInfo, shards ...blockcodec.ShardDescr) blockcodec.Encoded {
	b.t.Helper()
	encoded, err := blockcodec.EncodeBlock(info, shards, nil)
	if err != nil {
		b.t.Fatalf("encoding block %s:%d: %v", info.Shard, info.Seqno, err)
	}
	return encoded
}

// ProofData serializes the proof an encoded block needs: full for the
// masterchain, a link otherwise.
func (b *Builder) ProofData(encoded blockcodec.Encoded) []byte {
	b.t.Helper()
	var signatures []blockcodec.Signature
	if encoded.ID.IsMasterchain() {
		signatures = Signatures()
	}
	data, err := blockcodec.EncodeProof(encoded.ID, encoded.Root, signatures)
	if err != nil {
		b.t.Fatalf("encoding proof: %v", err)
	}
	return data
}

// Block adds a block and its proof.
func (b *Builder) Block(info blockcodec.BlockInfo, shards ...blockcodec.ShardDescr) shard.BlockID {
	b.t.Helper()
	encoded := b.Encode(info, shards...)
	b.AddEntry(entryid.Block(encoded.ID).Filename(), encoded.Data)
	b.AddProof(encoded)
	return encoded.ID
}

// BlockOnly adds a block without a proof.
func (b *Builder) BlockOnly(info blockcodec.BlockInfo, shards ...blockcodec.ShardDescr) shard.BlockID {
	b.t.Helper()
	encoded := b.Encode(info, shards...)
	b.AddEntry(entryid.Block(encoded.ID).Filename(), encoded.Data)
	return encoded.ID
}

// AddProof adds the proof entry for an encoded block.
func (b *Builder) AddProof(encoded blockcodec.Encoded) {
	b.t.Helper()
	id := entryid.ProofLink(encoded.ID)
	if encoded.ID.IsMasterchain() {
		id = entryid.Proof(encoded.ID)
	}
	b.AddEntry(id.Filename(), b.ProofData(encoded))
}

// Range adds blocks first through last of one shard, each with its
// proof, and returns their ids in seqno order.
func (b *Builder) Range(ident shard.ShardIdent, first, last uint32) []shard.BlockID {
	b.t.Helper()
	var ids []shard.BlockID
	for seqno := first; seqno <= last; seqno++ {
		ids = append(ids, b.Block(blockcodec.BlockInfo{Shard: ident, Seqno: seqno}))
	}
	return ids
}

// AddEntry adds a raw entry.
func (b *Builder) AddEntry(name string, data []byte) {
	b.t.Helper()
	if err := b.container.Add(name, data); err != nil {
		b.t.Fatalf("adding entry %q: %v", name, err)
	}
}

// Len returns the number of entries added.
func (b *Builder) Len() int {
	return b.container.Len()
}

// Bytes returns the container.
func (b *Builder) Bytes() []byte {
	return b.container.Bytes()
}

// WriteFile writes the container to name inside directory and returns
// the full path.
func (b *Builder) WriteFile(directory, name string) string {
	b.t.Helper()
	path := filepath.Join(directory, name)
	if err := os.WriteFile(path, b.Bytes(), 0o644); err != nil {
		b.t.Fatalf("writing archive %s: %v", path, err)
	}
	return path
}

// Children returns the two children of a shard.
func Children(t testing.TB, ident shard.ShardIdent) (shard.ShardIdent, shard.ShardIdent) {
	t.Helper()
	left, right, err := ident.Split()
	if err != nil {
		t.Fatalf("splitting %s: %v", ident, err)
	}
	return left, right
}

// Archive builds a small consistent archive: masterchain blocks
// first through last, and basechain root blocks with the same seqnos.
// It is the fixture most command tests start from.
func Archive(t testing.TB, first, last uint32) []byte {
	t.Helper()
	builder := New(t)
	builder.Range(shard.Masterchain, first, last)
	builder.Range(shard.Full(shard.BasechainID), first, last)
	return builder.Bytes()
}
