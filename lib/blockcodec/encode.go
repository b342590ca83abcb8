// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package blockcodec

import (
	"fmt"

	"github.com/bureau-foundation/blockarchive/lib/binhash"
	"github.com/bureau-foundation/blockarchive/lib/codec"
	"github.com/bureau-foundation/blockarchive/lib/shard"
)

// Encoded is a serialized block together with the identifier its
// hashes produce.
type Encoded struct {
	ID   shard.BlockID
	Root []byte
	Data []byte
}

// EncodeBlock serializes a block. The returned ID carries the root
// hash and file hash of the result.
func EncodeBlock(info BlockInfo, shards []ShardDescr, body []byte) (Encoded, error) {
	root := blockRoot{
		GlobalID:    info.GlobalID,
		Workchain:   info.Shard.Workchain(),
		Prefix:      info.Shard.Prefix(),
		Seqno:       info.Seqno,
		GenUtime:    info.GenUtime,
		KeyBlock:    info.KeyBlock,
		AfterMerge:  info.AfterMerge,
		AfterSplit:  info.AfterSplit,
		BeforeSplit: info.BeforeSplit,
	}
	for _, descr := range shards {
		root.Shards = append(root.Shards, wireShardDescr(descr))
	}

	rootData, err := codec.Marshal(root)
	if err != nil {
		return Encoded{}, fmt.Errorf("encoding block root: %w", err)
	}
	data, err := codec.Marshal(blockEnvelope{Root: rootData, Body: body})
	if err != nil {
		return Encoded{}, fmt.Errorf("encoding block envelope: %w", err)
	}

	return Encoded{
		ID: shard.BlockID{
			Shard:    info.Shard,
			Seqno:    info.Seqno,
			RootHash: binhash.Sum(rootData),
			FileHash: binhash.Sum(data),
		},
		Root: rootData,
		Data: data,
	}, nil
}

// EncodeProof serializes a proof of id over the block root. With no
// signatures the result is a proof link.
func EncodeProof(id shard.BlockID, root []byte, signatures []Signature) ([]byte, error) {
	envelope := proofEnvelope{
		ProofFor: wireBlockID(id),
		Root:     root,
	}
	for _, s := range signatures {
		envelope.Signatures = append(envelope.Signatures, signature{
			NodeID:    s.NodeID[:],
			Signature: s.Signature[:],
		})
	}
	data, err := codec.Marshal(envelope)
	if err != nil {
		return nil, fmt.Errorf("encoding proof for %s: %w", id.ShortString(), err)
	}
	return data, nil
}
