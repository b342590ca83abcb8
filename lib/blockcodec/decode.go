// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package blockcodec

import (
	"errors"
	"fmt"

	"github.com/bureau-foundation/blockarchive/lib/binhash"
	"github.com/bureau-foundation/blockarchive/lib/codec"
	"github.com/bureau-foundation/blockarchive/lib/shard"
)

// Integrity errors. Decoder wraps one of these with detail.
var (
	ErrInvalidFileHash             = errors.New("invalid file hash")
	ErrInvalidRootHash             = errors.New("invalid root hash")
	ErrInvalidBlockData            = errors.New("invalid block data")
	ErrInvalidBlockProof           = errors.New("invalid block proof")
	ErrProofForAnotherBlock        = errors.New("proof for another block")
	ErrProofForNonMasterchainBlock = errors.New("proof for non-masterchain block")
	ErrUnexpectedFullProof         = errors.New("full proof where proof link expected")
)

// Decoder verifies and decodes block and proof payloads. The zero
// value is ready to use and safe for concurrent use.
type Decoder struct{}

// DecodeBlock verifies data against id and decodes it. The file hash
// is checked before anything is parsed.
func (Decoder) DecodeBlock(id shard.BlockID, data []byte) (*Block, error) {
	if fileHash := binhash.Sum(data); fileHash != id.FileHash {
		return nil, fmt.Errorf("%w: computed %s, entry names %s", ErrInvalidFileHash, fileHash, id.FileHash)
	}

	var envelope blockEnvelope
	if err := codec.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("%w: decoding envelope: %w", ErrInvalidBlockData, err)
	}
	if len(envelope.Root) == 0 {
		return nil, fmt.Errorf("%w: empty root", ErrInvalidBlockData)
	}

	if rootHash := binhash.Sum(envelope.Root); rootHash != id.RootHash {
		return nil, fmt.Errorf("%w: computed %s, entry names %s", ErrInvalidRootHash, rootHash, id.RootHash)
	}

	var root blockRoot
	if err := codec.Unmarshal(envelope.Root, &root); err != nil {
		return nil, fmt.Errorf("%w: decoding root: %w", ErrInvalidBlockData, err)
	}

	block, err := root.toBlock()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBlockData, err)
	}
	if err := validateBlock(id, block); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBlockData, err)
	}

	block.Root = envelope.Root
	block.Body = envelope.Body
	return block, nil
}

func (root blockRoot) toBlock() (*Block, error) {
	ident, err := shard.New(root.Workchain, root.Prefix)
	if err != nil {
		return nil, err
	}
	block := &Block{
		Info: BlockInfo{
			GlobalID:    root.GlobalID,
			Shard:       ident,
			Seqno:       root.Seqno,
			GenUtime:    root.GenUtime,
			KeyBlock:    root.KeyBlock,
			AfterMerge:  root.AfterMerge,
			AfterSplit:  root.AfterSplit,
			BeforeSplit: root.BeforeSplit,
		},
	}
	for i, wire := range root.Shards {
		descr, err := wire.toShardDescr()
		if err != nil {
			return nil, fmt.Errorf("shard description %d: %w", i, err)
		}
		block.Shards = append(block.Shards, descr)
	}
	return block, nil
}

// validateBlock checks that the decoded header describes the block the
// entry names and that its flags are consistent.
func validateBlock(id shard.BlockID, block *Block) error {
	info := block.Info
	if info.Shard != id.Shard || info.Seqno != id.Seqno {
		return fmt.Errorf("header describes block (%s, %d), entry names %s", info.Shard, info.Seqno, id.ShortString())
	}
	if info.AfterMerge && info.AfterSplit {
		return errors.New("block is marked both after merge and after split")
	}
	if info.AfterSplit && info.Shard.IsFull() {
		return errors.New("workchain root cannot follow a split")
	}

	if !id.IsMasterchain() {
		if info.KeyBlock {
			return errors.New("shardchain block marked as key block")
		}
		if len(block.Shards) > 0 {
			return errors.New("shardchain block carries shard descriptions")
		}
		return nil
	}

	seen := make(map[shard.ShardIdent]struct{}, len(block.Shards))
	for _, descr := range block.Shards {
		if descr.Shard.IsMasterchain() {
			return fmt.Errorf("shard description for masterchain shard %s", descr.Shard)
		}
		if _, duplicate := seen[descr.Shard]; duplicate {
			return fmt.Errorf("duplicate shard description for %s", descr.Shard)
		}
		seen[descr.Shard] = struct{}{}
	}
	return nil
}

// DecodeProof decodes a proof and checks it against id. isLink selects
// the kind of proof the entry requires: a full proof for masterchain
// blocks, a proof link for shardchain blocks.
func (Decoder) DecodeProof(id shard.BlockID, data []byte, isLink bool) (*Proof, error) {
	var envelope proofEnvelope
	if err := codec.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBlockProof, err)
	}

	proofFor, err := envelope.ProofFor.toBlockID()
	if err != nil {
		return nil, fmt.Errorf("%w: proof_for: %w", ErrInvalidBlockProof, err)
	}

	proof := &Proof{ProofFor: proofFor, Root: envelope.Root}
	for i, wire := range envelope.Signatures {
		signature, err := wire.toSignature()
		if err != nil {
			return nil, fmt.Errorf("%w: signature %d: %w", ErrInvalidBlockProof, i, err)
		}
		proof.Signatures = append(proof.Signatures, signature)
	}

	if proof.ProofFor != id {
		return nil, fmt.Errorf("%w: proof is for %s", ErrProofForAnotherBlock, proof.ProofFor)
	}

	if !isLink && (!id.IsMasterchain() || proof.IsLink()) {
		return nil, fmt.Errorf("%w: %s", ErrProofForNonMasterchainBlock, id.ShortString())
	}
	if isLink && !proof.IsLink() {
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedFullProof, id.ShortString())
	}

	if rootHash := binhash.Sum(proof.Root); rootHash != id.RootHash {
		return nil, fmt.Errorf("%w: proven root hashes to %s, block root is %s", ErrInvalidBlockProof, rootHash, id.RootHash)
	}

	return proof, nil
}
