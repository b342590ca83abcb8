// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"fmt"
	"log/slog"

	"github.com/bureau-foundation/blockarchive/lib/blockcodec"
	"github.com/bureau-foundation/blockarchive/lib/container"
	"github.com/bureau-foundation/blockarchive/lib/entryid"
	"github.com/bureau-foundation/blockarchive/lib/rawarchive"
	"github.com/bureau-foundation/blockarchive/lib/shard"
)

// Decoder verifies and decodes entry payloads. Implementations must
// check the file hash of block data, the root hash of the decoded
// structure, and that a proof names exactly the block it is stored
// under. [blockcodec.Decoder] is the standard implementation.
type Decoder interface {
	DecodeBlock(id shard.BlockID, data []byte) (*blockcodec.Block, error)
	DecodeProof(id shard.BlockID, data []byte, isLink bool) (*blockcodec.Proof, error)
}

// Assembler builds Data from archive bytes.
type Assembler struct {
	// Decoder verifies payloads. Nil means blockcodec.Decoder.
	Decoder Decoder

	// Logger receives a debug record for every skipped entry. Nil
	// discards them.
	Logger *slog.Logger
}

// Assemble builds Data from an in-memory archive. A nil decoder means
// blockcodec.Decoder. Records alias data.
func Assemble(data []byte, decoder Decoder) (*Data, error) {
	return (&Assembler{Decoder: decoder}).Assemble(data)
}

// AssembleBuffer builds Data from buffer and retains it until the
// Data is closed.
func AssembleBuffer(buffer *rawarchive.Buffer, decoder Decoder) (*Data, error) {
	return (&Assembler{Decoder: decoder}).AssembleBuffer(buffer)
}

// AssembleBuffer is Assemble over a rawarchive.Buffer. On success the
// Data holds a reference to the buffer; on failure no reference is
// kept.
func (a *Assembler) AssembleBuffer(buffer *rawarchive.Buffer) (*Data, error) {
	buffer.Retain()
	data, err := a.Assemble(buffer.Bytes())
	if err != nil {
		buffer.Release()
		return nil, fmt.Errorf("%s: %w", buffer.Name(), err)
	}
	data.buffer = buffer
	return data, nil
}

// Assemble reads every entry of the archive. The first malformed entry
// aborts assembly.
func (a *Assembler) Assemble(raw []byte) (*Data, error) {
	decoder := a.Decoder
	if decoder == nil {
		decoder = blockcodec.Decoder{}
	}

	reader, err := container.NewReader(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPackage, err)
	}

	data := newData()
	for entry, err := range reader.All() {
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidPackage, err)
		}

		id, err := entryid.Parse(entry.Name)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidPackageEntryID, err)
		}

		if err := a.addEntry(data, decoder, id, entry.Data); err != nil {
			return nil, fmt.Errorf("entry %s: %w", entry.Name, err)
		}
	}
	return data, nil
}

func (a *Assembler) addEntry(data *Data, decoder Decoder, id entryid.ID, payload []byte) error {
	block := id.Block
	switch {
	case id.Kind == entryid.KindBlock:
		decoded, err := decoder.DecodeBlock(block, payload)
		if err != nil {
			return err
		}
		record := data.record(block)
		record.Block = decoded
		record.BlockData = payload
		if block.IsMasterchain() {
			data.registerMasterchain(block)
		}

	case id.Kind == entryid.KindProof && block.IsMasterchain():
		proof, err := decoder.DecodeProof(block, payload, false)
		if err != nil {
			return err
		}
		record := data.record(block)
		record.Proof = proof
		record.ProofData = payload
		data.registerMasterchain(block)

	case id.Kind == entryid.KindProofLink && !block.IsMasterchain():
		proof, err := decoder.DecodeProof(block, payload, true)
		if err != nil {
			return err
		}
		record := data.record(block)
		record.Proof = proof
		record.ProofData = payload

	default:
		a.logSkip(id)
	}
	return nil
}

func (a *Assembler) logSkip(id entryid.ID) {
	if a.Logger == nil {
		return
	}
	a.Logger.Debug("skipping entry",
		"kind", id.Kind.String(),
		"block", id.Block.ShortString(),
		"masterchain", id.Block.IsMasterchain(),
	)
}
