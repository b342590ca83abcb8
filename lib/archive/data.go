// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"fmt"
	"iter"
	"sync"

	"github.com/google/btree"

	"github.com/bureau-foundation/blockarchive/lib/blockcodec"
	"github.com/bureau-foundation/blockarchive/lib/rawarchive"
	"github.com/bureau-foundation/blockarchive/lib/shard"
)

// btreeDegree is the branching factor of both indexes. Archives hold a
// few thousand entries at most.
const btreeDegree = 16

// Record is everything the archive holds for one block. Either side
// may be missing.
type Record struct {
	Block     *blockcodec.Block
	BlockData []byte
	Proof     *blockcodec.Proof
	ProofData []byte
}

type masterchainItem struct {
	seqno uint32
	id    shard.BlockID
}

type blockItem struct {
	id     shard.BlockID
	record *Record
}

// Data is an assembled archive. It is read-only once Assemble returns
// and safe for concurrent readers.
type Data struct {
	masterchain *btree.BTreeG[masterchainItem]
	blocks      *btree.BTreeG[blockItem]

	buffer    *rawarchive.Buffer
	closeOnce sync.Once
	closeErr  error
}

func newData() *Data {
	return &Data{
		masterchain: btree.NewG(btreeDegree, func(a, b masterchainItem) bool {
			return a.seqno < b.seqno
		}),
		blocks: btree.NewG(btreeDegree, func(a, b blockItem) bool {
			return a.id.Less(b.id)
		}),
	}
}

// record returns the record for id, creating it on first use.
func (d *Data) record(id shard.BlockID) *Record {
	if item, ok := d.blocks.Get(blockItem{id: id}); ok {
		return item.record
	}
	record := &Record{}
	d.blocks.ReplaceOrInsert(blockItem{id: id, record: record})
	return record
}

// registerMasterchain maps a masterchain seqno to its block id. A
// second registration of the same seqno replaces the first, so the
// index never counts a seqno twice.
func (d *Data) registerMasterchain(id shard.BlockID) {
	d.masterchain.ReplaceOrInsert(masterchainItem{seqno: id.Seqno, id: id})
}

// Len returns the number of distinct block ids in the archive.
func (d *Data) Len() int {
	return d.blocks.Len()
}

// MasterchainLen returns the number of distinct masterchain seqnos.
func (d *Data) MasterchainLen() int {
	return d.masterchain.Len()
}

// LowestMasterchainID returns the masterchain block with the smallest
// seqno.
func (d *Data) LowestMasterchainID() (shard.BlockID, bool) {
	item, ok := d.masterchain.Min()
	return item.id, ok
}

// HighestMasterchainID returns the masterchain block with the largest
// seqno.
func (d *Data) HighestMasterchainID() (shard.BlockID, bool) {
	item, ok := d.masterchain.Max()
	return item.id, ok
}

// MasterchainID returns the masterchain block registered for seqno.
func (d *Data) MasterchainID(seqno uint32) (shard.BlockID, bool) {
	item, ok := d.masterchain.Get(masterchainItem{seqno: seqno})
	return item.id, ok
}

// MasterchainIDs yields masterchain block ids in seqno order.
func (d *Data) MasterchainIDs() iter.Seq[shard.BlockID] {
	return func(yield func(shard.BlockID) bool) {
		d.masterchain.Ascend(func(item masterchainItem) bool {
			return yield(item.id)
		})
	}
}

// Blocks yields every record in (shard, seqno) order.
func (d *Data) Blocks() iter.Seq2[shard.BlockID, *Record] {
	return func(yield func(shard.BlockID, *Record) bool) {
		d.blocks.Ascend(func(item blockItem) bool {
			return yield(item.id, item.record)
		})
	}
}

// ShardBlocks yields the records of one shard in seqno order.
func (d *Data) ShardBlocks(ident shard.ShardIdent) iter.Seq2[shard.BlockID, *Record] {
	return func(yield func(shard.BlockID, *Record) bool) {
		start := blockItem{id: shard.BlockID{Shard: ident}}
		d.blocks.AscendGreaterOrEqual(start, func(item blockItem) bool {
			if item.id.Shard != ident {
				return false
			}
			return yield(item.id, item.record)
		})
	}
}

// Lookup returns the record for id, whatever it contains.
func (d *Data) Lookup(id shard.BlockID) (*Record, bool) {
	item, ok := d.blocks.Get(blockItem{id: id})
	return item.record, ok
}

// Get returns the record for id, requiring both the block and the
// proof to be present.
func (d *Data) Get(id shard.BlockID) (*Record, error) {
	record, ok := d.Lookup(id)
	if !ok || record.Block == nil {
		return nil, fmt.Errorf("%s: %w", id.ShortString(), ErrBlockDataNotFound)
	}
	if record.Proof == nil {
		return nil, fmt.Errorf("%s: %w", id.ShortString(), ErrBlockProofNotFound)
	}
	return record, nil
}

// Close releases the buffer reference taken by AssembleBuffer. Raw
// bytes in records must not be used afterwards. Close is idempotent
// and a no-op for Data built by Assemble.
func (d *Data) Close() error {
	d.closeOnce.Do(func() {
		if d.buffer != nil {
			d.closeErr = d.buffer.Release()
			d.buffer = nil
		}
	})
	return d.closeErr
}
