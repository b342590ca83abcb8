// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"fmt"
	"slices"

	"github.com/bureau-foundation/blockarchive/lib/shard"
)

// Check verifies masterchain contiguity and then shardchain contiguity.
// It looks only at block ids, never at payloads.
func (d *Data) Check() error {
	lowest, ok := d.LowestMasterchainID()
	if !ok {
		return ErrEmptyArchive
	}
	highest, _ := d.HighestMasterchainID()

	span := uint64(highest.Seqno) - uint64(lowest.Seqno) + 1
	if uint64(d.masterchain.Len()) != span {
		return fmt.Errorf("%w: %d blocks between seqno %d and %d",
			ErrInconsistentMasterchainBlocks, d.masterchain.Len(), lowest.Seqno, highest.Seqno)
	}

	seqnos := d.shardSeqnos()
	for _, ident := range sortedShards(seqnos) {
		list := seqnos[ident]
		for i := 1; i < len(list); i++ {
			previous, next := list[i-1], list[i]
			if next == previous+1 {
				continue
			}
			if !containsPredecessor(seqnos, ident, next-1) {
				return &InconsistentShardchainBlockError{Shard: ident, Seqno: next}
			}
		}
	}
	return nil
}

// shardSeqnos groups the seqnos of every block by shard. Each list is
// sorted and free of duplicates; ids that differ only in hashes
// collapse to one seqno.
func (d *Data) shardSeqnos() map[shard.ShardIdent][]uint32 {
	seqnos := make(map[shard.ShardIdent][]uint32)
	for id := range d.Blocks() {
		list := seqnos[id.Shard]
		if n := len(list); n > 0 && list[n-1] == id.Seqno {
			continue
		}
		seqnos[id.Shard] = append(list, id.Seqno)
	}
	return seqnos
}

func sortedShards(seqnos map[shard.ShardIdent][]uint32) []shard.ShardIdent {
	shards := make([]shard.ShardIdent, 0, len(seqnos))
	for ident := range seqnos {
		shards = append(shards, ident)
	}
	slices.SortFunc(shards, shard.ShardIdent.Compare)
	return shards
}

// containsPredecessor reports whether seqno exists one level away from
// ident in the shard tree: in either child (the children merged into
// ident) or in the parent (the parent split into ident).
func containsPredecessor(seqnos map[shard.ShardIdent][]uint32, ident shard.ShardIdent, seqno uint32) bool {
	if left, right, err := ident.Split(); err == nil {
		if containsSeqno(seqnos[left], seqno) || containsSeqno(seqnos[right], seqno) {
			return true
		}
	}
	if parent, err := ident.Merge(); err == nil {
		if containsSeqno(seqnos[parent], seqno) {
			return true
		}
	}
	return false
}

func containsSeqno(list []uint32, seqno uint32) bool {
	_, found := slices.BinarySearch(list, seqno)
	return found
}
