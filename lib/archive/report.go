// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"fmt"
	"maps"
	"slices"

	"github.com/bureau-foundation/blockarchive/lib/shard"
)

// Report lists the notable blocks of an archive. Every list is sorted
// by block id.
type Report struct {
	KeyBlocks   []shard.BlockID `json:"key_blocks"`
	Merges      []shard.BlockID `json:"merges"`
	Splits      []shard.BlockID `json:"splits"`
	FirstBlocks []shard.BlockID `json:"first_blocks"`
	LastBlocks  []shard.BlockID `json:"last_blocks"`
}

// Summarize builds a Report from the decoded block headers. Every
// block needs both its data and its proof.
//
// First and last blocks are seeded from the lowest and highest
// masterchain blocks: the masterchain block itself and every shard top
// it describes. Blocks of a seeded shard then lower the first entry or
// raise the last one. Shards that appear only in the middle of the
// archive are not reported.
func Summarize(d *Data) (*Report, error) {
	report := &Report{}

	first := map[shard.ShardIdent]shard.BlockID{}
	if lowest, ok := d.LowestMasterchainID(); ok {
		tops, err := d.shardTops(lowest)
		if err != nil {
			return nil, fmt.Errorf("invalid masterchain block %s: %w", lowest, err)
		}
		first = tops
	}
	last := map[shard.ShardIdent]shard.BlockID{}
	if highest, ok := d.HighestMasterchainID(); ok {
		tops, err := d.shardTops(highest)
		if err != nil {
			return nil, fmt.Errorf("invalid masterchain block %s: %w", highest, err)
		}
		last = tops
	}

	for id := range d.Blocks() {
		record, err := d.Get(id)
		if err != nil {
			return nil, fmt.Errorf("missing data for block %s: %w", id, err)
		}
		info := record.Block.Info
		if info.KeyBlock {
			report.KeyBlocks = append(report.KeyBlocks, id)
		}
		if info.AfterMerge {
			report.Merges = append(report.Merges, id)
		}
		if info.AfterSplit {
			report.Splits = append(report.Splits, id)
		}

		if current, ok := first[id.Shard]; ok && id.Seqno < current.Seqno {
			first[id.Shard] = id
		}
		if current, ok := last[id.Shard]; ok && id.Seqno > current.Seqno {
			last[id.Shard] = id
		}
	}

	report.FirstBlocks = sortedIDs(first)
	report.LastBlocks = sortedIDs(last)
	return report, nil
}

// shardTops maps the masterchain block and every shard it describes
// to the described block.
func (d *Data) shardTops(masterchainID shard.BlockID) (map[shard.ShardIdent]shard.BlockID, error) {
	record, err := d.Get(masterchainID)
	if err != nil {
		return nil, err
	}

	tops := map[shard.ShardIdent]shard.BlockID{masterchainID.Shard: masterchainID}
	for _, descr := range record.Block.Shards {
		tops[descr.Shard] = descr.BlockID()
	}
	return tops, nil
}

func sortedIDs(ids map[shard.ShardIdent]shard.BlockID) []shard.BlockID {
	return slices.SortedFunc(maps.Values(ids), shard.BlockID.Compare)
}

// IsEmpty reports whether the report lists nothing.
func (r *Report) IsEmpty() bool {
	return len(r.KeyBlocks) == 0 && len(r.Merges) == 0 && len(r.Splits) == 0 &&
		len(r.FirstBlocks) == 0 && len(r.LastBlocks) == 0
}
