// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"errors"
	"fmt"

	"github.com/bureau-foundation/blockarchive/lib/shard"
)

var (
	// ErrInvalidPackage wraps container format errors.
	ErrInvalidPackage = errors.New("invalid package")

	// ErrInvalidPackageEntryID wraps entry name errors.
	ErrInvalidPackageEntryID = errors.New("invalid package entry id")

	// ErrEmptyArchive is returned by Check when the archive holds no
	// masterchain blocks.
	ErrEmptyArchive = errors.New("empty archive")

	// ErrInconsistentMasterchainBlocks is returned by Check when the
	// masterchain seqnos have a gap.
	ErrInconsistentMasterchainBlocks = errors.New("inconsistent masterchain blocks")

	// ErrInconsistentShardchainBlock matches every
	// *InconsistentShardchainBlockError.
	ErrInconsistentShardchainBlock = errors.New("inconsistent shardchain block")

	// ErrBlockDataNotFound is returned by Get when the block side of a
	// record is missing.
	ErrBlockDataNotFound = errors.New("block not found in archive")

	// ErrBlockProofNotFound is returned by Get when the proof side of
	// a record is missing.
	ErrBlockProofNotFound = errors.New("block proof not found in archive")
)

// InconsistentShardchainBlockError reports a shardchain block whose
// predecessor is neither in its own shard nor one level away in the
// shard tree.
type InconsistentShardchainBlockError struct {
	Shard shard.ShardIdent
	Seqno uint32
}

func (e *InconsistentShardchainBlockError) Error() string {
	return fmt.Sprintf("inconsistent shardchain block %s:%d", e.Shard, e.Seqno)
}

// Is matches ErrInconsistentShardchainBlock.
func (e *InconsistentShardchainBlockError) Is(target error) bool {
	return target == ErrInconsistentShardchainBlock
}
