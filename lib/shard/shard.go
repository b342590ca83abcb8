// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package shard

import (
	"cmp"
	"errors"
	"fmt"
	"math/bits"
	"strconv"
	"strings"
)

const (
	// MasterchainID is the reserved workchain of the masterchain.
	MasterchainID int32 = -1

	// BasechainID is the default workchain for ordinary shardchains.
	BasechainID int32 = 0

	// FullPrefix is the tagged prefix of a workchain root.
	FullPrefix uint64 = 1 << 63

	// MaxDepth is the deepest split allowed in the shard tree.
	MaxDepth = 60
)

var (
	// ErrInvalidShardIdent is returned when a tagged prefix does not
	// encode a node of the shard tree.
	ErrInvalidShardIdent = errors.New("invalid shard ident")

	// ErrMaxDepth is returned by Split on a shard at MaxDepth.
	ErrMaxDepth = errors.New("shard is already at maximum depth")

	// ErrRootShard is returned by Merge on a workchain root.
	ErrRootShard = errors.New("shard is already a workchain root")
)

// Masterchain is the single shard of the masterchain workchain.
var Masterchain = ShardIdent{workchain: MasterchainID, prefix: FullPrefix}

// ShardIdent identifies a shard by workchain and tagged prefix. The
// zero value is not a valid shard; construct with [New] or [Full].
type ShardIdent struct {
	workchain int32
	prefix    uint64
}

// New validates a tagged prefix and returns the shard. The prefix must
// be non-zero and its marker bit must not sit deeper than MaxDepth.
func New(workchain int32, prefix uint64) (ShardIdent, error) {
	if !isValidPrefix(prefix) {
		return ShardIdent{}, fmt.Errorf("%w: workchain %d, prefix %016x", ErrInvalidShardIdent, workchain, prefix)
	}
	return ShardIdent{workchain: workchain, prefix: prefix}, nil
}

// Full returns the root shard of a workchain.
func Full(workchain int32) ShardIdent {
	return ShardIdent{workchain: workchain, prefix: FullPrefix}
}

func isValidPrefix(prefix uint64) bool {
	return prefix != 0 && 63-bits.TrailingZeros64(prefix) <= MaxDepth
}

// Workchain returns the workchain number.
func (s ShardIdent) Workchain() int32 { return s.workchain }

// Prefix returns the tagged prefix, marker bit included.
func (s ShardIdent) Prefix() uint64 { return s.prefix }

// Depth returns the number of splits between the workchain root and
// this shard.
func (s ShardIdent) Depth() int {
	return 63 - bits.TrailingZeros64(s.prefix)
}

// IsMasterchain reports whether the shard belongs to the masterchain.
func (s ShardIdent) IsMasterchain() bool {
	return s.workchain == MasterchainID
}

// IsFull reports whether the shard is a workchain root.
func (s ShardIdent) IsFull() bool {
	return s.prefix == FullPrefix
}

// IsValid reports whether the shard was constructed from a legal
// prefix. The zero ShardIdent is not valid.
func (s ShardIdent) IsValid() bool {
	return isValidPrefix(s.prefix)
}

func (s ShardIdent) tag() uint64 {
	return s.prefix & -s.prefix
}

// Split returns the two children of the shard, left (next path bit 0)
// first.
func (s ShardIdent) Split() (ShardIdent, ShardIdent, error) {
	if !s.IsValid() {
		return ShardIdent{}, ShardIdent{}, fmt.Errorf("splitting %s: %w", s, ErrInvalidShardIdent)
	}
	if s.Depth() >= MaxDepth {
		return ShardIdent{}, ShardIdent{}, fmt.Errorf("splitting %s: %w", s, ErrMaxDepth)
	}
	half := s.tag() >> 1
	left := ShardIdent{workchain: s.workchain, prefix: s.prefix - half}
	right := ShardIdent{workchain: s.workchain, prefix: s.prefix + half}
	return left, right, nil
}

// Merge returns the parent of the shard.
func (s ShardIdent) Merge() (ShardIdent, error) {
	if !s.IsValid() {
		return ShardIdent{}, fmt.Errorf("merging %s: %w", s, ErrInvalidShardIdent)
	}
	if s.IsFull() {
		return ShardIdent{}, fmt.Errorf("merging %s: %w", s, ErrRootShard)
	}
	tag := s.tag()
	parentTag := tag << 1
	return ShardIdent{
		workchain: s.workchain,
		prefix:    (s.prefix &^ (tag | parentTag)) | parentTag,
	}, nil
}

// IsParentOf reports whether child is one of the two direct children
// of s.
func (s ShardIdent) IsParentOf(child ShardIdent) bool {
	if child.workchain != s.workchain || child.IsFull() {
		return false
	}
	parent, err := child.Merge()
	return err == nil && parent == s
}

// Compare orders shards by workchain, then prefix.
func (s ShardIdent) Compare(other ShardIdent) int {
	if c := cmp.Compare(s.workchain, other.workchain); c != 0 {
		return c
	}
	return cmp.Compare(s.prefix, other.prefix)
}

// String formats the shard as "workchain:prefix" with a 16-digit hex
// prefix.
func (s ShardIdent) String() string {
	return fmt.Sprintf("%d:%016x", s.workchain, s.prefix)
}

// MarshalText encodes the shard in its String form.
func (s ShardIdent) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses the String form.
func (s *ShardIdent) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Parse parses the "workchain:prefix" form produced by String.
func Parse(text string) (ShardIdent, error) {
	workchainText, prefixText, found := strings.Cut(text, ":")
	if !found {
		return ShardIdent{}, fmt.Errorf("%w: %q is not workchain:prefix", ErrInvalidShardIdent, text)
	}
	workchain, err := strconv.ParseInt(workchainText, 10, 32)
	if err != nil {
		return ShardIdent{}, fmt.Errorf("%w: workchain %q: %v", ErrInvalidShardIdent, workchainText, err)
	}
	prefix, err := strconv.ParseUint(prefixText, 16, 64)
	if err != nil {
		return ShardIdent{}, fmt.Errorf("%w: prefix %q: %v", ErrInvalidShardIdent, prefixText, err)
	}
	return New(int32(workchain), prefix)
}
