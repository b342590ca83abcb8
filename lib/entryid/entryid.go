// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package entryid

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bureau-foundation/blockarchive/lib/binhash"
	"github.com/bureau-foundation/blockarchive/lib/shard"
)

// Kind is the type of payload an entry carries.
type Kind uint8

const (
	// KindBlock is a serialized block.
	KindBlock Kind = iota + 1

	// KindProof is a full block proof. Valid for masterchain blocks.
	KindProof

	// KindProofLink is a proof link. Valid for shardchain blocks.
	KindProofLink
)

const (
	blockPrefix     = "block_"
	proofPrefix     = "proof_"
	proofLinkPrefix = "prooflink_"
)

// Prefix returns the filename prefix of the kind.
func (k Kind) Prefix() string {
	switch k {
	case KindBlock:
		return blockPrefix
	case KindProof:
		return proofPrefix
	case KindProofLink:
		return proofLinkPrefix
	default:
		return ""
	}
}

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindBlock:
		return "block"
	case KindProof:
		return "proof"
	case KindProofLink:
		return "prooflink"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(k))
	}
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind name written by MarshalText.
func (k *Kind) UnmarshalText(text []byte) error {
	kind, ok := kindForPrefix(string(text) + "_")
	if !ok {
		return fmt.Errorf("unknown entry kind %q", text)
	}
	*k = kind
	return nil
}

func kindForPrefix(prefix string) (Kind, bool) {
	switch prefix {
	case blockPrefix:
		return KindBlock, true
	case proofPrefix:
		return KindProof, true
	case proofLinkPrefix:
		return KindProofLink, true
	default:
		return 0, false
	}
}

// Parse errors. Each names the component of the filename that is
// missing or malformed.
var (
	ErrInvalidFileName     = errors.New("invalid filename")
	ErrShardIDNotFound     = errors.New("shard id not found")
	ErrWorkchainIDNotFound = errors.New("workchain id not found")
	ErrInvalidWorkchainID  = errors.New("invalid workchain id")
	ErrShardPrefixNotFound = errors.New("shard prefix not found")
	ErrInvalidShardPrefix  = errors.New("invalid shard prefix")
	ErrInvalidShardIdent   = errors.New("invalid shard ident")
	ErrSeqnoNotFound       = errors.New("seqno not found")
	ErrInvalidSeqno        = errors.New("invalid seqno")
	ErrRootHashNotFound    = errors.New("root hash not found")
	ErrInvalidRootHash     = errors.New("invalid root hash")
	ErrFileHashNotFound    = errors.New("file hash not found")
	ErrInvalidFileHash     = errors.New("invalid file hash")
)

// ID is a kinded block identifier.
type ID struct {
	Kind  Kind          `json:"kind"`
	Block shard.BlockID `json:"block"`
}

// Block returns the identifier of a block entry.
func Block(id shard.BlockID) ID { return ID{Kind: KindBlock, Block: id} }

// Proof returns the identifier of a proof entry.
func Proof(id shard.BlockID) ID { return ID{Kind: KindProof, Block: id} }

// ProofLink returns the identifier of a proof link entry.
func ProofLink(id shard.BlockID) ID { return ID{Kind: KindProofLink, Block: id} }

// Filename returns the canonical entry name.
func (id ID) Filename() string {
	return id.Kind.Prefix() + BlockFilename(id.Block)
}

// String is Filename.
func (id ID) String() string {
	return id.Filename()
}

// BlockFilename formats the kind-independent part of an entry name.
func BlockFilename(id shard.BlockID) string {
	return fmt.Sprintf("(%d,%016x,%d):%s:%s",
		id.Shard.Workchain(),
		id.Shard.Prefix(),
		id.Seqno,
		binhash.FormatDigest(id.RootHash),
		binhash.FormatDigest(id.FileHash),
	)
}

// Parse decodes an entry filename. Errors wrap one of the sentinel
// errors of this package.
func Parse(filename string) (ID, error) {
	position := strings.IndexByte(filename, '(')
	if position < 0 {
		return ID{}, parseError(filename, ErrInvalidFileName)
	}
	kind, ok := kindForPrefix(filename[:position])
	if !ok {
		return ID{}, parseError(filename, ErrInvalidFileName)
	}

	block, err := parseBlockID(filename[position:])
	if err != nil {
		return ID{}, fmt.Errorf("parsing entry name %q: %w", filename, err)
	}
	return ID{Kind: kind, Block: block}, nil
}

func parseError(filename string, err error) error {
	return fmt.Errorf("parsing entry name %q: %w", filename, err)
}

// parseBlockID decodes "(wc,prefix,seqno):ROOT:FILE". Anything after
// the file hash makes the file hash invalid rather than being ignored,
// so Parse accepts exactly the names Filename produces.
func parseBlockID(text string) (shard.BlockID, error) {
	parts := strings.SplitN(text, ":", 3)
	if parts[0] == "" {
		return shard.BlockID{}, ErrShardIDNotFound
	}

	triple := strings.SplitN(parts[0], ",", 3)

	workchainText, ok := strings.CutPrefix(triple[0], "(")
	if !ok {
		return shard.BlockID{}, ErrWorkchainIDNotFound
	}
	workchain, err := strconv.ParseInt(workchainText, 10, 32)
	if err != nil {
		return shard.BlockID{}, fmt.Errorf("%w: %q", ErrInvalidWorkchainID, workchainText)
	}

	if len(triple) < 2 {
		return shard.BlockID{}, ErrShardPrefixNotFound
	}
	prefix, err := strconv.ParseUint(triple[1], 16, 64)
	if err != nil {
		return shard.BlockID{}, fmt.Errorf("%w: %q", ErrInvalidShardPrefix, triple[1])
	}

	if len(triple) < 3 {
		return shard.BlockID{}, ErrSeqnoNotFound
	}
	seqnoText, ok := strings.CutSuffix(triple[2], ")")
	if !ok {
		return shard.BlockID{}, ErrSeqnoNotFound
	}
	seqno, err := strconv.ParseUint(seqnoText, 10, 32)
	if err != nil {
		return shard.BlockID{}, fmt.Errorf("%w: %q", ErrInvalidSeqno, seqnoText)
	}

	shardIdent, err := shard.New(int32(workchain), prefix)
	if err != nil {
		return shard.BlockID{}, fmt.Errorf("%w: %w", ErrInvalidShardIdent, err)
	}

	if len(parts) < 2 {
		return shard.BlockID{}, ErrRootHashNotFound
	}
	rootHash, err := binhash.ParseDigest(parts[1])
	if err != nil {
		return shard.BlockID{}, fmt.Errorf("%w: %w", ErrInvalidRootHash, err)
	}

	if len(parts) < 3 {
		return shard.BlockID{}, ErrFileHashNotFound
	}
	fileHash, err := binhash.ParseDigest(parts[2])
	if err != nil {
		return shard.BlockID{}, fmt.Errorf("%w: %w", ErrInvalidFileHash, err)
	}

	return shard.BlockID{
		Shard:    shardIdent,
		Seqno:    uint32(seqno),
		RootHash: rootHash,
		FileHash: fileHash,
	}, nil
}
