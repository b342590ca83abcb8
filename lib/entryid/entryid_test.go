// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package entryid

import (
	"errors"
	"strings"
	"testing"

	"github.com/bureau-foundation/blockarchive/lib/binhash"
	"github.com/bureau-foundation/blockarchive/lib/shard"
)

var (
	zeroHash = strings.Repeat("0", 64)
	onesHash = strings.Repeat("F", 64)
)

func testShard(t *testing.T, workchain int32, prefix uint64) shard.ShardIdent {
	t.Helper()
	ident, err := shard.New(workchain, prefix)
	if err != nil {
		t.Fatalf("shard.New: %v", err)
	}
	return ident
}

func TestRoundTrip(t *testing.T) {
	var ones binhash.Digest
	for i := range ones {
		ones[i] = 0xff
	}

	ids := []shard.BlockID{
		{Shard: shard.Masterchain, Seqno: 0},
		{Shard: shard.Masterchain, Seqno: 4294967295, RootHash: ones, FileHash: ones},
		{Shard: shard.Full(shard.BasechainID), Seqno: 1, RootHash: binhash.Sum([]byte("r")), FileHash: binhash.Sum([]byte("f"))},
		{Shard: testShard(t, shard.BasechainID, 0x0000000000000008), Seqno: 77},
		{Shard: testShard(t, -2147483648, 0x4000000000000000), Seqno: 3},
	}

	for _, block := range ids {
		for _, id := range []ID{Block(block), Proof(block), ProofLink(block)} {
			filename := id.Filename()
			parsed, err := Parse(filename)
			if err != nil {
				t.Fatalf("Parse(%q): %v", filename, err)
			}
			if parsed != id {
				t.Fatalf("Parse(%q) = %+v, want %+v", filename, parsed, id)
			}
			if reencoded := parsed.Filename(); reencoded != filename {
				t.Fatalf("re-encoded %q, want %q", reencoded, filename)
			}
		}
	}
}

func TestFilenameLayout(t *testing.T) {
	id := Block(shard.BlockID{Shard: shard.Masterchain, Seqno: 42, FileHash: binhash.Digest{0xab}})
	want := "block_(-1,8000000000000000,42):" + zeroHash + ":AB" + strings.Repeat("0", 62)
	if got := id.Filename(); got != want {
		t.Errorf("Filename() =\n  %q\nwant\n  %q", got, want)
	}

	if got := ProofLink(id.Block).Filename(); !strings.HasPrefix(got, "prooflink_(") {
		t.Errorf("ProofLink filename = %q", got)
	}
}

func TestParseLowercaseHashes(t *testing.T) {
	name := "block_(0,8000000000000000,5):" + strings.ToLower(onesHash) + ":" + zeroHash
	id, err := Parse(name)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if id.Block.RootHash[0] != 0xff {
		t.Errorf("root hash = %s", id.Block.RootHash)
	}
}

func TestParseErrors(t *testing.T) {
	suffix := ":" + zeroHash + ":" + zeroHash

	tests := []struct {
		name     string
		filename string
		want     error
	}{
		{"no parenthesis", "block_0,8000000000000000,1", ErrInvalidFileName},
		{"unknown prefix", "state_(0,8000000000000000,1)" + suffix, ErrInvalidFileName},
		{"empty prefix", "(0,8000000000000000,1)" + suffix, ErrInvalidFileName},
		{"bad workchain", "block_(x,8000000000000000,1)" + suffix, ErrInvalidWorkchainID},
		{"workchain overflow", "block_(2147483648,8000000000000000,1)" + suffix, ErrInvalidWorkchainID},
		{"missing shard prefix", "block_(0" + suffix, ErrShardPrefixNotFound},
		{"bad shard prefix", "block_(0,zz,1)" + suffix, ErrInvalidShardPrefix},
		{"missing seqno", "block_(0,8000000000000000" + suffix, ErrSeqnoNotFound},
		{"unterminated seqno", "block_(0,8000000000000000,1" + suffix, ErrSeqnoNotFound},
		{"bad seqno", "block_(0,8000000000000000,-1)" + suffix, ErrInvalidSeqno},
		{"seqno overflow", "block_(0,8000000000000000,4294967296)" + suffix, ErrInvalidSeqno},
		{"extra triple field", "block_(0,8000000000000000,1,2)" + suffix, ErrInvalidSeqno},
		{"zero shard prefix", "block_(0,0000000000000000,1)" + suffix, ErrInvalidShardIdent},
		{"too deep shard", "block_(0,0000000000000004,1)" + suffix, ErrInvalidShardIdent},
		{"missing root hash", "block_(0,8000000000000000,1)", ErrRootHashNotFound},
		{"bad root hash", "block_(0,8000000000000000,1):XYZ:" + zeroHash, ErrInvalidRootHash},
		{"short root hash", "block_(0,8000000000000000,1):" + zeroHash[:62] + ":" + zeroHash, ErrInvalidRootHash},
		{"missing file hash", "block_(0,8000000000000000,1):" + zeroHash, ErrFileHashNotFound},
		{"bad file hash", "block_(0,8000000000000000,1):" + zeroHash + ":nothex", ErrInvalidFileHash},
		{"trailing component", "block_(0,8000000000000000,1)" + suffix + ":extra", ErrInvalidFileHash},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := Parse(test.filename)
			if !errors.Is(err, test.want) {
				t.Fatalf("Parse(%q) error = %v, want %v", test.filename, err, test.want)
			}
		})
	}
}

func TestInvalidShardIdentWrapsShardError(t *testing.T) {
	_, err := Parse("block_(0,0000000000000000,1):" + zeroHash + ":" + zeroHash)
	if !errors.Is(err, shard.ErrInvalidShardIdent) {
		t.Errorf("error = %v, want it to wrap shard.ErrInvalidShardIdent", err)
	}
}

func TestKindString(t *testing.T) {
	for kind, want := range map[Kind]string{
		KindBlock:     "block",
		KindProof:     "proof",
		KindProofLink: "prooflink",
		Kind(0):       "unknown(0)",
	} {
		if got := kind.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", uint8(kind), got, want)
		}
	}
	if Kind(9).Prefix() != "" {
		t.Error("unknown kind has a prefix")
	}
}

func TestKindText(t *testing.T) {
	for _, kind := range []Kind{KindBlock, KindProof, KindProofLink} {
		text, err := kind.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%s): %v", kind, err)
		}
		var decoded Kind
		if err := decoded.UnmarshalText(text); err != nil {
			t.Fatalf("UnmarshalText(%q): %v", text, err)
		}
		if decoded != kind {
			t.Errorf("UnmarshalText(%q) = %s, want %s", text, decoded, kind)
		}
	}

	var decoded Kind
	if err := decoded.UnmarshalText([]byte("state")); err == nil {
		t.Error("UnmarshalText(state) succeeded")
	}
}
