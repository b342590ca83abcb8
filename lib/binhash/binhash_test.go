// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package binhash

import (
	"crypto/sha256"
	"encoding/json"
	"strings"
	"testing"
)

func TestSum(t *testing.T) {
	content := []byte("masterchain block")
	if got, want := Sum(content), Digest(sha256.Sum256(content)); got != want {
		t.Errorf("Sum = %x, want %x", got, want)
	}
}

func TestFormatDigestUppercase(t *testing.T) {
	digest := Sum([]byte("test"))
	formatted := FormatDigest(digest)
	if length := len(formatted); length != 64 {
		t.Errorf("FormatDigest length = %d, want 64", length)
	}
	if formatted != strings.ToUpper(formatted) {
		t.Errorf("FormatDigest = %q, want uppercase hex", formatted)
	}
	if digest.String() != formatted {
		t.Errorf("String() = %q, want %q", digest.String(), formatted)
	}
}

func TestParseDigestRoundTrip(t *testing.T) {
	for _, original := range []Digest{{}, Sum([]byte("round-trip")), allOnes()} {
		parsed, err := ParseDigest(FormatDigest(original))
		if err != nil {
			t.Fatalf("ParseDigest: %v", err)
		}
		if parsed != original {
			t.Errorf("ParseDigest round-trip failed: %x != %x", parsed, original)
		}
	}
}

func TestParseDigestLowercase(t *testing.T) {
	original := Sum([]byte("lower"))
	parsed, err := ParseDigest(strings.ToLower(FormatDigest(original)))
	if err != nil {
		t.Fatalf("ParseDigest: %v", err)
	}
	if parsed != original {
		t.Errorf("ParseDigest(lowercase) = %x, want %x", parsed, original)
	}
}

func TestParseDigestInvalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not hex", strings.Repeat("z", 64)},
		{"too short", "abcd"},
		{"too long", strings.Repeat("ab", 33)},
		{"empty", ""},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if _, err := ParseDigest(test.input); err == nil {
				t.Errorf("ParseDigest(%q) should fail", test.input)
			}
		})
	}
}

func TestDigestCompare(t *testing.T) {
	low := Digest{}
	high := allOnes()
	if low.Compare(high) >= 0 || high.Compare(low) <= 0 || low.Compare(low) != 0 {
		t.Errorf("Compare ordering broken")
	}
	if !low.IsZero() || high.IsZero() {
		t.Errorf("IsZero: zero=%v ones=%v", low.IsZero(), high.IsZero())
	}
}

func TestDigestJSON(t *testing.T) {
	digest := Sum([]byte("json"))
	encoded, err := json.Marshal(digest)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if want := `"` + FormatDigest(digest) + `"`; string(encoded) != want {
		t.Errorf("Marshal = %s, want %s", encoded, want)
	}

	var decoded Digest
	if err := json.Unmarshal(encoded, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded != digest {
		t.Errorf("Unmarshal = %x, want %x", decoded, digest)
	}
}

func allOnes() Digest {
	var digest Digest
	for i := range digest {
		digest[i] = 0xff
	}
	return digest
}
