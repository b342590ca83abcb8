// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides the CBOR configuration shared by the block
// envelope codec and the archive store manifests.
//
// The encoder uses Core Deterministic Encoding (RFC 8949 §4.2): sorted
// map keys, smallest integer encoding, no indefinite-length items.
// Same logical data always produces identical bytes, which matters
// here because block root hashes and file hashes are computed over
// encoded bytes.
//
// The decoder is strict. Unknown struct fields and duplicate map keys
// are errors rather than being skipped, so two different byte strings
// can never decode to the same block.
//
//	data, err := codec.Marshal(value)
//	err = codec.Unmarshal(data, &value)
//
// Types serialized only as CBOR carry `cbor` struct tags. Types that
// also appear in CLI --json output carry `json` tags, which
// fxamacker/cbor reads when `cbor` tags are absent. Never put both on
// the same field.
package codec
