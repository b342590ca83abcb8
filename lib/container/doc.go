// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package container reads and writes block archive containers.
//
// A container is a flat sequence of named entries behind a 4-byte
// header. All integers are little-endian:
//
//	header:  magic u32 (0xae8fdd01)
//	entry:   magic u16 (0x1e8b) | name length u16 | data length u32
//	         | name bytes (UTF-8) | data bytes
//
// [Reader] walks the entries of an in-memory container without copying:
// every [Entry] payload aliases the buffer passed to [NewReader], so the buffer
// must stay valid (and, for memory-mapped files, mapped) for as long as
// any entry is in use. A trailing fragment shorter than an entry header
// ends the sequence without error, which tolerates archives that a
// writer was still appending to.
//
// [Builder] produces containers. The block archiver never needs to
// write them, but fixtures and the pack command do.
package container
