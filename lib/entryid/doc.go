// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package entryid maps archive entry filenames to typed block
// identifiers and back.
//
// Every entry in a block archive is named after the block it carries:
//
//	block_(0,8000000000000000,4821):<ROOT>:<FILE>
//	proof_(-1,8000000000000000,1007):<ROOT>:<FILE>
//	prooflink_(0,4000000000000000,4822):<ROOT>:<FILE>
//
// The prefix selects the [Kind]; the parenthesized triple is workchain,
// tagged shard prefix (16 hex digits) and seqno; ROOT and FILE are the
// block's root hash and file hash as 64 uppercase hex characters.
//
// [Parse] reports a distinct sentinel error for each field that is
// missing or malformed, so a listing can say exactly what is wrong
// with a name. [ID.Filename] is the exact inverse of Parse.
package entryid
