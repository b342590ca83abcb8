// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package archivewalk finds archive files in a directory tree.
//
// Archive files are named after the lowest masterchain seqno they hold,
// in decimal, optionally zero-padded ("00012345678"). Files whose names
// do not parse, or whose seqno falls outside the [Filter], are reported
// to the caller and left out of the result.
package archivewalk

import (
	"cmp"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
)

var (
	// ErrNotSeqno is reported for files whose name is not a decimal
	// seqno.
	ErrNotSeqno = errors.New("file name is not a masterchain seqno")

	// ErrOutOfRange is reported for files whose seqno is outside the
	// filter range.
	ErrOutOfRange = errors.New("seqno outside the configured range")
)

// Archive is one archive file found by Walk.
type Archive struct {
	Path  string `json:"path"`
	Seqno uint64 `json:"seqno"`
}

// Filter restricts the seqnos Walk accepts. MaxSeqno zero means no
// upper bound.
type Filter struct {
	MinSeqno uint64
	MaxSeqno uint64
}

// Contains reports whether seqno passes the filter.
func (f Filter) Contains(seqno uint64) bool {
	if seqno < f.MinSeqno {
		return false
	}
	return f.MaxSeqno == 0 || seqno <= f.MaxSeqno
}

// RejectFunc receives every regular file Walk leaves out, with the
// reason (ErrNotSeqno or ErrOutOfRange).
type RejectFunc func(path string, reason error)

// ParseName returns the seqno an archive file name encodes.
func ParseName(name string) (uint64, error) {
	digits := strings.TrimLeft(name, "0")
	if digits == "" && name != "" {
		digits = "0"
	}
	// ParseUint accepts a leading "+", which is not a seqno.
	if digits == "" || digits[0] < '0' || digits[0] > '9' {
		return 0, fmt.Errorf("%w: %q", ErrNotSeqno, name)
	}
	seqno, err := strconv.ParseUint(digits, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrNotSeqno, name)
	}
	return seqno, nil
}

// Walk returns the archive files under root sorted by seqno. Files
// with equal seqnos in different directories are ordered by path. A
// nil reject discards rejected files silently.
func Walk(root string, filter Filter, reject RejectFunc) ([]Archive, error) {
	var archives []Archive

	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !entry.Type().IsRegular() {
			return nil
		}

		seqno, err := ParseName(entry.Name())
		if err == nil && !filter.Contains(seqno) {
			err = fmt.Errorf("%w: %d", ErrOutOfRange, seqno)
		}
		if err != nil {
			if reject != nil {
				reject(path, err)
			}
			return nil
		}

		archives = append(archives, Archive{Path: path, Seqno: seqno})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}

	slices.SortFunc(archives, func(a, b Archive) int {
		if c := cmp.Compare(a.Seqno, b.Seqno); c != 0 {
			return c
		}
		return strings.Compare(a.Path, b.Path)
	})
	return archives, nil
}
