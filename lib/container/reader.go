// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package container

import (
	"encoding/binary"
	"errors"
	"fmt"
	"iter"
	"unicode/utf8"
)

const (
	// HeaderMagic opens every container.
	HeaderMagic uint32 = 0xae8fdd01

	// EntryMagic opens every entry header.
	EntryMagic uint16 = 0x1e8b

	// HeaderSize is the size of the container header.
	HeaderSize = 4

	// EntryHeaderSize is the size of an entry header: magic, name
	// length, data length.
	EntryHeaderSize = 8

	// MaxNameLength is the largest name an entry header can describe.
	MaxNameLength = 1<<16 - 1

	// MaxDataLength is the largest payload an entry header can describe.
	MaxDataLength = 1<<32 - 1
)

var (
	// ErrUnexpectedEOF is returned when the buffer is too short to
	// hold the container header.
	ErrUnexpectedEOF = errors.New("unexpected end of container")

	// ErrInvalidHeader is returned when the container magic does not
	// match.
	ErrInvalidHeader = errors.New("invalid container header")

	// ErrInvalidEntryHeader is returned when an entry magic does not
	// match.
	ErrInvalidEntryHeader = errors.New("invalid entry header")

	// ErrInvalidEntryName is returned when an entry name is not UTF-8.
	ErrInvalidEntryName = errors.New("invalid entry name")

	// ErrUnexpectedEntryEOF is returned when an entry header declares
	// more bytes than the buffer holds.
	ErrUnexpectedEntryEOF = errors.New("unexpected end of entry")
)

// Entry is one named payload. Data aliases the container buffer; Name
// is a copy, since names are short and outlive the buffer in error
// messages.
type Entry struct {
	Name string
	Data []byte
}

// Reader is a cursor over the entries of a container. It is not safe
// for concurrent use; create one Reader per goroutine over the same
// buffer instead.
type Reader struct {
	data   []byte
	offset int
}

// NewReader validates the container header and returns a Reader
// positioned at the first entry.
func NewReader(data []byte) (*Reader, error) {
	if len(data) < HeaderSize {
		return nil, fmt.Errorf("reading container header: %w", ErrUnexpectedEOF)
	}
	if magic := binary.LittleEndian.Uint32(data); magic != HeaderMagic {
		return nil, fmt.Errorf("%w: magic %08x", ErrInvalidHeader, magic)
	}
	return &Reader{data: data, offset: HeaderSize}, nil
}

// Next returns the next entry. ok is false when no entries remain.
// After an error the Reader stays at the failing entry, so further
// calls return the same error.
func (r *Reader) Next() (entry Entry, ok bool, err error) {
	remaining := len(r.data) - r.offset
	if remaining < EntryHeaderSize {
		return Entry{}, false, nil
	}

	header := r.data[r.offset : r.offset+EntryHeaderSize]
	if magic := binary.LittleEndian.Uint16(header[0:2]); magic != EntryMagic {
		return Entry{}, false, fmt.Errorf("%w: magic %04x at offset %d", ErrInvalidEntryHeader, magic, r.offset)
	}
	nameLength := uint64(binary.LittleEndian.Uint16(header[2:4]))
	dataLength := uint64(binary.LittleEndian.Uint32(header[4:8]))

	// Compare in uint64 against what is left rather than adding to the
	// offset: the sum of a u16 and a u32 cannot wrap a uint64.
	available := uint64(remaining - EntryHeaderSize)
	if nameLength+dataLength > available {
		return Entry{}, false, fmt.Errorf("%w: entry at offset %d declares %d+%d bytes, %d available",
			ErrUnexpectedEntryEOF, r.offset, nameLength, dataLength, available)
	}

	nameStart := r.offset + EntryHeaderSize
	dataStart := nameStart + int(nameLength)
	dataEnd := dataStart + int(dataLength)

	name := r.data[nameStart:dataStart]
	if !utf8.Valid(name) {
		return Entry{}, false, fmt.Errorf("%w: entry at offset %d", ErrInvalidEntryName, r.offset)
	}

	r.offset = dataEnd
	return Entry{
		Name: string(name),
		Data: r.data[dataStart:dataEnd:dataEnd],
	}, true, nil
}

// Offset returns the byte offset of the next entry header.
func (r *Reader) Offset() int {
	return r.offset
}

// Reset rewinds the Reader to the first entry.
func (r *Reader) Reset() {
	r.offset = HeaderSize
}

// All yields the remaining entries. Iteration stops after the first
// error, which is yielded with a zero Entry.
func (r *Reader) All() iter.Seq2[Entry, error] {
	return func(yield func(Entry, error) bool) {
		for {
			entry, ok, err := r.Next()
			if err != nil {
				yield(Entry{}, err)
				return
			}
			if !ok {
				return
			}
			if !yield(entry, nil) {
				return
			}
		}
	}
}

// Entries opens data and yields every entry. A header error is yielded
// before any entry.
func Entries(data []byte) iter.Seq2[Entry, error] {
	return func(yield func(Entry, error) bool) {
		reader, err := NewReader(data)
		if err != nil {
			yield(Entry{}, err)
			return
		}
		reader.All()(yield)
	}
}
