// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package container

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"unicode/utf8"
)

// Builder accumulates entries and writes them as a container. Entries
// are written in the order they were added. The builder keeps
// references to the added data slices; callers must not modify them
// before writing.
//
//	builder := container.NewBuilder()
//	if err := builder.Add(filename, data); err != nil { ... }
//	_, err := builder.WriteTo(file)
type Builder struct {
	entries []Entry
	size    int
}

// NewBuilder creates an empty builder. An empty builder writes a valid
// container holding only the header.
func NewBuilder() *Builder {
	return &Builder{size: HeaderSize}
}

// Add appends an entry. The name must be valid UTF-8 and both lengths
// must fit the entry header fields.
func (b *Builder) Add(name string, data []byte) error {
	if !utf8.ValidString(name) {
		return fmt.Errorf("adding entry %q: %w", name, ErrInvalidEntryName)
	}
	if len(name) > MaxNameLength {
		return fmt.Errorf("adding entry: name is %d bytes, limit %d", len(name), MaxNameLength)
	}
	if uint64(len(data)) > MaxDataLength {
		return fmt.Errorf("adding entry %q: data is %d bytes, limit %d", name, len(data), uint64(MaxDataLength))
	}
	b.entries = append(b.entries, Entry{Name: name, Data: data})
	b.size += EntryHeaderSize + len(name) + len(data)
	return nil
}

// Len returns the number of entries added so far.
func (b *Builder) Len() int {
	return len(b.entries)
}

// Size returns the byte length of the container WriteTo will produce.
func (b *Builder) Size() int {
	return b.size
}

// WriteTo writes the container to w.
func (b *Builder) WriteTo(w io.Writer) (int64, error) {
	var written int64

	var header [HeaderSize]byte
	binary.LittleEndian.PutUint32(header[:], HeaderMagic)
	n, err := w.Write(header[:])
	written += int64(n)
	if err != nil {
		return written, fmt.Errorf("writing container header: %w", err)
	}

	for i, entry := range b.entries {
		var entryHeader [EntryHeaderSize]byte
		binary.LittleEndian.PutUint16(entryHeader[0:2], EntryMagic)
		binary.LittleEndian.PutUint16(entryHeader[2:4], uint16(len(entry.Name)))
		binary.LittleEndian.PutUint32(entryHeader[4:8], uint32(len(entry.Data)))

		for _, part := range [][]byte{entryHeader[:], []byte(entry.Name), entry.Data} {
			n, err := w.Write(part)
			written += int64(n)
			if err != nil {
				return written, fmt.Errorf("writing entry %d (%s): %w", i, entry.Name, err)
			}
		}
	}

	return written, nil
}

// Bytes returns the container as a single buffer.
func (b *Builder) Bytes() []byte {
	var buffer bytes.Buffer
	buffer.Grow(b.size)
	// bytes.Buffer writes never fail.
	_, _ = b.WriteTo(&buffer)
	return buffer.Bytes()
}
