// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package rawarchive acquires the bytes of an archive file.
//
// An archive is read either by memory-mapping a file ([Open]) or by
// buffering a stream such as stdin ([ReadAll]). Both produce a
// [Buffer], so everything downstream works on one in-memory byte slice
// regardless of where it came from.
//
// Entries decoded from an archive alias the buffer, and for mapped
// files that memory disappears on munmap. Buffer therefore counts
// references: the opener holds one, and every structure that keeps
// views into the bytes takes another with [Buffer.Retain]. The mapping
// is released only when the last reference is dropped, and any access
// after that panics instead of faulting.
package rawarchive

import (
	"fmt"
	"io"
	"os"
	"sync"

	"golang.org/x/sys/unix"
)

// Stdin is the name given to buffers read from standard input.
const Stdin = "<stdin>"

// Buffer holds the bytes of one archive. A Buffer must not be copied
// after creation.
type Buffer struct {
	mu       sync.Mutex
	name     string
	data     []byte
	mapped   bool
	refs     int
	released bool
	closed   bool
}

// Open memory-maps the file at path read-only and advises the kernel
// that it will be read sequentially. Empty files produce an empty
// heap-backed buffer, since a zero-length mapping is not allowed.
func Open(path string) (*Buffer, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}
	// The mapping stays valid after the descriptor is closed.
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("opening archive %s: not a regular file", path)
	}
	size := info.Size()
	if size == 0 {
		return FromBytes(path, nil), nil
	}
	if size > int64(^uint(0)>>1) {
		return nil, fmt.Errorf("archive %s is too large to map (%d bytes)", path, size)
	}

	data, err := unix.Mmap(int(file.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("mapping %s: %w", path, err)
	}
	if err := unix.Madvise(data, unix.MADV_SEQUENTIAL); err != nil {
		unix.Munmap(data)
		return nil, fmt.Errorf("madvise(MADV_SEQUENTIAL) on %s: %w", path, err)
	}

	return &Buffer{name: path, data: data, mapped: true, refs: 1}, nil
}

// ReadAll buffers all of r. Streams cannot be mapped, so this is how
// archives piped on stdin are read.
func ReadAll(name string, r io.Reader) (*Buffer, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading archive from %s: %w", name, err)
	}
	return FromBytes(name, data), nil
}

// FromBytes wraps an existing slice. The caller must not modify data
// afterwards.
func FromBytes(name string, data []byte) *Buffer {
	return &Buffer{name: name, data: data, refs: 1}
}

// Name returns the path or stream name the buffer was read from.
func (b *Buffer) Name() string {
	return b.name
}

// Mapped reports whether the bytes are a file mapping.
func (b *Buffer) Mapped() bool {
	return b.mapped
}

// Bytes returns the archive bytes. The slice is only valid while the
// caller holds a reference. Panics after the last reference is
// released.
func (b *Buffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.released {
		panic(fmt.Sprintf("rawarchive: read from released buffer %s", b.name))
	}
	return b.data
}

// Len returns the archive size in bytes.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.data)
}

// Retain takes an additional reference. Every Retain must be paired
// with one Release. Panics if the buffer was already released.
func (b *Buffer) Retain() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.released {
		panic(fmt.Sprintf("rawarchive: retain of released buffer %s", b.name))
	}
	b.refs++
}

// Release drops a reference taken with Retain. The mapping is removed
// when the count reaches zero.
func (b *Buffer) Release() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.releaseLocked()
}

// Close drops the opener's reference. Close is idempotent.
func (b *Buffer) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	return b.releaseLocked()
}

func (b *Buffer) releaseLocked() error {
	if b.refs == 0 {
		panic(fmt.Sprintf("rawarchive: release of unreferenced buffer %s", b.name))
	}
	b.refs--
	if b.refs > 0 {
		return nil
	}

	b.released = true
	data := b.data
	b.data = nil
	if b.mapped {
		if err := unix.Munmap(data); err != nil {
			return fmt.Errorf("unmapping %s: %w", b.name, err)
		}
	}
	return nil
}
