// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package container

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

// rawEntry assembles an entry by hand so tests can declare lengths
// that disagree with the actual payload.
func rawEntry(magic uint16, nameLength uint16, dataLength uint32, body []byte) []byte {
	header := make([]byte, EntryHeaderSize)
	binary.LittleEndian.PutUint16(header[0:2], magic)
	binary.LittleEndian.PutUint16(header[2:4], nameLength)
	binary.LittleEndian.PutUint32(header[4:8], dataLength)
	return append(header, body...)
}

func headerOnly() []byte {
	return []byte{0x01, 0xdd, 0x8f, 0xae}
}

func collect(t *testing.T, data []byte) ([]Entry, error) {
	t.Helper()
	var entries []Entry
	for entry, err := range Entries(data) {
		if err != nil {
			return entries, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func TestHeaderRejection(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"empty", nil, ErrUnexpectedEOF},
		{"three bytes", []byte{0x01, 0xdd, 0x8f}, ErrUnexpectedEOF},
		{"wrong magic", []byte{0xae, 0x8f, 0xdd, 0x01}, ErrInvalidHeader},
		{"zero magic", []byte{0, 0, 0, 0, 0, 0, 0, 0}, ErrInvalidHeader},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := NewReader(test.data)
			if !errors.Is(err, test.want) {
				t.Fatalf("NewReader error = %v, want %v", err, test.want)
			}
		})
	}
}

func TestHeaderOnlyYieldsNothing(t *testing.T) {
	entries, err := collect(t, headerOnly())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("got %d entries, want 0", len(entries))
	}
}

func TestReadEntries(t *testing.T) {
	builder := NewBuilder()
	want := []Entry{
		{Name: "first", Data: []byte("alpha")},
		{Name: "second", Data: nil},
		{Name: "", Data: []byte{0, 1, 2}},
		{Name: "ünïcode", Data: bytes.Repeat([]byte{0xab}, 1024)},
	}
	for _, entry := range want {
		if err := builder.Add(entry.Name, entry.Data); err != nil {
			t.Fatalf("Add(%q): %v", entry.Name, err)
		}
	}
	data := builder.Bytes()
	if len(data) != builder.Size() {
		t.Fatalf("Bytes() length %d, Size() %d", len(data), builder.Size())
	}

	got, err := collect(t, data)
	if err != nil {
		t.Fatalf("reading: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("got %d entries, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Name != want[i].Name || !bytes.Equal(got[i].Data, want[i].Data) {
			t.Errorf("entry %d = (%q, %d bytes), want (%q, %d bytes)",
				i, got[i].Name, len(got[i].Data), want[i].Name, len(want[i].Data))
		}
	}
}

func TestEntryDataAliasesBuffer(t *testing.T) {
	builder := NewBuilder()
	if err := builder.Add("entry", []byte("payload")); err != nil {
		t.Fatalf("Add: %v", err)
	}
	data := builder.Bytes()

	reader, err := NewReader(data)
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	entry, ok, err := reader.Next()
	if err != nil || !ok {
		t.Fatalf("Next = %v, %v", ok, err)
	}

	data[len(data)-1] = 'X'
	if entry.Data[len(entry.Data)-1] != 'X' {
		t.Error("entry data is a copy, want a view into the container buffer")
	}
	if cap(entry.Data) != len(entry.Data) {
		t.Errorf("entry data capacity %d exceeds length %d", cap(entry.Data), len(entry.Data))
	}
}

func TestTrailingFragmentEndsCleanly(t *testing.T) {
	builder := NewBuilder()
	if err := builder.Add("only", []byte("x")); err != nil {
		t.Fatalf("Add: %v", err)
	}
	for fragment := 1; fragment < EntryHeaderSize; fragment++ {
		data := append(builder.Bytes(), bytes.Repeat([]byte{0xff}, fragment)...)
		entries, err := collect(t, data)
		if err != nil {
			t.Fatalf("fragment of %d bytes: unexpected error %v", fragment, err)
		}
		if len(entries) != 1 {
			t.Fatalf("fragment of %d bytes: got %d entries, want 1", fragment, len(entries))
		}
	}
}

func TestEntryErrors(t *testing.T) {
	tests := []struct {
		name  string
		entry []byte
		want  error
	}{
		{
			name:  "bad entry magic",
			entry: rawEntry(0x8b1e, 1, 1, []byte("ab")),
			want:  ErrInvalidEntryHeader,
		},
		{
			name:  "name longer than buffer",
			entry: rawEntry(EntryMagic, 10, 0, []byte("abc")),
			want:  ErrUnexpectedEntryEOF,
		},
		{
			name:  "data longer than buffer",
			entry: rawEntry(EntryMagic, 1, 100, []byte("ab")),
			want:  ErrUnexpectedEntryEOF,
		},
		{
			name:  "maximum lengths",
			entry: rawEntry(EntryMagic, 0xffff, 0xffffffff, []byte("ab")),
			want:  ErrUnexpectedEntryEOF,
		},
		{
			name:  "non utf-8 name",
			entry: rawEntry(EntryMagic, 2, 1, []byte{0xc3, 0x28, 'x'}),
			want:  ErrInvalidEntryName,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			data := append(headerOnly(), test.entry...)
			_, err := collect(t, data)
			if !errors.Is(err, test.want) {
				t.Fatalf("error = %v, want %v", err, test.want)
			}
		})
	}
}

func TestErrorAfterValidEntries(t *testing.T) {
	builder := NewBuilder()
	if err := builder.Add("good", []byte("data")); err != nil {
		t.Fatalf("Add: %v", err)
	}
	data := append(builder.Bytes(), rawEntry(EntryMagic, 0, 50, nil)...)

	entries, err := collect(t, data)
	if !errors.Is(err, ErrUnexpectedEntryEOF) {
		t.Fatalf("error = %v, want ErrUnexpectedEntryEOF", err)
	}
	if len(entries) != 1 || entries[0].Name != "good" {
		t.Fatalf("entries before error = %+v", entries)
	}
}

func TestReset(t *testing.T) {
	builder := NewBuilder()
	for _, name := range []string{"a", "b", "c"} {
		if err := builder.Add(name, []byte(name)); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}
	reader, err := NewReader(builder.Bytes())
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}

	count := func() int {
		total := 0
		for _, err := range reader.All() {
			if err != nil {
				t.Fatalf("All: %v", err)
			}
			total++
		}
		return total
	}

	if first := count(); first != 3 {
		t.Fatalf("first pass = %d entries, want 3", first)
	}
	if exhausted := count(); exhausted != 0 {
		t.Fatalf("exhausted pass = %d entries, want 0", exhausted)
	}
	reader.Reset()
	if again := count(); again != 3 {
		t.Fatalf("after Reset = %d entries, want 3", again)
	}
}

func TestBuilderRejectsInvalidNames(t *testing.T) {
	builder := NewBuilder()
	if err := builder.Add(string([]byte{0xff}), nil); !errors.Is(err, ErrInvalidEntryName) {
		t.Errorf("Add(non-UTF-8) error = %v, want ErrInvalidEntryName", err)
	}
	if err := builder.Add(string(bytes.Repeat([]byte{'a'}, MaxNameLength+1)), nil); err == nil {
		t.Error("Add(oversized name) should fail")
	}
	if builder.Len() != 0 {
		t.Errorf("Len() = %d after rejected adds, want 0", builder.Len())
	}
}
