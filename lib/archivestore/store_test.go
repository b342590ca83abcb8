// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package archivestore

import (
	"bytes"
	"testing"
	"time"

	"github.com/bureau-foundation/blockarchive/lib/config"
)

func TestKey(t *testing.T) {
	tests := []struct {
		prefix string
		seqno  uint32
		want   string
	}{
		{"", 0, "0000000000"},
		{"", 11650126, "0011650126"},
		{"mainnet/", 4294967295, "mainnet/4294967295"},
	}
	for _, test := range tests {
		if got := Key(test.prefix, test.seqno); got != test.want {
			t.Errorf("Key(%q, %d) = %q, want %q", test.prefix, test.seqno, got, test.want)
		}
	}
}

func TestCompressRoundTrip(t *testing.T) {
	compressible := bytes.Repeat([]byte("block archive payload "), 512)
	random := make([]byte, 256)
	for i := range random {
		random[i] = byte(i*131 + 7)
	}

	for _, tag := range []CompressionTag{CompressionNone, CompressionLZ4, CompressionZstd} {
		t.Run(tag.String(), func(t *testing.T) {
			compressed, used, err := Compress(compressible, tag)
			if err != nil {
				t.Fatalf("Compress: %v", err)
			}
			if used != tag {
				t.Errorf("Compress used %s, want %s", used, tag)
			}
			if tag != CompressionNone && len(compressed) >= len(compressible) {
				t.Errorf("compressed size %d is not below %d", len(compressed), len(compressible))
			}
			restored, err := Decompress(compressed, used, len(compressible))
			if err != nil {
				t.Fatalf("Decompress: %v", err)
			}
			if !bytes.Equal(restored, compressible) {
				t.Fatal("round trip changed the data")
			}
		})
	}

	t.Run("incompressible falls back to none", func(t *testing.T) {
		stored, used, err := Compress(random[:16], CompressionZstd)
		if err != nil {
			t.Fatalf("Compress: %v", err)
		}
		if used != CompressionNone || !bytes.Equal(stored, random[:16]) {
			t.Errorf("Compress = %d bytes with %s, want the input with none", len(stored), used)
		}
	})

	t.Run("size mismatch", func(t *testing.T) {
		compressed, used, _ := Compress(compressible, CompressionLZ4)
		if _, err := Decompress(compressed, used, len(compressible)+1); err == nil {
			t.Fatal("Decompress accepted a wrong size")
		}
	})
}

func TestParseCompressionTag(t *testing.T) {
	for name, want := range map[string]CompressionTag{"": CompressionNone, "none": CompressionNone, "lz4": CompressionLZ4, "zstd": CompressionZstd} {
		got, err := ParseCompressionTag(name)
		if err != nil || got != want {
			t.Errorf("ParseCompressionTag(%q) = %s, %v; want %s", name, got, err, want)
		}
	}
	if _, err := ParseCompressionTag("gzip"); err == nil {
		t.Error("ParseCompressionTag accepted gzip")
	}
}

func TestNewSelectsStoreByScheme(t *testing.T) {
	upload := config.Default().Upload

	upload.Destination = "file://" + t.TempDir()
	upload.Compression = config.CompressionZstd
	store, err := New(upload, nil)
	if err != nil {
		t.Fatalf("New(file): %v", err)
	}
	dir, ok := store.(*DirStore)
	if !ok {
		t.Fatalf("New(file) returned %T, want *DirStore", store)
	}
	if dir.compression != CompressionZstd {
		t.Errorf("DirStore compression = %s, want zstd", dir.compression)
	}

	t.Setenv("BLOCKARCHIVE_TEST_TOKEN", "secret")
	upload.Destination = "https://archive.example/v1"
	upload.TokenEnv = "BLOCKARCHIVE_TEST_TOKEN"
	upload.RetryInterval = 250 * time.Millisecond
	store, err = New(upload, nil)
	if err != nil {
		t.Fatalf("New(https): %v", err)
	}
	httpStore, ok := store.(*HTTPStore)
	if !ok {
		t.Fatalf("New(https) returned %T, want *HTTPStore", store)
	}
	if httpStore.token != "secret" || httpStore.retryInterval != 250*time.Millisecond {
		t.Errorf("HTTPStore token %q interval %v", httpStore.token, httpStore.retryInterval)
	}
	if got, want := httpStore.ObjectURL(7), "https://archive.example/v1/archives/0000000007"; got != want {
		t.Errorf("ObjectURL = %q, want %q", got, want)
	}

	for _, destination := range []string{"", "s3://bucket/x"} {
		upload.Destination = destination
		if _, err := New(upload, nil); err == nil {
			t.Errorf("New(%q) succeeded", destination)
		}
	}
}
