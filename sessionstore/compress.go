// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sessionstore

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// MaxCaptureSize bounds the decompressed size of a single capture.
const MaxCaptureSize = 1 << 30

// Compression identifies how a capture file is compressed.
type Compression uint8

const (
	CompressionNone Compression = iota
	CompressionZstd
	CompressionLZ4
	CompressionGzip
)

// compressions lists the compressed formats in lookup order.
var compressions = []Compression{CompressionZstd, CompressionLZ4, CompressionGzip}

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionZstd:
		return "zstd"
	case CompressionLZ4:
		return "lz4"
	case CompressionGzip:
		return "gzip"
	default:
		return fmt.Sprintf("compression(%d)", c)
	}
}

// Suffix returns the file name suffix for c, or "" for none.
func (c Compression) Suffix() string {
	switch c {
	case CompressionZstd:
		return ".zst"
	case CompressionLZ4:
		return ".lz4"
	case CompressionGzip:
		return ".gz"
	default:
		return ""
	}
}

// ParseCompression parses a compression name as printed by String.
func ParseCompression(name string) (Compression, error) {
	switch name {
	case "none", "":
		return CompressionNone, nil
	case "zstd":
		return CompressionZstd, nil
	case "lz4":
		return CompressionLZ4, nil
	case "gzip":
		return CompressionGzip, nil
	default:
		return 0, fmt.Errorf("unknown compression %q (want none, zstd, lz4, or gzip)", name)
	}
}

// CompressionOf returns the compression implied by a capture name's
// suffix.
func CompressionOf(name string) Compression {
	for _, c := range compressions {
		if strings.HasSuffix(name, c.Suffix()) {
			return c
		}
	}
	return CompressionNone
}

// TrimCompression returns name without its compression suffix.
func TrimCompression(name string) string {
	return strings.TrimSuffix(name, CompressionOf(name).Suffix())
}

// zstdDecoder is shared; DecodeAll is safe for concurrent use.
var zstdDecoder *zstd.Decoder

func init() {
	var err error
	zstdDecoder, err = zstd.NewReader(nil,
		zstd.WithDecoderConcurrency(0),
		zstd.WithDecoderMaxMemory(MaxCaptureSize),
	)
	if err != nil {
		panic("sessionstore: zstd decoder initialization failed: " + err.Error())
	}
}

// Decompress returns the capture bytes of data stored with c.
func Decompress(c Compression, data []byte) ([]byte, error) {
	switch c {
	case CompressionNone:
		return data, nil
	case CompressionZstd:
		decoded, err := zstdDecoder.DecodeAll(data, nil)
		if err != nil {
			return nil, fmt.Errorf("zstd decompress: %w", err)
		}
		return decoded, nil
	case CompressionLZ4:
		return readBounded("lz4", lz4.NewReader(bytes.NewReader(data)))
	case CompressionGzip:
		reader, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("gzip decompress: %w", err)
		}
		defer reader.Close()
		return readBounded("gzip", reader)
	default:
		return nil, fmt.Errorf("unsupported compression: %s", c)
	}
}

func readBounded(format string, reader io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(reader, MaxCaptureSize+1))
	if err != nil {
		return nil, fmt.Errorf("%s decompress: %w", format, err)
	}
	if len(data) > MaxCaptureSize {
		return nil, fmt.Errorf("%s decompress: capture exceeds %d bytes", format, MaxCaptureSize)
	}
	return data, nil
}

// NewCompressWriter returns a writer that compresses into w with c.
// Close flushes the compressed stream but does not close w. For
// CompressionNone, writes pass straight through.
func NewCompressWriter(c Compression, w io.Writer) (io.WriteCloser, error) {
	switch c {
	case CompressionNone:
		return nopWriteCloser{w}, nil
	case CompressionZstd:
		encoder, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, fmt.Errorf("zstd writer: %w", err)
		}
		return encoder, nil
	case CompressionLZ4:
		return lz4.NewWriter(w), nil
	case CompressionGzip:
		return gzip.NewWriter(w), nil
	default:
		return nil, fmt.Errorf("unsupported compression: %s", c)
	}
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }
