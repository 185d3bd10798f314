// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package ttylog

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// AppendHeader appends the wire encoding of h to dst. The Length field
// is written as given, which lets tests build deliberately malformed
// captures.
func AppendHeader(dst []byte, h Header) []byte {
	dst = binary.LittleEndian.AppendUint32(dst, uint32(h.Op))
	dst = binary.LittleEndian.AppendUint32(dst, h.TTY)
	dst = binary.LittleEndian.AppendUint32(dst, uint32(h.Length))
	dst = binary.LittleEndian.AppendUint32(dst, uint32(h.Direction))
	dst = binary.LittleEndian.AppendUint32(dst, h.Sec)
	dst = binary.LittleEndian.AppendUint32(dst, h.Usec)
	return dst
}

// AppendRecord appends the wire encoding of record to dst. The header
// length is taken from len(record.Payload); record.Length is ignored.
// Panics if the payload does not fit in an int32 length.
func AppendRecord(dst []byte, record Record) []byte {
	if len(record.Payload) > math.MaxInt32 {
		panic(fmt.Sprintf("ttylog: payload of %d bytes exceeds record limit", len(record.Payload)))
	}
	header := record.Header
	header.Length = int32(len(record.Payload))
	dst = AppendHeader(dst, header)
	return append(dst, record.Payload...)
}

// Writer encodes records onto an io.Writer. Each record is written
// with a single Write call so that concurrent appenders to the same
// file never interleave partial records. Writer itself is not safe
// for concurrent use.
type Writer struct {
	w      io.Writer
	buffer []byte
}

// NewWriter returns a Writer that encodes records to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// WriteRecord encodes record and writes it. The header length is
// derived from the payload.
func (w *Writer) WriteRecord(record Record) error {
	if len(record.Payload) > math.MaxInt32 {
		return fmt.Errorf("payload of %d bytes exceeds record limit", len(record.Payload))
	}
	w.buffer = AppendRecord(w.buffer[:0], record)
	if _, err := w.w.Write(w.buffer); err != nil {
		return fmt.Errorf("write %s record: %w", record.Op, err)
	}
	return nil
}
