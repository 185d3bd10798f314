// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package ttylog

import (
	"encoding/binary"
	"fmt"
	"iter"
	"time"
)

// HeaderSize is the fixed size of a record header in bytes.
const HeaderSize = 24

// Op is a record operation code. Values are wire constants.
type Op int32

const (
	// OpOpen marks a terminal being opened.
	OpOpen Op = 1

	// OpClose marks a terminal being closed. A CLOSE on the session's
	// terminal ends decoding.
	OpClose Op = 2

	// OpWrite carries terminal bytes in the record's direction.
	OpWrite Op = 3

	// OpExec marks a command execution. The payload is the command
	// line as recorded.
	OpExec Op = 4
)

// String returns the lowercase name of the operation.
func (op Op) String() string {
	switch op {
	case OpOpen:
		return "open"
	case OpClose:
		return "close"
	case OpWrite:
		return "write"
	case OpExec:
		return "exec"
	default:
		return fmt.Sprintf("op(%d)", int32(op))
	}
}

// Direction is the data direction of a WRITE record. Values are wire
// constants. The zero value means "unset" and never appears in a
// well-formed capture.
type Direction int32

const (
	// DirectionInput is data sent to the terminal (keystrokes).
	DirectionInput Direction = 1

	// DirectionOutput is data produced by the terminal.
	DirectionOutput Direction = 2

	// DirectionInteract marks interactive session traffic.
	DirectionInteract Direction = 3
)

// String returns the lowercase name of the direction.
func (direction Direction) String() string {
	switch direction {
	case DirectionInput:
		return "input"
	case DirectionOutput:
		return "output"
	case DirectionInteract:
		return "interact"
	default:
		return fmt.Sprintf("direction(%d)", int32(direction))
	}
}

// Header is a decoded record header.
type Header struct {
	Op        Op
	TTY       uint32
	Length    int32
	Direction Direction
	Sec       uint32
	Usec      uint32
}

// Timestamp returns the record time as fractional seconds since the
// Unix epoch.
func (h Header) Timestamp() float64 {
	return float64(h.Sec) + float64(h.Usec)/1000000
}

// Time returns the record time as a time.Time in UTC.
func (h Header) Time() time.Time {
	return time.Unix(int64(h.Sec), int64(h.Usec)*int64(time.Microsecond)).UTC()
}

// Record is one framed unit of a capture. Payload aliases the buffer
// the record was read from.
type Record struct {
	Header
	Payload []byte
}

// parseHeader decodes a header from exactly HeaderSize bytes.
func parseHeader(data []byte) Header {
	return Header{
		Op:        Op(int32(binary.LittleEndian.Uint32(data[0:4]))),
		TTY:       binary.LittleEndian.Uint32(data[4:8]),
		Length:    int32(binary.LittleEndian.Uint32(data[8:12])),
		Direction: Direction(int32(binary.LittleEndian.Uint32(data[12:16]))),
		Sec:       binary.LittleEndian.Uint32(data[16:20]),
		Usec:      binary.LittleEndian.Uint32(data[20:24]),
	}
}

// ReadRecord frames the next record from data and returns it along
// with the bytes following it. ok is false when data does not hold a
// complete record: fewer than HeaderSize bytes, or fewer payload bytes
// than the header declares. Callers treat that as end of stream.
//
// A negative length consumes the rest of data as the payload. Existing
// captures were produced and viewed by tooling with read-to-end
// semantics for negative counts, so the record is still delivered.
func ReadRecord(data []byte) (record Record, rest []byte, ok bool) {
	if len(data) < HeaderSize {
		return Record{}, data, false
	}
	header := parseHeader(data[:HeaderSize])
	body := data[HeaderSize:]

	length := int(header.Length)
	if length < 0 {
		length = len(body)
	}
	if length > len(body) {
		return Record{}, data, false
	}
	return Record{Header: header, Payload: body[:length:length]}, body[length:], true
}

// Records returns an iterator over the complete records in data, in
// stream order. Iteration stops at the first incomplete record.
func Records(data []byte) iter.Seq[Record] {
	return func(yield func(Record) bool) {
		remaining := data
		for {
			record, rest, ok := ReadRecord(remaining)
			if !ok {
				return
			}
			if !yield(record) {
				return
			}
			remaining = rest
		}
	}
}
