// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package ttylog decodes recorded terminal session captures into a
// chronological sequence of output events.
//
// A capture is a flat stream of records. Each record is a 24-byte
// little-endian header followed by a payload:
//
//	int32  op         OPEN=1, CLOSE=2, WRITE=3, EXEC=4
//	uint32 tty        terminal identifier
//	int32  length     payload byte count
//	int32  direction  INPUT=1, OUTPUT=2, INTERACT=3
//	uint32 sec        wall-clock seconds
//	uint32 usec       wall-clock microseconds
//
// The layout is fixed by existing captures and must not change. See
// [HeaderSize], [Header], and [ReadRecord] for the framing surface and
// [Writer] for producing captures.
//
// [Decode] is the entry point for consumers. It never fails: a
// truncated header or payload ends the stream, and payload bytes that
// are not valid UTF-8 are replaced with U+FFFD. Only records on the
// session's terminal (the terminal of the first record) participate.
// The first WRITE on that terminal fixes the preferred direction for
// the rest of the session; CLOSE on that terminal ends decoding.
// Only OUTPUT writes become events.
//
// Each call to Decode owns its state. Concurrent calls on different
// buffers are safe; the input buffer is never modified.
package ttylog
