// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package recorder produces terminal session captures in the ttylog
// wire format.
//
// A [Recorder] stamps each record with the time from its clock and
// serializes writes from concurrent goroutines, so the input pump and
// output pump of a PTY session can share one Recorder. [Recorder.Input]
// and [Recorder.Output] adapt it to io.Writer for use with io.Copy.
package recorder

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/bureau-foundation/ttyview/lib/clock"
	"github.com/bureau-foundation/ttyview/ttylog"
)

// ErrClosed is returned by operations on a Recorder after Close.
var ErrClosed = errors.New("recorder closed")

// maxChunk bounds the payload of a single WRITE record. Larger writes
// are split into several records with the same timestamp.
const maxChunk = 1 << 20

// Config holds the parameters for a Recorder.
type Config struct {
	// Writer receives encoded records. Required.
	Writer io.Writer

	// TTY is the terminal identifier stamped on every record. Must be
	// non-zero: decoders treat zero as "no terminal yet".
	TTY uint32

	// Clock supplies record timestamps. Defaults to clock.Real().
	Clock clock.Clock
}

// Recorder appends records for one terminal to a capture.
type Recorder struct {
	mu     sync.Mutex
	writer *ttylog.Writer
	clock  clock.Clock
	tty    uint32
	closed bool
}

// New creates a Recorder. Nothing is written until the first call.
func New(config Config) (*Recorder, error) {
	if config.Writer == nil {
		return nil, fmt.Errorf("recorder: writer is required")
	}
	if config.TTY == 0 {
		return nil, fmt.Errorf("recorder: tty must be non-zero")
	}
	if config.Clock == nil {
		config.Clock = clock.Real()
	}
	return &Recorder{
		writer: ttylog.NewWriter(config.Writer),
		clock:  config.Clock,
		tty:    config.TTY,
	}, nil
}

// Open records the terminal being opened.
func (r *Recorder) Open() error {
	return r.emit(ttylog.OpOpen, 0, nil)
}

// Exec records a command execution. The command line is stored as the
// payload.
func (r *Recorder) Exec(commandLine string) error {
	return r.emit(ttylog.OpExec, 0, []byte(commandLine))
}

// Write records data flowing in the given direction.
func (r *Recorder) Write(direction ttylog.Direction, data []byte) error {
	for {
		chunk := data
		if len(chunk) > maxChunk {
			chunk = chunk[:maxChunk]
		}
		if err := r.emit(ttylog.OpWrite, direction, chunk); err != nil {
			return err
		}
		data = data[len(chunk):]
		if len(data) == 0 {
			return nil
		}
	}
}

// Close records the terminal being closed. Further calls return
// ErrClosed. Close does not close the underlying writer.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}
	err := r.writeLocked(ttylog.OpClose, 0, nil)
	r.closed = true
	return err
}

// Input returns an io.Writer that records everything written to it as
// INPUT.
func (r *Recorder) Input() io.Writer {
	return directionWriter{recorder: r, direction: ttylog.DirectionInput}
}

// Output returns an io.Writer that records everything written to it
// as OUTPUT.
func (r *Recorder) Output() io.Writer {
	return directionWriter{recorder: r, direction: ttylog.DirectionOutput}
}

func (r *Recorder) emit(op ttylog.Op, direction ttylog.Direction, payload []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}
	return r.writeLocked(op, direction, payload)
}

func (r *Recorder) writeLocked(op ttylog.Op, direction ttylog.Direction, payload []byte) error {
	now := r.clock.Now()
	return r.writer.WriteRecord(ttylog.Record{
		Header: ttylog.Header{
			Op:        op,
			TTY:       r.tty,
			Direction: direction,
			Sec:       uint32(now.Unix()),
			Usec:      uint32(now.Nanosecond() / 1000),
		},
		Payload: payload,
	})
}

type directionWriter struct {
	recorder  *Recorder
	direction ttylog.Direction
}

func (w directionWriter) Write(data []byte) (int, error) {
	if err := w.recorder.Write(w.direction, data); err != nil {
		return 0, err
	}
	return len(data), nil
}
