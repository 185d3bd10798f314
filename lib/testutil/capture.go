// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bureau-foundation/ttyview/ttylog"
)

// Capture encodes records into a capture buffer. Header lengths are
// derived from the payloads.
func Capture(records ...ttylog.Record) []byte {
	var data []byte
	for _, record := range records {
		data = ttylog.AppendRecord(data, record)
	}
	return data
}

// OutputRecord returns an OUTPUT write on tty at sec seconds.
func OutputRecord(tty uint32, sec uint32, text string) ttylog.Record {
	return ttylog.Record{
		Header: ttylog.Header{
			Op:        ttylog.OpWrite,
			TTY:       tty,
			Direction: ttylog.DirectionOutput,
			Sec:       sec,
		},
		Payload: []byte(text),
	}
}

// WriteCapture writes data to directory/name and sets its
// modification time. Returns the file path.
func WriteCapture(t *testing.T, directory, name string, data []byte, modTime time.Time) string {
	t.Helper()
	path := filepath.Join(directory, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("writing capture %s: %v", name, err)
	}
	if err := os.Chtimes(path, modTime, modTime); err != nil {
		t.Fatalf("setting mtime on %s: %v", name, err)
	}
	return path
}
