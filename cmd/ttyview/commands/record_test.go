// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bureau-foundation/ttyview/cmd/ttyview/cli"
	"github.com/bureau-foundation/ttyview/sessionstore"
	"github.com/bureau-foundation/ttyview/ttylog"
)

func requirePTY(t *testing.T) {
	t.Helper()
	if _, err := os.Stat("/dev/ptmx"); err != nil {
		t.Skip("no pseudo-terminal support")
	}
}

func TestRecordCapturesOutput(t *testing.T) {
	requirePTY(t)
	path := filepath.Join(t.TempDir(), "session.log.zst")

	output, err := run(t, nil, "record", "-o", path, "--tty", "42", "--", "printf", "recorded")
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if !strings.Contains(output, "recorded") {
		t.Errorf("terminal output = %q, want the command's output passed through", output)
	}

	stored, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading capture: %v", err)
	}
	data, err := sessionstore.Decompress(sessionstore.CompressionZstd, stored)
	if err != nil {
		t.Fatalf("decompressing capture: %v", err)
	}

	var ops []ttylog.Op
	for record := range ttylog.Records(data) {
		if record.TTY != 42 {
			t.Errorf("record tty = %d, want 42", record.TTY)
		}
		ops = append(ops, record.Op)
	}
	if len(ops) < 3 || ops[0] != ttylog.OpOpen || ops[1] != ttylog.OpExec || ops[len(ops)-1] != ttylog.OpClose {
		t.Errorf("ops = %v, want open, exec, ..., close", ops)
	}

	var text strings.Builder
	for _, event := range ttylog.Decode(data, ttylog.DefaultSettings()) {
		text.WriteString(event.Text)
	}
	if !strings.Contains(text.String(), "recorded") {
		t.Errorf("decoded capture = %q", text.String())
	}
}

func TestRecordExitStatus(t *testing.T) {
	requirePTY(t)
	path := filepath.Join(t.TempDir(), "session.log")

	_, err := run(t, nil, "record", "-o", path, "--", "sh", "-c", "exit 3")
	var exitErr *cli.ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != 3 {
		t.Fatalf("record error = %v, want exit code 3", err)
	}
	if info, err := os.Stat(path); err != nil || info.Size() == 0 {
		t.Errorf("capture not written: %v", err)
	}
}

func TestRecordRequiresOutput(t *testing.T) {
	t.Parallel()
	_, err := run(t, nil, "record", "--", "true")
	requireCategory(t, err, cli.CategoryValidation)
}
