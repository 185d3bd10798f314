// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"testing"
)

func TestToolErrorExitCodes(t *testing.T) {
	t.Parallel()
	tests := []struct {
		err  *ToolError
		want int
	}{
		{err: Validation("bad flag"), want: 2},
		{err: NotFound("no session %q", "x"), want: 3},
		{err: Transient("server unreachable"), want: 4},
		{err: Internal("bug"), want: 1},
	}
	for _, test := range tests {
		if got := test.err.ExitCode(); got != test.want {
			t.Errorf("%s.ExitCode() = %d, want %d", test.err.Category, got, test.want)
		}
	}
}

func TestToolErrorUnwraps(t *testing.T) {
	t.Parallel()
	err := NotFound("reading capture: %w", fs.ErrNotExist)
	if !errors.Is(err, fs.ErrNotExist) {
		t.Error("errors.Is does not see through ToolError")
	}
	if err.Error() != "reading capture: file does not exist" {
		t.Errorf("Error() = %q", err.Error())
	}

	var toolErr *ToolError
	if !errors.As(fmt.Errorf("fetch: %w", err), &toolErr) || toolErr.Category != CategoryNotFound {
		t.Error("errors.As did not find the wrapped ToolError")
	}
}

func TestExitErrorIsSilent(t *testing.T) {
	t.Parallel()
	err := &ExitError{Code: 5}
	if err.Error() != "" || err.ExitCode() != 5 {
		t.Errorf("ExitError = %q/%d", err.Error(), err.ExitCode())
	}
}

func TestWriteJSONNormalizesNilSlice(t *testing.T) {
	t.Parallel()
	var buffer bytes.Buffer
	var empty []string
	if err := WriteJSON(&buffer, empty); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	if buffer.String() != "[]\n" {
		t.Errorf("WriteJSON(nil slice) = %q, want []", buffer.String())
	}
}
