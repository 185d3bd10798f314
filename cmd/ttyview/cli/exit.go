// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

// ExitError signals a non-zero exit code without an error message.
// The command is expected to have written its own output already.
type ExitError struct {
	Code int
}

// Error returns an empty string so that process.Report prints nothing.
func (e *ExitError) Error() string { return "" }

// ExitCode returns the exit code.
func (e *ExitError) ExitCode() int { return e.Code }
