// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package process

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// ExitCoder is implemented by errors that carry a specific process
// exit code.
type ExitCoder interface {
	ExitCode() int
}

// Fatal reports err on stderr and exits. The exit code is taken from
// the first ExitCoder in err's chain, defaulting to 1.
func Fatal(err error) {
	os.Exit(Report(os.Stderr, err))
}

// Report writes "error: err" to w and returns the exit code for err.
// Errors whose message is empty are not printed; they only carry a
// code.
func Report(w io.Writer, err error) int {
	code := 1
	var coder ExitCoder
	if errors.As(err, &coder) {
		code = coder.ExitCode()
	}
	if message := err.Error(); message != "" {
		fmt.Fprintf(w, "error: %s\n", message)
	}
	return code
}
