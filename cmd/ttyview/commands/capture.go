// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"errors"
	"io"
	"io/fs"
	"os"

	"github.com/bureau-foundation/ttyview/cmd/ttyview/cli"
	"github.com/bureau-foundation/ttyview/sessionstore"
)

// readCapture reads a capture from path, or from stdin when path is
// "-", and decompresses it. An empty compression name means the
// compression implied by the path's suffix.
func readCapture(stdin io.Reader, path, compressionName string) ([]byte, error) {
	compression := sessionstore.CompressionOf(path)
	if compressionName != "" {
		parsed, err := sessionstore.ParseCompression(compressionName)
		if err != nil {
			return nil, cli.Validation("--compression: %w", err)
		}
		compression = parsed
	}

	var data []byte
	if path == "-" {
		var err error
		data, err = io.ReadAll(io.LimitReader(stdin, sessionstore.MaxCaptureSize+1))
		if err != nil {
			return nil, cli.Internal("reading stdin: %w", err)
		}
	} else {
		var err error
		data, err = os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, cli.NotFound("capture %s does not exist", path)
		}
		if err != nil {
			return nil, cli.Internal("reading capture: %w", err)
		}
	}
	if len(data) > sessionstore.MaxCaptureSize {
		return nil, cli.Validation("capture %s exceeds %d bytes", path, sessionstore.MaxCaptureSize)
	}

	decoded, err := sessionstore.Decompress(compression, data)
	if err != nil {
		return nil, cli.Validation("%s: %w", path, err)
	}
	return decoded, nil
}
