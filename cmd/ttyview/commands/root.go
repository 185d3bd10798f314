// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/bureau-foundation/ttyview/cmd/ttyview/cli"
	"github.com/bureau-foundation/ttyview/lib/version"
)

// streams are the standard streams a command uses.
type streams struct {
	in  io.Reader
	out io.Writer
	err io.Writer
}

// Root builds the ttyview command tree bound to the process's
// standard streams.
func Root() *cli.Command {
	return newRoot(streams{in: os.Stdin, out: os.Stdout, err: os.Stderr})
}

func newRoot(s streams) *cli.Command {
	return &cli.Command{
		Name: "ttyview",
		Description: `ttyview: terminal session capture viewer.

Decodes ttylog captures (fixed 24-byte record headers followed by raw
terminal bytes) into the output a viewer replays. Captures are read from
local files, a capture directory, or an S3 bucket, and served over HTTP
and WebSocket by "ttyview serve".`,
		HelpOutput: s.err,
		Subcommands: []*cli.Command{
			serveCommand(s),
			decodeCommand(s),
			inspectCommand(s),
			listCommand(s),
			fetchCommand(s),
			recordCommand(s),
			{
				Name:    "version",
				Summary: "Print version information",
				Run: func(args []string) error {
					if len(args) > 0 {
						return cli.Validation("version takes no arguments")
					}
					_, err := fmt.Fprintf(s.out, "ttyview %s\n", version.Full())
					return err
				},
			},
		},
	}
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
