// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"github.com/spf13/pflag"

	"github.com/bureau-foundation/ttyview/cmd/ttyview/cli"
	"github.com/bureau-foundation/ttyview/ttylog"
)

type decodeParams struct {
	format      string
	compression string
	settings    ttylog.Settings
}

func decodeCommand(s streams) *cli.Command {
	var params decodeParams

	return &cli.Command{
		Name:    "decode",
		Summary: "Decode a capture file",
		Description: `Decode a capture file into the output a viewer would replay.

The file may be compressed with zstd (.zst), lz4 (.lz4), or gzip (.gz);
the suffix selects the decompressor unless --compression is given. Use
"-" to read the capture from stdin.

Decoding stops at the first incomplete record or at the close of the
session's terminal. Only output is emitted; input writes only influence
which direction is preferred.`,
		Usage: "ttyview decode [flags] <file|->",
		Flags: func() *pflag.FlagSet {
			params = decodeParams{}
			flagSet := pflag.NewFlagSet("decode", pflag.ContinueOnError)
			flagSet.StringVarP(&params.format, "format", "f", formatText, formatUsage)
			flagSet.StringVar(&params.compression, "compression", "", "input compression: none, zstd, lz4, or gzip (default: from the file suffix)")
			bindSettingsFlags(flagSet, &params.settings)
			return flagSet
		},
		Examples: []cli.Example{
			{
				Description: "Replay a session's output in the terminal",
				Command:     "ttyview decode tty_logs/session-42.log",
			},
			{
				Description: "Read the output without escape sequences",
				Command:     "ttyview decode --format plain session.log.zst | less",
			},
			{
				Description: "Decode from stdin as JSON events",
				Command:     "aws s3 cp s3://bucket/tty_logs/s.log - | ttyview decode -f json -",
			},
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return cli.Validation("decode takes exactly one capture file (or - for stdin)")
			}
			if err := checkFormat(params.format); err != nil {
				return err
			}
			data, err := readCapture(s.in, args[0], params.compression)
			if err != nil {
				return err
			}
			return renderEvents(s.out, ttylog.Decode(data, params.settings), params.format, params.settings)
		},
	}
}
