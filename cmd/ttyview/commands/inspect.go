// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/ttyview/cmd/ttyview/cli"
	"github.com/bureau-foundation/ttyview/ttylog"
)

// previewLength bounds the payload preview in the record table.
const previewLength = 40

// inspection is the --json output of inspect.
type inspection struct {
	Records []inspectedRecord `json:"records"`

	// TrailingBytes counts bytes after the last complete record.
	TrailingBytes int `json:"trailing_bytes"`
}

type inspectedRecord struct {
	Offset    int       `json:"offset"`
	Op        string    `json:"op"`
	TTY       uint32    `json:"tty"`
	Direction string    `json:"direction,omitempty"`
	Length    int32     `json:"length"`
	Time      time.Time `json:"time"`
	Payload   string    `json:"payload"`
}

type inspectParams struct {
	compression string
	json        bool
}

func inspectCommand(s streams) *cli.Command {
	var params inspectParams

	return &cli.Command{
		Name:    "inspect",
		Summary: "List the records of a capture file",
		Description: `List every complete record in a capture with its offset, operation,
terminal, direction, declared length, and time. Bytes after the last
complete record are reported as trailing.`,
		Usage: "ttyview inspect [flags] <file|->",
		Flags: func() *pflag.FlagSet {
			params = inspectParams{}
			flagSet := pflag.NewFlagSet("inspect", pflag.ContinueOnError)
			flagSet.StringVar(&params.compression, "compression", "", "input compression: none, zstd, lz4, or gzip (default: from the file suffix)")
			flagSet.BoolVar(&params.json, "json", false, "output JSON")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return cli.Validation("inspect takes exactly one capture file (or - for stdin)")
			}
			data, err := readCapture(s.in, args[0], params.compression)
			if err != nil {
				return err
			}
			result := inspect(data)
			if params.json {
				return cli.WriteJSON(s.out, result)
			}
			return writeInspection(s.out, result)
		},
	}
}

func inspect(data []byte) inspection {
	result := inspection{Records: []inspectedRecord{}}
	offset := 0
	for record := range ttylog.Records(data) {
		entry := inspectedRecord{
			Offset:  offset,
			Op:      record.Op.String(),
			TTY:     record.TTY,
			Length:  record.Length,
			Time:    record.Time(),
			Payload: ttylog.DecodeText(record.Payload),
		}
		if record.Op == ttylog.OpWrite {
			entry.Direction = record.Direction.String()
		}
		result.Records = append(result.Records, entry)
		offset += ttylog.HeaderSize + len(record.Payload)
	}
	result.TrailingBytes = len(data) - offset
	return result
}

func writeInspection(w io.Writer, result inspection) error {
	writer := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(writer, "OFFSET\tOP\tTTY\tDIR\tLEN\tTIME\tPAYLOAD")
	for _, record := range result.Records {
		direction := record.Direction
		if direction == "" {
			direction = "-"
		}
		fmt.Fprintf(writer, "%d\t%s\t%d\t%s\t%d\t%s\t%s\n",
			record.Offset, record.Op, record.TTY, direction, record.Length,
			record.Time.Format("2006-01-02T15:04:05.000000Z"), preview(record.Payload))
	}
	if err := writer.Flush(); err != nil {
		return err
	}
	if result.TrailingBytes > 0 {
		_, err := fmt.Fprintf(w, "%d trailing bytes (incomplete record)\n", result.TrailingBytes)
		return err
	}
	return nil
}

// preview quotes the start of a payload so control bytes stay on one
// line.
func preview(payload string) string {
	runes := []rune(payload)
	if len(runes) > previewLength {
		return strconv.Quote(string(runes[:previewLength])) + "…"
	}
	return strconv.Quote(payload)
}
