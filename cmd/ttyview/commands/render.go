// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/bureau-foundation/ttyview/cmd/ttyview/cli"
	"github.com/bureau-foundation/ttyview/lib/codec"
	"github.com/bureau-foundation/ttyview/ttylog"
)

// Output formats for decoded events.
const (
	// formatText writes event text as recorded, escape sequences
	// included, so a terminal replays the session.
	formatText = "text"

	// formatPlain writes event text with escape sequences removed.
	formatPlain = "plain"

	// formatPretty prefixes each line with its offset from the first
	// event.
	formatPretty = "pretty"

	formatJSON = "json"
	formatCBOR = "cbor"
)

var outputFormats = []string{formatText, formatPlain, formatPretty, formatJSON, formatCBOR}

const formatUsage = "output format: text, plain, pretty, json, or cbor"

func checkFormat(format string) error {
	if !slices.Contains(outputFormats, format) {
		return cli.Validation("unknown format %q (want one of: %s)", format, strings.Join(outputFormats, ", "))
	}
	return nil
}

// renderEvents writes events to w in format. A positive Tail keeps
// only the last Tail events; Colorify enables color in the pretty
// format when w is a terminal.
func renderEvents(w io.Writer, events []ttylog.Event, format string, settings ttylog.Settings) error {
	if settings.Tail > 0 && len(events) > settings.Tail {
		events = events[len(events)-settings.Tail:]
	}

	switch format {
	case formatText:
		_, err := io.WriteString(w, joinText(events))
		return err
	case formatPlain:
		// Strip after joining: an escape sequence may span events.
		_, err := io.WriteString(w, ansi.Strip(joinText(events)))
		return err
	case formatPretty:
		return renderPretty(w, events, settings.Colorify)
	case formatJSON:
		return cli.WriteJSON(w, events)
	case formatCBOR:
		return codec.NewEncoder(w).Encode(events)
	default:
		return checkFormat(format)
	}
}

func joinText(events []ttylog.Event) string {
	var builder strings.Builder
	for _, event := range events {
		builder.WriteString(event.Text)
	}
	return builder.String()
}

func renderPretty(w io.Writer, events []ttylog.Event, color bool) error {
	if len(events) == 0 {
		return nil
	}
	renderer := newRenderer(w, color)
	gutter := renderer.NewStyle().Foreground(lipgloss.Color("244"))
	separator := renderer.NewStyle().Foreground(lipgloss.Color("238")).Render("│ ")

	start := events[0].Timestamp
	var builder strings.Builder
	atLineStart := true
	for _, event := range events {
		offset := fmt.Sprintf("%9.3fs ", event.Timestamp-start)
		for _, line := range strings.SplitAfter(event.Text, "\n") {
			if line == "" {
				continue
			}
			if atLineStart {
				builder.WriteString(gutter.Render(offset))
				builder.WriteString(separator)
			}
			builder.WriteString(line)
			atLineStart = strings.HasSuffix(line, "\n")
		}
	}
	if !atLineStart {
		builder.WriteByte('\n')
	}
	_, err := io.WriteString(w, builder.String())
	return err
}

// newRenderer returns a lipgloss renderer for w. Color is used only
// when requested and w is a terminal.
func newRenderer(w io.Writer, color bool) *lipgloss.Renderer {
	profile := termenv.Ascii
	if color && isTerminal(w) {
		profile = termenv.ANSI256
	}
	renderer := lipgloss.NewRenderer(w, termenv.WithProfile(profile))
	// The renderer re-detects its profile from the writer unless told
	// explicitly.
	renderer.SetColorProfile(profile)
	return renderer
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}
