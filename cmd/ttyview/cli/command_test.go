// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func TestCommand_Execute_DispatchesToSubcommand(t *testing.T) {
	var called string
	var receivedArgs []string

	root := &Command{
		Name:       "ttyview",
		HelpOutput: &bytes.Buffer{},
		Subcommands: []*Command{
			{
				Name: "version",
				Run: func(args []string) error {
					called = "version"
					return nil
				},
			},
			{
				Name: "decode",
				Run: func(args []string) error {
					called = "decode"
					receivedArgs = args
					return nil
				},
			},
		},
	}

	if err := root.Execute([]string{"decode", "session.log"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if called != "decode" {
		t.Errorf("dispatched to %q, want %q", called, "decode")
	}
	if len(receivedArgs) != 1 || receivedArgs[0] != "session.log" {
		t.Errorf("args = %v, want [session.log]", receivedArgs)
	}
}

func TestCommand_Execute_FlagParsing(t *testing.T) {
	var format string
	var bothDirections bool
	var receivedArgs []string

	command := &Command{
		Name: "decode",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("decode", pflag.ContinueOnError)
			flagSet.StringVar(&format, "format", "text", "output format")
			flagSet.BoolVar(&bothDirections, "both-dirs", true, "decode both directions")
			return flagSet
		},
		Run: func(args []string) error {
			receivedArgs = args
			return nil
		},
	}

	if err := command.Execute([]string{"--format", "json", "--both-dirs=false", "capture.log"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if format != "json" || bothDirections {
		t.Errorf("format=%q both-dirs=%v", format, bothDirections)
	}
	if len(receivedArgs) != 1 || receivedArgs[0] != "capture.log" {
		t.Errorf("args = %v, want [capture.log]", receivedArgs)
	}
}

func TestCommand_Execute_UnknownCommandSuggests(t *testing.T) {
	root := &Command{
		Name:        "ttyview",
		Subcommands: []*Command{{Name: "decode", Run: func([]string) error { return nil }}},
	}

	err := root.Execute([]string{"decdoe"})
	if err == nil {
		t.Fatal("expected error for unknown command")
	}
	if !strings.Contains(err.Error(), `did you mean "decode"`) {
		t.Errorf("error = %q, want suggestion", err)
	}
	var toolErr *ToolError
	if !errors.As(err, &toolErr) || toolErr.Category != CategoryValidation {
		t.Errorf("error category = %v, want validation", toolErr)
	}
}

func TestCommand_Execute_UnknownFlagSuggests(t *testing.T) {
	command := &Command{
		Name: "fetch",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("fetch", pflag.ContinueOnError)
			flagSet.String("server", "", "server URL")
			return flagSet
		},
		Run: func([]string) error { return nil },
	}

	err := command.Execute([]string{"--sever", "http://x"})
	if err == nil {
		t.Fatal("expected error for unknown flag")
	}
	if !strings.Contains(err.Error(), "did you mean --server?") {
		t.Errorf("error = %q, want --server suggestion", err)
	}
}

func TestCommand_Execute_Help(t *testing.T) {
	var help bytes.Buffer
	root := &Command{
		Name:       "ttyview",
		Summary:    "TTY session viewer",
		HelpOutput: &help,
		Subcommands: []*Command{
			{
				Name:    "decode",
				Summary: "Decode a capture file",
				Flags: func() *pflag.FlagSet {
					flagSet := pflag.NewFlagSet("decode", pflag.ContinueOnError)
					flagSet.String("format", "text", "output format")
					return flagSet
				},
				Examples: []Example{{Description: "Decode to JSON", Command: "ttyview decode --format json s.log"}},
				Run:      func([]string) error { return nil },
			},
		},
	}

	if err := root.Execute([]string{"--help"}); err != nil {
		t.Fatalf("Execute(--help) error: %v", err)
	}
	output := help.String()
	for _, want := range []string{"TTY session viewer", "decode", "Decode a capture file", "ttyview <command> --help"} {
		if !strings.Contains(output, want) {
			t.Errorf("root help missing %q:\n%s", want, output)
		}
	}

	help.Reset()
	if err := root.Execute([]string{"decode", "--help"}); err != nil {
		t.Fatalf("Execute(decode --help) error: %v", err)
	}
	output = help.String()
	for _, want := range []string{"ttyview decode [flags]", "--format", "Decode to JSON"} {
		if !strings.Contains(output, want) {
			t.Errorf("decode help missing %q:\n%s", want, output)
		}
	}
}

func TestCommand_Execute_SubcommandRequired(t *testing.T) {
	root := &Command{
		Name:        "ttyview",
		HelpOutput:  &bytes.Buffer{},
		Subcommands: []*Command{{Name: "list", Run: func([]string) error { return nil }}},
	}
	if err := root.Execute(nil); err == nil {
		t.Fatal("expected error when no subcommand given")
	}
}
