// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"

	"github.com/creack/pty"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/bureau-foundation/ttyview/cmd/ttyview/cli"
	"github.com/bureau-foundation/ttyview/recorder"
	"github.com/bureau-foundation/ttyview/sessionstore"
)

type recordParams struct {
	output      string
	compression string
	tty         uint32
}

func recordCommand(s streams) *cli.Command {
	var params recordParams

	return &cli.Command{
		Name:    "record",
		Summary: "Record a terminal session to a capture file",
		Description: `Run a command under a pseudo-terminal and record everything it
writes, plus everything typed into it, as a capture file.

Without a command, $SHELL (or /bin/sh) is started. The capture is
compressed according to --compression, or the --output suffix (.zst,
.lz4, .gz) when that flag is not given. The exit status of the recorded
command becomes the exit status of ttyview.`,
		Usage: "ttyview record --output <file> [flags] [-- command [args...]]",
		Flags: func() *pflag.FlagSet {
			params = recordParams{}
			flagSet := pflag.NewFlagSet("record", pflag.ContinueOnError)
			flagSet.StringVarP(&params.output, "output", "o", "", "capture file to write (required)")
			flagSet.StringVar(&params.compression, "compression", "", "compression: none, zstd, lz4, or gzip (default: from the output suffix)")
			flagSet.Uint32Var(&params.tty, "tty", 0, "terminal identifier stamped on records (default: the process ID)")
			return flagSet
		},
		Examples: []cli.Example{
			{Description: "Record an interactive shell", Command: "ttyview record -o session.log.zst"},
			{Description: "Record one command", Command: "ttyview record -o build.log -- make test"},
		},
		Run: func(args []string) error {
			if params.output == "" {
				return cli.Validation("--output is required")
			}
			if len(args) == 0 {
				shell := os.Getenv("SHELL")
				if shell == "" {
					shell = "/bin/sh"
				}
				args = []string{shell}
			}
			return record(s, params, args)
		},
	}
}

// record runs argv under a PTY, copying the terminal through while
// recording both directions.
func record(s streams, params recordParams, argv []string) (err error) {
	compression := sessionstore.CompressionOf(params.output)
	if params.compression != "" {
		compression, err = sessionstore.ParseCompression(params.compression)
		if err != nil {
			return cli.Validation("--compression: %w", err)
		}
	}
	tty := params.tty
	if tty == 0 {
		tty = uint32(os.Getpid())
	}

	file, err := os.OpenFile(params.output, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return cli.Validation("creating capture: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing capture: %w", closeErr)
		}
	}()

	compressor, err := sessionstore.NewCompressWriter(compression, file)
	if err != nil {
		return cli.Internal("%w", err)
	}
	capture, err := recorder.New(recorder.Config{Writer: compressor, TTY: tty})
	if err != nil {
		return cli.Internal("%w", err)
	}

	command := exec.Command(argv[0], argv[1:]...)
	ptmx, err := pty.Start(command)
	if err != nil {
		return cli.Validation("starting %s: %w", argv[0], err)
	}
	defer ptmx.Close()

	if err := capture.Open(); err != nil {
		return fmt.Errorf("recording open: %w", err)
	}
	if err := capture.Exec(strings.Join(argv, " ")); err != nil {
		return fmt.Errorf("recording exec: %w", err)
	}

	if stdin, ok := s.in.(*os.File); ok && term.IsTerminal(int(stdin.Fd())) {
		resize := make(chan os.Signal, 1)
		signal.Notify(resize, syscall.SIGWINCH)
		go func() {
			for range resize {
				_ = pty.InheritSize(stdin, ptmx)
			}
		}()
		resize <- syscall.SIGWINCH
		defer func() {
			signal.Stop(resize)
			close(resize)
		}()

		state, err := term.MakeRaw(int(stdin.Fd()))
		if err != nil {
			return fmt.Errorf("setting raw mode: %w", err)
		}
		defer term.Restore(int(stdin.Fd()), state)
	}

	// The input pump blocks on stdin until the process exits; once the
	// recorder is closed its writes fail and the copy ends.
	go func() {
		_, _ = io.Copy(ptmx, io.TeeReader(s.in, capture.Input()))
	}()

	_, copyErr := io.Copy(io.MultiWriter(s.out, capture.Output()), ptmx)
	// Reading the PTY master returns EIO once the child has exited
	// and the slave side is closed.
	if copyErr != nil && !errors.Is(copyErr, syscall.EIO) {
		return fmt.Errorf("copying terminal output: %w", copyErr)
	}

	waitErr := command.Wait()
	if err := capture.Close(); err != nil {
		return fmt.Errorf("recording close: %w", err)
	}
	if err := compressor.Close(); err != nil {
		return fmt.Errorf("flushing capture: %w", err)
	}

	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		code := exitErr.ExitCode()
		if code < 0 {
			code = 1
		}
		return &cli.ExitError{Code: code}
	}
	if waitErr != nil {
		return fmt.Errorf("waiting for %s: %w", argv[0], waitErr)
	}
	return nil
}
