// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"errors"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/ttyview/client"
	"github.com/bureau-foundation/ttyview/cmd/ttyview/cli"
	"github.com/bureau-foundation/ttyview/ttylog"
)

type fetchParams struct {
	server   string
	format   string
	settings ttylog.Settings
}

func fetchCommand(s streams) *cli.Command {
	var params fetchParams

	return &cli.Command{
		Name:    "fetch",
		Summary: "Fetch a decoded session from a server",
		Description: `Fetch the decoded events of one session from a ttyview server and
render them locally. The decoder settings are sent with the request.

The server defaults to $` + envServer + `, then ` + defaultServer + `.`,
		Usage: "ttyview fetch [flags] <name>",
		Flags: func() *pflag.FlagSet {
			params = fetchParams{}
			flagSet := pflag.NewFlagSet("fetch", pflag.ContinueOnError)
			flagSet.StringVar(&params.server, "server", "", "ttyview server URL")
			flagSet.StringVarP(&params.format, "format", "f", formatText, formatUsage)
			bindSettingsFlags(flagSet, &params.settings)
			return flagSet
		},
		Examples: []cli.Example{
			{
				Description: "Replay a stored session",
				Command:     "ttyview fetch session-42.log",
			},
			{
				Description: "Show the last 20 events with timestamps",
				Command:     "ttyview fetch --server http://viewer:8000 --tail 20 -f pretty session-42.log",
			},
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return cli.Validation("fetch takes exactly one session name")
			}
			if err := checkFormat(params.format); err != nil {
				return err
			}
			viewer, err := client.New(serverURL(params.server), nil)
			if err != nil {
				return cli.Validation("--server: %w", err)
			}

			ctx, stop := signalContext()
			defer stop()
			events, err := viewer.Events(ctx, args[0], params.settings)
			if errors.Is(err, client.ErrNotFound) {
				return cli.NotFound("session %q: %w", args[0], err)
			}
			if err != nil {
				return cli.Transient("fetching %s: %w", args[0], err)
			}
			return renderEvents(s.out, events, params.format, params.settings)
		},
	}
}
