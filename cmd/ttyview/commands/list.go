// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/pflag"

	"github.com/bureau-foundation/ttyview/client"
	"github.com/bureau-foundation/ttyview/cmd/ttyview/cli"
	"github.com/bureau-foundation/ttyview/sessionstore"
)

type listParams struct {
	storeFlags
	server string
	json   bool
}

func listCommand(s streams) *cli.Command {
	var params listParams

	return &cli.Command{
		Name:    "list",
		Summary: "List stored sessions",
		Description: `List captured sessions, newest first.

With --server, the listing comes from a running ttyview server.
Otherwise the configured store is read directly: --dir or --bucket
override the configuration file and the deployment environment.`,
		Usage: "ttyview list [flags]",
		Flags: func() *pflag.FlagSet {
			params = listParams{}
			flagSet := pflag.NewFlagSet("list", pflag.ContinueOnError)
			params.storeFlags.bind(flagSet)
			flagSet.StringVar(&params.server, "server", "", "list from a ttyview server at this URL")
			flagSet.BoolVar(&params.json, "json", false, "output JSON")
			return flagSet
		},
		Examples: []cli.Example{
			{Description: "List captures in a directory", Command: "ttyview list --dir ./tty_logs"},
			{Description: "List a server's sessions as JSON", Command: "ttyview list --server http://viewer:8000 --json"},
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return cli.Validation("list takes no arguments")
			}
			ctx, stop := signalContext()
			defer stop()

			sessions, err := params.sessions(ctx)
			if err != nil {
				return err
			}
			if params.json {
				return cli.WriteJSON(s.out, sessions)
			}
			return writeSessionTable(s.out, sessions)
		},
	}
}

func (p *listParams) sessions(ctx context.Context) ([]sessionstore.SessionInfo, error) {
	if p.server != "" {
		viewer, err := client.New(p.server, nil)
		if err != nil {
			return nil, cli.Validation("--server: %w", err)
		}
		sessions, err := viewer.Sessions(ctx)
		if err != nil {
			return nil, cli.Transient("listing sessions: %w", err)
		}
		return sessions, nil
	}

	loaded, err := p.load("")
	if err != nil {
		return nil, err
	}
	level, _ := loaded.Log.SlogLevel()
	store, err := sessionstore.Open(ctx, loaded.Store, cli.NewCommandLogger(level))
	if err != nil {
		return nil, cli.Validation("opening session store: %w", err)
	}
	sessions, err := store.List(ctx)
	if err != nil {
		return nil, cli.Transient("listing sessions: %w", err)
	}
	return sessions, nil
}

func writeSessionTable(w io.Writer, sessions []sessionstore.SessionInfo) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "no sessions")
		return err
	}

	renderer := newRenderer(w, true)
	header := renderer.NewStyle().Bold(true).Padding(0, 1)
	cell := renderer.NewStyle().Padding(0, 1)

	rows := make([][]string, len(sessions))
	for index, session := range sessions {
		rows[index] = []string{
			session.Name,
			strconv.FormatInt(session.Size, 10),
			session.Modified.Local().Format("2006-01-02 15:04:05"),
		}
	}

	sessionTable := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(renderer.NewStyle().Foreground(lipgloss.Color("240"))).
		Headers("NAME", "BYTES", "MODIFIED").
		Rows(rows...).
		StyleFunc(func(row, column int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})
	_, err := fmt.Fprintln(w, sessionTable.Render())
	return err
}

