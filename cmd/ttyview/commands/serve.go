// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/ttyview/cmd/ttyview/cli"
	"github.com/bureau-foundation/ttyview/lib/config"
	"github.com/bureau-foundation/ttyview/server"
	"github.com/bureau-foundation/ttyview/sessionstore"
)

// shutdownTimeout bounds how long in-flight requests may run after a
// termination signal.
const shutdownTimeout = 10 * time.Second

type serveParams struct {
	storeFlags
	listen string
}

func serveCommand(s streams) *cli.Command {
	var params serveParams

	return &cli.Command{
		Name:    "serve",
		Summary: "Serve decoded sessions over HTTP",
		Description: `Serve the session viewer: an HTML index and session pages, a JSON
(or CBOR) event API, and a WebSocket stream per session.

Configuration comes from --config, else $` + config.EnvConfigPath + `, else the
deployment environment (S3_BUCKET_NAME, AWS_REGION, ENDPOINT_URL, and
AWS credentials). Without a bucket, captures are read from a local
directory.`,
		Usage: "ttyview serve [flags]",
		Flags: func() *pflag.FlagSet {
			params = serveParams{}
			flagSet := pflag.NewFlagSet("serve", pflag.ContinueOnError)
			params.storeFlags.bind(flagSet)
			flagSet.StringVar(&params.listen, "listen", "", "HTTP listen address (default from configuration: 0.0.0.0:8000)")
			return flagSet
		},
		Examples: []cli.Example{
			{Description: "Serve captures from a directory", Command: "ttyview serve --dir ./tty_logs --listen 127.0.0.1:8000"},
			{Description: "Serve an S3 bucket", Command: "S3_BUCKET_NAME=captures AWS_REGION=eu-west-1 ttyview serve"},
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return cli.Validation("serve takes no arguments")
			}
			loaded, err := params.load(params.listen)
			if err != nil {
				return err
			}
			level, _ := loaded.Log.SlogLevel()
			logger := cli.NewCommandLogger(level)

			ctx, stop := signalContext()
			defer stop()
			return serve(ctx, loaded, logger)
		},
	}
}

// serve runs the viewer until ctx is cancelled.
func serve(ctx context.Context, loaded *config.Config, logger *slog.Logger) error {
	store, err := openServedStore(ctx, loaded, logger)
	if err != nil {
		return err
	}

	viewer, err := server.New(server.Config{
		Store:         store,
		Settings:      loaded.Decode,
		ListenAddress: loaded.Listen,
		Logger:        logger,
	})
	if err != nil {
		return cli.Internal("creating server: %w", err)
	}
	if err := viewer.Start(); err != nil {
		return err
	}

	<-ctx.Done()

	shutdownContext, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := viewer.Shutdown(shutdownContext); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}

// openServedStore opens the configured store and, when the cache is
// enabled, wraps it. Changes in a capture directory invalidate the
// cached copy.
func openServedStore(ctx context.Context, loaded *config.Config, logger *slog.Logger) (sessionstore.Store, error) {
	store, err := sessionstore.Open(ctx, loaded.Store, logger)
	if err != nil {
		return nil, cli.Validation("opening session store: %w", err)
	}
	logger.Info("session store opened", "backend", loaded.Store.Backend)

	ttl := loaded.Cache.Expiry()
	if ttl <= 0 || loaded.Cache.MaxBytes <= 0 {
		return store, nil
	}
	cached := sessionstore.NewCached(store, sessionstore.CacheConfig{
		TTL:      ttl,
		MaxBytes: loaded.Cache.MaxBytes,
	})

	if directory, ok := store.(*sessionstore.Directory); ok {
		changes, err := directory.Watch(ctx)
		if err != nil {
			logger.Warn("capture directory watch failed, cached captures expire by TTL only",
				"directory", directory.Root(), "error", err)
			return cached, nil
		}
		go func() {
			for name := range changes {
				cached.Invalidate(name)
			}
		}()
	}
	return cached, nil
}
