// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"os"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/ttyview/cmd/ttyview/cli"
	"github.com/bureau-foundation/ttyview/lib/config"
	"github.com/bureau-foundation/ttyview/ttylog"
)

// envServer names the default server for commands that talk to one.
const envServer = "TTYVIEW_SERVER"

const defaultServer = "http://localhost:8000"

// bindSettingsFlags registers the decoder settings on flagSet, starting
// from the viewer defaults.
func bindSettingsFlags(flagSet *pflag.FlagSet, settings *ttylog.Settings) {
	defaults := ttylog.DefaultSettings()
	flagSet.IntVar(&settings.Tail, "tail", defaults.Tail, "show only the last N events (0 shows all)")
	flagSet.Float64Var(&settings.MaxDelay, "max-delay", defaults.MaxDelay, "maximum replay delay between events, in seconds")
	flagSet.BoolVar(&settings.InputOnly, "input-only", defaults.InputOnly, "force the preferred direction from the first write")
	flagSet.BoolVar(&settings.BothDirections, "both-dirs", defaults.BothDirections, "decode writes in every direction")
	flagSet.BoolVar(&settings.Colorify, "color", defaults.Colorify, "color the pretty format's timestamp gutter")
}

// storeFlags select a configuration and override its store.
type storeFlags struct {
	configPath string
	directory  string
	bucket     string
}

func (f *storeFlags) bind(flagSet *pflag.FlagSet) {
	flagSet.StringVar(&f.configPath, "config", "", "configuration file (default: $"+config.EnvConfigPath+")")
	flagSet.StringVar(&f.directory, "dir", "", "read captures from this directory")
	flagSet.StringVar(&f.bucket, "bucket", "", "read captures from this S3 bucket")
}

// load reads the configuration file, or the deployment environment
// when there is none, and applies the flag overrides. listen, if set,
// replaces the listen address. The result is validated.
func (f *storeFlags) load(listen string) (*config.Config, error) {
	if f.directory != "" && f.bucket != "" {
		return nil, cli.Validation("--dir and --bucket are mutually exclusive")
	}

	path := f.configPath
	if path == "" {
		path = os.Getenv(config.EnvConfigPath)
	}
	var loaded *config.Config
	var err error
	if path != "" {
		loaded, err = config.LoadFile(path)
	} else {
		loaded, err = config.FromEnvironment()
	}
	if err != nil {
		return nil, cli.Validation("loading configuration: %w", err)
	}

	if f.directory != "" {
		loaded.Store.Backend = config.BackendDirectory
		loaded.Store.Directory = f.directory
	}
	if f.bucket != "" {
		loaded.Store.Backend = config.BackendS3
		loaded.Store.Bucket = f.bucket
	}
	if listen != "" {
		loaded.Listen = listen
	}
	if err := loaded.Validate(); err != nil {
		return nil, cli.Validation("invalid configuration: %w", err)
	}
	return loaded, nil
}

// serverURL returns the --server value, falling back to the
// environment and then the local default.
func serverURL(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if value := os.Getenv(envServer); value != "" {
		return value
	}
	return defaultServer
}
