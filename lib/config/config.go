// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/ttyview/ttylog"
)

// EnvConfigPath names the environment variable [Load] reads the
// configuration file path from.
const EnvConfigPath = "TTYVIEW_CONFIG"

// Store backends.
const (
	BackendDirectory = "dir"
	BackendS3        = "s3"
)

// DefaultS3Prefix is the key prefix captures live under in a bucket.
const DefaultS3Prefix = "tty_logs/"

// Config is the configuration for the ttyview server and CLI.
type Config struct {
	// Listen is the HTTP listen address for "ttyview serve".
	Listen string `yaml:"listen" json:"listen"`

	// Store selects and configures the capture backend.
	Store StoreConfig `yaml:"store" json:"store"`

	// Cache bounds the in-memory capture cache in front of the store.
	Cache CacheConfig `yaml:"cache" json:"cache"`

	// Decode holds the default decoder settings. Requests may
	// override them individually.
	Decode ttylog.Settings `yaml:"decode" json:"decode"`

	// Log configures the process logger.
	Log LogConfig `yaml:"log" json:"log"`
}

// StoreConfig configures where captures are read from.
type StoreConfig struct {
	// Backend is "dir" or "s3". Empty selects "s3" when a bucket is
	// configured and "dir" otherwise.
	Backend string `yaml:"backend" json:"backend"`

	// Directory holds capture files for the "dir" backend.
	Directory string `yaml:"directory" json:"directory"`

	// Bucket, Prefix, Region, and Endpoint configure the "s3"
	// backend. Endpoint is optional and switches the client to
	// path-style addressing for S3-compatible services.
	Bucket   string `yaml:"bucket" json:"bucket"`
	Prefix   string `yaml:"prefix" json:"prefix"`
	Region   string `yaml:"region" json:"region"`
	Endpoint string `yaml:"endpoint" json:"endpoint"`

	// Static credentials. Only ever read from the environment.
	AccessKeyID     string `yaml:"-" json:"-"`
	SecretAccessKey string `yaml:"-" json:"-"`
}

// CacheConfig bounds the capture cache.
type CacheConfig struct {
	// TTL is how long a fetched capture is served from memory, as a
	// Go duration string. "0s" disables caching.
	TTL string `yaml:"ttl" json:"ttl"`

	// MaxBytes is the total size of cached captures. Zero disables
	// caching.
	MaxBytes int64 `yaml:"max_bytes" json:"max_bytes"`
}

// Expiry returns the parsed TTL, or zero if it does not parse.
// [Config.Validate] reports unparseable values.
func (c CacheConfig) Expiry() time.Duration {
	duration, err := time.ParseDuration(c.TTL)
	if err != nil {
		return 0
	}
	return duration
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is a slog level name: debug, info, warn, or error.
	Level string `yaml:"level" json:"level"`
}

// SlogLevel returns the parsed level.
func (c LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		return slog.LevelInfo, err
	}
	return level, nil
}

// deploymentEnvironment is the environment the viewer has historically
// been deployed with. These variables fill store fields the file
// leaves empty; credentials come only from here.
type deploymentEnvironment struct {
	Bucket          string `env:"S3_BUCKET_NAME"`
	Region          string `env:"AWS_REGION"`
	Endpoint        string `env:"ENDPOINT_URL"`
	AccessKeyID     string `env:"AWS_ACCESS_KEY_ID"`
	SecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY"`
}

// Default returns the default configuration. Fields not set by the
// config file keep these values.
func Default() *Config {
	homeDir, _ := os.UserHomeDir()

	return &Config{
		Listen: "0.0.0.0:8000",
		Store: StoreConfig{
			Directory: filepath.Join(homeDir, ".local", "share", "ttyview", "tty_logs"),
			Prefix:    DefaultS3Prefix,
		},
		Cache: CacheConfig{
			TTL:      "30s",
			MaxBytes: 64 << 20,
		},
		Decode: ttylog.DefaultSettings(),
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from the file named by TTYVIEW_CONFIG.
// There is no discovery: if the variable is unset, Load fails.
func Load() (*Config, error) {
	configPath := os.Getenv(EnvConfigPath)
	if configPath == "" {
		return nil, fmt.Errorf("%s environment variable not set; "+
			"set it to the path of your ttyview.yaml config file, or use --config flag", EnvConfigPath)
	}
	return LoadFile(configPath)
}

// LoadFile loads configuration from path. Files ending in .json or
// .jsonc are parsed as JSON with comments and trailing commas; anything
// else is YAML. Unknown keys are rejected.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if err := cfg.loadFile(path); err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	if err := cfg.finish(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromEnvironment returns the default configuration completed from
// the deployment environment variables alone. This is how the viewer
// runs when no config file is given.
func FromEnvironment() (*Config, error) {
	cfg := Default()
	if err := cfg.finish(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		decoder := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(c); err != nil && !errors.Is(err, io.EOF) {
			return err
		}
	default:
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(c); err != nil && !errors.Is(err, io.EOF) {
			return err
		}
	}
	return nil
}

// finish applies the deployment environment, resolves the backend,
// and expands variables.
func (c *Config) finish() error {
	var deployment deploymentEnvironment
	if err := env.Parse(&deployment); err != nil {
		return fmt.Errorf("reading environment: %w", err)
	}
	c.applyDeployment(deployment)

	if c.Store.Backend == "" {
		c.Store.Backend = BackendDirectory
		if c.Store.Bucket != "" {
			c.Store.Backend = BackendS3
		}
	}

	c.expandVariables()
	return nil
}

func (c *Config) applyDeployment(deployment deploymentEnvironment) {
	fill := func(field *string, value string) {
		if *field == "" {
			*field = value
		}
	}
	fill(&c.Store.Bucket, deployment.Bucket)
	fill(&c.Store.Region, deployment.Region)
	fill(&c.Store.Endpoint, deployment.Endpoint)
	c.Store.AccessKeyID = deployment.AccessKeyID
	c.Store.SecretAccessKey = deployment.SecretAccessKey
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in
// path-like fields.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}
	c.Listen = expandVars(c.Listen, vars)
	c.Store.Directory = expandVars(c.Store.Directory, vars)
	c.Store.Endpoint = expandVars(c.Store.Endpoint, vars)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandVars expands ${VAR} and ${VAR:-default} patterns. vars is
// consulted before the process environment.
func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the configuration and reports every problem found.
func (c *Config) Validate() error {
	var errs []error

	if c.Listen == "" {
		errs = append(errs, errors.New("listen is required"))
	}

	switch c.Store.Backend {
	case BackendDirectory:
		if c.Store.Directory == "" {
			errs = append(errs, errors.New("store.directory is required for the dir backend"))
		}
	case BackendS3:
		if c.Store.Bucket == "" {
			errs = append(errs, errors.New("store.bucket is required for the s3 backend (or set S3_BUCKET_NAME)"))
		}
		if (c.Store.AccessKeyID == "") != (c.Store.SecretAccessKey == "") {
			errs = append(errs, errors.New("AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY must be set together"))
		}
	default:
		errs = append(errs, fmt.Errorf("store.backend must be one of: %v", []string{BackendDirectory, BackendS3}))
	}

	if ttl, err := time.ParseDuration(c.Cache.TTL); err != nil {
		errs = append(errs, fmt.Errorf("cache.ttl: %w", err))
	} else if ttl < 0 {
		errs = append(errs, fmt.Errorf("cache.ttl must not be negative, got %s", c.Cache.TTL))
	}
	if c.Cache.MaxBytes < 0 {
		errs = append(errs, fmt.Errorf("cache.max_bytes must not be negative, got %d", c.Cache.MaxBytes))
	}

	if c.Decode.Tail < 0 {
		errs = append(errs, fmt.Errorf("decode.tail must not be negative, got %d", c.Decode.Tail))
	}
	if c.Decode.MaxDelay < 0 {
		errs = append(errs, fmt.Errorf("decode.max_delay must not be negative, got %v", c.Decode.MaxDelay))
	}

	if _, err := c.Log.SlogLevel(); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}

	return errors.Join(errs...)
}
