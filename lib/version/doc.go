// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package version provides build version information for the ttyview
// binary.
//
// Three variables are injected at build time via -ldflags -X:
// [GitCommit], [BuildTime], and [Version]. They default to "unknown"
// and "0.1.0-dev" in development builds and tests.
//
//	go build -ldflags "-X github.com/bureau-foundation/ttyview/lib/version.GitCommit=$(git rev-parse --short HEAD)"
package version
