// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli is the command framework behind the ttyview binary: a
// tree of [Command] values with pflag flag sets, structured help,
// typo suggestions for commands and flags, categorized errors that
// map to exit codes, and the shared logger and JSON output helpers.
package cli
