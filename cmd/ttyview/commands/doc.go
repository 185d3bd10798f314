// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the ttyview command tree.
//
// Every command reads and writes through a streams value rather than
// the os globals, so tests drive the tree with buffers and temp files.
package commands
