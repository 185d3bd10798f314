// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package sessionstore retrieves TTY session captures by name.
//
// A [Store] lists the available sessions and returns the raw bytes of
// one capture. Retrieval failures are reported here, never by the
// decoder: an unknown name is [ErrNotFound], anything else is a
// transport or filesystem error.
//
// Two backends are provided. [Directory] serves capture files from a
// local directory and can watch it for changes. [S3] serves objects
// under a key prefix (by default "tty_logs/") in a bucket, including
// S3-compatible services reached through a custom endpoint.
//
// Captures stored with a .zst, .lz4, or .gz suffix are decompressed
// transparently, and may be requested with or without the suffix.
//
// [Cached] wraps any Store with a TTL and byte-budget cache, and
// [Digest] gives a stable content hash used for HTTP ETags.
//
// All types in this package are safe for concurrent use.
package sessionstore
