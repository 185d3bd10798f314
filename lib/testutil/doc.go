// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for ttyview packages.
//
// [RequireReceive] and [RequireClosed] wrap the
// select-with-timeout pattern so tests that wait on watchers or
// streaming connections never call time.After directly.
//
// [Capture] and [WriteCapture] build capture buffers and capture files
// from records, with explicit modification times for tests that depend
// on listing order.
//
// [UniqueID] generates distinct identifiers for session names and
// request IDs in tests that share a store.
//
// All helpers call t.Fatalf on failure rather than returning errors.
package testutil
