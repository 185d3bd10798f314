// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package process holds entrypoint helpers for the ttyview binary:
// reporting a fatal error before a logger exists and exiting with the
// code an error carries.
package process
