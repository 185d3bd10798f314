// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides the shared CBOR encoding configuration.
//
// JSON is the default wire format for the viewer API and CLI output.
// CBOR is offered as a compact alternative for clients that request
// it (Accept: application/cbor, or --format cbor on the CLI). Types
// carry only `json` struct tags: fxamacker/cbor reads them as a
// fallback, so one tag controls field naming in both formats.
//
// For buffer-oriented operations:
//
//	data, err := codec.Marshal(events)
//	err = codec.Unmarshal(data, &events)
//
// For streams:
//
//	encoder := codec.NewEncoder(w)
//	decoder := codec.NewDecoder(r)
package codec
