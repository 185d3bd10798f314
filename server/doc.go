// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package server is the HTTP front end of the session viewer.
//
// Routes:
//
//	GET /                     HTML index of stored sessions
//	GET /session/{name}       HTML view of one decoded session
//	GET /api/sessions         JSON session list
//	GET /api/session/{name}   decoded events as JSON, or CBOR when the
//	                          client accepts application/cbor
//	GET /ws/session/{name}    decoded events streamed over a WebSocket,
//	                          one JSON text message per event
//	GET /health               liveness probe
//
// Decoder settings default to the server's configuration and may be
// overridden per request with the query parameters tail, max_delay,
// input_only, both_dirs, and colorify.
//
// Event responses carry an ETag derived from the capture digest and
// the settings that affect decoding, so unchanged sessions revalidate
// with 304 Not Modified.
package server
