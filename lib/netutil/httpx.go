// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package netutil provides bounded HTTP body reads and connection error
// classification for the viewer's server and client.
//
// [ReadResponse] and [DecodeResponse] cap body reads at
// [MaxResponseSize] so that a misbehaving server cannot exhaust client
// memory. [ErrorBody] extracts a short diagnostic from an error
// response. [IsExpectedCloseError] separates normal disconnects from
// real failures on HTTP and WebSocket connections.
package netutil

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// MaxResponseSize bounds API response body reads: 256 MB. Decoded
// sessions are far smaller; the cap only guards against pathological
// responses.
const MaxResponseSize int64 = 256 << 20

// maxErrorBody bounds how much of an error response is kept for a
// diagnostic message.
const maxErrorBody = 4 << 10

// ReadResponse reads a response body up to MaxResponseSize bytes. A
// body longer than the limit is an error rather than a silent
// truncation.
func ReadResponse(body io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(body, MaxResponseSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	if int64(len(data)) > MaxResponseSize {
		return nil, fmt.Errorf("response body exceeds %d bytes", MaxResponseSize)
	}
	return data, nil
}

// DecodeResponse reads a JSON response body (up to MaxResponseSize
// bytes) and decodes it into v.
func DecodeResponse(body io.Reader, v any) error {
	data, err := ReadResponse(body)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decoding response body: %w", err)
	}
	return nil
}

// ErrorBody returns the start of an error response body for use in
// an error message. If the body is a JSON object with an "error" field,
// that field is returned. Read errors are ignored: a partial or empty
// body is still useful.
func ErrorBody(body io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(body, maxErrorBody))
	var envelope struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(data, &envelope) == nil && envelope.Error != "" {
		return envelope.Error
	}
	return strings.TrimSpace(string(data))
}
