// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package ttylog

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
)

// DecodeText converts a payload to a UTF-8 string. Each maximal
// ill-formed subsequence (W3C/WHATWG replacement) becomes one U+FFFD,
// so a truncated multi-byte sequence yields a single marker while
// stray bytes yield one marker each. DecodeText never fails.
func DecodeText(payload []byte) string {
	if utf8.Valid(payload) {
		return string(payload)
	}
	// The x/text decoder is stateless, but a fresh one per call keeps
	// concurrent decodes independent of each other.
	decoded, err := unicode.UTF8.NewDecoder().Bytes(payload)
	if err != nil {
		return strings.ToValidUTF8(string(payload), string(utf8.RuneError))
	}
	return string(decoded)
}
