// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sessionstore

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

// ErrNotFound is returned by Get when no capture has the requested
// name.
var ErrNotFound = errors.New("session not found")

// ErrInvalidName is returned for names that cannot identify a capture.
var ErrInvalidName = errors.New("invalid session name")

// SessionInfo describes one stored capture.
type SessionInfo struct {
	// Name is the capture's file or key name relative to the store
	// root, including any compression suffix.
	Name string `json:"name"`

	// Size is the stored size in bytes (compressed, if compressed).
	Size int64 `json:"size"`

	// Modified is the last modification time.
	Modified time.Time `json:"modified"`
}

// Store retrieves captures by name.
type Store interface {
	// List returns every capture, newest first. Captures with equal
	// modification times are ordered by name.
	List(ctx context.Context) ([]SessionInfo, error)

	// Get returns the decompressed capture bytes. The returned slice
	// may be shared with other callers and must not be modified.
	// Returns an error wrapping ErrNotFound for unknown names.
	Get(ctx context.Context, name string) ([]byte, error)
}

// ValidateName checks that name can identify a capture: non-empty, a
// single path element, and not "." or "..".
func ValidateName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty", ErrInvalidName)
	case name == "." || name == "..":
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	case strings.ContainsAny(name, "/\\\x00"):
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidName, name)
	}
	return nil
}

// sortSessions orders sessions newest first, then by name.
func sortSessions(sessions []SessionInfo) {
	slices.SortFunc(sessions, func(a, b SessionInfo) int {
		if c := b.Modified.Compare(a.Modified); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
}
