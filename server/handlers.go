// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"

	"github.com/bureau-foundation/ttyview/lib/codec"
	"github.com/bureau-foundation/ttyview/sessionstore"
	"github.com/bureau-foundation/ttyview/ttylog"
)

// errorResponse is the body of every JSON error.
type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, map[string]string{"status": "ok"})
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.store.List(r.Context())
	if err != nil {
		s.sendStoreError(w, r, "", err, s.sendError)
		return
	}
	s.writeJSON(w, r, sessions)
}

func (s *Server) handleSessionEvents(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	settings, err := parseSettings(r.URL.Query(), s.settings)
	if err != nil {
		s.sendError(w, r, http.StatusBadRequest, "%v", err)
		return
	}

	data, err := s.store.Get(r.Context(), name)
	if err != nil {
		s.sendStoreError(w, r, name, err, s.sendError)
		return
	}

	cbor := acceptsCBOR(r.Header.Get("Accept"))
	tag := entityTag(data, settings, cbor)
	w.Header().Set("ETag", tag)
	w.Header().Set("Vary", "Accept")
	if etagMatches(r.Header.Get("If-None-Match"), tag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	events := ttylog.Decode(data, settings)
	if cbor {
		encoded, err := codec.Marshal(events)
		if err != nil {
			s.sendError(w, r, http.StatusInternalServerError, "encoding events: %v", err)
			return
		}
		w.Header().Set("Content-Type", codec.ContentType)
		if _, err := w.Write(encoded); err != nil {
			s.requestLogger(r).Warn("writing CBOR response", "error", err)
		}
		return
	}
	s.writeJSON(w, r, events)
}

// errorSender writes an error response in one representation:
// sendError for API routes, sendErrorPage for HTML pages.
type errorSender func(w http.ResponseWriter, r *http.Request, status int, format string, args ...any)

// loadEvents fetches and decodes a session for the HTML and WebSocket
// routes, writing an error response with send on failure.
func (s *Server) loadEvents(w http.ResponseWriter, r *http.Request, send errorSender) (string, []ttylog.Event, bool) {
	name := r.PathValue("name")
	settings, err := parseSettings(r.URL.Query(), s.settings)
	if err != nil {
		send(w, r, http.StatusBadRequest, "%v", err)
		return name, nil, false
	}
	data, err := s.store.Get(r.Context(), name)
	if err != nil {
		s.sendStoreError(w, r, name, err, send)
		return name, nil, false
	}
	return name, ttylog.Decode(data, settings), true
}

// sendStoreError maps a store error to a response: 404 for unknown
// sessions, 400 for unusable names, 500 otherwise.
func (s *Server) sendStoreError(w http.ResponseWriter, r *http.Request, name string, err error, send errorSender) {
	switch {
	case errors.Is(err, sessionstore.ErrNotFound):
		send(w, r, http.StatusNotFound, "session %q not found", name)
	case errors.Is(err, sessionstore.ErrInvalidName):
		send(w, r, http.StatusBadRequest, "%v", err)
	case errors.Is(err, context.Canceled):
		// The client went away; nobody is left to read a response.
	default:
		s.requestLogger(r).Error("session store failure", "session", name, "error", err)
		send(w, r, http.StatusInternalServerError, "session store unavailable")
	}
}

// sendError writes a JSON error body with the given status.
func (s *Server) sendError(w http.ResponseWriter, r *http.Request, status int, format string, args ...any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(errorResponse{Error: fmt.Sprintf(format, args...)}); err != nil {
		s.requestLogger(r).Warn("writing JSON error response", "error", err, "status", status)
	}
}

// writeJSON encodes value as JSON into w. If encoding fails (typically
// because the client disconnected) the error is logged.
func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, value any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(value); err != nil {
		s.requestLogger(r).Warn("writing JSON response", "error", err)
	}
}

// acceptsCBOR reports whether an Accept header names application/cbor
// with a non-zero quality.
func acceptsCBOR(accept string) bool {
	for part := range strings.SplitSeq(accept, ",") {
		mediaType, params, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err != nil || mediaType != codec.ContentType {
			continue
		}
		if q, ok := params["q"]; ok && strings.Trim(q, "0.") == "" {
			continue
		}
		return true
	}
	return false
}
