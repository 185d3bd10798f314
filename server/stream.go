// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/bureau-foundation/ttyview/lib/netutil"
)

// streamWriteTimeout bounds each WebSocket write so a stalled viewer
// cannot hold a connection open indefinitely.
const streamWriteTimeout = 10 * time.Second

// handleSessionStream sends each decoded event as a JSON text message,
// then a normal close frame. Lookup failures are reported as HTTP
// errors before the upgrade.
func (s *Server) handleSessionStream(w http.ResponseWriter, r *http.Request) {
	name, events, ok := s.loadEvents(w, r, s.sendError)
	if !ok {
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written an HTTP error.
		s.requestLogger(r).Debug("websocket upgrade failed", "session", name, "error", err)
		return
	}
	defer conn.Close()
	logger := s.requestLogger(r).With("session", name)

	for _, event := range events {
		payload, err := json.Marshal(event)
		if err != nil {
			logger.Error("encoding event", "error", err)
			return
		}
		if err := s.writeMessage(conn, websocket.TextMessage, payload); err != nil {
			if !netutil.IsExpectedCloseError(err) {
				logger.Warn("streaming event", "error", err)
			}
			return
		}
	}

	closeFrame := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "end of session")
	if err := s.writeMessage(conn, websocket.CloseMessage, closeFrame); err != nil && !netutil.IsExpectedCloseError(err) {
		logger.Warn("closing stream", "error", err)
	}
}

// writeMessage writes one frame under a wall-clock deadline. Socket
// deadlines are absolute times, so the injected clock is not used.
func (s *Server) writeMessage(conn *websocket.Conn, messageType int, payload []byte) error {
	if err := conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout)); err != nil {
		return err
	}
	return conn.WriteMessage(messageType, payload)
}
