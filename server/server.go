// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/bureau-foundation/ttyview/lib/clock"
	"github.com/bureau-foundation/ttyview/sessionstore"
	"github.com/bureau-foundation/ttyview/ttylog"
)

// Config holds configuration for creating a Server.
type Config struct {
	// Store supplies captures. Required.
	Store sessionstore.Store

	// Settings are the decoder defaults for every request.
	Settings ttylog.Settings

	// ListenAddress is the TCP address Start listens on, for example
	// "0.0.0.0:8000". Port 0 picks a free port; see Addr.
	ListenAddress string

	Logger *slog.Logger

	// Clock defaults to clock.Real(). Used for request latency.
	Clock clock.Clock
}

// Server serves decoded sessions over HTTP and WebSocket.
type Server struct {
	store         sessionstore.Store
	settings      ttylog.Settings
	listenAddress string
	logger        *slog.Logger
	clock         clock.Clock
	templates     *template.Template
	upgrader      websocket.Upgrader
	httpServer    *http.Server
	listener      net.Listener
}

// New creates a Server. It does not start listening.
func New(config Config) (*Server, error) {
	if config.Store == nil {
		return nil, errors.New("store is required")
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if config.Clock == nil {
		config.Clock = clock.Real()
	}

	templates, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	server := &Server{
		store:         config.Store,
		settings:      config.Settings,
		listenAddress: config.ListenAddress,
		logger:        logger,
		clock:         config.Clock,
		templates:     templates,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 32 * 1024,
		},
	}
	server.httpServer = &http.Server{
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      5 * time.Minute, // large sessions and streams
	}
	return server, nil
}

// Handler returns the server's routes wrapped in request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /session/{name}", s.handleSessionPage)
	mux.HandleFunc("GET /api/sessions", s.handleListSessions)
	mux.HandleFunc("GET /api/session/{name}", s.handleSessionEvents)
	mux.HandleFunc("GET /ws/session/{name}", s.handleSessionStream)
	mux.HandleFunc("GET /health", s.handleHealth)
	return s.withRequestLogging(mux)
}

// Start listens on the configured address and serves in the
// background.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.listenAddress)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.listenAddress, err)
	}
	s.listener = listener
	s.logger.Info("ttyview server started", "address", listener.Addr().String())

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("http server error", "error", err)
		}
	}()
	return nil
}

// Addr returns the listening address, or nil before Start.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Shutdown stops accepting connections and waits for in-flight
// requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down ttyview server")
	return s.httpServer.Shutdown(ctx)
}
