// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/bureau-foundation/ttyview/sessionstore"
	"github.com/bureau-foundation/ttyview/ttylog"
)

//go:embed templates/*.html
var templateFiles embed.FS

func parseTemplates() (*template.Template, error) {
	templates, err := template.New("").Funcs(template.FuncMap{
		"eventTime": func(timestamp float64) string {
			seconds := int64(timestamp)
			nanos := int64((timestamp - float64(seconds)) * 1e9)
			return time.Unix(seconds, nanos).UTC().Format("15:04:05.000")
		},
		"byteSize": byteSize,
	}).ParseFS(templateFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	return templates, nil
}

type indexPage struct {
	Sessions []sessionstore.SessionInfo
}

type sessionPage struct {
	Name   string
	Events []ttylog.Event
}

type errorPage struct {
	Status     int
	StatusText string
	Message    string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.store.List(r.Context())
	if err != nil {
		s.sendStoreError(w, r, "", err, s.sendErrorPage)
		return
	}
	s.render(w, r, "index.html", indexPage{Sessions: sessions})
}

func (s *Server) handleSessionPage(w http.ResponseWriter, r *http.Request) {
	name, events, ok := s.loadEvents(w, r, s.sendErrorPage)
	if !ok {
		return
	}
	s.render(w, r, "session.html", sessionPage{Name: name, Events: events})
}

// render executes a template into a buffer first so a template error
// still produces a clean 500.
func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	var buffer bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buffer, name, data); err != nil {
		s.requestLogger(r).Error("rendering page", "template", name, "error", err)
		s.sendErrorPage(w, r, http.StatusInternalServerError, "rendering page")
		return
	}
	s.writePage(w, r, http.StatusOK, name, &buffer)
}

// sendErrorPage writes an HTML error page with the given status. If
// the error template itself fails, a plain-text error is sent.
func (s *Server) sendErrorPage(w http.ResponseWriter, r *http.Request, status int, format string, args ...any) {
	page := errorPage{
		Status:     status,
		StatusText: http.StatusText(status),
		Message:    fmt.Sprintf(format, args...),
	}
	var buffer bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buffer, "error.html", page); err != nil {
		s.requestLogger(r).Error("rendering error page", "error", err)
		http.Error(w, page.Message, status)
		return
	}
	s.writePage(w, r, status, "error.html", &buffer)
}

func (s *Server) writePage(w http.ResponseWriter, r *http.Request, status int, name string, buffer *bytes.Buffer) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buffer.WriteTo(w); err != nil {
		s.requestLogger(r).Warn("writing page", "template", name, "error", err)
	}
}

func byteSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(size)/float64(div), "KMGTPE"[exp])
}
