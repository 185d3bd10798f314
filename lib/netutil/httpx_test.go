// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package netutil

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"syscall"
	"testing"

	"github.com/gorilla/websocket"
)

func TestReadResponse(t *testing.T) {
	t.Run("normal body", func(t *testing.T) {
		data, err := ReadResponse(bytes.NewReader([]byte(`[{"data":"hi"}]`)))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(data) != `[{"data":"hi"}]` {
			t.Fatalf("got %q", data)
		}
	})

	t.Run("empty body", func(t *testing.T) {
		data, err := ReadResponse(bytes.NewReader(nil))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(data) != 0 {
			t.Fatalf("expected empty, got %d bytes", len(data))
		}
	})

	t.Run("read error propagates", func(t *testing.T) {
		if _, err := ReadResponse(&failReader{}); err == nil {
			t.Fatal("expected error from failing reader")
		}
	})
}

func TestDecodeResponse(t *testing.T) {
	t.Run("valid JSON", func(t *testing.T) {
		var result []struct {
			Data      string  `json:"data"`
			Timestamp float64 `json:"timestamp"`
		}
		body := bytes.NewReader([]byte(`[{"data":"ls\r\n","direction":"output","timestamp":100.5}]`))
		if err := DecodeResponse(body, &result); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(result) != 1 || result[0].Data != "ls\r\n" || result[0].Timestamp != 100.5 {
			t.Fatalf("unexpected result: %+v", result)
		}
	})

	t.Run("invalid JSON", func(t *testing.T) {
		if err := DecodeResponse(bytes.NewReader([]byte(`not json`)), &struct{}{}); err == nil {
			t.Fatal("expected error for invalid JSON")
		}
	})

	t.Run("read error propagates", func(t *testing.T) {
		if err := DecodeResponse(&failReader{}, &struct{}{}); err == nil {
			t.Fatal("expected error from failing reader")
		}
	})
}

func TestErrorBody(t *testing.T) {
	tests := []struct {
		name string
		body io.Reader
		want string
	}{
		{name: "json envelope", body: strings.NewReader(`{"error":"session not found"}`), want: "session not found"},
		{name: "plain text", body: strings.NewReader("bad gateway\n"), want: "bad gateway"},
		{name: "json without error field", body: strings.NewReader(`{"status":"x"}`), want: `{"status":"x"}`},
		{name: "empty", body: bytes.NewReader(nil), want: ""},
		{name: "read error", body: &failReader{}, want: ""},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := ErrorBody(test.body); got != test.want {
				t.Fatalf("ErrorBody() = %q, want %q", got, test.want)
			}
		})
	}

	long := strings.Repeat("x", maxErrorBody*2)
	if got := ErrorBody(strings.NewReader(long)); len(got) != maxErrorBody {
		t.Errorf("long body: got %d bytes, want %d", len(got), maxErrorBody)
	}
}

func TestIsExpectedCloseError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "eof", err: io.EOF, want: true},
		{name: "wrapped eof", err: fmt.Errorf("reading: %w", io.EOF), want: true},
		{name: "net closed", err: net.ErrClosed, want: true},
		{name: "broken pipe", err: &net.OpError{Op: "write", Err: syscall.EPIPE}, want: true},
		{name: "reset", err: syscall.ECONNRESET, want: true},
		{name: "websocket normal", err: &websocket.CloseError{Code: websocket.CloseNormalClosure}, want: true},
		{name: "websocket going away", err: &websocket.CloseError{Code: websocket.CloseGoingAway}, want: true},
		{name: "websocket protocol error", err: &websocket.CloseError{Code: websocket.CloseProtocolError}, want: false},
		{name: "close sent", err: websocket.ErrCloseSent, want: true},
		{name: "other", err: errors.New("disk on fire"), want: false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := IsExpectedCloseError(test.err); got != test.want {
				t.Fatalf("IsExpectedCloseError(%v) = %v, want %v", test.err, got, test.want)
			}
		})
	}
}

// failReader always returns an error on Read.
type failReader struct{}

func (*failReader) Read([]byte) (int, error) {
	return 0, fmt.Errorf("simulated read failure")
}
