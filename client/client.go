// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package client talks to a ttyview server's JSON API.
package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/bureau-foundation/ttyview/lib/codec"
	"github.com/bureau-foundation/ttyview/lib/netutil"
	"github.com/bureau-foundation/ttyview/sessionstore"
	"github.com/bureau-foundation/ttyview/ttylog"
)

// ErrNotFound is returned when the server has no session with the
// requested name.
var ErrNotFound = errors.New("session not found")

// Client is a ttyview API client. It is safe for concurrent use.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
}

// New returns a client for the server at baseURL, for example
// "http://localhost:8000". A nil httpClient uses http.DefaultClient.
func New(baseURL string, httpClient *http.Client) (*Client, error) {
	parsed, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing server URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("server URL %q must use http or https", baseURL)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: parsed, httpClient: httpClient}, nil
}

// Sessions lists the sessions the server can decode, newest first.
func (c *Client) Sessions(ctx context.Context) ([]sessionstore.SessionInfo, error) {
	var sessions []sessionstore.SessionInfo
	if err := c.get(ctx, "/api/sessions", nil, "application/json", &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// Events fetches the decoded events of one session. The settings are
// sent as query parameters and replace the server's defaults.
func (c *Client) Events(ctx context.Context, name string, settings ttylog.Settings) ([]ttylog.Event, error) {
	query := url.Values{
		"tail":       {strconv.Itoa(settings.Tail)},
		"max_delay":  {strconv.FormatFloat(settings.MaxDelay, 'g', -1, 64)},
		"input_only": {strconv.FormatBool(settings.InputOnly)},
		"both_dirs":  {strconv.FormatBool(settings.BothDirections)},
		"colorify":   {strconv.FormatBool(settings.Colorify)},
	}
	var events []ttylog.Event
	if err := c.get(ctx, "/api/session/"+name, query, codec.ContentType, &events); err != nil {
		return nil, err
	}
	if events == nil {
		events = []ttylog.Event{}
	}
	return events, nil
}

// get performs a GET and decodes the body according to its content
// type. path is unescaped; accept is the preferred response type.
func (c *Client) get(ctx context.Context, path string, query url.Values, accept string, result any) error {
	target := *c.baseURL
	target.Path = c.baseURL.Path + path
	target.RawPath = ""
	target.RawQuery = query.Encode()

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	request.Header.Set("Accept", accept+", application/json;q=0.5")

	response, err := c.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer response.Body.Close()

	switch {
	case response.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, netutil.ErrorBody(response.Body))
	case response.StatusCode != http.StatusOK:
		return fmt.Errorf("GET %s: %s: %s", path, response.Status, netutil.ErrorBody(response.Body))
	}

	if response.Header.Get("Content-Type") == codec.ContentType {
		data, err := netutil.ReadResponse(response.Body)
		if err != nil {
			return err
		}
		if err := codec.Unmarshal(data, result); err != nil {
			return fmt.Errorf("decoding CBOR response: %w", err)
		}
		return nil
	}
	return netutil.DecodeResponse(response.Body, result)
}
