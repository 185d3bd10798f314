// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/bureau-foundation/ttyview/sessionstore"
	"github.com/bureau-foundation/ttyview/ttylog"
)

// parseSettings applies query parameter overrides to defaults.
// Absent parameters keep the default; malformed ones are an error.
func parseSettings(query url.Values, defaults ttylog.Settings) (ttylog.Settings, error) {
	settings := defaults

	if value := query.Get("tail"); value != "" {
		tail, err := strconv.Atoi(value)
		if err != nil || tail < 0 {
			return settings, fmt.Errorf("tail must be a non-negative integer, got %q", value)
		}
		settings.Tail = tail
	}
	if value := query.Get("max_delay"); value != "" {
		delay, err := strconv.ParseFloat(value, 64)
		if err != nil || delay < 0 || math.IsNaN(delay) || math.IsInf(delay, 0) {
			return settings, fmt.Errorf("max_delay must be a non-negative number, got %q", value)
		}
		settings.MaxDelay = delay
	}

	flags := []struct {
		name  string
		field *bool
	}{
		{"input_only", &settings.InputOnly},
		{"both_dirs", &settings.BothDirections},
		{"colorify", &settings.Colorify},
	}
	for _, flag := range flags {
		value := query.Get(flag.name)
		if value == "" {
			continue
		}
		parsed, err := parseBool(value)
		if err != nil {
			return settings, fmt.Errorf("%s: %w", flag.name, err)
		}
		*flag.field = parsed
	}
	return settings, nil
}

// parseBool accepts the spellings HTML forms and query builders use.
func parseBool(value string) (bool, error) {
	switch strings.ToLower(value) {
	case "1", "true", "t", "yes", "y", "on":
		return true, nil
	case "0", "false", "f", "no", "n", "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean %q", value)
	}
}

// entityTag identifies the decoded output of data under settings in
// one representation. Only the settings that change decoding are
// included; the CBOR representation carries a "-c" suffix.
func entityTag(data []byte, settings ttylog.Settings, cbor bool) string {
	representation := ""
	if cbor {
		representation = "-c"
	}
	return fmt.Sprintf(`"%s-%s%s%s"`,
		sessionstore.Digest(data)[:32],
		flagBit(settings.InputOnly),
		flagBit(settings.BothDirections),
		representation)
}

func flagBit(value bool) string {
	if value {
		return "1"
	}
	return "0"
}

// etagMatches implements the weak comparison If-None-Match uses.
func etagMatches(header, tag string) bool {
	if header == "" {
		return false
	}
	for candidate := range strings.SplitSeq(header, ",") {
		candidate = strings.TrimPrefix(strings.TrimSpace(candidate), "W/")
		if candidate == "*" || candidate == tag {
			return true
		}
	}
	return false
}
