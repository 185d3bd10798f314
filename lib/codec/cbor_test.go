// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/bureau-foundation/ttyview/ttylog"
)

func sampleEvents() []ttylog.Event {
	return []ttylog.Event{
		{Text: "$ ", Direction: ttylog.EventDirectionOutput, Timestamp: 100.5},
		{Text: "ls\r\n\x1b[31mred\x1b[0m", Direction: ttylog.EventDirectionOutput, Timestamp: 1700000000.123456},
	}
}

func TestMarshalUnmarshalEvents(t *testing.T) {
	original := sampleEvents()

	data, err := Marshal(original)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded []ttylog.Event
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !reflect.DeepEqual(decoded, original) {
		t.Errorf("roundtrip mismatch: got %+v, want %+v", decoded, original)
	}
}

func TestMarshalUsesJSONFieldNames(t *testing.T) {
	data, err := Marshal(sampleEvents()[0])
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var generic map[string]any
	if err := Unmarshal(data, &generic); err != nil {
		t.Fatalf("Unmarshal into map: %v", err)
	}
	for _, key := range []string{"data", "direction", "timestamp"} {
		if _, ok := generic[key]; !ok {
			t.Errorf("key %q missing from %v", key, generic)
		}
	}
	if generic["timestamp"] != 100.5 {
		t.Errorf("timestamp = %v (%T), want float64 100.5", generic["timestamp"], generic["timestamp"])
	}
}

func TestMarshalDeterministic(t *testing.T) {
	first, err := Marshal(sampleEvents())
	if err != nil {
		t.Fatalf("first Marshal: %v", err)
	}
	second, err := Marshal(sampleEvents())
	if err != nil {
		t.Fatalf("second Marshal: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Errorf("deterministic encoding violated: %x != %x", first, second)
	}
}

func TestEncoderDecoderStream(t *testing.T) {
	var buffer bytes.Buffer
	encoder := NewEncoder(&buffer)
	for _, event := range sampleEvents() {
		if err := encoder.Encode(event); err != nil {
			t.Fatalf("Encode: %v", err)
		}
	}

	decoder := NewDecoder(&buffer)
	for index, want := range sampleEvents() {
		var got ttylog.Event
		if err := decoder.Decode(&got); err != nil {
			t.Fatalf("Decode[%d]: %v", index, err)
		}
		if got != want {
			t.Errorf("event[%d] = %+v, want %+v", index, got, want)
		}
	}
}
