// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package ttylog

// EventDirectionOutput is the direction tag carried by every decoded
// event.
const EventDirectionOutput = "output"

// Event is one decoded chunk of terminal output. The JSON field names
// are part of the viewer API and match what existing clients read.
type Event struct {
	// Text is the payload decoded as UTF-8, with invalid bytes
	// replaced by U+FFFD.
	Text string `json:"data"`

	// Direction is always EventDirectionOutput.
	Direction string `json:"direction"`

	// Timestamp is the record time in fractional seconds since the
	// Unix epoch (sec + usec/1e6).
	Timestamp float64 `json:"timestamp"`
}

// Settings controls which records become events. Settings is passed by
// value into Decode and never retained.
//
// Tail, MaxDelay, and Colorify are accepted for compatibility with the
// viewer's configuration surface and do not affect decoding.
type Settings struct {
	// Tail is the number of trailing events a presentation layer may
	// keep. Inert.
	Tail int `json:"tail" yaml:"tail"`

	// MaxDelay caps inter-event delay during timed replay, in seconds.
	// Inert.
	MaxDelay float64 `json:"max_delay" yaml:"max_delay"`

	// InputOnly forces the preferred direction when the first WRITE is
	// seen. If that write is INPUT the preference becomes OUTPUT;
	// otherwise it becomes INPUT.
	InputOnly bool `json:"input_only" yaml:"input_only"`

	// BothDirections decodes writes in every direction instead of
	// only the preferred one. INPUT writes still never become events.
	BothDirections bool `json:"both_dirs" yaml:"both_dirs"`

	// Colorify requests color rendering from a presentation layer.
	// Inert.
	Colorify bool `json:"colorify" yaml:"colorify"`
}

// DefaultSettings returns the settings the session viewer has always
// used: both directions decoded, colorify on, everything else off.
func DefaultSettings() Settings {
	return Settings{
		BothDirections: true,
		Colorify:       true,
	}
}

// Decode reconstructs the output events of a capture. Decoding stops
// at the first incomplete record, at a CLOSE on the session's
// terminal, or at the end of data. The result is never nil.
func Decode(data []byte, settings Settings) []Event {
	session := sessionDecoder{settings: settings, events: []Event{}}
	for record := range Records(data) {
		if !session.apply(record) {
			break
		}
	}
	return session.events
}

// sessionDecoder is the per-call decoding state.
type sessionDecoder struct {
	settings Settings

	// tty is the session's terminal, taken from the first record.
	// Zero until a record with a non-zero terminal is seen.
	tty uint32

	// preferred is fixed by the first WRITE on the session terminal.
	preferred Direction

	events []Event
}

// apply processes one record. It returns false when decoding must
// stop.
func (s *sessionDecoder) apply(record Record) bool {
	if s.tty == 0 {
		s.tty = record.TTY
	}
	if record.TTY != s.tty {
		return true
	}

	switch record.Op {
	case OpWrite:
		s.write(record)
	case OpClose:
		return false
	case OpOpen, OpExec:
	default:
	}
	return true
}

func (s *sessionDecoder) write(record Record) {
	if s.preferred == 0 {
		s.preferred = record.Direction
		if s.settings.InputOnly {
			// Existing captures are replayed with this inversion: a
			// session whose first write is input prefers output.
			s.preferred = DirectionInput
			if record.Direction == DirectionInput {
				s.preferred = DirectionOutput
			}
		}
	}

	if record.Direction != s.preferred && !s.settings.BothDirections {
		return
	}

	switch record.Direction {
	case DirectionOutput:
		s.events = append(s.events, Event{
			Text:      DecodeText(record.Payload),
			Direction: EventDirectionOutput,
			Timestamp: record.Timestamp(),
		})
	case DirectionInput, DirectionInteract:
		// Tracked for direction preference only.
	default:
	}
}
