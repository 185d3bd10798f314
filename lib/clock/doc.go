// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time source.
//
// Production code holds a Clock field instead of calling time.Now
// directly. In production, Real() provides the standard library
// behavior. In tests, Fake() provides a clock that moves only when
// Advance or Set is called:
//
//	c := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	recorder, _ := recorder.New(recorder.Config{Writer: &buffer, TTY: 1, Clock: c})
//	c.Advance(250 * time.Millisecond)
//	recorder.Write(ttylog.DirectionOutput, []byte("$ "))
//
// This package has no ttyview-internal dependencies.
package clock
