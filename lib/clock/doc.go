// Copyright 2026 The Flight Inspirations Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time source for the table engine
// and its collaborators.
//
// Two things in this program depend on the passage of time: the per-cell
// and per-column debounce timers in [debounce], and the OAuth token
// expiry in the Amadeus client. Both accept a [Clock] rather than calling
// the time package directly, so that tests can drive them
// deterministically:
//
//	fake := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	debouncer := debounce.New(fake, 300*time.Millisecond, onSettle)
//	debouncer.Trigger(key, "draft")
//	fake.Advance(300 * time.Millisecond) // onSettle runs here
//
// Production code uses [Real].
package clock
