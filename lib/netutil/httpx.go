// Copyright 2026 The Flight Inspirations Authors
// SPDX-License-Identifier: Apache-2.0

// Package netutil provides bounded HTTP response readers.
//
// ReadResponse bounds every response body read at MaxResponseSize so
// that a misbehaving upstream cannot make the client allocate without
// limit. It is for JSON API responses, not streaming downloads.
package netutil

import "io"

// MaxResponseSize is the bound on JSON API response body reads: 16 MB.
// A flight-destinations response for a busy hub is a few hundred KB.
const MaxResponseSize int64 = 16 << 20

// ReadResponse reads a response body up to MaxResponseSize bytes. Use
// it instead of io.ReadAll on HTTP response bodies.
func ReadResponse(body io.Reader) ([]byte, error) {
	return io.ReadAll(io.LimitReader(body, MaxResponseSize))
}
