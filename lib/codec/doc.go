// Copyright 2026 The Flight Inspirations Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides the shared CBOR configuration for values the
// application stores for itself.
//
// Two serialization formats are used with a clear boundary:
//
//   - JSON for the row snapshot and the upstream travel API. The
//     snapshot is a plain JSON array so other tools can read it.
//   - CBOR for internal state with no outside reader: the table view
//     state (column order, filters, page size).
//
// The encoder uses Core Deterministic Encoding (RFC 8949 §4.2).
//
//	data, err := codec.Marshal(value)
//	err = codec.Unmarshal(data, &value)
//
// Types that are only ever CBOR carry `cbor` struct tags. Never put
// both `cbor` and `json` tags on the same field.
package codec
