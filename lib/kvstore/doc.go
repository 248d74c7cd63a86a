// Copyright 2026 The Flight Inspirations Authors
// SPDX-License-Identifier: Apache-2.0

// Package kvstore provides the string key-value stores that hold the
// table snapshot and view state.
//
// [SQLite] persists to a database file through [sqlitepool]; it is the
// store the application uses. [Memory] keeps everything in a map and is
// used by tests and by --db=:memory: sessions.
//
// Both satisfy table.KeyValue. Values are stored as bytes, so a CBOR
// value written through Set reads back unchanged.
package kvstore
