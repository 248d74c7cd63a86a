// Copyright 2026 The Flight Inspirations Authors
// SPDX-License-Identifier: Apache-2.0

// Package table is the state engine behind the flight table: an
// editable, filterable, reorderable working set of rows with per-cell
// dirty tracking and whole-snapshot persistence.
//
// A [Table] holds:
//
//   - the rows, each an ordered record of named string fields ([Row]);
//   - the [Schema], derived from the first row of a freshly loaded batch;
//   - the dirty set of edited [Coordinate] values since the last commit;
//   - one substring filter per column;
//   - the user's column order, a permutation of the Schema names.
//
// The dirty set and filters are satellite indices over the rows and the
// Schema. They are cleared together by [Table.Reset] and never refer
// to a column outside the current Schema.
//
// A Table is owned by a single goroutine (the bubbletea Update loop in
// [tableui]) and does no locking. Debounced input arrives through that
// loop, not directly from timer goroutines.
//
// Persistence goes through a [KeyValue] collaborator. Rows are stored as
// one JSON array under a fixed key and read back once at startup by
// [Table.Restore]; the column order, filters, and page size are stored
// separately as CBOR ([ViewState]).
package table
