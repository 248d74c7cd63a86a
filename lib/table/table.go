// Copyright 2026 The Flight Inspirations Authors
// SPDX-License-Identifier: Apache-2.0

package table

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
)

// Coordinate addresses one cell: a row index into the Table's rows
// (not into a filtered view) and a column name from the Schema.
type Coordinate struct {
	RowIndex int
	Column   string
}

// Config holds the collaborators and keys for a Table.
type Config struct {
	// Store is where Commit writes the snapshot and Restore reads it.
	// A Table without a Store works in memory and Commit fails.
	Store KeyValue

	// SnapshotKey overrides DefaultSnapshotKey.
	SnapshotKey string

	// ViewKey overrides DefaultViewKey.
	ViewKey string

	// Logger receives commit and restore events. Nil discards them.
	Logger *slog.Logger
}

// errNoStore is returned by Commit and the view-state methods when the
// Table was built without a Store.
var errNoStore = errors.New("table: no persistence store configured")

// Table is the working set of rows plus the satellite state that
// describes how they are edited and viewed. See the package
// documentation for the invariants.
type Table struct {
	store       KeyValue
	snapshotKey string
	viewKey     string
	logger      *slog.Logger

	rows   []Row
	schema Schema
	dirty  map[Coordinate]struct{}

	filters map[string]string
	order   []string

	// revision increments on every change to rows or filters. The
	// filtered view is cached against it.
	revision     uint64
	viewRevision uint64
	view         []ViewRow
}

// New creates an empty Table. Call [Table.Restore] to seed it from the
// Store.
func New(config Config) *Table {
	if config.SnapshotKey == "" {
		config.SnapshotKey = DefaultSnapshotKey
	}
	if config.ViewKey == "" {
		config.ViewKey = DefaultViewKey
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Table{
		store:       config.Store,
		snapshotKey: config.SnapshotKey,
		viewKey:     config.ViewKey,
		logger:      logger,
		dirty:       make(map[Coordinate]struct{}),
		filters:     make(map[string]string),
		revision:    1,
	}
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Row returns the row at index.
func (t *Table) Row(index int) (Row, bool) {
	if index < 0 || index >= len(t.rows) {
		return Row{}, false
	}
	return t.rows[index], true
}

// Rows returns a copy of the row slice. Rows themselves are immutable
// values and are shared.
func (t *Table) Rows() []Row {
	rows := make([]Row, len(t.rows))
	copy(rows, t.rows)
	return rows
}

// Schema returns a copy of the current Schema.
func (t *Table) Schema() Schema {
	schema := make(Schema, len(t.schema))
	copy(schema, t.schema)
	return schema
}

// Revision returns a counter that changes whenever the rows or the
// filters change. Renderers use it to skip unchanged frames.
func (t *Table) Revision() uint64 { return t.revision }

// LoadRows installs a freshly fetched batch, but only while the Table
// is empty and the batch is not. It returns whether the batch was
// taken. A taken batch replaces the Schema with the one derived from
// its first row and seeds the column order if none exists yet.
func (t *Table) LoadRows(rows []Row) bool {
	if len(t.rows) > 0 || len(rows) == 0 {
		return false
	}
	t.install(rows)
	t.logger.Debug("rows loaded", "rows", len(t.rows), "columns", len(t.schema))
	return true
}

// install replaces the rows and derives the Schema. Satellite state
// that names columns outside the new Schema is dropped.
func (t *Table) install(rows []Row) {
	t.rows = make([]Row, len(rows))
	copy(t.rows, rows)
	if len(t.rows) > 0 {
		t.schema = SchemaOf(t.rows[0])
	} else {
		t.schema = nil
	}
	if len(t.order) == 0 {
		t.order = t.schema.Names()
	}
	for column := range t.filters {
		if !t.schema.Has(column) {
			delete(t.filters, column)
		}
	}
	t.revision++
}

// EditCell replaces one cell's value and marks it dirty. The row index
// addresses the Table's rows, never a filtered view position. An
// out-of-range index or a column outside the Schema returns an error
// wrapping ErrInvalidCoordinate and changes nothing.
//
// The dirty set records that a cell was touched, not that it differs
// from the committed value: writing back the original value still
// leaves the cell dirty until the next Commit.
func (t *Table) EditCell(rowIndex int, column, value string) error {
	if rowIndex < 0 || rowIndex >= len(t.rows) {
		return fmt.Errorf("%w: row %d of %d", ErrInvalidCoordinate, rowIndex, len(t.rows))
	}
	if !t.schema.Has(column) {
		return fmt.Errorf("%w: column %q", ErrInvalidCoordinate, column)
	}
	t.rows[rowIndex] = t.rows[rowIndex].With(column, value)
	t.dirty[Coordinate{RowIndex: rowIndex, Column: column}] = struct{}{}
	t.revision++
	return nil
}

// IsDirty reports whether the cell at coordinate was edited since the
// last successful Commit.
func (t *Table) IsDirty(coordinate Coordinate) bool {
	_, ok := t.dirty[coordinate]
	return ok
}

// DirtyCount returns the number of dirty cells.
func (t *Table) DirtyCount() int { return len(t.dirty) }

// Dirty returns the dirty cells sorted by row index, then column name.
func (t *Table) Dirty() []Coordinate {
	coordinates := make([]Coordinate, 0, len(t.dirty))
	for coordinate := range t.dirty {
		coordinates = append(coordinates, coordinate)
	}
	sort.Slice(coordinates, func(i, j int) bool {
		if coordinates[i].RowIndex != coordinates[j].RowIndex {
			return coordinates[i].RowIndex < coordinates[j].RowIndex
		}
		return coordinates[i].Column < coordinates[j].Column
	})
	return coordinates
}

// Commit writes every row (not only the dirty ones) to the Store as one
// snapshot and clears the dirty set. If the write fails the dirty set
// is kept so the user can retry.
func (t *Table) Commit(ctx context.Context) error {
	if t.store == nil {
		return errNoStore
	}
	if err := WriteSnapshot(ctx, t.store, t.snapshotKey, t.rows); err != nil {
		return err
	}
	committed := len(t.dirty)
	clear(t.dirty)
	t.logger.Info("snapshot committed",
		"key", t.snapshotKey,
		"rows", len(t.rows),
		"dirty_cells", committed,
	)
	return nil
}

// Restore replaces the Table's rows with the stored snapshot. An absent
// key leaves the Table empty. A snapshot that cannot be decoded leaves
// the Table empty and returns an error wrapping ErrPersistenceCorrupt;
// the caller treats that like an absent key. The dirty set is cleared
// either way.
func (t *Table) Restore(ctx context.Context) error {
	if t.store == nil {
		return nil
	}
	clear(t.dirty)
	rows, found, err := ReadSnapshot(ctx, t.store, t.snapshotKey)
	if err != nil {
		t.install(nil)
		if errors.Is(err, ErrPersistenceCorrupt) {
			t.logger.Warn("discarding corrupt snapshot", "key", t.snapshotKey, "error", err)
		}
		return err
	}
	if !found {
		t.install(nil)
		return nil
	}
	t.install(rows)
	t.logger.Debug("snapshot restored", "key", t.snapshotKey, "rows", len(t.rows))
	return nil
}

// Reset empties the Table and all of its satellite state: rows,
// Schema, dirty set, filters, and column order. The next LoadRows is
// accepted and reseeds the order. Nothing is written to the Store
// until the next Commit.
func (t *Table) Reset() {
	t.rows = nil
	t.schema = nil
	clear(t.dirty)
	clear(t.filters)
	t.order = nil
	t.revision++
}
