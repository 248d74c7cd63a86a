// Copyright 2026 The Flight Inspirations Authors
// SPDX-License-Identifier: Apache-2.0

package table_test

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/maisjamil1/flight-inspirations/lib/kvstore"
	"github.com/maisjamil1/flight-inspirations/lib/table"
)

func flightRow(origin, destination, departure, ret, price string) table.Row {
	return table.NewRow(
		table.Field{Name: table.ColumnOrigin, Value: origin},
		table.Field{Name: table.ColumnDestination, Value: destination},
		table.Field{Name: table.ColumnDepartureDate, Value: departure},
		table.Field{Name: table.ColumnReturnDate, Value: ret},
		table.Field{Name: table.ColumnPrice, Value: price},
	)
}

func scenarioRows() []table.Row {
	return []table.Row{
		flightRow("MAD", "LIS", "2024-05-01", "2024-05-08", "50"),
		flightRow("MAD", "BCN", "2024-06-01", "2024-06-05", "30"),
	}
}

func newTable(t *testing.T) (*table.Table, *kvstore.Memory) {
	t.Helper()
	store := kvstore.NewMemory()
	return table.New(table.Config{Store: store}), store
}

func assertRowsEqual(t *testing.T, got, want []table.Row) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d rows, want %d", len(got), len(want))
	}
	for index := range want {
		if !got[index].Equal(want[index]) {
			t.Errorf("row %d = %v, want %v", index, got[index], want[index])
		}
	}
}

func TestLoadRowsOnlyWhenEmpty(t *testing.T) {
	tbl, _ := newTable(t)
	first := scenarioRows()
	second := []table.Row{flightRow("LON", "PAR", "2024-07-01", "2024-07-03", "80")}

	if !tbl.LoadRows(first) {
		t.Fatal("first LoadRows rejected on an empty table")
	}
	if tbl.LoadRows(second) {
		t.Error("second LoadRows accepted on a non-empty table")
	}
	assertRowsEqual(t, tbl.Rows(), first)
}

func TestLoadRowsIgnoresEmptyBatch(t *testing.T) {
	tbl, _ := newTable(t)
	if tbl.LoadRows(nil) {
		t.Error("LoadRows(nil) reported success")
	}
	if tbl.LoadRows(scenarioRows()) == false {
		t.Error("LoadRows after empty batch rejected")
	}
}

func TestLoadRowsCopiesInput(t *testing.T) {
	tbl, _ := newTable(t)
	rows := scenarioRows()
	tbl.LoadRows(rows)
	rows[0] = flightRow("XXX", "YYY", "", "", "")

	row, _ := tbl.Row(0)
	if row.Value(table.ColumnOrigin) != "MAD" {
		t.Errorf("caller's slice aliased the store: origin = %q", row.Value(table.ColumnOrigin))
	}
}

func TestSchemaDerivedFromFirstRow(t *testing.T) {
	tbl, _ := newTable(t)
	tbl.LoadRows([]table.Row{
		table.NewRow(table.Field{Name: "origin", Value: "MAD"}, table.Field{Name: "departureDate", Value: "2024-05-01"}),
		table.NewRow(table.Field{Name: "origin", Value: "MAD"}, table.Field{Name: "extra", Value: "ignored"}),
	})

	schema := tbl.Schema()
	want := table.Schema{
		{Name: "origin", Kind: table.KindText},
		{Name: "departureDate", Kind: table.KindDate},
	}
	if !slices.Equal(schema, want) {
		t.Errorf("Schema = %v, want %v", schema, want)
	}
	if err := tbl.EditCell(1, "extra", "x"); !errors.Is(err, table.ErrInvalidCoordinate) {
		t.Errorf("edit outside the Schema: err = %v, want ErrInvalidCoordinate", err)
	}
}

func TestEditThenRead(t *testing.T) {
	tbl, _ := newTable(t)
	tbl.LoadRows(scenarioRows())

	for _, column := range tbl.Schema().Names() {
		for rowIndex := range tbl.Len() {
			value := "edited-" + column
			if err := tbl.EditCell(rowIndex, column, value); err != nil {
				t.Fatalf("EditCell(%d, %q): %v", rowIndex, column, err)
			}
			row, _ := tbl.Row(rowIndex)
			if got := row.Value(column); got != value {
				t.Errorf("row %d %s = %q, want %q", rowIndex, column, got, value)
			}
			if !tbl.IsDirty(table.Coordinate{RowIndex: rowIndex, Column: column}) {
				t.Errorf("(%d, %s) not dirty after edit", rowIndex, column)
			}
		}
	}
}

func TestEditReplacesRowValue(t *testing.T) {
	tbl, _ := newTable(t)
	tbl.LoadRows(scenarioRows())
	before, _ := tbl.Row(0)

	if err := tbl.EditCell(0, table.ColumnPrice, "55"); err != nil {
		t.Fatalf("EditCell: %v", err)
	}
	after, _ := tbl.Row(0)

	if before.Value(table.ColumnPrice) != "50" {
		t.Errorf("previously read row changed: price = %q", before.Value(table.ColumnPrice))
	}
	if before.Equal(after) {
		t.Error("row after edit compares equal to row before edit")
	}
	if !slices.Equal(after.Names(), before.Names()) {
		t.Errorf("field order changed: %v -> %v", before.Names(), after.Names())
	}
	other, _ := tbl.Row(1)
	if other.Value(table.ColumnPrice) != "30" {
		t.Errorf("untouched row changed: %v", other)
	}
}

func TestEditInvalidCoordinate(t *testing.T) {
	tbl, _ := newTable(t)
	tbl.LoadRows(scenarioRows())

	tests := []struct {
		name     string
		rowIndex int
		column   string
	}{
		{"negative row", -1, table.ColumnPrice},
		{"row past end", 2, table.ColumnPrice},
		{"unknown column", 0, "currency"},
		{"empty column", 0, ""},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := tbl.EditCell(test.rowIndex, test.column, "v")
			if !errors.Is(err, table.ErrInvalidCoordinate) {
				t.Fatalf("err = %v, want ErrInvalidCoordinate", err)
			}
		})
	}
	if tbl.DirtyCount() != 0 {
		t.Errorf("rejected edits left %d dirty cells", tbl.DirtyCount())
	}
	assertRowsEqual(t, tbl.Rows(), scenarioRows())
}

func TestEditOnEmptyTable(t *testing.T) {
	tbl, _ := newTable(t)
	if err := tbl.EditCell(0, table.ColumnPrice, "1"); !errors.Is(err, table.ErrInvalidCoordinate) {
		t.Errorf("err = %v, want ErrInvalidCoordinate", err)
	}
}

func TestDirtySortedAndSticky(t *testing.T) {
	tbl, _ := newTable(t)
	tbl.LoadRows(scenarioRows())

	tbl.EditCell(1, table.ColumnPrice, "31")
	tbl.EditCell(0, table.ColumnPrice, "51")
	tbl.EditCell(0, table.ColumnDestination, "OPO")
	// Writing the original value back still counts as touched.
	tbl.EditCell(1, table.ColumnPrice, "30")

	want := []table.Coordinate{
		{RowIndex: 0, Column: table.ColumnDestination},
		{RowIndex: 0, Column: table.ColumnPrice},
		{RowIndex: 1, Column: table.ColumnPrice},
	}
	if got := tbl.Dirty(); !slices.Equal(got, want) {
		t.Errorf("Dirty = %v, want %v", got, want)
	}
}

func TestCommitClearsDirtyAndPersists(t *testing.T) {
	tbl, store := newTable(t)
	ctx := context.Background()
	tbl.LoadRows(scenarioRows())
	tbl.EditCell(0, table.ColumnPrice, "55")
	tbl.EditCell(1, table.ColumnOrigin, "OPO")

	if err := tbl.Commit(ctx); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if tbl.DirtyCount() != 0 {
		t.Errorf("dirty set has %d cells after commit", tbl.DirtyCount())
	}

	persisted, found, err := table.ReadSnapshot(ctx, store, table.DefaultSnapshotKey)
	if err != nil || !found {
		t.Fatalf("ReadSnapshot = (found %v, err %v)", found, err)
	}
	assertRowsEqual(t, persisted, tbl.Rows())
}

func TestCommitFailureKeepsDirty(t *testing.T) {
	tbl, store := newTable(t)
	tbl.LoadRows(scenarioRows())
	tbl.EditCell(0, table.ColumnPrice, "55")
	store.FailWrites(errors.New("disk full"))

	if err := tbl.Commit(context.Background()); err == nil {
		t.Fatal("Commit succeeded with a failing store")
	}
	if !tbl.IsDirty(table.Coordinate{RowIndex: 0, Column: table.ColumnPrice}) {
		t.Error("failed commit cleared the dirty set")
	}
}

func TestCommitWithoutStore(t *testing.T) {
	tbl := table.New(table.Config{})
	tbl.LoadRows(scenarioRows())
	if err := tbl.Commit(context.Background()); err == nil {
		t.Error("Commit without a store succeeded")
	}
}

func TestCommitWritesFixedKey(t *testing.T) {
	tbl, store := newTable(t)
	tbl.LoadRows([]table.Row{table.NewRow(table.Field{Name: "origin", Value: "MAD"})})
	if err := tbl.Commit(context.Background()); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	value, found, _ := store.Get(context.Background(), "tableData")
	if !found {
		t.Fatal("nothing stored under tableData")
	}
	if value != `[{"origin":"MAD"}]` {
		t.Errorf("stored %s, want %s", value, `[{"origin":"MAD"}]`)
	}
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemory()
	original := table.New(table.Config{Store: store})
	rows := []table.Row{
		flightRow("MAD", "LIS", "05/01/2024", "2024-05-08", "50.10"),
		table.NewRow(
			table.Field{Name: "zeta", Value: "last-declared-first"},
			table.Field{Name: "alpha", Value: `quotes " and \ backslash`},
			table.Field{Name: "empty", Value: ""},
			table.Field{Name: "unicode", Value: "Lisboa ✈ Zürich"},
		),
	}
	original.LoadRows(rows)
	if err := original.Commit(ctx); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	restored := table.New(table.Config{Store: store})
	if err := restored.Restore(ctx); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	assertRowsEqual(t, restored.Rows(), rows)
	if !slices.Equal(restored.Schema(), original.Schema()) {
		t.Errorf("restored Schema = %v, want %v", restored.Schema(), original.Schema())
	}
	if !slices.Equal(restored.Order(), original.Order()) {
		t.Errorf("restored Order = %v, want %v", restored.Order(), original.Order())
	}
}

func TestRestoreAbsentKey(t *testing.T) {
	tbl, _ := newTable(t)
	if err := tbl.Restore(context.Background()); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if tbl.Len() != 0 {
		t.Errorf("Len = %d, want 0", tbl.Len())
	}
	if !tbl.LoadRows(scenarioRows()) {
		t.Error("LoadRows rejected after restoring nothing")
	}
}

func TestRestoreCorrupt(t *testing.T) {
	for _, stored := range []string{
		"not json",
		`{"origin":"MAD"}`,
		`[{"price":50}]`,
		`[{"origin":"MAD"`,
		`["MAD"]`,
	} {
		t.Run(stored, func(t *testing.T) {
			store := kvstore.NewMemory()
			store.Set(context.Background(), table.DefaultSnapshotKey, stored)
			tbl := table.New(table.Config{Store: store})

			err := tbl.Restore(context.Background())
			if !errors.Is(err, table.ErrPersistenceCorrupt) {
				t.Fatalf("Restore err = %v, want ErrPersistenceCorrupt", err)
			}
			if tbl.Len() != 0 || len(tbl.Schema()) != 0 {
				t.Errorf("corrupt restore left %d rows, %d columns", tbl.Len(), len(tbl.Schema()))
			}
			if !tbl.LoadRows(scenarioRows()) {
				t.Error("LoadRows rejected after corrupt restore")
			}
		})
	}
}

func TestRestoreEmptyArray(t *testing.T) {
	store := kvstore.NewMemory()
	store.Set(context.Background(), table.DefaultSnapshotKey, "[]")
	tbl := table.New(table.Config{Store: store})
	if err := tbl.Restore(context.Background()); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if tbl.Len() != 0 {
		t.Errorf("Len = %d, want 0", tbl.Len())
	}
}

func TestCustomSnapshotKey(t *testing.T) {
	store := kvstore.NewMemory()
	tbl := table.New(table.Config{Store: store, SnapshotKey: "other"})
	tbl.LoadRows(scenarioRows())
	if err := tbl.Commit(context.Background()); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if _, found, _ := store.Get(context.Background(), "other"); !found {
		t.Error("snapshot not written under the configured key")
	}
	if _, found, _ := store.Get(context.Background(), table.DefaultSnapshotKey); found {
		t.Error("snapshot written under the default key")
	}
}

func TestReset(t *testing.T) {
	tbl, _ := newTable(t)
	tbl.LoadRows(scenarioRows())
	tbl.EditCell(0, table.ColumnPrice, "55")
	tbl.SetFilter(table.ColumnDestination, "lis")
	tbl.Reorder(table.ColumnPrice, table.ColumnOrigin)

	tbl.Reset()

	if tbl.Len() != 0 || tbl.DirtyCount() != 0 || len(tbl.Filters()) != 0 || len(tbl.Order()) != 0 || len(tbl.Schema()) != 0 {
		t.Fatalf("Reset left state: rows=%d dirty=%d filters=%v order=%v", tbl.Len(), tbl.DirtyCount(), tbl.Filters(), tbl.Order())
	}
	if !tbl.LoadRows(scenarioRows()) {
		t.Fatal("LoadRows rejected after Reset")
	}
	want := []string{"origin", "destination", "departureDate", "returnDate", "price"}
	if !slices.Equal(tbl.Order(), want) {
		t.Errorf("Order after Reset and load = %v, want %v", tbl.Order(), want)
	}
}

func TestScenario(t *testing.T) {
	tbl, store := newTable(t)
	ctx := context.Background()
	tbl.LoadRows(scenarioRows())

	tbl.SetFilter(table.ColumnDestination, "lis")
	view := tbl.View()
	if len(view) != 1 {
		t.Fatalf("view has %d rows, want 1", len(view))
	}
	if got := view[0].Row.Value(table.ColumnDestination); got != "LIS" {
		t.Errorf("view destination = %q, want LIS", got)
	}

	if err := tbl.EditCell(0, table.ColumnPrice, "55"); err != nil {
		t.Fatalf("EditCell: %v", err)
	}
	want := []table.Coordinate{{RowIndex: 0, Column: table.ColumnPrice}}
	if got := tbl.Dirty(); !slices.Equal(got, want) {
		t.Errorf("Dirty = %v, want %v", got, want)
	}

	if err := tbl.Commit(ctx); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if tbl.DirtyCount() != 0 {
		t.Errorf("dirty set not empty after commit")
	}
	persisted, _, err := table.ReadSnapshot(ctx, store, table.DefaultSnapshotKey)
	if err != nil {
		t.Fatalf("ReadSnapshot: %v", err)
	}
	if got := persisted[0].Value(table.ColumnPrice); got != "55" {
		t.Errorf("persisted row 0 price = %q, want 55", got)
	}
}
