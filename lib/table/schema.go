// Copyright 2026 The Flight Inspirations Authors
// SPDX-License-Identifier: Apache-2.0

package table

// Kind selects how a column is edited and displayed.
type Kind string

const (
	// KindText is a free-text column.
	KindText Kind = "text"
	// KindDate is a date column shown as MM/dd/yyyy.
	KindDate Kind = "date"
)

// Column names with a fixed presentation. The order here is the order
// in which the row transform writes fields.
const (
	ColumnOrigin        = "origin"
	ColumnDestination   = "destination"
	ColumnDepartureDate = "departureDate"
	ColumnReturnDate    = "returnDate"
	ColumnPrice         = "price"
)

// KindOf returns the presentation kind for a column name. Only the
// departure and return date columns are dates.
func KindOf(name string) Kind {
	switch name {
	case ColumnDepartureDate, ColumnReturnDate:
		return KindDate
	default:
		return KindText
	}
}

// ColumnSpec describes one column of the Schema.
type ColumnSpec struct {
	Name string
	Kind Kind
}

// Schema is the ordered list of columns for the rows currently in the
// Table. It is derived from the first row of a load and stored next to
// the rows instead of being re-read from row keys at render time.
type Schema []ColumnSpec

// SchemaOf derives a Schema from row's fields in order.
func SchemaOf(row Row) Schema {
	names := row.Names()
	schema := make(Schema, 0, len(names))
	for _, name := range names {
		schema = append(schema, ColumnSpec{Name: name, Kind: KindOf(name)})
	}
	return schema
}

// Names returns the column names in Schema order.
func (schema Schema) Names() []string {
	names := make([]string, len(schema))
	for index, column := range schema {
		names[index] = column.Name
	}
	return names
}

// Has reports whether the Schema contains a column named name.
func (schema Schema) Has(name string) bool {
	_, ok := schema.Lookup(name)
	return ok
}

// Lookup returns the column named name.
func (schema Schema) Lookup(name string) (ColumnSpec, bool) {
	for _, column := range schema {
		if column.Name == name {
			return column, true
		}
	}
	return ColumnSpec{}, false
}
