// Copyright 2026 The Flight Inspirations Authors
// SPDX-License-Identifier: Apache-2.0

package table

import (
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Field is one named value in a Row.
type Field struct {
	Name  string
	Value string
}

// Row is an ordered record of named string fields. Field order is the
// insertion order and survives a JSON round trip, which is what makes
// the Schema derived from a restored snapshot match the one derived
// from the original load.
//
// Rows are values. [Row.With] returns a new Row and leaves the receiver
// untouched, so a caller holding an old Row can detect a change by
// comparing it with the Table's current one.
type Row struct {
	fields *orderedmap.OrderedMap[string, string]
}

// NewRow builds a Row from fields in order. A repeated name keeps its
// first position and takes the last value.
func NewRow(fields ...Field) Row {
	values := orderedmap.New[string, string]()
	for _, field := range fields {
		values.Set(field.Name, field.Value)
	}
	return Row{fields: values}
}

// Len returns the number of fields.
func (row Row) Len() int {
	if row.fields == nil {
		return 0
	}
	return row.fields.Len()
}

// Get returns the value of the named field.
func (row Row) Get(name string) (string, bool) {
	if row.fields == nil {
		return "", false
	}
	return row.fields.Get(name)
}

// Value returns the named field, or "" if the row has no such field.
func (row Row) Value(name string) string {
	value, _ := row.Get(name)
	return value
}

// Names returns the field names in order.
func (row Row) Names() []string {
	if row.fields == nil {
		return nil
	}
	names := make([]string, 0, row.fields.Len())
	for pair := row.fields.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}

// Fields returns a copy of the fields in order.
func (row Row) Fields() []Field {
	if row.fields == nil {
		return nil
	}
	fields := make([]Field, 0, row.fields.Len())
	for pair := row.fields.Oldest(); pair != nil; pair = pair.Next() {
		fields = append(fields, Field{Name: pair.Key, Value: pair.Value})
	}
	return fields
}

// With returns a copy of the row with name set to value. An existing
// field keeps its position; a new field is appended.
func (row Row) With(name, value string) Row {
	fields := row.Fields()
	replaced := false
	for index := range fields {
		if fields[index].Name == name {
			fields[index].Value = value
			replaced = true
			break
		}
	}
	if !replaced {
		fields = append(fields, Field{Name: name, Value: value})
	}
	return NewRow(fields...)
}

// Equal reports whether both rows have the same fields in the same
// order with the same values.
func (row Row) Equal(other Row) bool {
	left, right := row.Fields(), other.Fields()
	if len(left) != len(right) {
		return false
	}
	for index := range left {
		if left[index] != right[index] {
			return false
		}
	}
	return true
}

// String renders the row as "name=value" pairs for logs and test
// failure messages.
func (row Row) String() string {
	var builder strings.Builder
	builder.WriteByte('{')
	for index, field := range row.Fields() {
		if index > 0 {
			builder.WriteString(", ")
		}
		builder.WriteString(field.Name)
		builder.WriteByte('=')
		builder.WriteString(field.Value)
	}
	builder.WriteByte('}')
	return builder.String()
}

// MarshalJSON encodes the row as a JSON object with fields in order.
func (row Row) MarshalJSON() ([]byte, error) {
	if row.fields == nil {
		return []byte("{}"), nil
	}
	return row.fields.MarshalJSON()
}

// UnmarshalJSON decodes a JSON object of string values, keeping the
// key order of the input.
func (row *Row) UnmarshalJSON(data []byte) error {
	fields := orderedmap.New[string, string]()
	if err := fields.UnmarshalJSON(data); err != nil {
		return err
	}
	row.fields = fields
	return nil
}
