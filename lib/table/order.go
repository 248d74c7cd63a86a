// Copyright 2026 The Flight Inspirations Authors
// SPDX-License-Identifier: Apache-2.0

package table

import "slices"

// Order returns a copy of the user's column order.
func (t *Table) Order() []string {
	return slices.Clone(t.order)
}

// Reorder moves the dragged column to the position the target column
// held before the move, shifting the columns in between by one. It
// returns false and changes nothing when either column is absent or
// both are the same column.
//
// Reorder(a, b) followed by Reorder(b, a) does not in general restore
// the previous order.
func (t *Table) Reorder(dragged, target string) bool {
	if dragged == target {
		return false
	}
	from := slices.Index(t.order, dragged)
	to := slices.Index(t.order, target)
	if from < 0 || to < 0 {
		return false
	}
	order := slices.Delete(slices.Clone(t.order), from, from+1)
	order = slices.Insert(order, to, dragged)
	t.order = order
	return true
}

// SetOrder replaces the column order with order if it is a permutation
// of the Schema names, returning whether it was applied.
func (t *Table) SetOrder(order []string) bool {
	if !isPermutation(order, t.schema.Names()) {
		return false
	}
	t.order = slices.Clone(order)
	return true
}

// OrderedSchema returns the Schema columns in the user's column order.
// Columns missing from the order (possible after a restore changed the
// Schema) are appended in Schema order.
func (t *Table) OrderedSchema() Schema {
	ordered := make(Schema, 0, len(t.schema))
	seen := make(map[string]bool, len(t.schema))
	for _, name := range t.order {
		if column, ok := t.schema.Lookup(name); ok && !seen[name] {
			ordered = append(ordered, column)
			seen[name] = true
		}
	}
	for _, column := range t.schema {
		if !seen[column.Name] {
			ordered = append(ordered, column)
		}
	}
	return ordered
}

func isPermutation(candidate, names []string) bool {
	if len(candidate) != len(names) {
		return false
	}
	counts := make(map[string]int, len(names))
	for _, name := range names {
		counts[name]++
	}
	for _, name := range candidate {
		counts[name]--
		if counts[name] < 0 {
			return false
		}
	}
	return true
}
