// Copyright 2026 The Flight Inspirations Authors
// SPDX-License-Identifier: Apache-2.0

package table

import (
	"sort"
	"strings"
)

// ViewRow is one row of the filtered view. Index is the row's position
// in the Table, which is what EditCell expects.
type ViewRow struct {
	Index int
	Row   Row
}

// SetFilter sets the substring filter for column. An empty pattern
// removes the filter. A column outside the Schema is ignored and
// SetFilter returns false.
func (t *Table) SetFilter(column, pattern string) bool {
	if !t.schema.Has(column) {
		return false
	}
	if pattern == "" {
		return t.ClearFilter(column)
	}
	if current, ok := t.filters[column]; ok && current == pattern {
		return true
	}
	t.filters[column] = pattern
	t.revision++
	return true
}

// ClearFilter removes the filter for column, reporting whether one was
// set.
func (t *Table) ClearFilter(column string) bool {
	if _, ok := t.filters[column]; !ok {
		return false
	}
	delete(t.filters, column)
	t.revision++
	return true
}

// Filter returns the active pattern for column.
func (t *Table) Filter(column string) (string, bool) {
	pattern, ok := t.filters[column]
	return pattern, ok
}

// Filters returns a copy of the active filters.
func (t *Table) Filters() map[string]string {
	filters := make(map[string]string, len(t.filters))
	for column, pattern := range t.filters {
		filters[column] = pattern
	}
	return filters
}

// View returns the rows that pass every active filter, in store order.
// A row passes a filter when its value for that column contains the
// pattern, compared case-insensitively. A row with an empty or missing
// value for a filtered column passes that filter.
//
// The result is cached until the rows or filters change; callers must
// not modify it.
func (t *Table) View() []ViewRow {
	if t.view != nil && t.viewRevision == t.revision {
		return t.view
	}

	needles := make([]filterNeedle, 0, len(t.filters))
	for column, pattern := range t.filters {
		needles = append(needles, filterNeedle{column: column, pattern: strings.ToLower(pattern)})
	}
	sort.Slice(needles, func(i, j int) bool { return needles[i].column < needles[j].column })

	view := make([]ViewRow, 0, len(t.rows))
	for index, row := range t.rows {
		if matchesAll(row, needles) {
			view = append(view, ViewRow{Index: index, Row: row})
		}
	}
	t.view = view
	t.viewRevision = t.revision
	return view
}

type filterNeedle struct {
	column  string
	pattern string
}

func matchesAll(row Row, needles []filterNeedle) bool {
	for _, needle := range needles {
		value, ok := row.Get(needle.column)
		if !ok || value == "" {
			continue
		}
		if !strings.Contains(strings.ToLower(value), needle.pattern) {
			return false
		}
	}
	return true
}
