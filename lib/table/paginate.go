// Copyright 2026 The Flight Inspirations Authors
// SPDX-License-Identifier: Apache-2.0

package table

// DefaultPageSize is the number of rows per page when none is set.
const DefaultPageSize = 10

// Page is one page of a filtered view.
type Page struct {
	// Rows is the slice of the view on this page.
	Rows []ViewRow

	// Index is the zero-based page index after clamping.
	Index int

	// Count is the number of pages. An empty view still has one
	// (empty) page so that "Page 1 of 1" is always well formed.
	Count int

	// Size is the page size in effect.
	Size int

	// Total is the number of rows in the whole view.
	Total int
}

// CanPrevious reports whether a page precedes this one.
func (page Page) CanPrevious() bool { return page.Index > 0 }

// CanNext reports whether a page follows this one.
func (page Page) CanNext() bool { return page.Index+1 < page.Count }

// Paginate returns page index of view. A size below one uses
// DefaultPageSize. The index is clamped into range, so a filter that
// shrinks the view never leaves the caller on a page past the end.
func Paginate(view []ViewRow, index, size int) Page {
	if size < 1 {
		size = DefaultPageSize
	}
	count := (len(view) + size - 1) / size
	if count < 1 {
		count = 1
	}
	index = min(max(index, 0), count-1)

	start := index * size
	end := min(start+size, len(view))
	var rows []ViewRow
	if start < end {
		rows = view[start:end]
	}
	return Page{
		Rows:  rows,
		Index: index,
		Count: count,
		Size:  size,
		Total: len(view),
	}
}
