// Copyright 2026 The Flight Inspirations Authors
// SPDX-License-Identifier: Apache-2.0

// Package tableui is the terminal front end for the flight table: a
// bubbletea model that renders one page of the filtered view, edits
// cells, filters columns, reorders them, runs searches, and commits.
//
// The [table.Table] is only touched inside [Model.Update]. Typed cell
// values and filter patterns are staged in per-key debouncers (300 ms
// per cell, 500 ms per column by default); when a quiet period ends
// the timer posts a message through the [Dispatcher], and Update
// applies it only if no newer keystroke, Enter, or Esc superseded it.
// Enter applies a pending value at once and Esc drops it. Clearing a
// filter skips the quiet period.
//
// Date columns display as MM/dd/yyyy. Typed dates are normalized on
// Enter, and + and - move a date cell by one day immediately.
//
// [TUILogHandler] routes slog records from background work into the
// status line while the program owns the terminal.
package tableui
