// Copyright 2026 The Flight Inspirations Authors
// SPDX-License-Identifier: Apache-2.0

package tableui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings for the table view. Bindings for the
// text inputs (edit, filter, search) are limited to Confirm, Cancel,
// and NextField; every other key goes to the focused input.
type KeyMap struct {
	// Cursor movement.
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding

	// Pagination.
	PreviousPage key.Binding
	NextPage     key.Binding

	// Cell editing.
	Edit      key.Binding
	DateLater key.Binding // Shift a date cell forward one day.
	DateEarly key.Binding // Shift a date cell back one day.

	// Column filter on the cursor column.
	Filter key.Binding

	// Column reordering: drop the cursor column onto its neighbor.
	MoveColumnLeft  key.Binding
	MoveColumnRight key.Binding

	// Table actions.
	Commit key.Binding
	Reset  key.Binding
	Search key.Binding

	// Shared by every input.
	Confirm   key.Binding
	Cancel    key.Binding
	NextField key.Binding

	Quit key.Binding
}

// DefaultKeyMap provides vim-style navigation plus arrow keys.
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Left: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←/h", "column left"),
	),
	Right: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→/l", "column right"),
	),
	PreviousPage: key.NewBinding(
		key.WithKeys("p", "pgup"),
		key.WithHelp("p", "previous page"),
	),
	NextPage: key.NewBinding(
		key.WithKeys("n", "pgdown"),
		key.WithHelp("n", "next page"),
	),
	Edit: key.NewBinding(
		key.WithKeys("enter", "e"),
		key.WithHelp("enter", "edit cell"),
	),
	DateLater: key.NewBinding(
		key.WithKeys("+", "="),
		key.WithHelp("+", "next day"),
	),
	DateEarly: key.NewBinding(
		key.WithKeys("-"),
		key.WithHelp("-", "previous day"),
	),
	Filter: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "filter column"),
	),
	MoveColumnLeft: key.NewBinding(
		key.WithKeys("<", "H"),
		key.WithHelp("<", "move column left"),
	),
	MoveColumnRight: key.NewBinding(
		key.WithKeys(">", "L"),
		key.WithHelp(">", "move column right"),
	),
	Commit: key.NewBinding(
		key.WithKeys("ctrl+s"),
		key.WithHelp("ctrl+s", "save"),
	),
	Reset: key.NewBinding(
		key.WithKeys("ctrl+r"),
		key.WithHelp("ctrl+r", "reset"),
	),
	Search: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "search"),
	),
	Confirm: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "apply"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
	NextField: key.NewBinding(
		key.WithKeys("tab", "shift+tab"),
		key.WithHelp("tab", "next field"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}
