// Copyright 2026 The Flight Inspirations Authors
// SPDX-License-Identifier: Apache-2.0

package tableui

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/maisjamil1/flight-inspirations/lib/table"
)

// Column width bounds in terminal cells.
const (
	minColumnWidth = 4
	maxColumnWidth = 24
)

const columnSeparator = " │ "

// View implements tea.Model.
func (model Model) View() string {
	var lines []string
	lines = append(lines, model.renderHeader(), model.renderSearchBar(), "")

	if model.table.Len() == 0 {
		lines = append(lines, model.renderEmpty())
	} else {
		lines = append(lines, model.renderTable()...)
		lines = append(lines, "", model.renderPagination())
	}

	lines = append(lines, model.renderStatus(), model.renderHelp())

	if model.width > 0 {
		for index, line := range lines {
			lines[index] = ansi.Truncate(line, model.width, "…")
		}
	}
	return strings.Join(lines, "\n")
}

func (model Model) renderHeader() string {
	title := lipgloss.NewStyle().Bold(true).Foreground(model.theme.HeaderForeground).Render("Flight Inspirations")
	dirty := model.table.DirtyCount()
	if dirty == 0 {
		return title
	}
	marker := lipgloss.NewStyle().Background(model.theme.DirtyBackground).Foreground(model.theme.NormalText).
		Render(fmt.Sprintf(" %d unsaved ", dirty))
	return title + "  " + marker
}

func (model Model) renderSearchBar() string {
	faint := lipgloss.NewStyle().Foreground(model.theme.FaintText)
	if model.focus == FocusSearch {
		return "Origin: " + model.originInput.View() + "   Departure: " + model.dateInput.View() +
			faint.Render("   (tab switches, enter searches)")
	}
	if model.searching {
		return faint.Render("Searching…")
	}
	if model.lastQuery.Origin != "" {
		return faint.Render("Last search: " + model.lastQuery.String())
	}
	return faint.Render("No search yet")
}

func (model Model) renderEmpty() string {
	faint := lipgloss.NewStyle().Foreground(model.theme.FaintText)
	if model.searching {
		return faint.Render("Loading…")
	}
	return faint.Render("No destinations. Press s to search.")
}

// cellText returns the display text for a cell and whether it is a
// draft still in its quiet period.
func (model Model) cellText(coordinate table.Coordinate, column table.ColumnSpec) (string, bool) {
	value, draft := model.cellValue(coordinate)
	if column.Kind == table.KindDate {
		value = DisplayDate(value)
	}
	return value, draft
}

func (model Model) columnWidths(columns table.Schema, page table.Page) []int {
	widths := make([]int, len(columns))
	for index, column := range columns {
		width := ansi.StringWidth(column.Name)
		for _, viewRow := range page.Rows {
			text, _ := model.cellText(table.Coordinate{RowIndex: viewRow.Index, Column: column.Name}, column)
			width = max(width, ansi.StringWidth(text))
		}
		if pattern, ok := model.table.Filter(column.Name); ok {
			width = max(width, ansi.StringWidth(pattern)+2)
		}
		widths[index] = min(max(width, minColumnWidth), maxColumnWidth)
	}
	return widths
}

// fit truncates or pads text to exactly width cells.
func fit(text string, width int) string {
	text = ansi.Truncate(text, width, "…")
	if gap := width - ansi.StringWidth(text); gap > 0 {
		text += strings.Repeat(" ", gap)
	}
	return text
}

func (model Model) renderTable() []string {
	columns := model.table.OrderedSchema()
	page := model.currentPage()
	widths := model.columnWidths(columns, page)
	separator := lipgloss.NewStyle().Foreground(model.theme.BorderColor).Render(columnSeparator)

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(model.theme.HeaderForeground)
	filterStyle := lipgloss.NewStyle().Foreground(model.theme.FilterForeground)
	faint := lipgloss.NewStyle().Foreground(model.theme.FaintText)

	headers := make([]string, len(columns))
	filters := make([]string, len(columns))
	rules := make([]string, len(columns))
	for index, column := range columns {
		width := widths[index]
		headers[index] = headerStyle.Render(fit(column.Name, width))
		rules[index] = strings.Repeat("─", width)

		switch pattern, active := model.table.Filter(column.Name); {
		case model.focus == FocusFilter && model.filterColumn == column.Name:
			filters[index] = fit(model.filterInput.View(), width)
		case active:
			filters[index] = filterStyle.Render(fit("⌕ "+pattern, width))
		default:
			filters[index] = faint.Render(fit("", width))
		}
	}

	ruleStyle := lipgloss.NewStyle().Foreground(model.theme.BorderColor)
	lines := []string{
		strings.Join(headers, separator),
		strings.Join(filters, separator),
		ruleStyle.Render(strings.Join(rules, "─┼─")),
	}

	if len(page.Rows) == 0 {
		return append(lines, faint.Render("No rows match the active filters."))
	}

	for rowPosition, viewRow := range page.Rows {
		cells := make([]string, len(columns))
		for index, column := range columns {
			coordinate := table.Coordinate{RowIndex: viewRow.Index, Column: column.Name}
			cells[index] = model.renderCell(coordinate, column, widths[index],
				rowPosition == model.cursorRow && index == model.cursorColumn)
		}
		lines = append(lines, strings.Join(cells, separator))
	}
	return lines
}

func (model Model) renderCell(coordinate table.Coordinate, column table.ColumnSpec, width int, selected bool) string {
	if selected && model.focus == FocusEdit && model.editing == coordinate {
		return fit(model.editInput.View(), width)
	}

	text, draft := model.cellText(coordinate, column)
	style := lipgloss.NewStyle().Foreground(model.theme.NormalText)
	if model.table.IsDirty(coordinate) {
		style = style.Background(model.theme.DirtyBackground)
	}
	if draft {
		style = style.Foreground(model.theme.DraftForeground).Italic(true)
	}
	if selected {
		style = style.Background(model.theme.SelectedBackground).Foreground(model.theme.SelectedForeground).Bold(true)
	}
	return style.Render(fit(text, width))
}

func (model Model) renderPagination() string {
	page := model.currentPage()
	parts := []string{fmt.Sprintf("Page %d of %d", page.Index+1, page.Count)}
	if total := model.table.Len(); page.Total != total {
		parts = append(parts, fmt.Sprintf("%d of %d rows", page.Total, total))
	} else {
		parts = append(parts, fmt.Sprintf("%d rows", total))
	}
	if pending := model.edits.Len(); pending > 0 {
		parts = append(parts, fmt.Sprintf("%d pending", pending))
	}
	return lipgloss.NewStyle().Foreground(model.theme.FaintText).Render(strings.Join(parts, "  ·  "))
}

func (model Model) renderStatus() string {
	if model.status == "" {
		return ""
	}
	color := model.theme.StatusInfo
	switch {
	case model.statusLevel >= slog.LevelError:
		color = model.theme.StatusError
	case model.statusLevel >= slog.LevelWarn:
		color = model.theme.StatusWarn
	}
	return lipgloss.NewStyle().Foreground(color).Render(model.status)
}

func (model Model) renderHelp() string {
	var bindings []key.Binding
	switch model.focus {
	case FocusEdit, FocusFilter:
		bindings = []key.Binding{model.keys.Confirm, model.keys.Cancel}
	case FocusSearch:
		bindings = []key.Binding{model.keys.Confirm, model.keys.NextField, model.keys.Cancel}
	default:
		bindings = []key.Binding{
			model.keys.Edit, model.keys.Filter, model.keys.MoveColumnLeft, model.keys.MoveColumnRight,
			model.keys.PreviousPage, model.keys.NextPage, model.keys.Search, model.keys.Commit,
			model.keys.Reset, model.keys.Quit,
		}
		if _, column, ok := model.cursorCell(); ok && column.Kind == table.KindDate {
			bindings = append([]key.Binding{model.keys.DateLater, model.keys.DateEarly}, bindings...)
		}
	}

	parts := make([]string, 0, len(bindings))
	for _, binding := range bindings {
		help := binding.Help()
		parts = append(parts, help.Key+" "+help.Desc)
	}
	return lipgloss.NewStyle().Foreground(model.theme.HelpText).Render(strings.Join(parts, "  "))
}
