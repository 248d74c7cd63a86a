// Copyright 2026 The Flight Inspirations Authors
// SPDX-License-Identifier: Apache-2.0

package tableui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/maisjamil1/flight-inspirations/lib/clock"
	"github.com/maisjamil1/flight-inspirations/lib/debounce"
	"github.com/maisjamil1/flight-inspirations/lib/flights"
	"github.com/maisjamil1/flight-inspirations/lib/table"
)

// Focus identifies which input receives keystrokes.
type Focus int

const (
	// FocusTable means keys move the cursor and trigger table actions.
	FocusTable Focus = iota
	// FocusEdit means keystrokes go to the cell editor.
	FocusEdit
	// FocusFilter means keystrokes go to the cursor column's filter.
	FocusFilter
	// FocusSearch means keystrokes go to the search bar.
	FocusSearch
)

const (
	// DefaultEditDebounce is the quiet period before a typed cell
	// value reaches the table.
	DefaultEditDebounce = 300 * time.Millisecond

	// DefaultFilterDebounce is the quiet period before a typed filter
	// pattern is applied.
	DefaultFilterDebounce = 500 * time.Millisecond

	// DefaultSearchTimeout bounds one upstream search.
	DefaultSearchTimeout = 30 * time.Second

	commitTimeout = 10 * time.Second

	statusFadeDelay = 5 * time.Second
)

// SearchFailedStatus is shown in the status line when a search fails.
const SearchFailedStatus = "Error fetching flight destinations"

// Search bar fields.
const (
	searchFieldOrigin = iota
	searchFieldDate
)

// Config holds the collaborators for a Model.
type Config struct {
	// Table is the state engine the view renders and edits. Required.
	Table *table.Table

	// Searcher serves the search bar. Nil disables searching.
	Searcher flights.Searcher

	// Dispatcher carries debounce timers back into the program. Nil
	// creates one; call SetProgram on it (or on Model.Dispatcher) once
	// the tea.Program exists.
	Dispatcher *Dispatcher

	// Clock drives the debounce timers. Nil uses the real clock.
	Clock clock.Clock

	// Logger receives edit, search, and commit failures. Nil discards
	// them.
	Logger *slog.Logger

	// PageSize is the number of rows per page. Zero uses
	// table.DefaultPageSize.
	PageSize int

	EditDebounce   time.Duration
	FilterDebounce time.Duration
	SearchTimeout  time.Duration

	// DefaultOrigin prefills the search bar.
	DefaultOrigin string

	// OneWay and MaxPrice are applied to every search.
	OneWay   bool
	MaxPrice int

	// SearchOnStart runs a search for DefaultOrigin from Init when the
	// table starts empty.
	SearchOnStart bool
}

// editSettledMsg is posted when a cell edit's quiet period ends.
type editSettledMsg struct {
	settled debounce.Settled[table.Coordinate, string]
}

// filterSettledMsg is posted when a filter pattern's quiet period ends.
type filterSettledMsg struct {
	settled debounce.Settled[string, string]
}

// searchResultMsg is the outcome of one upstream search.
type searchResultMsg struct {
	query flights.Query
	rows  []table.Row
	err   error
}

// statusFadeMsg clears the status line if nothing newer replaced it.
type statusFadeMsg struct {
	generation uint64
}

// Model is the bubbletea model for the flight table. All table
// mutations happen inside Update.
type Model struct {
	table      *table.Table
	searcher   flights.Searcher
	dispatcher *Dispatcher
	logger     *slog.Logger
	theme      Theme
	keys       KeyMap

	edits   *debounce.Debouncer[table.Coordinate, string]
	filters *debounce.Debouncer[string, string]

	focus        Focus
	cursorRow    int // Position within the current page.
	cursorColumn int // Position within the ordered schema.
	pageIndex    int
	pageSize     int

	editing      table.Coordinate
	editKind     table.Kind
	editInput    textinput.Model
	filterColumn string
	filterInput  textinput.Model

	originInput   textinput.Model
	dateInput     textinput.Model
	searchField   int
	searching     bool
	pendingSearch *flights.Query
	searchTimeout time.Duration
	fareLimits    flights.Query
	lastQuery     flights.Query

	status           string
	statusLevel      slog.Level
	statusGeneration uint64

	width  int
	height int
}

// NewModel creates a Model over config.Table.
func NewModel(config Config) Model {
	if config.Dispatcher == nil {
		config.Dispatcher = NewDispatcher()
	}
	if config.Clock == nil {
		config.Clock = clock.Real()
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}
	if config.PageSize < 1 {
		config.PageSize = table.DefaultPageSize
	}
	if config.EditDebounce <= 0 {
		config.EditDebounce = DefaultEditDebounce
	}
	if config.FilterDebounce <= 0 {
		config.FilterDebounce = DefaultFilterDebounce
	}
	if config.SearchTimeout <= 0 {
		config.SearchTimeout = DefaultSearchTimeout
	}

	dispatcher := config.Dispatcher
	model := Model{
		table:         config.Table,
		searcher:      config.Searcher,
		dispatcher:    dispatcher,
		logger:        config.Logger,
		theme:         DefaultTheme,
		keys:          DefaultKeyMap,
		pageSize:      config.PageSize,
		searchTimeout: config.SearchTimeout,
		fareLimits:    flights.Query{OneWay: config.OneWay, MaxPrice: config.MaxPrice},
		edits: debounce.New(config.Clock, config.EditDebounce, func(settled debounce.Settled[table.Coordinate, string]) {
			dispatcher.Send(editSettledMsg{settled: settled})
		}),
		filters: debounce.New(config.Clock, config.FilterDebounce, func(settled debounce.Settled[string, string]) {
			dispatcher.Send(filterSettledMsg{settled: settled})
		}),
		editInput:   newInput("", 0),
		filterInput: newInput("filter", 0),
		originInput: newInput("City code (e.g. MAD)", 3),
		dateInput:   newInput("yyyy-MM-dd (optional)", 10),
	}
	model.originInput.SetValue(strings.ToUpper(config.DefaultOrigin))

	if config.SearchOnStart && config.Searcher != nil && config.Table.Len() == 0 {
		if origin := strings.TrimSpace(config.DefaultOrigin); origin != "" {
			query := model.newQuery(origin)
			model.pendingSearch = &query
			model.searching = true
			model.status = "Searching " + query.String() + "…"
			model.statusLevel = slog.LevelInfo
		}
	}
	return model
}

func newInput(placeholder string, limit int) textinput.Model {
	input := textinput.New()
	input.Prompt = ""
	input.Placeholder = placeholder
	input.CharLimit = limit
	return input
}

// Dispatcher returns the dispatcher the debounce timers post through.
func (model Model) Dispatcher() *Dispatcher { return model.dispatcher }

// Focus returns which input has focus.
func (model Model) Focus() Focus { return model.focus }

// Status returns the status line text.
func (model Model) Status() string { return model.status }

// Searching reports whether a search is in flight.
func (model Model) Searching() bool { return model.searching }

// PageIndex returns the zero-based current page.
func (model Model) PageIndex() int { return model.pageIndex }

// PageSize returns the rows per page.
func (model Model) PageSize() int { return model.pageSize }

// Cursor returns the cursor's page row and ordered column positions.
func (model Model) Cursor() (row, column int) { return model.cursorRow, model.cursorColumn }

// Init implements tea.Model. Starts the startup search if one was
// configured.
func (model Model) Init() tea.Cmd {
	if model.pendingSearch == nil {
		return nil
	}
	return model.searchCommand(*model.pendingSearch)
}

// Update implements tea.Model.
func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.KeyMsg:
		switch model.focus {
		case FocusEdit:
			return model.handleEditKeys(message)
		case FocusFilter:
			return model.handleFilterKeys(message)
		case FocusSearch:
			return model.handleSearchKeys(message)
		}
		return model.handleTableKeys(message)

	case tea.WindowSizeMsg:
		model.width = message.Width
		model.height = message.Height

	case editSettledMsg:
		if model.edits.Accept(message.settled) {
			command := model.applyEdit(message.settled.Key, message.settled.Value)
			model.closeHiddenEdit()
			return model, command
		}

	case filterSettledMsg:
		if model.filters.Accept(message.settled) {
			model.applyFilter(message.settled.Key, message.settled.Value)
		}

	case searchResultMsg:
		return model.handleSearchResult(message)

	case logRecordMsg:
		return model, model.setStatus(message.Summary, message.Level)

	case statusFadeMsg:
		if message.generation == model.statusGeneration {
			model.status = ""
		}
	}
	return model, nil
}

func (model Model) handleTableKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(message, model.keys.Quit):
		return model.quit()

	case key.Matches(message, model.keys.Up):
		model.cursorRow--
		model.clampCursor()

	case key.Matches(message, model.keys.Down):
		model.cursorRow++
		model.clampCursor()

	case key.Matches(message, model.keys.Left):
		model.cursorColumn--
		model.clampCursor()

	case key.Matches(message, model.keys.Right):
		model.cursorColumn++
		model.clampCursor()

	case key.Matches(message, model.keys.PreviousPage):
		if model.currentPage().CanPrevious() {
			model.pageIndex--
			model.clampCursor()
		}

	case key.Matches(message, model.keys.NextPage):
		if model.currentPage().CanNext() {
			model.pageIndex++
			model.clampCursor()
		}

	case key.Matches(message, model.keys.Edit):
		return model.beginEdit()

	case key.Matches(message, model.keys.DateLater):
		return model, model.shiftDate(1)

	case key.Matches(message, model.keys.DateEarly):
		return model, model.shiftDate(-1)

	case key.Matches(message, model.keys.Filter):
		return model.beginFilter()

	case key.Matches(message, model.keys.MoveColumnLeft):
		model.moveColumn(-1)

	case key.Matches(message, model.keys.MoveColumnRight):
		model.moveColumn(1)

	case key.Matches(message, model.keys.Commit):
		return model, model.commit()

	case key.Matches(message, model.keys.Reset):
		return model, model.reset()

	case key.Matches(message, model.keys.Search):
		if model.searching {
			return model, model.setStatus("A search is already running", slog.LevelWarn)
		}
		model.focus = FocusSearch
		model.searchField = searchFieldOrigin
		model.dateInput.Blur()
		model.originInput.CursorEnd()
		return model, model.originInput.Focus()
	}
	return model, nil
}

// quit drops every pending edit and filter and exits.
func (model Model) quit() (tea.Model, tea.Cmd) {
	model.edits.Stop()
	model.filters.Stop()
	return model, tea.Quit
}

// isInterrupt reports whether message is ctrl+c, which quits from any
// input.
func isInterrupt(message tea.KeyMsg) bool {
	return message.Type == tea.KeyCtrlC
}

// currentPage paginates the filtered view at the model's page.
func (model Model) currentPage() table.Page {
	return table.Paginate(model.table.View(), model.pageIndex, model.pageSize)
}

// clampCursor keeps the page index and cursor inside the current view
// after anything that can shrink it.
func (model *Model) clampCursor() {
	page := model.currentPage()
	model.pageIndex = page.Index
	model.cursorRow = min(max(model.cursorRow, 0), max(len(page.Rows)-1, 0))
	columns := len(model.table.OrderedSchema())
	model.cursorColumn = min(max(model.cursorColumn, 0), max(columns-1, 0))
}

// cursorCell returns the table coordinate and column under the cursor.
func (model Model) cursorCell() (table.Coordinate, table.ColumnSpec, bool) {
	page := model.currentPage()
	columns := model.table.OrderedSchema()
	if model.cursorRow >= len(page.Rows) || model.cursorColumn >= len(columns) {
		return table.Coordinate{}, table.ColumnSpec{}, false
	}
	column := columns[model.cursorColumn]
	return table.Coordinate{
		RowIndex: page.Rows[model.cursorRow].Index,
		Column:   column.Name,
	}, column, true
}

// cellValue returns what the cell currently shows: the pending draft if
// one is in its quiet period, else the stored value.
func (model Model) cellValue(coordinate table.Coordinate) (value string, draft bool) {
	if pending, ok := model.edits.Pending(coordinate); ok {
		return pending, true
	}
	row, ok := model.table.Row(coordinate.RowIndex)
	if !ok {
		return "", false
	}
	return row.Value(coordinate.Column), false
}

func (model Model) beginEdit() (tea.Model, tea.Cmd) {
	coordinate, column, ok := model.cursorCell()
	if !ok {
		return model, nil
	}
	value, _ := model.cellValue(coordinate)
	if column.Kind == table.KindDate {
		value = DisplayDate(value)
	}
	model.focus = FocusEdit
	model.editing = coordinate
	model.editKind = column.Kind
	model.editInput.SetValue(value)
	model.editInput.CursorEnd()
	return model, model.editInput.Focus()
}

func (model Model) handleEditKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case isInterrupt(message):
		return model.quit()

	case key.Matches(message, model.keys.Cancel):
		model.edits.Cancel(model.editing)
		model.endEdit()
		return model, nil

	case key.Matches(message, model.keys.Confirm):
		var command tea.Cmd
		if model.editKind == table.KindDate {
			value := strings.TrimSpace(model.editInput.Value())
			normalized, ok := NormalizeDate(value)
			if !ok {
				return model, model.setStatus(fmt.Sprintf("Invalid date %q (use MM/dd/yyyy or yyyy-MM-dd)", value), slog.LevelError)
			}
			command = model.applyEdit(model.editing, normalized)
		} else if value, pending := model.edits.Flush(model.editing); pending {
			command = model.applyEdit(model.editing, value)
		}
		model.endEdit()
		return model, command
	}

	previous := model.editInput.Value()
	var command tea.Cmd
	model.editInput, command = model.editInput.Update(message)
	// Date cells apply on confirm only.
	if model.editKind != table.KindDate && model.editInput.Value() != previous {
		model.edits.Trigger(model.editing, model.editInput.Value())
	}
	return model, command
}

func (model *Model) endEdit() {
	model.focus = FocusTable
	model.editInput.Blur()
	model.editInput.SetValue("")
}

// closeHiddenEdit ends an edit whose row no longer passes the filters,
// dropping the editor's pending value.
func (model *Model) closeHiddenEdit() {
	if model.focus != FocusEdit {
		return
	}
	for _, viewRow := range model.table.View() {
		if viewRow.Index == model.editing.RowIndex {
			return
		}
	}
	model.edits.Cancel(model.editing)
	model.endEdit()
	model.clampCursor()
}

// applyEdit writes value into the table, reporting rejected edits.
func (model *Model) applyEdit(coordinate table.Coordinate, value string) tea.Cmd {
	err := model.table.EditCell(coordinate.RowIndex, coordinate.Column, value)
	if err == nil {
		return nil
	}
	model.logger.Warn("edit rejected",
		"row", coordinate.RowIndex,
		"column", coordinate.Column,
		"error", err,
	)
	return model.setStatus("Edit rejected: "+err.Error(), slog.LevelWarn)
}

// shiftDate moves the cursor's date cell by days and applies it at
// once.
func (model *Model) shiftDate(days int) tea.Cmd {
	coordinate, column, ok := model.cursorCell()
	if !ok || column.Kind != table.KindDate {
		return nil
	}
	value, _ := model.cellValue(coordinate)
	shifted, ok := ShiftDate(value, days)
	if !ok {
		return model.setStatus(fmt.Sprintf("%s is not a date: %q", column.Name, value), slog.LevelWarn)
	}
	model.edits.Cancel(coordinate)
	return model.applyEdit(coordinate, shifted)
}

func (model Model) beginFilter() (tea.Model, tea.Cmd) {
	columns := model.table.OrderedSchema()
	if model.cursorColumn >= len(columns) {
		return model, nil
	}
	column := columns[model.cursorColumn].Name
	pattern, pending := model.filters.Pending(column)
	if !pending {
		pattern, _ = model.table.Filter(column)
	}
	model.focus = FocusFilter
	model.filterColumn = column
	model.filterInput.SetValue(pattern)
	model.filterInput.CursorEnd()
	return model, model.filterInput.Focus()
}

func (model Model) handleFilterKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case isInterrupt(message):
		return model.quit()

	case key.Matches(message, model.keys.Cancel):
		model.filters.Cancel(model.filterColumn)
		model.applyFilter(model.filterColumn, "")
		model.endFilter()
		return model, nil

	case key.Matches(message, model.keys.Confirm):
		if pattern, pending := model.filters.Flush(model.filterColumn); pending {
			model.applyFilter(model.filterColumn, pattern)
		}
		model.endFilter()
		return model, nil
	}

	previous := model.filterInput.Value()
	var command tea.Cmd
	model.filterInput, command = model.filterInput.Update(message)
	if pattern := model.filterInput.Value(); pattern != previous {
		if pattern == "" {
			model.filters.Cancel(model.filterColumn)
			model.applyFilter(model.filterColumn, "")
		} else {
			model.filters.Trigger(model.filterColumn, pattern)
		}
	}
	return model, command
}

func (model *Model) endFilter() {
	model.focus = FocusTable
	model.filterInput.Blur()
	model.filterInput.SetValue("")
}

// applyFilter sets or clears a column filter and returns to the first
// page.
func (model *Model) applyFilter(column, pattern string) {
	if !model.table.SetFilter(column, pattern) {
		return
	}
	model.pageIndex = 0
	model.cursorRow = 0
	model.clampCursor()
}

// moveColumn drops the cursor column onto its neighbor in direction
// and keeps the cursor on the moved column.
func (model *Model) moveColumn(direction int) {
	columns := model.table.OrderedSchema()
	target := model.cursorColumn + direction
	if model.cursorColumn >= len(columns) || target < 0 || target >= len(columns) {
		return
	}
	if model.table.Reorder(columns[model.cursorColumn].Name, columns[target].Name) {
		model.cursorColumn = target
	}
}

// commit saves the rows and then the view state. A row commit failure
// keeps the dirty markers for a retry.
func (model *Model) commit() tea.Cmd {
	ctx, cancel := context.WithTimeout(context.Background(), commitTimeout)
	defer cancel()

	dirty := model.table.DirtyCount()
	if err := model.table.Commit(ctx); err != nil {
		model.logger.Error("commit failed", "dirty_cells", dirty, "error", err)
		return model.setStatus("Error saving table", slog.LevelError)
	}

	state := model.table.ViewState()
	state.PageSize = model.pageSize
	if err := model.table.SaveViewState(ctx, state); err != nil {
		model.logger.Warn("saving view state failed", "error", err)
		return model.setStatus(fmt.Sprintf("Saved %d rows; column layout not saved", model.table.Len()), slog.LevelWarn)
	}
	return model.setStatus(fmt.Sprintf("Saved %d rows", model.table.Len()), slog.LevelInfo)
}

// reset empties the table so that the next search loads.
func (model *Model) reset() tea.Cmd {
	model.edits.Stop()
	model.filters.Stop()
	model.table.Reset()
	model.focus = FocusTable
	model.pageIndex = 0
	model.cursorRow = 0
	model.cursorColumn = 0
	return model.setStatus("Table cleared; press s to search", slog.LevelInfo)
}

func (model Model) handleSearchKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case isInterrupt(message):
		return model.quit()

	case key.Matches(message, model.keys.Cancel):
		model.endSearch()
		return model, nil

	case key.Matches(message, model.keys.NextField):
		if model.searchField == searchFieldOrigin {
			model.searchField = searchFieldDate
			model.originInput.Blur()
			return model, model.dateInput.Focus()
		}
		model.searchField = searchFieldOrigin
		model.dateInput.Blur()
		return model, model.originInput.Focus()

	case key.Matches(message, model.keys.Confirm):
		return model.submitSearch()
	}

	var command tea.Cmd
	if model.searchField == searchFieldOrigin {
		if message.Type == tea.KeyRunes {
			message.Runes = upperRunes(message.Runes)
		}
		model.originInput, command = model.originInput.Update(message)
	} else {
		model.dateInput, command = model.dateInput.Update(message)
	}
	return model, command
}

func upperRunes(runes []rune) []rune {
	upper := make([]rune, len(runes))
	for index, r := range runes {
		upper[index] = unicode.ToUpper(r)
	}
	return upper
}

func (model *Model) endSearch() {
	model.focus = FocusTable
	model.originInput.Blur()
	model.dateInput.Blur()
}

// submitSearch validates the search bar and starts the search. An
// empty origin makes no request.
func (model Model) submitSearch() (tea.Model, tea.Cmd) {
	if model.searching {
		return model, model.setStatus("A search is already running", slog.LevelWarn)
	}
	if model.searcher == nil {
		return model, model.setStatus("No flight source configured", slog.LevelError)
	}
	query := model.newQuery(model.originInput.Value())
	if query.Origin == "" {
		return model, model.setStatus("Enter an origin city code", slog.LevelWarn)
	}
	if text := strings.TrimSpace(model.dateInput.Value()); text != "" {
		date, ok := ParseDate(text)
		if !ok {
			return model, model.setStatus(fmt.Sprintf("Invalid departure date %q", text), slog.LevelError)
		}
		query.DepartureDate = date
	}

	model.endSearch()
	model.searching = true
	statusCommand := model.setStatus("Searching "+query.String()+"…", slog.LevelInfo)
	return model, tea.Batch(statusCommand, model.searchCommand(query))
}

// newQuery returns a normalized query for origin carrying the
// configured fare limits.
func (model Model) newQuery(origin string) flights.Query {
	query := model.fareLimits
	query.Origin = origin
	return query.Normalize()
}

// searchCommand runs query off the Update goroutine.
func (model Model) searchCommand(query flights.Query) tea.Cmd {
	searcher := model.searcher
	timeout := model.searchTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		rows, err := flights.Search(ctx, searcher, query)
		return searchResultMsg{query: query, rows: rows, err: err}
	}
}

func (model Model) handleSearchResult(message searchResultMsg) (tea.Model, tea.Cmd) {
	model.searching = false
	model.pendingSearch = nil
	model.lastQuery = message.query

	if message.err != nil {
		model.logger.Error("flight search failed", "query", message.query.String(), "error", message.err)
		return model, model.setStatus(SearchFailedStatus, slog.LevelError)
	}
	if len(message.rows) == 0 {
		return model, model.setStatus("No destinations found for "+message.query.String(), slog.LevelWarn)
	}
	if !model.table.LoadRows(message.rows) {
		return model, model.setStatus("Table already has rows; press ctrl+r to reset before loading a search", slog.LevelWarn)
	}
	model.pageIndex = 0
	model.cursorRow = 0
	model.cursorColumn = 0
	model.logger.Info("destinations loaded", "query", message.query.String(), "rows", len(message.rows))
	return model, model.setStatus(fmt.Sprintf("Loaded %d destinations from %s", len(message.rows), message.query), slog.LevelInfo)
}

// setStatus replaces the status line and schedules it to fade.
func (model *Model) setStatus(text string, level slog.Level) tea.Cmd {
	model.statusGeneration++
	model.status = text
	model.statusLevel = level
	generation := model.statusGeneration
	return tea.Tick(statusFadeDelay, func(time.Time) tea.Msg {
		return statusFadeMsg{generation: generation}
	})
}
