// Copyright 2026 The Flight Inspirations Authors
// SPDX-License-Identifier: Apache-2.0

package table

import (
	"context"
	"fmt"

	"github.com/maisjamil1/flight-inspirations/lib/codec"
)

// ViewState is how the user was looking at the Table: column order,
// active filters, and page size. It is stored apart from the row
// snapshot so that the snapshot stays a plain JSON array of rows.
type ViewState struct {
	Order    []string          `cbor:"order"`
	Filters  map[string]string `cbor:"filters,omitempty"`
	PageSize int               `cbor:"page_size,omitempty"`
}

// ViewState captures the current order and filters. The page size
// belongs to the presentation layer, which fills it in.
func (t *Table) ViewState() ViewState {
	return ViewState{
		Order:   t.Order(),
		Filters: t.Filters(),
	}
}

// ApplyViewState installs the parts of state that are consistent with
// the current Schema: the order only if it is a permutation of the
// Schema names, and each filter only if its column exists. It reports
// whether the order was applied.
func (t *Table) ApplyViewState(state ViewState) bool {
	for column, pattern := range state.Filters {
		t.SetFilter(column, pattern)
	}
	return t.SetOrder(state.Order)
}

// SaveViewState writes state under the view key.
func (t *Table) SaveViewState(ctx context.Context, state ViewState) error {
	if t.store == nil {
		return errNoStore
	}
	data, err := codec.Marshal(state)
	if err != nil {
		return fmt.Errorf("table: encoding view state: %w", err)
	}
	if err := t.store.Set(ctx, t.viewKey, string(data)); err != nil {
		return fmt.Errorf("table: writing view state %q: %w", t.viewKey, err)
	}
	return nil
}

// LoadViewState reads the stored view state. An absent or undecodable
// value yields found=false; only a store failure is an error.
func (t *Table) LoadViewState(ctx context.Context) (state ViewState, found bool, err error) {
	if t.store == nil {
		return ViewState{}, false, nil
	}
	value, found, err := t.store.Get(ctx, t.viewKey)
	if err != nil {
		return ViewState{}, false, fmt.Errorf("table: reading view state %q: %w", t.viewKey, err)
	}
	if !found {
		return ViewState{}, false, nil
	}
	if err := codec.Unmarshal([]byte(value), &state); err != nil {
		t.logger.Warn("discarding undecodable view state", "key", t.viewKey, "error", err)
		return ViewState{}, false, nil
	}
	return state, true, nil
}
