// Copyright 2026 The Flight Inspirations Authors
// SPDX-License-Identifier: Apache-2.0

package table

import (
	"context"
	"encoding/json"
	"fmt"
)

// Default keys in the KeyValue store.
const (
	// DefaultSnapshotKey holds the JSON array of rows.
	DefaultSnapshotKey = "tableData"

	// DefaultViewKey holds the CBOR-encoded ViewState.
	DefaultViewKey = "tableView"
)

// KeyValue is the persistence collaborator: a synchronous string store
// scoped to one user. Get reports found=false for an absent key.
type KeyValue interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
}

// encodeSnapshot renders rows as a JSON array of objects. An empty
// working set encodes as [] rather than null.
func encodeSnapshot(rows []Row) (string, error) {
	if rows == nil {
		rows = []Row{}
	}
	data, err := json.Marshal(rows)
	if err != nil {
		return "", fmt.Errorf("table: encoding snapshot: %w", err)
	}
	return string(data), nil
}

// decodeSnapshot parses a stored snapshot. Any parse failure wraps
// ErrPersistenceCorrupt.
func decodeSnapshot(value string) ([]Row, error) {
	var rows []Row
	if err := json.Unmarshal([]byte(value), &rows); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistenceCorrupt, err)
	}
	for index, row := range rows {
		if row.fields == nil {
			return nil, fmt.Errorf("%w: row %d is null", ErrPersistenceCorrupt, index)
		}
	}
	return rows, nil
}

// ReadSnapshot returns the rows stored under key. An absent key yields
// found=false and no error.
func ReadSnapshot(ctx context.Context, store KeyValue, key string) (rows []Row, found bool, err error) {
	value, found, err := store.Get(ctx, key)
	if err != nil {
		return nil, false, fmt.Errorf("table: reading snapshot %q: %w", key, err)
	}
	if !found {
		return nil, false, nil
	}
	rows, err = decodeSnapshot(value)
	if err != nil {
		return nil, true, err
	}
	return rows, true, nil
}

// WriteSnapshot stores rows under key, replacing whatever was there.
func WriteSnapshot(ctx context.Context, store KeyValue, key string, rows []Row) error {
	value, err := encodeSnapshot(rows)
	if err != nil {
		return err
	}
	if err := store.Set(ctx, key, value); err != nil {
		return fmt.Errorf("table: writing snapshot %q: %w", key, err)
	}
	return nil
}
