// Copyright 2026 The Flight Inspirations Authors
// SPDX-License-Identifier: Apache-2.0

package table

import "errors"

var (
	// ErrInvalidCoordinate is returned by EditCell for a row index out
	// of range or a column outside the Schema.
	ErrInvalidCoordinate = errors.New("table: invalid cell coordinate")

	// ErrPersistenceCorrupt is returned by Restore when the stored
	// snapshot is not a JSON array of string-valued objects. The Table
	// stays empty.
	ErrPersistenceCorrupt = errors.New("table: persisted snapshot is corrupt")
)
