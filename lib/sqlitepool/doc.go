// Copyright 2026 The Flight Inspirations Authors
// SPDX-License-Identifier: Apache-2.0

// Package sqlitepool opens the local SQLite database that backs the
// key-value store where the table snapshot and view state live.
//
// It wraps zombiezen.com/go/sqlite's sqlitex.Pool and applies a fixed
// set of pragmas to every connection:
//
//   - journal_mode=WAL for file databases, so a reader never blocks
//     the commit writer.
//   - synchronous=FULL. Committed edits are the only copy of the
//     user's work and must survive power loss.
//   - busy_timeout=5000 to wait for a write lock instead of failing
//     with SQLITE_BUSY when two instances share a file.
//   - foreign_keys=ON and temp_store=MEMORY.
//
// Usage:
//
//	pool, err := sqlitepool.Open(sqlitepool.Config{
//	    Path:   path,
//	    Logger: logger,
//	    OnConnect: func(conn *sqlite.Conn) error {
//	        return sqlitex.ExecuteScript(conn, schema, nil)
//	    },
//	})
//	if err != nil {
//	    return err
//	}
//	defer pool.Close()
//
//	err = pool.With(ctx, func(conn *sqlite.Conn) error {
//	    return sqlitex.Execute(conn, query, options)
//	})
//
// The package exposes zombiezen's types directly. Callers write SQL and
// use sqlitex.Execute; there is no query builder.
package sqlitepool
