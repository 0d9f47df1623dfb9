// Copyright 2026 The Traveldesk Authors
// SPDX-License-Identifier: Apache-2.0

// Package sqlitepool provides the standard traveldesk SQLite
// connection pool.
//
// Both stores that need structured storage — the catalog and the
// booking log — use this package. It wraps zombiezen.com/go/sqlite
// with production defaults: WAL journal mode, NORMAL synchronous for
// process-crash durability without fsync-per-commit overhead, busy
// timeout to handle write contention gracefully, and enforced foreign
// keys (room types reference hotels).
//
// The pool is built on zombiezen's sqlitex.Pool, which manages a
// fixed-size set of connections. Callers [Pool.Take] a connection,
// perform work, and [Pool.Put] it back. Connections are NOT safe for
// concurrent use — each goroutine must hold its own connection for the
// duration of its work. This maps directly onto the server's
// goroutine-per-connection model: each request handler borrows one
// database connection at most.
//
// # Pragmas
//
// Every connection in the pool is initialized with these pragmas:
//
//   - journal_mode=WAL: write-ahead logging for concurrent readers and
//     a single writer. Catalog reads never block booking appends.
//   - synchronous=NORMAL: transactions survive process crashes.
//   - busy_timeout=5000: wait up to 5 seconds for a write lock instead
//     of returning SQLITE_BUSY immediately. Booking appends from many
//     connections serialize here.
//   - foreign_keys=ON: room_type rows must reference an existing hotel.
//   - temp_store=MEMORY: temporary tables and indexes in memory.
//
// # Usage
//
//	pool, err := sqlitepool.Open(sqlitepool.Config{
//	    Path:   "/var/traveldesk/traveldesk.db",
//	    Logger: logger,
//	})
//	if err != nil {
//	    return err
//	}
//	defer pool.Close()
//
//	conn, err := pool.Take(ctx)
//	if err != nil {
//	    return err
//	}
//	defer pool.Put(conn)
//
// # Design
//
// This package is intentionally thin: it applies standard pragmas and
// exposes the underlying zombiezen types directly. Stores write SQL,
// use sqlitex.Execute for cached statements, and manage transactions
// with sqlitex.ImmediateTransaction. There is no query builder and no
// ORM layer.
package sqlitepool
