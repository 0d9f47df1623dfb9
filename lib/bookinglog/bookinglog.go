// Copyright 2026 The Traveldesk Authors
// SPDX-License-Identifier: Apache-2.0

// Package bookinglog provides the durable append-only store of
// completed bookings.
//
// Rows are created once by Append and never mutated or deleted.
// ListAll returns them in insertion order for the reporting tool.
// Append serialization is provided by SQLite itself (one writer at a
// time under WAL); the package adds no locking of its own.
package bookinglog

import (
	"context"
	"fmt"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/traveldesk/traveldesk/lib/protocol"
	"github.com/traveldesk/traveldesk/lib/sqlitepool"
)

const schema = `
	CREATE TABLE IF NOT EXISTS booking (
		id             INTEGER PRIMARY KEY AUTOINCREMENT,
		booking_id     TEXT NOT NULL,
		transport_type TEXT,
		origin         TEXT NOT NULL,
		destination    TEXT NOT NULL,
		transport_cost REAL NOT NULL,
		hotel_name     TEXT,
		room_type      TEXT,
		hotel_cost     REAL NOT NULL,
		total_amount   REAL NOT NULL
	);
`

// Log is the booking store over a shared connection pool.
type Log struct {
	pool *sqlitepool.Pool
}

// Open ensures the booking table exists and returns the log. Unlike
// the catalog, the table is never dropped — bookings survive restarts.
func Open(ctx context.Context, pool *sqlitepool.Pool) (*Log, error) {
	conn, err := pool.Take(ctx)
	if err != nil {
		return nil, fmt.Errorf("bookinglog: open: %w", err)
	}
	defer pool.Put(conn)

	if err := sqlitex.ExecuteScript(conn, schema, nil); err != nil {
		return nil, fmt.Errorf("bookinglog: creating table: %w", err)
	}
	return &Log{pool: pool}, nil
}

// Append writes one booking row. Validation is presence-only: the
// booking id must be set, optional transport and lodging fields are
// stored as NULL when empty.
func (l *Log) Append(ctx context.Context, booking *protocol.Booking) error {
	if err := booking.Validate(); err != nil {
		return err
	}

	conn, err := l.pool.Take(ctx)
	if err != nil {
		return fmt.Errorf("bookinglog: append: %w", err)
	}
	defer l.pool.Put(conn)

	const query = `
		INSERT INTO booking (booking_id, transport_type, origin, destination,
			transport_cost, hotel_name, room_type, hotel_cost, total_amount)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	err = sqlitex.Execute(conn, query, &sqlitex.ExecOptions{
		Args: []any{
			booking.BookingID,
			nullableText(string(booking.TransportKind)),
			booking.Origin,
			booking.Destination,
			booking.TransportCost,
			nullableText(booking.HotelName),
			nullableText(booking.RoomType),
			booking.HotelCost,
			booking.TotalAmount,
		},
	})
	if err != nil {
		return fmt.Errorf("bookinglog: append %s: %w", booking.BookingID, err)
	}
	return nil
}

// ListAll returns every stored booking in insertion order.
func (l *Log) ListAll(ctx context.Context) ([]protocol.Booking, error) {
	conn, err := l.pool.Take(ctx)
	if err != nil {
		return nil, fmt.Errorf("bookinglog: list: %w", err)
	}
	defer l.pool.Put(conn)

	const query = `
		SELECT booking_id, transport_type, origin, destination, transport_cost,
			hotel_name, room_type, hotel_cost, total_amount
		FROM booking ORDER BY id`

	bookings := []protocol.Booking{}
	err = sqlitex.Execute(conn, query, &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			bookings = append(bookings, protocol.Booking{
				BookingID:     stmt.ColumnText(0),
				TransportKind: protocol.TransportKind(stmt.ColumnText(1)),
				Origin:        stmt.ColumnText(2),
				Destination:   stmt.ColumnText(3),
				TransportCost: stmt.ColumnFloat(4),
				HotelName:     stmt.ColumnText(5),
				RoomType:      stmt.ColumnText(6),
				HotelCost:     stmt.ColumnFloat(7),
				TotalAmount:   stmt.ColumnFloat(8),
			})
			return nil
		},
	})
	if err != nil {
		return nil, fmt.Errorf("bookinglog: list: %w", err)
	}
	return bookings, nil
}

// nullableText maps an empty string onto SQL NULL.
func nullableText(s string) any {
	if s == "" {
		return nil
	}
	return s
}
