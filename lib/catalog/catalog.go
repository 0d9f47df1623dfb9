// Copyright 2026 The Traveldesk Authors
// SPDX-License-Identifier: Apache-2.0

// Package catalog provides read-only lookups over the seeded travel
// catalog: transport routes, hotels, and room types.
//
// The catalog is seeded once at server start ([Seed] drops and
// recreates the tables) and never mutated afterwards, so lookups need
// no locking beyond what SQLite provides for concurrent readers. Empty
// results are valid outcomes, not errors — a city with no hotels
// returns an empty slice.
package catalog

import (
	"context"
	"fmt"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/traveldesk/traveldesk/lib/protocol"
	"github.com/traveldesk/traveldesk/lib/sqlitepool"
)

// Store answers catalog lookup queries. All result ordering is fixed
// by the SQL (primary key for rows, name for cities) so repeated
// queries return identical orderings.
type Store struct {
	pool *sqlitepool.Pool
}

// NewStore creates a catalog store over an already-seeded pool.
func NewStore(pool *sqlitepool.Pool) *Store {
	return &Store{pool: pool}
}

// Cities returns the deduplicated union of transport origins,
// transport destinations, and hotel cities, sorted by name.
func (s *Store) Cities(ctx context.Context) ([]string, error) {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return nil, fmt.Errorf("catalog: cities: %w", err)
	}
	defer s.pool.Put(conn)

	// UNION deduplicates across the three sources.
	const query = `
		SELECT origin AS city FROM transport
		UNION SELECT destination FROM transport
		UNION SELECT city FROM hotel
		ORDER BY city`

	cities := []string{}
	err = sqlitex.Execute(conn, query, &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			cities = append(cities, stmt.ColumnText(0))
			return nil
		},
	})
	if err != nil {
		return nil, fmt.Errorf("catalog: cities: %w", err)
	}
	return cities, nil
}

// Transports returns the routes from origin to destination, in id
// order. The reverse direction is a distinct set of rows.
func (s *Store) Transports(ctx context.Context, origin, destination string) ([]protocol.Transport, error) {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return nil, fmt.Errorf("catalog: transports: %w", err)
	}
	defer s.pool.Put(conn)

	const query = `
		SELECT id, type, cost, origin, destination FROM transport
		WHERE origin = ? AND destination = ? ORDER BY id`

	transports := []protocol.Transport{}
	err = sqlitex.Execute(conn, query, &sqlitex.ExecOptions{
		Args: []any{origin, destination},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			transports = append(transports, protocol.Transport{
				ID:          stmt.ColumnInt64(0),
				Kind:        protocol.TransportKind(stmt.ColumnText(1)),
				Cost:        stmt.ColumnFloat(2),
				Origin:      stmt.ColumnText(3),
				Destination: stmt.ColumnText(4),
			})
			return nil
		},
	})
	if err != nil {
		return nil, fmt.Errorf("catalog: transports: %w", err)
	}
	return transports, nil
}

// Hotels returns the hotels in the given city, in id order.
func (s *Store) Hotels(ctx context.Context, city string) ([]protocol.Hotel, error) {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return nil, fmt.Errorf("catalog: hotels: %w", err)
	}
	defer s.pool.Put(conn)

	const query = `SELECT id, name, city FROM hotel WHERE city = ? ORDER BY id`

	hotels := []protocol.Hotel{}
	err = sqlitex.Execute(conn, query, &sqlitex.ExecOptions{
		Args: []any{city},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			hotels = append(hotels, protocol.Hotel{
				ID:   stmt.ColumnInt64(0),
				Name: stmt.ColumnText(1),
				City: stmt.ColumnText(2),
			})
			return nil
		},
	})
	if err != nil {
		return nil, fmt.Errorf("catalog: hotels: %w", err)
	}
	return hotels, nil
}

// RoomTypes returns the room types offered by the given hotel, in id
// order.
func (s *Store) RoomTypes(ctx context.Context, hotelID int64) ([]protocol.RoomType, error) {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return nil, fmt.Errorf("catalog: room types: %w", err)
	}
	defer s.pool.Put(conn)

	const query = `SELECT id, hotel_id, type, cost FROM room_type WHERE hotel_id = ? ORDER BY id`

	roomTypes := []protocol.RoomType{}
	err = sqlitex.Execute(conn, query, &sqlitex.ExecOptions{
		Args: []any{hotelID},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			roomTypes = append(roomTypes, protocol.RoomType{
				ID:      stmt.ColumnInt64(0),
				HotelID: stmt.ColumnInt64(1),
				Kind:    protocol.RoomKind(stmt.ColumnText(2)),
				Cost:    stmt.ColumnFloat(3),
			})
			return nil
		},
	})
	if err != nil {
		return nil, fmt.Errorf("catalog: room types: %w", err)
	}
	return roomTypes, nil
}
