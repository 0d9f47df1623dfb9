// Copyright 2026 The Traveldesk Authors
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"context"
	"fmt"

	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/traveldesk/traveldesk/lib/protocol"
	"github.com/traveldesk/traveldesk/lib/sqlitepool"
)

// schema creates the catalog tables. room_type must be dropped first:
// foreign keys are enforced and it references hotel.
const schema = `
	DROP TABLE IF EXISTS room_type;
	DROP TABLE IF EXISTS hotel;
	DROP TABLE IF EXISTS transport;

	CREATE TABLE transport (
		id          INTEGER PRIMARY KEY,
		type        TEXT NOT NULL,
		cost        REAL NOT NULL,
		origin      TEXT NOT NULL,
		destination TEXT NOT NULL
	);

	CREATE TABLE hotel (
		id   INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		city TEXT NOT NULL
	);

	CREATE TABLE room_type (
		id       INTEGER PRIMARY KEY,
		hotel_id INTEGER NOT NULL REFERENCES hotel(id),
		type     TEXT NOT NULL,
		cost     REAL NOT NULL
	);
`

// Seed drops and recreates the catalog tables, then inserts the fixed
// seed rows, all in one transaction. The booking log table is left
// untouched — bookings are durable across restarts, the catalog is
// not.
func Seed(ctx context.Context, pool *sqlitepool.Pool) (err error) {
	conn, err := pool.Take(ctx)
	if err != nil {
		return fmt.Errorf("catalog: seed: %w", err)
	}
	defer pool.Put(conn)

	endTransaction, err := sqlitex.ImmediateTransaction(conn)
	if err != nil {
		return fmt.Errorf("catalog: seed: begin transaction: %w", err)
	}
	defer endTransaction(&err)

	if err := sqlitex.ExecuteScript(conn, schema, nil); err != nil {
		return fmt.Errorf("catalog: seed: creating tables: %w", err)
	}

	for _, t := range seedTransports() {
		err := sqlitex.Execute(conn,
			"INSERT INTO transport (id, type, cost, origin, destination) VALUES (?, ?, ?, ?, ?)",
			&sqlitex.ExecOptions{Args: []any{t.ID, string(t.Kind), t.Cost, t.Origin, t.Destination}})
		if err != nil {
			return fmt.Errorf("catalog: seed: transport %d: %w", t.ID, err)
		}
	}

	for _, h := range seedHotels() {
		err := sqlitex.Execute(conn,
			"INSERT INTO hotel (id, name, city) VALUES (?, ?, ?)",
			&sqlitex.ExecOptions{Args: []any{h.ID, h.Name, h.City}})
		if err != nil {
			return fmt.Errorf("catalog: seed: hotel %d: %w", h.ID, err)
		}
	}

	for _, r := range seedRoomTypes() {
		err := sqlitex.Execute(conn,
			"INSERT INTO room_type (id, hotel_id, type, cost) VALUES (?, ?, ?, ?)",
			&sqlitex.ExecOptions{Args: []any{r.ID, r.HotelID, string(r.Kind), r.Cost}})
		if err != nil {
			return fmt.Errorf("catalog: seed: room type %d: %w", r.ID, err)
		}
	}

	return nil
}

// City names used throughout the seed data.
const (
	sanFrancisco = "San Francisco"
	losAngeles   = "Los Angeles"
	chicago      = "Chicago"
	newYork      = "New York"
)

func seedTransports() []protocol.Transport {
	return []protocol.Transport{
		{ID: 1, Kind: protocol.TransportBus, Cost: 30, Origin: sanFrancisco, Destination: losAngeles},
		{ID: 2, Kind: protocol.TransportTrain, Cost: 110, Origin: sanFrancisco, Destination: chicago},
		{ID: 3, Kind: protocol.TransportFlight, Cost: 290, Origin: sanFrancisco, Destination: newYork},
		{ID: 4, Kind: protocol.TransportBus, Cost: 60, Origin: losAngeles, Destination: chicago},
		{ID: 5, Kind: protocol.TransportTrain, Cost: 210, Origin: losAngeles, Destination: newYork},
		{ID: 6, Kind: protocol.TransportFlight, Cost: 160, Origin: losAngeles, Destination: sanFrancisco},
		{ID: 7, Kind: protocol.TransportFlight, Cost: 240, Origin: chicago, Destination: newYork},
		{ID: 8, Kind: protocol.TransportBus, Cost: 80, Origin: chicago, Destination: losAngeles},
		{ID: 9, Kind: protocol.TransportBus, Cost: 80, Origin: chicago, Destination: sanFrancisco},
		{ID: 10, Kind: protocol.TransportTrain, Cost: 170, Origin: newYork, Destination: sanFrancisco},
		{ID: 11, Kind: protocol.TransportFlight, Cost: 210, Origin: newYork, Destination: chicago},
		{ID: 12, Kind: protocol.TransportFlight, Cost: 210, Origin: newYork, Destination: losAngeles},
	}
}

func seedHotels() []protocol.Hotel {
	return []protocol.Hotel{
		{ID: 1, Name: "Luxury Inn", City: sanFrancisco},
		{ID: 2, Name: "Cityscape Hotel", City: sanFrancisco},
		{ID: 3, Name: "Downtown Suites", City: sanFrancisco},
		{ID: 4, Name: "Sunset Suites", City: losAngeles},
		{ID: 5, Name: "Beachside Hotel", City: losAngeles},
		{ID: 6, Name: "Hollywood Heights", City: losAngeles},
		{ID: 7, Name: "Skyline Plaza", City: chicago},
		{ID: 8, Name: "Riverfront Suites", City: chicago},
		{ID: 9, Name: "City Central", City: chicago},
		{ID: 10, Name: "Bay Area Resort", City: newYork},
		{ID: 11, Name: "Empire State Hotel", City: newYork},
		{ID: 12, Name: "Urban Retreat", City: newYork},
	}
}

func seedRoomTypes() []protocol.RoomType {
	type hotelRooms struct {
		hotelID int64
		costs   map[protocol.RoomKind]float64
	}

	hotels := []hotelRooms{
		{1, map[protocol.RoomKind]float64{protocol.RoomSingle: 150, protocol.RoomDouble: 200, protocol.RoomSuite: 250, protocol.RoomDeluxeSuite: 350}},
		{2, map[protocol.RoomKind]float64{protocol.RoomSingle: 80, protocol.RoomDouble: 130, protocol.RoomSuite: 230}},
		{3, map[protocol.RoomKind]float64{protocol.RoomSingle: 80, protocol.RoomDouble: 130, protocol.RoomSuite: 230}},
		{4, map[protocol.RoomKind]float64{protocol.RoomSingle: 110, protocol.RoomDouble: 160, protocol.RoomSuite: 260, protocol.RoomDeluxeSuite: 360}},
		{5, map[protocol.RoomKind]float64{protocol.RoomSingle: 95, protocol.RoomDouble: 145, protocol.RoomSuite: 245}},
		{6, map[protocol.RoomKind]float64{protocol.RoomSingle: 85, protocol.RoomDouble: 135, protocol.RoomSuite: 235}},
		{7, map[protocol.RoomKind]float64{protocol.RoomSingle: 105, protocol.RoomDouble: 155, protocol.RoomSuite: 255, protocol.RoomDeluxeSuite: 370}},
		{8, map[protocol.RoomKind]float64{protocol.RoomSingle: 75, protocol.RoomDouble: 125, protocol.RoomSuite: 225}},
		{9, map[protocol.RoomKind]float64{protocol.RoomSingle: 110, protocol.RoomDouble: 160, protocol.RoomSuite: 260}},
		{10, map[protocol.RoomKind]float64{protocol.RoomSingle: 120, protocol.RoomDouble: 170, protocol.RoomSuite: 270, protocol.RoomDeluxeSuite: 400}},
		{11, map[protocol.RoomKind]float64{protocol.RoomSingle: 130, protocol.RoomDouble: 180, protocol.RoomSuite: 290}},
		{12, map[protocol.RoomKind]float64{protocol.RoomSingle: 140, protocol.RoomDouble: 190, protocol.RoomSuite: 300}},
	}

	// Fixed kind order keeps ids stable across runs.
	kindOrder := []protocol.RoomKind{
		protocol.RoomSingle, protocol.RoomDouble, protocol.RoomSuite, protocol.RoomDeluxeSuite,
	}

	var rows []protocol.RoomType
	var id int64
	for _, h := range hotels {
		for _, kind := range kindOrder {
			cost, offered := h.costs[kind]
			if !offered {
				continue
			}
			id++
			rows = append(rows, protocol.RoomType{ID: id, HotelID: h.hotelID, Kind: kind, Cost: cost})
		}
	}
	return rows
}
