// Copyright 2026 The Traveldesk Authors
// SPDX-License-Identifier: Apache-2.0

package bookinglog_test

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/traveldesk/traveldesk/lib/bookinglog"
	"github.com/traveldesk/traveldesk/lib/protocol"
	"github.com/traveldesk/traveldesk/lib/sqlitepool"
)

func openTestLog(t *testing.T) *bookinglog.Log {
	t.Helper()
	pool, err := sqlitepool.Open(sqlitepool.Config{
		Path:     filepath.Join(t.TempDir(), "bookings.db"),
		PoolSize: 4,
	})
	if err != nil {
		t.Fatalf("Open pool: %v", err)
	}
	t.Cleanup(func() { pool.Close() })

	log, err := bookinglog.Open(context.Background(), pool)
	if err != nil {
		t.Fatalf("Open log: %v", err)
	}
	return log
}

func TestAppendListRoundtrip(t *testing.T) {
	log := openTestLog(t)

	booking := protocol.Booking{
		BookingID:     "BOOK-1234",
		TransportKind: protocol.TransportFlight,
		Origin:        "San Francisco",
		Destination:   "New York",
		TransportCost: 290,
		HotelName:     "Empire State Hotel",
		RoomType:      string(protocol.RoomDouble),
		HotelCost:     180,
		TotalAmount:   470,
	}

	if err := log.Append(context.Background(), &booking); err != nil {
		t.Fatalf("Append: %v", err)
	}

	bookings, err := log.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(bookings) != 1 {
		t.Fatalf("got %d bookings, want 1", len(bookings))
	}
	if bookings[0] != booking {
		t.Errorf("roundtrip mismatch:\n got %+v\nwant %+v", bookings[0], booking)
	}
}

func TestOptionalFieldsRoundtripAsEmpty(t *testing.T) {
	log := openTestLog(t)

	// A lodging-only booking: no transport leg at all.
	booking := protocol.Booking{
		BookingID:   "BOOK-7777",
		Origin:      "Chicago",
		Destination: "Chicago",
		HotelName:   "Skyline Plaza",
		RoomType:    string(protocol.RoomSingle),
		HotelCost:   105,
		TotalAmount: 105,
	}

	if err := log.Append(context.Background(), &booking); err != nil {
		t.Fatalf("Append: %v", err)
	}

	bookings, err := log.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if bookings[0] != booking {
		t.Errorf("roundtrip mismatch:\n got %+v\nwant %+v", bookings[0], booking)
	}
	if bookings[0].TransportKind != "" || bookings[0].TransportCost != 0 {
		t.Errorf("transport fields leaked values: %+v", bookings[0])
	}
}

func TestListAllPreservesInsertionOrder(t *testing.T) {
	log := openTestLog(t)

	for i := 0; i < 5; i++ {
		booking := protocol.Booking{
			BookingID:   fmt.Sprintf("BOOK-%04d", i),
			Origin:      "Chicago",
			Destination: "New York",
			TotalAmount: float64(i),
		}
		if err := log.Append(context.Background(), &booking); err != nil {
			t.Fatalf("Append %d: %v", i, err)
		}
	}

	bookings, err := log.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(bookings) != 5 {
		t.Fatalf("got %d bookings, want 5", len(bookings))
	}
	for i, booking := range bookings {
		want := fmt.Sprintf("BOOK-%04d", i)
		if booking.BookingID != want {
			t.Errorf("bookings[%d].BookingID = %q, want %q", i, booking.BookingID, want)
		}
	}
}

func TestAppendRejectsMissingBookingID(t *testing.T) {
	log := openTestLog(t)

	booking := protocol.Booking{Origin: "Chicago", Destination: "New York"}
	if err := log.Append(context.Background(), &booking); err == nil {
		t.Error("Append accepted a booking without a booking_id")
	}

	bookings, err := log.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(bookings) != 0 {
		t.Errorf("invalid booking was stored: %v", bookings)
	}
}

func TestConcurrentAppends(t *testing.T) {
	log := openTestLog(t)

	const writers = 10
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			booking := protocol.Booking{
				BookingID:   fmt.Sprintf("BOOK-C%02d", i),
				Origin:      "Los Angeles",
				Destination: "Chicago",
				TotalAmount: 60,
			}
			errs <- log.Append(context.Background(), &booking)
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent Append: %v", err)
		}
	}

	bookings, err := log.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(bookings) != writers {
		t.Errorf("got %d bookings, want %d", len(bookings), writers)
	}
}

func TestBookingsSurviveReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bookings.db")

	open := func() (*sqlitepool.Pool, *bookinglog.Log) {
		pool, err := sqlitepool.Open(sqlitepool.Config{Path: path, PoolSize: 1})
		if err != nil {
			t.Fatalf("Open pool: %v", err)
		}
		log, err := bookinglog.Open(context.Background(), pool)
		if err != nil {
			t.Fatalf("Open log: %v", err)
		}
		return pool, log
	}

	pool, log := open()
	booking := protocol.Booking{BookingID: "BOOK-KEEP", Origin: "Chicago", Destination: "New York", TotalAmount: 240}
	if err := log.Append(context.Background(), &booking); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := pool.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	pool, log = open()
	defer pool.Close()
	bookings, err := log.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll after reopen: %v", err)
	}
	if len(bookings) != 1 || bookings[0].BookingID != "BOOK-KEEP" {
		t.Errorf("bookings after reopen = %v", bookings)
	}
}
