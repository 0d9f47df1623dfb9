// Copyright 2026 The Traveldesk Authors
// SPDX-License-Identifier: Apache-2.0

package service_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/traveldesk/traveldesk/lib/bookinglog"
	"github.com/traveldesk/traveldesk/lib/catalog"
	"github.com/traveldesk/traveldesk/lib/codec"
	"github.com/traveldesk/traveldesk/lib/dispatch"
	"github.com/traveldesk/traveldesk/lib/ledger"
	"github.com/traveldesk/traveldesk/lib/protocol"
	"github.com/traveldesk/traveldesk/lib/service"
	"github.com/traveldesk/traveldesk/lib/sqlitepool"
	"github.com/traveldesk/traveldesk/lib/testutil"
)

// startServer runs a fully wired server on an ephemeral port and
// returns its address. The server shuts down during test cleanup.
func startServer(t *testing.T) string {
	t.Helper()

	pool, err := sqlitepool.Open(sqlitepool.Config{
		Path:     filepath.Join(t.TempDir(), "traveldesk.db"),
		PoolSize: 4,
	})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { pool.Close() })

	ctx, cancel := context.WithCancel(context.Background())

	if err := catalog.Seed(ctx, pool); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	bookings, err := bookinglog.Open(ctx, pool)
	if err != nil {
		t.Fatalf("bookinglog.Open: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	dispatcher := dispatch.New(
		catalog.NewStore(pool),
		ledger.New(ledger.SeedAccounts()),
		bookings,
		logger,
	)

	server, err := service.New(service.Config{
		Address:      "127.0.0.1:0",
		Dispatcher:   dispatcher,
		Logger:       logger,
		ReadTimeout:  service.DefaultReadTimeout,
		WriteTimeout: service.DefaultWriteTimeout,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- server.Serve(ctx) }()
	testutil.RequireClosed(t, server.Ready(), 5*time.Second, "server ready")

	t.Cleanup(func() {
		cancel()
		if err := testutil.RequireReceive(t, done, 5*time.Second, "server exit"); err != nil {
			t.Errorf("Serve: %v", err)
		}
	})
	return server.Addr().String()
}

func TestEndToEndBookingFlow(t *testing.T) {
	address := startServer(t)
	client := service.NewClient(address)
	ctx := context.Background()

	cities, err := client.FetchCities(ctx)
	if err != nil {
		t.Fatalf("FetchCities: %v", err)
	}
	if len(cities) != 4 {
		t.Fatalf("got %d cities, want 4", len(cities))
	}

	transports, err := client.FetchTransports(ctx, "San Francisco", "Los Angeles")
	if err != nil {
		t.Fatalf("FetchTransports: %v", err)
	}
	if len(transports) != 1 {
		t.Fatalf("got %d transports, want 1", len(transports))
	}
	route := transports[0]

	hotels, err := client.FetchHotels(ctx, "Los Angeles")
	if err != nil {
		t.Fatalf("FetchHotels: %v", err)
	}
	if len(hotels) == 0 {
		t.Fatal("no hotels in Los Angeles")
	}

	roomTypes, err := client.FetchRoomTypes(ctx, hotels[0].ID)
	if err != nil {
		t.Fatalf("FetchRoomTypes: %v", err)
	}
	if len(roomTypes) == 0 {
		t.Fatalf("no room types for hotel %d", hotels[0].ID)
	}
	room := roomTypes[0]

	total := route.Cost + room.Cost
	if err := client.ProcessPayment(ctx, "12345", "pass", total); err != nil {
		t.Fatalf("ProcessPayment: %v", err)
	}

	booking := &protocol.Booking{
		BookingID:     "BOOK-1234",
		TransportKind: route.Kind,
		Origin:        route.Origin,
		Destination:   route.Destination,
		TransportCost: route.Cost,
		HotelName:     hotels[0].Name,
		RoomType:      string(room.Kind),
		HotelCost:     room.Cost,
		TotalAmount:   total,
	}
	if err := client.SaveBooking(ctx, booking); err != nil {
		t.Fatalf("SaveBooking: %v", err)
	}
}

func TestPaymentDeclineIsServiceError(t *testing.T) {
	address := startServer(t)
	client := service.NewClient(address)

	err := client.ProcessPayment(context.Background(), "12345", "wrong", 10)
	var serviceError *service.ServiceError
	if !errors.As(err, &serviceError) {
		t.Fatalf("got %v, want *ServiceError", err)
	}
	if serviceError.Action != protocol.ActionProcessPayment {
		t.Errorf("Action = %q", serviceError.Action)
	}
	if serviceError.Message == "" {
		t.Error("decline carries no message")
	}
}

// sendRaw writes arbitrary bytes on a fresh connection and decodes one
// CBOR response, bypassing the typed client.
func sendRaw(t *testing.T, address string, payload []byte) protocol.Outcome {
	t.Helper()
	conn, err := net.Dial("tcp", address)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	if _, err := conn.Write(payload); err != nil {
		t.Fatalf("Write: %v", err)
	}
	conn.(*net.TCPConn).CloseWrite()

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var outcome protocol.Outcome
	if err := codec.NewDecoder(conn).Decode(&outcome); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	return outcome
}

func TestUnknownActionFails(t *testing.T) {
	address := startServer(t)

	payload, err := codec.Marshal(map[string]any{"action": "teleport"})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	outcome := sendRaw(t, address, payload)
	if !outcome.Failed() {
		t.Fatalf("outcome = %+v, want failure", outcome)
	}
}

func TestMalformedRequestFails(t *testing.T) {
	address := startServer(t)

	outcome := sendRaw(t, address, []byte{0xff, 0xff, 0xff})
	if !outcome.Failed() {
		t.Fatalf("outcome = %+v, want failure", outcome)
	}
}

func TestEmptyConnectionClosesQuietly(t *testing.T) {
	address := startServer(t)

	conn, err := net.Dial("tcp", address)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()
	conn.(*net.TCPConn).CloseWrite()

	// The server treats an empty request as a no-op: it must close
	// the connection without writing anything.
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	buffer := make([]byte, 1)
	n, err := conn.Read(buffer)
	if n != 0 || !errors.Is(err, io.EOF) {
		t.Errorf("Read = (%d, %v), want EOF with no data", n, err)
	}
}

func TestConcurrentPaymentsNeverOverdraw(t *testing.T) {
	address := startServer(t)
	client := service.NewClient(address)

	// Account 12345 starts at 100000; ten debits of 30000 can succeed
	// at most three times.
	const attempts = 10
	const amount = 30000.0

	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- client.ProcessPayment(context.Background(), "12345", "pass", amount)
		}()
	}
	wg.Wait()
	close(results)

	successes := 0
	for err := range results {
		if err == nil {
			successes++
			continue
		}
		var serviceError *service.ServiceError
		if !errors.As(err, &serviceError) {
			t.Errorf("unexpected transport error: %v", err)
		}
	}
	if successes != 3 {
		t.Errorf("got %d successful debits, want 3", successes)
	}
}

func TestGracefulShutdown(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	server, err := service.New(service.Config{
		Address:    "127.0.0.1:0",
		Dispatcher: dispatcherFunc(func(ctx context.Context, raw []byte) protocol.Response {
			return protocol.Success()
		}),
		Logger: logger,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.Serve(ctx) }()
	testutil.RequireClosed(t, server.Ready(), 5*time.Second, "server ready")

	cancel()
	if err := testutil.RequireReceive(t, done, 5*time.Second, "server exit"); err != nil {
		t.Errorf("Serve: %v", err)
	}
}

// dispatcherFunc adapts a function to the Dispatcher interface.
type dispatcherFunc func(ctx context.Context, raw []byte) protocol.Response

func (f dispatcherFunc) Dispatch(ctx context.Context, raw []byte) protocol.Response {
	return f(ctx, raw)
}
