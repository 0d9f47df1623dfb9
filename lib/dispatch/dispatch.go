// Copyright 2026 The Traveldesk Authors
// SPDX-License-Identifier: Apache-2.0

// Package dispatch routes decoded requests to the catalog, the payment
// ledger, or the booking log based on the action discriminant.
//
// Every fault below the transport layer terminates here as an explicit
// failure [protocol.Response]: malformed requests, unknown actions,
// missing fields, declined payments, and storage errors all produce a
// status envelope the client can inspect. Nothing propagates an
// unhandled fault back to the connection server.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/traveldesk/traveldesk/lib/bookinglog"
	"github.com/traveldesk/traveldesk/lib/catalog"
	"github.com/traveldesk/traveldesk/lib/codec"
	"github.com/traveldesk/traveldesk/lib/ledger"
	"github.com/traveldesk/traveldesk/lib/protocol"
)

// Dispatcher holds the three stores and routes one request to exactly
// one of them. It is safe for concurrent use; all mutable state lives
// behind the stores' own synchronization.
type Dispatcher struct {
	catalog  *catalog.Store
	ledger   *ledger.Ledger
	bookings *bookinglog.Log
	logger   *slog.Logger
}

// New creates a dispatcher over the given stores.
func New(catalogStore *catalog.Store, paymentLedger *ledger.Ledger, bookings *bookinglog.Log, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		catalog:  catalogStore,
		ledger:   paymentLedger,
		bookings: bookings,
		logger:   logger,
	}
}

// Dispatch decodes the raw request, matches its action, and returns
// the response for it. The raw parameter is the complete CBOR request
// including the "action" field.
func (d *Dispatcher) Dispatch(ctx context.Context, raw []byte) protocol.Response {
	var request protocol.Request
	if err := codec.Unmarshal(raw, &request); err != nil {
		return protocol.Failure(fmt.Sprintf("invalid request: %v", err))
	}
	if request.Action == "" {
		return protocol.Failure("missing required field: action")
	}

	switch request.Action {
	case protocol.ActionFetchCities:
		return d.fetchCities(ctx)
	case protocol.ActionFetchTransports:
		return d.fetchTransports(ctx, &request)
	case protocol.ActionFetchHotels:
		return d.fetchHotels(ctx, &request)
	case protocol.ActionFetchRoomTypes:
		return d.fetchRoomTypes(ctx, &request)
	case protocol.ActionProcessPayment:
		return d.processPayment(&request)
	case protocol.ActionSaveBooking:
		return d.saveBooking(ctx, &request)
	default:
		return protocol.Failure(fmt.Sprintf("unknown action %q", request.Action))
	}
}

func (d *Dispatcher) fetchCities(ctx context.Context) protocol.Response {
	cities, err := d.catalog.Cities(ctx)
	if err != nil {
		return d.storageFailure(protocol.ActionFetchCities, err)
	}
	return protocol.Rows(cities)
}

func (d *Dispatcher) fetchTransports(ctx context.Context, request *protocol.Request) protocol.Response {
	if request.Origin == "" {
		return protocol.Failure("missing required field: origin")
	}
	if request.Destination == "" {
		return protocol.Failure("missing required field: destination")
	}

	transports, err := d.catalog.Transports(ctx, request.Origin, request.Destination)
	if err != nil {
		return d.storageFailure(protocol.ActionFetchTransports, err)
	}
	return protocol.Rows(transports)
}

func (d *Dispatcher) fetchHotels(ctx context.Context, request *protocol.Request) protocol.Response {
	if request.Destination == "" {
		return protocol.Failure("missing required field: destination")
	}

	hotels, err := d.catalog.Hotels(ctx, request.Destination)
	if err != nil {
		return d.storageFailure(protocol.ActionFetchHotels, err)
	}
	return protocol.Rows(hotels)
}

func (d *Dispatcher) fetchRoomTypes(ctx context.Context, request *protocol.Request) protocol.Response {
	if request.HotelID == 0 {
		return protocol.Failure("missing required field: hotel_id")
	}

	roomTypes, err := d.catalog.RoomTypes(ctx, request.HotelID)
	if err != nil {
		return d.storageFailure(protocol.ActionFetchRoomTypes, err)
	}
	return protocol.Rows(roomTypes)
}

func (d *Dispatcher) processPayment(request *protocol.Request) protocol.Response {
	if request.AccountNumber == "" {
		return protocol.Failure("missing required field: account_number")
	}
	if request.Password == "" {
		return protocol.Failure("missing required field: password")
	}
	if request.TotalAmount == 0 {
		return protocol.Failure("missing required field: total_amount")
	}

	if err := d.ledger.AuthorizeAndDebit(request.AccountNumber, request.Password, request.TotalAmount); err != nil {
		// Declines are business outcomes, not errors; log at debug.
		d.logger.Debug("payment declined", "account", request.AccountNumber)
		return protocol.Failure(err.Error())
	}

	d.logger.Info("payment authorized",
		"account", request.AccountNumber,
		"amount", request.TotalAmount,
	)
	return protocol.Success()
}

func (d *Dispatcher) saveBooking(ctx context.Context, request *protocol.Request) protocol.Response {
	if request.Booking == nil {
		return protocol.Failure("missing required field: booking")
	}

	if err := d.bookings.Append(ctx, request.Booking); err != nil {
		d.logger.Error("booking append failed",
			"booking_id", request.Booking.BookingID,
			"error", err,
		)
		return protocol.Failure(err.Error())
	}

	d.logger.Info("booking saved",
		"booking_id", request.Booking.BookingID,
		"total", request.Booking.TotalAmount,
	)
	return protocol.Success()
}

// storageFailure logs a catalog read fault and converts it into a
// failure response. Catalog faults are server-side problems, unlike
// declines and validation failures.
func (d *Dispatcher) storageFailure(action string, err error) protocol.Response {
	d.logger.Error("catalog query failed", "action", action, "error", err)
	return protocol.Failure(err.Error())
}
