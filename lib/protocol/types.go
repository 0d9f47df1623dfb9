// Copyright 2026 The Traveldesk Authors
// SPDX-License-Identifier: Apache-2.0

package protocol

import "fmt"

// Action names, the request discriminant values. These strings are the
// wire contract and never change independently of the clients.
const (
	ActionFetchCities     = "fetch_cities"
	ActionFetchTransports = "fetch_transports"
	ActionFetchHotels     = "fetch_hotels"
	ActionFetchRoomTypes  = "fetch_room_types"
	ActionProcessPayment  = "process_payment"
	ActionSaveBooking     = "save_booking"
)

// Status values carried by [Outcome].
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// TransportKind is the mode of a transport route.
type TransportKind string

const (
	TransportBus    TransportKind = "Bus"
	TransportTrain  TransportKind = "Train"
	TransportFlight TransportKind = "Flight"
)

// RoomKind is the category of a hotel room.
type RoomKind string

// Room kind wire values. "Delux Suite" is the historical spelling in
// the seed data and on the wire; it cannot be corrected without
// breaking deployed clients.
const (
	RoomSingle      RoomKind = "Single Room"
	RoomDouble      RoomKind = "Double Room"
	RoomSuite       RoomKind = "Suite"
	RoomDeluxeSuite RoomKind = "Delux Suite"
)

// Transport is one catalog route row. It encodes as a positional CBOR
// array [id, type, cost, origin, destination].
type Transport struct {
	_           struct{} `cbor:",toarray"`
	ID          int64
	Kind        TransportKind
	Cost        float64
	Origin      string
	Destination string
}

// Hotel is one catalog hotel row. It encodes as [id, name, city].
type Hotel struct {
	_    struct{} `cbor:",toarray"`
	ID   int64
	Name string
	City string
}

// RoomType is one catalog room row. It encodes as
// [id, hotel_id, type, cost].
type RoomType struct {
	_       struct{} `cbor:",toarray"`
	ID      int64
	HotelID int64
	Kind    RoomKind
	Cost    float64
}

// Booking is a completed purchase record. On the wire it is a CBOR map
// nested under the request's "booking" field; the reporting tool also
// prints it as JSON, which is why it carries json tags (fxamacker/cbor
// falls back to them).
//
// The transport leg and the lodging fields are each optional: a
// booking may be lodging-only (no transport) and the record shape
// tolerates hotel-less rows from older clients.
type Booking struct {
	BookingID     string        `json:"booking_id"`
	TransportKind TransportKind `json:"transport_type,omitempty"`
	Origin        string        `json:"origin"`
	Destination   string        `json:"destination"`
	TransportCost float64       `json:"transport_cost"`
	HotelName     string        `json:"hotel_name,omitempty"`
	RoomType      string        `json:"room_type,omitempty"`
	HotelCost     float64       `json:"hotel_cost"`
	TotalAmount   float64       `json:"total_amount"`
}

// Validate checks field presence. The booking id is the only mandatory
// field; it is caller-supplied and treated as opaque.
func (b *Booking) Validate() error {
	if b.BookingID == "" {
		return fmt.Errorf("protocol: booking is missing booking_id")
	}
	return nil
}

// Request is the decoded form of an inbound request map. Only the
// fields relevant to the named action are populated; the dispatcher
// checks per-action presence.
type Request struct {
	Action        string   `cbor:"action"`
	Origin        string   `cbor:"origin,omitempty"`
	Destination   string   `cbor:"destination,omitempty"`
	HotelID       int64    `cbor:"hotel_id,omitempty"`
	AccountNumber string   `cbor:"account_number,omitempty"`
	Password      string   `cbor:"password,omitempty"`
	TotalAmount   float64  `cbor:"total_amount,omitempty"`
	Booking       *Booking `cbor:"booking,omitempty"`
}

// Outcome is the status envelope returned by the mutating actions and
// by any failed request.
type Outcome struct {
	Status  string `cbor:"status"`
	Message string `cbor:"message,omitempty"`
}

// Failed reports whether the outcome carries a failure status.
func (o Outcome) Failed() bool {
	return o.Status != StatusSuccess
}
