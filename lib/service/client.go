// Copyright 2026 The Traveldesk Authors
// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/traveldesk/traveldesk/lib/codec"
	"github.com/traveldesk/traveldesk/lib/protocol"
)

// dialTimeout is the maximum time to wait for a TCP connection to the
// server. Separate from the server's read/write deadlines; it covers
// only the connect phase.
const dialTimeout = 5 * time.Second

// responseReadTimeout is how long the client waits for the server to
// send a response after writing the request. Matched to the server's
// default read and write deadlines combined, to account for handler
// execution time.
const responseReadTimeout = 45 * time.Second

// maxResponseSize is the maximum size of a single CBOR response.
// Matches the server's default request cap for symmetry.
const maxResponseSize = 1024 * 1024

// ServiceError is returned when the server answers with a failure
// envelope. It carries the action that failed and the server's message.
type ServiceError struct {
	Action  string
	Message string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("service error on %q: %s", e.Action, e.Message)
}

// Client sends requests to a traveldesk server. Each call opens a new
// connection (matching the server's one-request-per-connection model),
// sends the request, reads the response, and closes the connection.
// A Client is stateless and safe for concurrent use.
type Client struct {
	address string
}

// NewClient creates a client for the server at the given TCP address.
func NewClient(address string) *Client {
	return &Client{address: address}
}

// FetchCities returns the sorted list of cities the catalog serves.
func (c *Client) FetchCities(ctx context.Context) ([]string, error) {
	var cities []string
	if err := c.call(ctx, protocol.ActionFetchCities, nil, &cities); err != nil {
		return nil, err
	}
	return cities, nil
}

// FetchTransports returns the routes from origin to destination.
func (c *Client) FetchTransports(ctx context.Context, origin, destination string) ([]protocol.Transport, error) {
	var transports []protocol.Transport
	err := c.call(ctx, protocol.ActionFetchTransports, map[string]any{
		"origin":      origin,
		"destination": destination,
	}, &transports)
	if err != nil {
		return nil, err
	}
	return transports, nil
}

// FetchHotels returns the hotels in the given city.
func (c *Client) FetchHotels(ctx context.Context, city string) ([]protocol.Hotel, error) {
	var hotels []protocol.Hotel
	err := c.call(ctx, protocol.ActionFetchHotels, map[string]any{
		"destination": city,
	}, &hotels)
	if err != nil {
		return nil, err
	}
	return hotels, nil
}

// FetchRoomTypes returns the room inventory of one hotel.
func (c *Client) FetchRoomTypes(ctx context.Context, hotelID int64) ([]protocol.RoomType, error) {
	var roomTypes []protocol.RoomType
	err := c.call(ctx, protocol.ActionFetchRoomTypes, map[string]any{
		"hotel_id": hotelID,
	}, &roomTypes)
	if err != nil {
		return nil, err
	}
	return roomTypes, nil
}

// ProcessPayment authorizes and debits the given amount. A declined
// payment returns a *ServiceError carrying the server's message.
func (c *Client) ProcessPayment(ctx context.Context, accountNumber, password string, amount float64) error {
	return c.call(ctx, protocol.ActionProcessPayment, map[string]any{
		"account_number": accountNumber,
		"password":       password,
		"total_amount":   amount,
	}, nil)
}

// SaveBooking records a completed booking on the server.
func (c *Client) SaveBooking(ctx context.Context, booking *protocol.Booking) error {
	return c.call(ctx, protocol.ActionSaveBooking, map[string]any{
		"booking": booking,
	}, nil)
}

// call performs one request-response cycle. The response is
// duck-typed: a CBOR map is a status envelope, anything else is row
// data for the action. A failure envelope becomes a *ServiceError; row
// data is decoded into rows when it is non-nil.
func (c *Client) call(ctx context.Context, action string, fields map[string]any, rows any) error {
	request := make(map[string]any, len(fields)+1)
	for key, value := range fields {
		request[key] = value
	}
	request["action"] = action

	raw, err := c.send(ctx, request)
	if err != nil {
		return fmt.Errorf("calling %q on %s: %w", action, c.address, err)
	}

	// Try the status envelope first. Row responses are bare arrays and
	// cannot decode into the envelope struct, so a decode success with
	// a populated status field is unambiguous.
	var outcome protocol.Outcome
	if err := codec.Unmarshal(raw, &outcome); err == nil && outcome.Status != "" {
		if outcome.Failed() {
			return &ServiceError{Action: action, Message: outcome.Message}
		}
		return nil
	}

	if rows == nil {
		return fmt.Errorf("calling %q on %s: response carries no status envelope", action, c.address)
	}
	if err := codec.Unmarshal(raw, rows); err != nil {
		return fmt.Errorf("decoding %q response: %w", action, err)
	}
	return nil
}

// send connects to the server, writes the request, and reads the raw
// response. Each call creates a new connection.
func (c *Client) send(ctx context.Context, request any) ([]byte, error) {
	dialer := net.Dialer{Timeout: dialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", c.address)
	if err != nil {
		return nil, fmt.Errorf("connecting: %w", err)
	}
	defer conn.Close()

	if err := codec.NewEncoder(conn).Encode(request); err != nil {
		return nil, fmt.Errorf("writing request: %w", err)
	}

	// Half-close the write side. CBOR is self-delimiting so this isn't
	// strictly necessary, but it lets the server's read side see EOF
	// cleanly.
	if tcpConn, ok := conn.(*net.TCPConn); ok {
		tcpConn.CloseWrite()
	}

	conn.SetReadDeadline(time.Now().Add(responseReadTimeout))
	var raw codec.RawMessage
	if err := codec.NewDecoder(io.LimitReader(conn, maxResponseSize)).Decode(&raw); err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	return []byte(raw), nil
}
