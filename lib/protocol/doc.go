// Copyright 2026 The Traveldesk Authors
// SPDX-License-Identifier: Apache-2.0

// Package protocol defines the traveldesk wire contract: the request
// envelope, the catalog row shapes, and the response variants exchanged
// between clients and the booking server.
//
// Every exchange is one TCP connection carrying exactly one CBOR value
// in each direction. The request is a map with a mandatory "action"
// discriminant plus action-specific fields. The response shape depends
// on the action:
//
//	fetch_cities       → array of city name strings
//	fetch_transports   → array of [id, type, cost, origin, destination]
//	fetch_hotels       → array of [id, name, city]
//	fetch_room_types   → array of [id, hotel_id, type, cost]
//	process_payment    → {status: "success"|"failure", message?}
//	save_booking       → {status: "success"|"failure", message?}
//
// Catalog rows travel as positional CBOR arrays (the `toarray`
// encoding) and the two mutating actions reply with a status map. This
// split shape is the protocol's compatibility contract; [Response]
// models it as an explicit tagged union so that server code never
// hand-assembles either form.
package protocol
