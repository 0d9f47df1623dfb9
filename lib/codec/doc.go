// Copyright 2026 The Traveldesk Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides traveldesk's standard CBOR encoding
// configuration.
//
// Traveldesk uses two serialization formats with a clear boundary:
//
//   - CBOR for the booking wire protocol: every request and response
//     exchanged between the client tools and the booking server is a
//     single self-describing CBOR value per direction.
//   - JSON only for CLI output (the reporting tool's --json mode).
//
// This package provides the shared CBOR encoding and decoding modes so
// that client and server encode identically without duplicating
// configuration. The encoder uses Core Deterministic Encoding (RFC 8949
// §4.2): sorted map keys, smallest integer encoding, no
// indefinite-length items.
//
// For buffer-oriented operations:
//
//	data, err := codec.Marshal(value)
//	err = codec.Unmarshal(data, &value)
//
// For stream-oriented operations (sockets):
//
//	encoder := codec.NewEncoder(conn)
//	decoder := codec.NewDecoder(conn)
//
// CBOR values are self-delimiting: a streaming decoder consumes exactly
// one complete value and stops. The wire protocol relies on this for
// framing — there is no length prefix and no read-until-short-chunk
// heuristic. See lib/protocol for the message shapes.
//
// # Struct Tag Rules
//
// The struct tag on a type documents its serialization format:
//
//   - `cbor` tag: this type is ONLY ever serialized as CBOR (request
//     envelopes, catalog row types, the response status map).
//   - `json` tag: this type may be serialized as BOTH JSON and CBOR.
//     fxamacker/cbor v2 reads `json` tags as fallback when `cbor` tags
//     are absent, so a single `json` tag controls field naming for both
//     formats. Example: protocol.Booking, which travels over the socket
//     as CBOR and is printed by the reporting tool as JSON.
//
// Never use both `cbor` and `json` tags on the same field. The tag
// choice documents the contract.
package codec
