// Copyright 2026 The Traveldesk Authors
// SPDX-License-Identifier: Apache-2.0

package protocol

import (
	"fmt"

	"github.com/traveldesk/traveldesk/lib/codec"
)

// Response is the tagged union of the two reply shapes: a bare
// collection of catalog rows, or a status outcome. A zero Response is
// invalid and fails to encode; construct one with [Rows], [Success],
// or [Failure].
//
// Response implements cbor.Marshaler, so encoding a Response onto a
// connection produces exactly the wire shape the variant dictates —
// handlers never choose between shapes at encode time.
type Response struct {
	rows    any
	outcome *Outcome
}

// Rows returns a data response wrapping a slice of catalog rows (or
// city names). The slice must be non-nil; pass an empty slice for "no
// matches", which is a valid, non-error outcome.
func Rows(rows any) Response {
	return Response{rows: rows}
}

// Success returns a success outcome with no message.
func Success() Response {
	return Response{outcome: &Outcome{Status: StatusSuccess}}
}

// Failure returns a failure outcome carrying a human-readable message.
func Failure(message string) Response {
	return Response{outcome: &Outcome{Status: StatusFailure, Message: message}}
}

// Outcome returns the outcome variant, if this response is one.
func (r Response) Outcome() (Outcome, bool) {
	if r.outcome == nil {
		return Outcome{}, false
	}
	return *r.outcome, true
}

// Data returns the rows variant, if this response is one.
func (r Response) Data() (any, bool) {
	if r.rows == nil {
		return nil, false
	}
	return r.rows, true
}

// Failed reports whether this response is a failure outcome. Data
// responses never fail.
func (r Response) Failed() bool {
	return r.outcome != nil && r.outcome.Failed()
}

// MarshalCBOR encodes the active variant: the bare rows value for a
// data response, the status map for an outcome.
func (r Response) MarshalCBOR() ([]byte, error) {
	switch {
	case r.outcome != nil:
		return codec.Marshal(*r.outcome)
	case r.rows != nil:
		return codec.Marshal(r.rows)
	default:
		return nil, fmt.Errorf("protocol: cannot encode zero Response")
	}
}
