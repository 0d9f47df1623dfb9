// Copyright 2026 The Traveldesk Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"testing"
)

// sampleRequest is a representative wire request using cbor struct
// tags (the convention for protocol-only types).
type sampleRequest struct {
	Action      string `cbor:"action"`
	Origin      string `cbor:"origin,omitempty"`
	Destination string `cbor:"destination,omitempty"`
}

func TestMarshalUnmarshalRoundtrip(t *testing.T) {
	original := sampleRequest{
		Action:      "fetch_transports",
		Origin:      "San Francisco",
		Destination: "Chicago",
	}

	data, err := Marshal(original)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("Marshal produced empty output")
	}

	var decoded sampleRequest
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded != original {
		t.Errorf("roundtrip mismatch: got %+v, want %+v", decoded, original)
	}
}

func TestMarshalDeterministic(t *testing.T) {
	request := sampleRequest{Action: "fetch_cities"}

	first, err := Marshal(request)
	if err != nil {
		t.Fatalf("first Marshal: %v", err)
	}
	second, err := Marshal(request)
	if err != nil {
		t.Fatalf("second Marshal: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Errorf("deterministic encoding violated: %x != %x", first, second)
	}
}

func TestDecoderStopsAfterOneValue(t *testing.T) {
	// The wire protocol's framing depends on the decoder consuming
	// exactly one value and leaving the rest of the stream untouched.
	var buffer bytes.Buffer
	encoder := NewEncoder(&buffer)
	for _, action := range []string{"fetch_cities", "fetch_hotels"} {
		if err := encoder.Encode(sampleRequest{Action: action}); err != nil {
			t.Fatalf("Encode: %v", err)
		}
	}

	decoder := NewDecoder(&buffer)
	var first sampleRequest
	if err := decoder.Decode(&first); err != nil {
		t.Fatalf("Decode first: %v", err)
	}
	if first.Action != "fetch_cities" {
		t.Errorf("first action = %q, want %q", first.Action, "fetch_cities")
	}

	var second sampleRequest
	if err := decoder.Decode(&second); err != nil {
		t.Fatalf("Decode second: %v", err)
	}
	if second.Action != "fetch_hotels" {
		t.Errorf("second action = %q, want %q", second.Action, "fetch_hotels")
	}
}

func TestUnmarshalAnyUsesStringKeyedMaps(t *testing.T) {
	data, err := Marshal(map[string]any{"status": "failure", "message": "no"})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded any
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	m, ok := decoded.(map[string]any)
	if !ok {
		t.Fatalf("decoded type = %T, want map[string]any", decoded)
	}
	if m["status"] != "failure" {
		t.Errorf("status = %v, want failure", m["status"])
	}
}
