// Copyright 2026 The Traveldesk Authors
// SPDX-License-Identifier: Apache-2.0

// Package service implements the traveldesk wire protocol: a CBOR
// request-response exchange over TCP with one request per connection.
//
// [Server] binds a listener and hands each decoded request to a
// [Dispatcher]. [Client] is the matching caller side, with one typed
// method per protocol action. Replies are duck-typed on the wire:
// catalog reads answer with a bare CBOR array of rows, mutations and
// all failures answer with a status envelope map.
package service
