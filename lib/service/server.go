// Copyright 2026 The Traveldesk Authors
// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/traveldesk/traveldesk/lib/codec"
	"github.com/traveldesk/traveldesk/lib/protocol"
)

// Dispatcher routes one complete raw request to a handler and produces
// the reply. The raw parameter is the full CBOR request including the
// "action" field; the dispatcher owns decoding and per-action field
// validation. Implementations must be safe for concurrent use.
type Dispatcher interface {
	Dispatch(ctx context.Context, raw []byte) protocol.Response
}

// Default connection limits. A well-behaved client sends its request
// immediately after connecting, so the read deadline only has to cover
// network latency, not user think time.
const (
	DefaultReadTimeout    = 30 * time.Second
	DefaultWriteTimeout   = 10 * time.Second
	DefaultMaxRequestSize = 1024 * 1024
)

// Config carries the server's dependencies and limits. Address,
// Dispatcher, and Logger are required. A zero ReadTimeout or
// WriteTimeout disables that deadline; a zero MaxRequestSize selects
// [DefaultMaxRequestSize].
type Config struct {
	Address        string
	Dispatcher     Dispatcher
	Logger         *slog.Logger
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	MaxRequestSize int64
}

// Server serves the CBOR request-response protocol over TCP. Each
// connection handles exactly one request-response cycle: the client
// writes a CBOR value, the server processes it and writes a CBOR
// response, then the connection closes. CBOR values are
// self-delimiting, so no length prefix or framing protocol is needed.
type Server struct {
	config Config

	// addr is the bound listener address, valid once ready is closed.
	addr  net.Addr
	ready chan struct{}

	// activeConnections tracks in-flight request handlers for graceful
	// shutdown. Serve waits for all active connections to complete
	// before returning.
	activeConnections sync.WaitGroup
}

// New validates the configuration and creates a server. Call Serve to
// start accepting connections.
func New(config Config) (*Server, error) {
	if config.Address == "" {
		return nil, fmt.Errorf("service: config is missing a listen address")
	}
	if config.Dispatcher == nil {
		return nil, fmt.Errorf("service: config is missing a dispatcher")
	}
	if config.Logger == nil {
		return nil, fmt.Errorf("service: config is missing a logger")
	}
	if config.MaxRequestSize == 0 {
		config.MaxRequestSize = DefaultMaxRequestSize
	}
	return &Server{
		config: config,
		ready:  make(chan struct{}),
	}, nil
}

// Ready returns a channel that is closed once the listener is bound and
// the server is accepting connections.
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

// Addr returns the bound listener address. Valid only after Ready is
// closed; useful when listening on port 0.
func (s *Server) Addr() net.Addr {
	return s.addr
}

// Serve accepts connections and dispatches one request per connection.
// Blocks until ctx is cancelled, then stops accepting new connections
// and waits for active handlers to complete.
func (s *Server) Serve(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.config.Address, err)
	}
	defer listener.Close()

	s.addr = listener.Addr()
	close(s.ready)

	// Unblock Accept when the context is cancelled.
	go func() {
		<-ctx.Done()
		listener.Close()
	}()

	s.config.Logger.Info("server listening", "address", s.addr.String())

	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			if errors.Is(err, net.ErrClosed) {
				break
			}
			s.config.Logger.Error("accept failed", "error", err)
			continue
		}

		s.activeConnections.Add(1)
		go func() {
			defer s.activeConnections.Done()
			s.handleConnection(ctx, conn)
		}()
	}

	s.activeConnections.Wait()
	s.config.Logger.Info("server stopped")
	return nil
}

// handleConnection processes one request-response cycle.
func (s *Server) handleConnection(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	if s.config.ReadTimeout > 0 {
		conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))
	}

	// Decode one CBOR value from the connection. LimitReader prevents
	// a malicious client from exhausting memory.
	var raw codec.RawMessage
	if err := codec.NewDecoder(io.LimitReader(conn, s.config.MaxRequestSize)).Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			// Client connected but sent nothing.
			return
		}
		s.writeResponse(conn, protocol.Failure(fmt.Sprintf("invalid request: %v", err)))
		return
	}

	response := s.config.Dispatcher.Dispatch(ctx, []byte(raw))
	s.writeResponse(conn, response)
}

// writeResponse encodes the reply onto the connection. Write failures
// are logged at debug level: the connection is closing regardless, and
// the request has already been processed.
func (s *Server) writeResponse(conn net.Conn, response protocol.Response) {
	if s.config.WriteTimeout > 0 {
		conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
	}
	if err := codec.NewEncoder(conn).Encode(response); err != nil {
		s.config.Logger.Debug("failed to write response", "error", err)
	}
}
