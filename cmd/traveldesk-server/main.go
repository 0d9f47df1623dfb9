// Copyright 2026 The Traveldesk Authors
// SPDX-License-Identifier: Apache-2.0

// traveldesk-server is the booking server. It seeds the travel catalog
// into SQLite on startup, loads the demo payment accounts, and serves
// the CBOR request-response protocol over TCP until interrupted.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/traveldesk/traveldesk/lib/bookinglog"
	"github.com/traveldesk/traveldesk/lib/catalog"
	"github.com/traveldesk/traveldesk/lib/config"
	"github.com/traveldesk/traveldesk/lib/dispatch"
	"github.com/traveldesk/traveldesk/lib/ledger"
	"github.com/traveldesk/traveldesk/lib/process"
	"github.com/traveldesk/traveldesk/lib/service"
	"github.com/traveldesk/traveldesk/lib/sqlitepool"
)

func main() {
	if err := run(); err != nil {
		process.Fatal(err)
	}
}

func run() error {
	var configPath string
	var listenAddress string
	var databasePath string
	var logLevel string

	flagSet := pflag.NewFlagSet("traveldesk-server", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "path to YAML config file (default: $TRAVELDESK_CONFIG, then built-in defaults)")
	flagSet.StringVar(&listenAddress, "listen", "", "listen address, overriding the config file")
	flagSet.StringVar(&databasePath, "db", "", "SQLite database path, overriding the config file")
	flagSet.StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		return err
	}

	level, err := parseLogLevel(logLevel)
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if listenAddress != "" {
		cfg.Listen.Address = listenAddress
	}
	if databasePath != "" {
		cfg.Database.Path = databasePath
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	// Validate has already checked both timeouts parse.
	readTimeout, _ := cfg.ReadTimeout()
	writeTimeout, _ := cfg.WriteTimeout()

	if err := cfg.EnsureDatabaseDir(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := sqlitepool.Open(sqlitepool.Config{
		Path:     cfg.Database.Path,
		PoolSize: cfg.Database.PoolSize,
		Logger:   logger,
	})
	if err != nil {
		return fmt.Errorf("opening database %s: %w", cfg.Database.Path, err)
	}
	defer pool.Close()

	if err := catalog.Seed(ctx, pool); err != nil {
		return fmt.Errorf("seeding catalog: %w", err)
	}
	bookings, err := bookinglog.Open(ctx, pool)
	if err != nil {
		return fmt.Errorf("opening booking log: %w", err)
	}

	dispatcher := dispatch.New(
		catalog.NewStore(pool),
		ledger.New(ledger.SeedAccounts()),
		bookings,
		logger,
	)

	server, err := service.New(service.Config{
		Address:        cfg.Listen.Address,
		Dispatcher:     dispatcher,
		Logger:         logger,
		ReadTimeout:    readTimeout,
		WriteTimeout:   writeTimeout,
		MaxRequestSize: cfg.Server.MaxRequestBytes,
	})
	if err != nil {
		return err
	}

	serverDone := make(chan error, 1)
	go func() {
		serverDone <- server.Serve(ctx)
	}()

	select {
	case <-server.Ready():
	case err := <-serverDone:
		return err
	}

	logger.Info("traveldesk server running",
		"address", server.Addr().String(),
		"database", cfg.Database.Path,
		"environment", cfg.Environment,
	)

	<-ctx.Done()
	logger.Info("shutting down")

	// Wait for the server to drain active connections.
	return <-serverDone
}

// loadConfig resolves the config file: an explicit --config path wins,
// otherwise config.Load consults TRAVELDESK_CONFIG and falls back to
// the built-in defaults.
func loadConfig(configPath string) (*config.Config, error) {
	if configPath != "" {
		return config.LoadFile(configPath)
	}
	return config.Load()
}

func parseLogLevel(value string) (slog.Level, error) {
	switch value {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", value)
	}
}
