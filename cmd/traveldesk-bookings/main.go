// Copyright 2026 The Traveldesk Authors
// SPDX-License-Identifier: Apache-2.0

// traveldesk-bookings prints the recorded bookings. It reads the
// SQLite database directly rather than going through the server, so it
// works offline and on copies of the database file.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/traveldesk/traveldesk/lib/bookinglog"
	"github.com/traveldesk/traveldesk/lib/config"
	"github.com/traveldesk/traveldesk/lib/process"
	"github.com/traveldesk/traveldesk/lib/sqlitepool"
)

func main() {
	if err := run(); err != nil {
		process.Fatal(err)
	}
}

func run() error {
	var configPath string
	var databasePath string
	var outputJSON bool

	flagSet := pflag.NewFlagSet("traveldesk-bookings", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "path to YAML config file (default: $TRAVELDESK_CONFIG, then built-in defaults)")
	flagSet.StringVar(&databasePath, "db", "", "SQLite database path, overriding the config file")
	flagSet.BoolVar(&outputJSON, "json", false, "output as JSON instead of a table")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		return err
	}

	if databasePath == "" {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return err
		}
		databasePath = cfg.Database.Path
	}
	if _, err := os.Stat(databasePath); err != nil {
		return fmt.Errorf("database %s: %w", databasePath, err)
	}

	pool, err := sqlitepool.Open(sqlitepool.Config{
		Path:     databasePath,
		PoolSize: 1,
	})
	if err != nil {
		return fmt.Errorf("opening database %s: %w", databasePath, err)
	}
	defer pool.Close()

	ctx := context.Background()
	log, err := bookinglog.Open(ctx, pool)
	if err != nil {
		return err
	}
	bookings, err := log.ListAll(ctx)
	if err != nil {
		return err
	}

	if outputJSON {
		data, err := json.MarshalIndent(bookings, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal JSON: %w", err)
		}
		fmt.Fprintln(os.Stdout, string(data))
		return nil
	}

	if len(bookings) == 0 {
		fmt.Println("No bookings found.")
		return nil
	}

	fmt.Println("Bookings:")
	writer := tabwriter.NewWriter(os.Stdout, 2, 0, 3, ' ', 0)
	fmt.Fprintf(writer, "BOOKING ID\tTRANSPORT\tSOURCE\tDESTINATION\tTRANSPORT COST\tHOTEL NAME\tROOM TYPE\tHOTEL COST\tTOTAL AMOUNT\n")
	for _, booking := range bookings {
		fmt.Fprintf(writer, "%s\t%s\t%s\t%s\t$%.2f\t%s\t%s\t$%.2f\t$%.2f\n",
			booking.BookingID,
			orPlaceholder(string(booking.TransportKind)),
			booking.Origin,
			booking.Destination,
			booking.TransportCost,
			orPlaceholder(booking.HotelName),
			orPlaceholder(booking.RoomType),
			booking.HotelCost,
			booking.TotalAmount,
		)
	}
	return writer.Flush()
}

func loadConfig(configPath string) (*config.Config, error) {
	if configPath != "" {
		return config.LoadFile(configPath)
	}
	return config.Load()
}

// orPlaceholder substitutes N/A for optional fields absent from the
// record, matching the table's historical rendering.
func orPlaceholder(value string) string {
	if value == "" {
		return "N/A"
	}
	return value
}
