// Copyright 2026 The Traveldesk Authors
// SPDX-License-Identifier: Apache-2.0

// traveldesk is the interactive booking client. It walks the user
// through choosing cities, a hotel and room, and optionally a transport
// leg, then pays and records the booking on the server.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/traveldesk/traveldesk/lib/process"
	"github.com/traveldesk/traveldesk/lib/protocol"
	"github.com/traveldesk/traveldesk/lib/service"
)

func main() {
	if err := run(); err != nil {
		process.Fatal(err)
	}
}

func run() error {
	var serverAddress string
	var metricsPath string

	flagSet := pflag.NewFlagSet("traveldesk", pflag.ContinueOnError)
	flagSet.StringVar(&serverAddress, "server", "127.0.0.1:12345", "booking server address")
	flagSet.StringVar(&metricsPath, "metrics", "performance_metrics.csv", "CSV file for request timing samples (empty disables)")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		return err
	}

	session := &bookingSession{
		client:  service.NewClient(serverAddress),
		input:   bufio.NewReader(os.Stdin),
		metrics: newMetricsLog(metricsPath),
	}

	err := session.runBooking(context.Background())

	// Timing samples are best-effort: losing them never fails a
	// completed booking.
	if metricsErr := session.metrics.save(); metricsErr != nil {
		fmt.Fprintf(os.Stderr, "warning: saving timing samples: %v\n", metricsErr)
	}
	return err
}

// bookingSession holds the state of one interactive booking.
type bookingSession struct {
	client  *service.Client
	input   *bufio.Reader
	metrics *metricsLog
}

func (s *bookingSession) runBooking(ctx context.Context) error {
	fmt.Println("Welcome to the Traveldesk booking client!")

	cities, err := s.fetchCities(ctx)
	if err != nil {
		return err
	}
	if len(cities) == 0 {
		return errors.New("no cities available")
	}

	fmt.Println("\nAvailable Cities:")
	printNumbered(cities, func(city string) string { return city })

	origin, err := s.promptLine("\nEnter the origin city: ")
	if err != nil {
		return err
	}
	if !slices.Contains(cities, origin) {
		return fmt.Errorf("unknown origin city %q", origin)
	}

	destination := origin
	sameCity, err := s.promptYesNo("\nDo you want to book a hotel in the same city? (yes/no): ")
	if err != nil {
		return err
	}
	if !sameCity {
		options := remove(cities, origin)
		if len(options) == 0 {
			return errors.New("no destination cities available")
		}
		fmt.Println("\nAvailable Cities for Destination:")
		printNumbered(options, func(city string) string { return city })

		destination, err = s.promptLine("\nEnter the destination city: ")
		if err != nil {
			return err
		}
		if !slices.Contains(options, destination) {
			return fmt.Errorf("unknown destination city %q", destination)
		}
	}

	hotel, room, err := s.selectLodging(ctx, destination)
	if err != nil {
		return err
	}

	var transport *protocol.Transport
	if destination != origin {
		wantTransport, err := s.promptYesNo("\nWould you like to book transport as well? (yes/no): ")
		if err != nil {
			return err
		}
		if wantTransport {
			transport, err = s.selectTransport(ctx, origin, destination)
			if err != nil {
				return err
			}
		}
	}

	var transportCost float64
	if transport != nil {
		transportCost = transport.Cost
	}
	totalAmount := transportCost + room.Cost
	fmt.Printf("\nTotal amount due: $%.2f\n", totalAmount)

	if err := s.processPayment(ctx, totalAmount); err != nil {
		var serviceError *service.ServiceError
		if errors.As(err, &serviceError) {
			fmt.Printf("\nPayment Failed: %s\n", serviceError.Message)
			return nil
		}
		return err
	}
	fmt.Println("\nPayment Successful!")

	booking := &protocol.Booking{
		BookingID:     fmt.Sprintf("BOOK-%04d", 1000+rand.Intn(9000)),
		Origin:        origin,
		Destination:   destination,
		TransportCost: transportCost,
		HotelName:     hotel.Name,
		RoomType:      string(room.Kind),
		HotelCost:     room.Cost,
		TotalAmount:   totalAmount,
	}
	if transport != nil {
		booking.TransportKind = transport.Kind
	}

	if err := s.saveBooking(ctx, booking); err != nil {
		var serviceError *service.ServiceError
		if errors.As(err, &serviceError) {
			fmt.Printf("\nFailed to save booking: %s\n", serviceError.Message)
			return nil
		}
		return err
	}

	fmt.Println("\nBooking Details:")
	fmt.Printf("  Booking ID: %s\n", booking.BookingID)
	fmt.Printf("  Total Amount: $%.2f\n", booking.TotalAmount)
	fmt.Println("\nThank you for using Traveldesk!")
	return nil
}

func (s *bookingSession) fetchCities(ctx context.Context) ([]string, error) {
	defer s.metrics.observe(protocol.ActionFetchCities)()
	return s.client.FetchCities(ctx)
}

// selectLodging picks a hotel in the city and then one of its rooms.
func (s *bookingSession) selectLodging(ctx context.Context, city string) (*protocol.Hotel, *protocol.RoomType, error) {
	stop := s.metrics.observe(protocol.ActionFetchHotels)
	hotels, err := s.client.FetchHotels(ctx, city)
	stop()
	if err != nil {
		return nil, nil, err
	}
	if len(hotels) == 0 {
		return nil, nil, fmt.Errorf("no hotels available in %s", city)
	}

	fmt.Println("\nAvailable Hotel Options:")
	printNumbered(hotels, func(hotel protocol.Hotel) string { return hotel.Name })
	hotelChoice, err := s.promptChoice("\nSelect a hotel option (1, 2, etc.): ", len(hotels))
	if err != nil {
		return nil, nil, err
	}
	hotel := &hotels[hotelChoice]

	stop = s.metrics.observe(protocol.ActionFetchRoomTypes)
	rooms, err := s.client.FetchRoomTypes(ctx, hotel.ID)
	stop()
	if err != nil {
		return nil, nil, err
	}
	if len(rooms) == 0 {
		return nil, nil, fmt.Errorf("no rooms available at %s", hotel.Name)
	}

	fmt.Println("\nAvailable Room Types:")
	printNumbered(rooms, func(room protocol.RoomType) string {
		return fmt.Sprintf("%s, Cost: $%.2f", room.Kind, room.Cost)
	})
	roomChoice, err := s.promptChoice("\nSelect a room type (1, 2, etc.): ", len(rooms))
	if err != nil {
		return nil, nil, err
	}
	return hotel, &rooms[roomChoice], nil
}

func (s *bookingSession) selectTransport(ctx context.Context, origin, destination string) (*protocol.Transport, error) {
	stop := s.metrics.observe(protocol.ActionFetchTransports)
	transports, err := s.client.FetchTransports(ctx, origin, destination)
	stop()
	if err != nil {
		return nil, err
	}
	if len(transports) == 0 {
		fmt.Println("No available transport options.")
		return nil, nil
	}

	fmt.Println("\nAvailable Transport Options:")
	printNumbered(transports, func(route protocol.Transport) string {
		return fmt.Sprintf("Type: %s, Cost: $%.2f", route.Kind, route.Cost)
	})
	choice, err := s.promptChoice("\nSelect a transport option (1, 2, etc.): ", len(transports))
	if err != nil {
		return nil, err
	}
	return &transports[choice], nil
}

func (s *bookingSession) processPayment(ctx context.Context, totalAmount float64) error {
	accountNumber, err := s.promptLine("\nEnter your bank account number: ")
	if err != nil {
		return err
	}
	password, err := s.promptPassword("Enter your bank password: ")
	if err != nil {
		return err
	}

	defer s.metrics.observe(protocol.ActionProcessPayment)()
	return s.client.ProcessPayment(ctx, accountNumber, password, totalAmount)
}

func (s *bookingSession) saveBooking(ctx context.Context, booking *protocol.Booking) error {
	defer s.metrics.observe(protocol.ActionSaveBooking)()
	return s.client.SaveBooking(ctx, booking)
}

// promptLine prints the prompt and reads one trimmed line of input.
func (s *bookingSession) promptLine(prompt string) (string, error) {
	fmt.Print(prompt)
	line, err := s.input.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func (s *bookingSession) promptYesNo(prompt string) (bool, error) {
	answer, err := s.promptLine(prompt)
	if err != nil {
		return false, err
	}
	answer = strings.ToLower(answer)
	return answer == "yes" || answer == "y", nil
}

// promptChoice reads a 1-based menu selection, re-prompting until the
// input is a number within range. Returns the 0-based index.
func (s *bookingSession) promptChoice(prompt string, count int) (int, error) {
	for {
		answer, err := s.promptLine(prompt)
		if err != nil {
			return 0, err
		}
		choice, err := strconv.Atoi(answer)
		if err != nil {
			fmt.Println("Invalid input. Please enter a number.")
			continue
		}
		if choice < 1 || choice > count {
			fmt.Println("Invalid choice. Please select a valid option.")
			continue
		}
		return choice - 1, nil
	}
}

// promptPassword reads a password without echo when stdin is a
// terminal, falling back to a plain line read otherwise (pipes, tests).
func (s *bookingSession) promptPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		line, err := s.input.ReadString('\n')
		if err != nil {
			return "", fmt.Errorf("reading password: %w", err)
		}
		return strings.TrimSpace(line), nil
	}

	secret, err := term.ReadPassword(fd)
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return string(secret), nil
}

func printNumbered[T any](items []T, describe func(T) string) {
	for i, item := range items {
		fmt.Printf("%d. %s\n", i+1, describe(item))
	}
}

// remove returns items without any element equal to target.
func remove(items []string, target string) []string {
	kept := make([]string, 0, len(items))
	for _, item := range items {
		if item != target {
			kept = append(kept, item)
		}
	}
	return kept
}
