package services

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"rideshare/internal/domain"
	"rideshare/internal/domain/models"
)

func ticketLoader(_ context.Context, id domain.ID) (ticketData, error) {
	start := time.Date(2030, 5, 1, 8, 0, 0, 0, time.UTC)
	return ticketData{
		Booking: models.Booking{ID: id, RideID: 7, PassengerID: 42, SeatsReserved: 2},
		Ride: models.Ride{
			ID: 7, DriverID: 1, StartTime: start, EndTime: start.Add(3 * time.Hour),
			TotalSeats: 4, AvailableSeats: 2, PricePerSeat: 25000,
			Stops: []models.Stop{
				{Position: 0, Kind: models.StopStart, LocationName: "North Gate"},
				{Position: 1, Kind: models.StopEnd, LocationName: "Harbor"},
			},
		},
		PassengerName: "Ana Lima",
		DriverName:    "Driver",
	}, nil
}

func TestTicketServiceGenerate(t *testing.T) {
	svc := TicketService{Loader: ticketLoader}

	pdf, filename, err := svc.GenerateBookingTicket(context.Background(), 10, 42)
	if err != nil {
		t.Fatalf("GenerateBookingTicket returned error: %v", err)
	}
	if len(pdf) == 0 || !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Fatalf("GenerateBookingTicket returned no PDF")
	}
	if !strings.HasPrefix(filename, "BOOKING_10_") || !strings.HasSuffix(filename, ".pdf") {
		t.Fatalf("unexpected filename %q", filename)
	}

	if _, _, err := svc.GenerateBookingTicket(context.Background(), 10, 1); err != nil {
		t.Fatalf("driver should be able to fetch the ticket: %v", err)
	}
}

func TestTicketServiceForbidsStrangers(t *testing.T) {
	svc := TicketService{Loader: ticketLoader}
	if _, _, err := svc.GenerateBookingTicket(context.Background(), 10, 99); !domain.IsForbidden(err) {
		t.Fatalf("expected ForbiddenError, got %v", err)
	}
}
