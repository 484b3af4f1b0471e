package services

import (
	"bytes"
	"context"
	"fmt"

	intconfig "rideshare/internal/config"
	"rideshare/internal/domain"
	"rideshare/internal/domain/models"
	"rideshare/internal/repositories"
	"rideshare/internal/utils"

	"github.com/jmoiron/sqlx"
	"github.com/phpdave11/gofpdf"
)

// TicketService renders a booking confirmation PDF.
type TicketService struct {
	DB        *sqlx.DB
	RequestID string
	Loader    func(ctx context.Context, bookingID domain.ID) (ticketData, error)
}

type ticketData struct {
	Booking       models.Booking
	Ride          models.Ride
	PassengerName string
	DriverName    string
}

func (s TicketService) db() *sqlx.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

// GenerateBookingTicket returns the PDF bytes and a download filename. Only the
// passenger and the ride's driver may fetch it.
func (s TicketService) GenerateBookingTicket(ctx context.Context, bookingID, requesterID domain.ID) ([]byte, string, error) {
	data, err := s.load(ctx, bookingID)
	if err != nil {
		return nil, "", err
	}
	if data.Booking.PassengerID != requesterID && data.Ride.DriverID != requesterID {
		return nil, "", domain.ForbiddenError{Msg: "not your booking"}
	}
	utils.LogEventf(s.RequestID, "docs", "generate_ticket", "booking_id=%d", bookingID)

	pdf, name, err := buildTicketPDF(data)
	if err != nil {
		return nil, "", domain.InternalError{Msg: "failed to render ticket", Err: err}
	}
	return pdf, name, nil
}

func (s TicketService) load(ctx context.Context, bookingID domain.ID) (ticketData, error) {
	if s.Loader != nil {
		return s.Loader(ctx, bookingID)
	}
	db := s.db()
	if db == nil {
		return ticketData{}, domain.TransportError{Op: "load ticket"}
	}

	var out ticketData
	booking, err := repositories.BookingRepo{DB: db}.GetByID(ctx, bookingID)
	if err != nil {
		if domain.IsNotFound(err) {
			return out, err
		}
		return out, domain.TransportError{Op: "read booking", Err: err}
	}
	out.Booking = booking

	ride, err := RideService{DB: db}.GetRide(ctx, booking.RideID)
	if err != nil {
		return out, err
	}
	out.Ride = ride

	users := repositories.UserRepo{DB: db}
	if u, err := users.GetByID(ctx, booking.PassengerID); err == nil {
		out.PassengerName = u.Name
	}
	if u, err := users.GetByID(ctx, ride.DriverID); err == nil {
		out.DriverName = u.Name
	}
	return out, nil
}

func buildTicketPDF(d ticketData) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Booking confirmation", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "BOOKING CONFIRMATION")
	pdf.Ln(12)

	from, to := "-", "-"
	if s, ok := d.Ride.Origin(); ok {
		from = s.LocationName
	}
	if s, ok := d.Ride.Destination(); ok {
		to = s.LocationName
	}

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Booking     : #%d", d.Booking.ID),
		fmt.Sprintf("Passenger   : %s", utils.Fallback(d.PassengerName, "-")),
		fmt.Sprintf("Driver      : %s", utils.Fallback(d.DriverName, "-")),
		fmt.Sprintf("Route       : %s -> %s", from, to),
		fmt.Sprintf("Departure   : %s UTC", utils.FormatDateTime(d.Ride.StartTime)),
		fmt.Sprintf("Arrival     : %s UTC", utils.FormatDateTime(d.Ride.EndTime)),
		fmt.Sprintf("Seats       : %d", d.Booking.SeatsReserved),
		fmt.Sprintf("Total price : %s", utils.FormatAmount(d.Ride.PricePerSeat*int64(d.Booking.SeatsReserved))),
	}
	for _, s := range lines {
		pdf.Cell(0, 7, s)
		pdf.Ln(7)
	}

	if len(d.Ride.Stops) > 0 {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 7, "Stops")
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "", 11)
		for _, st := range d.Ride.Stops {
			line := fmt.Sprintf("%d. %s (%s)", st.Position+1, st.LocationName, st.Kind)
			if st.ArrivalTime != nil {
				line += " " + utils.FormatDateTime(*st.ArrivalTime)
			}
			pdf.Cell(0, 6, line)
			pdf.Ln(6)
		}
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Show this confirmation to the driver at the start stop.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("BOOKING_%d_%s.pdf", d.Booking.ID, utils.SafeFilenamePart(d.PassengerName))
	return buf.Bytes(), filename, nil
}
