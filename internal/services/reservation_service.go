package services

import (
	"context"
	"time"

	intconfig "rideshare/internal/config"
	intdb "rideshare/internal/db"
	"rideshare/internal/domain"
	"rideshare/internal/domain/models"
	"rideshare/internal/repositories"
	"rideshare/internal/utils"

	"github.com/jmoiron/sqlx"
)

// ReservationService turns seat requests into bookings. The capacity check and
// the decrement happen in one transaction, and the decrement itself is guarded
// by available_seats >= n, so concurrent requests can never overdraw a ride.
type ReservationService struct {
	DB        *sqlx.DB
	RequestID string
	Now       func() time.Time
}

func (s ReservationService) db() *sqlx.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

func (s ReservationService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return utils.NowUTC()
}

// Reserve books seats on a ride for a passenger. Checks run in order: self
// booking, seat count, capacity. No retries; a TransportError is for the
// caller to retry.
func (s ReservationService) Reserve(ctx context.Context, rideID, passengerID domain.ID, seats int) (models.Booking, error) {
	db := s.db()
	if db == nil {
		return models.Booking{}, domain.TransportError{Op: "reserve"}
	}

	var booking models.Booking
	err := intdb.WithTx(ctx, db, func(tx *sqlx.Tx) error {
		rides := repositories.RideRepo{DB: tx}

		ride, err := rides.GetByID(ctx, rideID)
		if err != nil {
			if domain.IsNotFound(err) {
				return err
			}
			return domain.TransportError{Op: "read ride", Err: err}
		}

		if ride.DriverID == passengerID {
			return domain.SelfBookingError{RideID: ride.ID, DriverID: ride.DriverID}
		}
		if seats <= 0 {
			return domain.InvalidRequestError{Field: "seats", Msg: "must be a positive integer"}
		}
		if seats > ride.AvailableSeats {
			return domain.InsufficientCapacityError{RideID: ride.ID, Requested: seats, Available: ride.AvailableSeats}
		}

		ok, err := rides.DecrementSeats(ctx, ride.ID, seats)
		if err != nil {
			return domain.TransportError{Op: "update seats", Err: err}
		}
		if !ok {
			// Another reservation committed between our read and the update.
			return domain.InsufficientCapacityError{RideID: ride.ID, Requested: seats, Available: ride.AvailableSeats}
		}

		id, err := repositories.BookingRepo{DB: tx}.Insert(ctx, ride.ID, passengerID, seats)
		if err != nil {
			return domain.TransportError{Op: "insert booking", Err: err}
		}

		booking = models.Booking{
			ID:            id,
			RideID:        ride.ID,
			PassengerID:   passengerID,
			SeatsReserved: seats,
			CreatedAt:     s.now(),
		}
		return nil
	})
	if err != nil {
		if !isReservationError(err) {
			err = domain.TransportError{Op: "reserve", Err: err}
		}
		utils.LogEventf(s.RequestID, "reservation", "reserve_rejected", "ride_id=%d passenger_id=%d seats=%d err=%v", rideID, passengerID, seats, err)
		return models.Booking{}, err
	}

	utils.LogEventf(s.RequestID, "reservation", "reserve", "ride_id=%d passenger_id=%d seats=%d booking_id=%d", rideID, passengerID, seats, booking.ID)
	return booking, nil
}

func isReservationError(err error) bool {
	return domain.IsNotFound(err) ||
		domain.IsSelfBooking(err) ||
		domain.IsInvalidRequest(err) ||
		domain.IsInsufficientCapacity(err) ||
		domain.IsTransport(err)
}

// ListRideBookings returns the bookings on a ride. Only the ride's driver may list them.
func (s ReservationService) ListRideBookings(ctx context.Context, rideID, requesterID domain.ID) ([]models.Booking, error) {
	db := s.db()
	if db == nil {
		return nil, domain.TransportError{Op: "list bookings"}
	}
	ride, err := repositories.RideRepo{DB: db}.GetByID(ctx, rideID)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, err
		}
		return nil, domain.TransportError{Op: "read ride", Err: err}
	}
	if ride.DriverID != requesterID {
		return nil, domain.ForbiddenError{Msg: "only the driver can list bookings of a ride"}
	}
	out, err := repositories.BookingRepo{DB: db}.ListByRide(ctx, rideID)
	if err != nil {
		return nil, domain.TransportError{Op: "list bookings", Err: err}
	}
	return out, nil
}

// ListPassengerBookings returns the passenger's own bookings, newest first.
func (s ReservationService) ListPassengerBookings(ctx context.Context, passengerID domain.ID) ([]models.Booking, error) {
	db := s.db()
	if db == nil {
		return nil, domain.TransportError{Op: "list bookings"}
	}
	out, err := repositories.BookingRepo{DB: db}.ListByPassenger(ctx, passengerID)
	if err != nil {
		return nil, domain.TransportError{Op: "list bookings", Err: err}
	}
	return out, nil
}
