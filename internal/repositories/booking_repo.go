package repositories

import (
	"context"
	"database/sql"
	"errors"

	"rideshare/internal/domain"
	"rideshare/internal/domain/models"

	"github.com/jmoiron/sqlx"
)

type BookingRepo struct {
	DB sqlx.ExtContext
}

const bookingColumns = `id, ride_id, passenger_id, seats_reserved, created_at`

// Insert appends a booking row and returns its id.
func (r BookingRepo) Insert(ctx context.Context, rideID, passengerID domain.ID, seats int) (domain.ID, error) {
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO bookings (ride_id, passenger_id, seats_reserved)
		VALUES (?, ?, ?)`, rideID, passengerID, seats)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	return domain.ID(id), err
}

func (r BookingRepo) GetByID(ctx context.Context, id domain.ID) (models.Booking, error) {
	var b models.Booking
	err := sqlx.GetContext(ctx, r.DB, &b, `SELECT `+bookingColumns+` FROM bookings WHERE id=? LIMIT 1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Booking{}, domain.NotFoundError{Resource: "booking", Err: err}
	}
	return b, err
}

func (r BookingRepo) ListByRide(ctx context.Context, rideID domain.ID) ([]models.Booking, error) {
	out := []models.Booking{}
	err := sqlx.SelectContext(ctx, r.DB, &out, `SELECT `+bookingColumns+` FROM bookings WHERE ride_id=? ORDER BY id ASC`, rideID)
	return out, err
}

func (r BookingRepo) ListByPassenger(ctx context.Context, passengerID domain.ID) ([]models.Booking, error) {
	out := []models.Booking{}
	err := sqlx.SelectContext(ctx, r.DB, &out, `SELECT `+bookingColumns+` FROM bookings WHERE passenger_id=? ORDER BY id DESC`, passengerID)
	return out, err
}

// HasBooking reports whether the passenger holds at least one booking on the ride.
func (r BookingRepo) HasBooking(ctx context.Context, rideID, passengerID domain.ID) (bool, error) {
	var n int
	err := sqlx.GetContext(ctx, r.DB, &n, `SELECT COUNT(*) FROM bookings WHERE ride_id=? AND passenger_id=?`, rideID, passengerID)
	return n > 0, err
}
