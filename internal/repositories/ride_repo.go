package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"rideshare/internal/domain"
	"rideshare/internal/domain/models"

	"github.com/jmoiron/sqlx"
)

// RideRepo works against *sqlx.DB or *sqlx.Tx.
type RideRepo struct {
	DB sqlx.ExtContext
}

const rideColumns = `id, driver_id, vehicle_id, start_time, end_time, total_seats, available_seats, price_per_seat, created_at`

// GetByID reads the current ride row. Stops are not loaded.
func (r RideRepo) GetByID(ctx context.Context, id domain.ID) (models.Ride, error) {
	var ride models.Ride
	err := sqlx.GetContext(ctx, r.DB, &ride, `SELECT `+rideColumns+` FROM rides WHERE id=? LIMIT 1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Ride{}, domain.NotFoundError{Resource: "ride", Err: err}
	}
	return ride, err
}

// ListStops returns the ride's stops in travel order.
func (r RideRepo) ListStops(ctx context.Context, rideID domain.ID) ([]models.Stop, error) {
	stops := []models.Stop{}
	err := sqlx.SelectContext(ctx, r.DB, &stops, `
		SELECT s.id, s.ride_id, s.position, s.kind, s.location_id, l.name AS location_name, s.arrival_time
		FROM ride_stops s
		JOIN locations l ON l.id = s.location_id
		WHERE s.ride_id=?
		ORDER BY s.position ASC`, rideID)
	return stops, err
}

// DecrementSeats takes n seats only if at least n are still free. It reports
// false when the guard rejected the update.
func (r RideRepo) DecrementSeats(ctx context.Context, rideID domain.ID, n int) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE rides
		SET available_seats = available_seats - ?
		WHERE id = ? AND available_seats >= ?`, n, rideID, n)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

// Create inserts the ride row with available seats equal to capacity.
func (r RideRepo) Create(ctx context.Context, driverID domain.ID, in models.RideInput) (domain.ID, error) {
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO rides (driver_id, vehicle_id, start_time, end_time, total_seats, available_seats, price_per_seat)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		driverID, in.VehicleID, in.StartTime.UTC(), in.EndTime.UTC(), in.Seats, in.Seats, in.PricePerSeat)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	return domain.ID(id), err
}

func (r RideRepo) InsertStops(ctx context.Context, rideID domain.ID, stops []models.StopInput) error {
	for i, s := range stops {
		var arrival any
		if s.ArrivalTime != nil {
			arrival = s.ArrivalTime.UTC()
		}
		if _, err := r.DB.ExecContext(ctx, `
			INSERT INTO ride_stops (ride_id, position, kind, location_id, arrival_time)
			VALUES (?, ?, ?, ?, ?)`, rideID, i, string(s.Kind), s.LocationID, arrival); err != nil {
			return err
		}
	}
	return nil
}

// Search lists upcoming rides matching the filter, earliest first.
func (r RideRepo) Search(ctx context.Context, f models.RideFilter, now time.Time) ([]models.Ride, error) {
	where := []string{"r.start_time >= ?"}
	args := []any{now.UTC()}

	if f.FromLocationID > 0 {
		where = append(where, "EXISTS (SELECT 1 FROM ride_stops s WHERE s.ride_id = r.id AND s.kind = 'start' AND s.location_id = ?)")
		args = append(args, f.FromLocationID)
	}
	if f.ToLocationID > 0 {
		where = append(where, "EXISTS (SELECT 1 FROM ride_stops s WHERE s.ride_id = r.id AND s.kind = 'end' AND s.location_id = ?)")
		args = append(args, f.ToLocationID)
	}
	if !f.Day.IsZero() {
		dayStart := time.Date(f.Day.Year(), f.Day.Month(), f.Day.Day(), 0, 0, 0, 0, time.UTC)
		where = append(where, "r.start_time >= ? AND r.start_time < ?")
		args = append(args, dayStart, dayStart.Add(24*time.Hour))
	}
	if f.MinSeats > 0 {
		where = append(where, "r.available_seats >= ?")
		args = append(args, f.MinSeats)
	}

	query := `SELECT r.id, r.driver_id, r.vehicle_id, r.start_time, r.end_time, r.total_seats, r.available_seats, r.price_per_seat, r.created_at
		FROM rides r
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY r.start_time ASC, r.id ASC
		LIMIT 100`

	rides := []models.Ride{}
	err := sqlx.SelectContext(ctx, r.DB, &rides, query, args...)
	return rides, err
}
