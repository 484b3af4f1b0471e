package services

import (
	"context"
	"testing"
	"time"

	"rideshare/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
)

// rideRow ends at 2030-05-01 11:00 UTC.
var afterRide = time.Date(2030, 5, 2, 0, 0, 0, 0, time.UTC)

func TestRateRideScoreRange(t *testing.T) {
	db, _ := newMockDB(t)
	for _, score := range []int{0, 6} {
		if _, err := (RatingService{DB: db}).RateRide(context.Background(), 7, 42, score, ""); !domain.IsValidation(err) {
			t.Fatalf("score=%d: expected ValidationError, got %v", score, err)
		}
	}
}

func TestRateRideBeforeEnd(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(selectRide).WithArgs(7).WillReturnRows(rideRow(7, 1, 2))

	svc := RatingService{DB: db, Now: func() time.Time { return time.Date(2030, 5, 1, 10, 0, 0, 0, time.UTC) }}
	if _, err := svc.RateRide(context.Background(), 7, 42, 5, ""); !domain.IsValidation(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestRateRideRequiresBooking(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(selectRide).WithArgs(7).WillReturnRows(rideRow(7, 1, 2))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM bookings WHERE ride_id=\? AND passenger_id=\?`).WithArgs(7, 42).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	svc := RatingService{DB: db, Now: func() time.Time { return afterRide }}
	if _, err := svc.RateRide(context.Background(), 7, 42, 4, "ok"); !domain.IsForbidden(err) {
		t.Fatalf("expected ForbiddenError, got %v", err)
	}
}

func TestRateRideStoresScore(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(selectRide).WithArgs(7).WillReturnRows(rideRow(7, 1, 2))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM bookings`).WithArgs(7, 42).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectExec(`INSERT INTO ratings`).WithArgs(7, 42, 4, "smooth drive").
		WillReturnResult(sqlmock.NewResult(3, 1))

	svc := RatingService{DB: db, Now: func() time.Time { return afterRide }}
	rating, err := svc.RateRide(context.Background(), 7, 42, 4, " smooth drive ")
	if err != nil {
		t.Fatalf("RateRide error: %v", err)
	}
	if rating.ID != 3 || rating.Comment != "smooth drive" {
		t.Fatalf("unexpected rating: %+v", rating)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRateRideTwiceIsConflict(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(selectRide).WithArgs(7).WillReturnRows(rideRow(7, 1, 2))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM bookings`).WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectExec(`INSERT INTO ratings`).WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})

	svc := RatingService{DB: db, Now: func() time.Time { return afterRide }}
	if _, err := svc.RateRide(context.Background(), 7, 42, 4, ""); !domain.IsConflict(err) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
}

func TestDriverRatingAverage(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`AVG\(rt.score\)`).WithArgs(1, 1).
		WillReturnRows(sqlmock.NewRows([]string{"driver_id", "average", "count"}).AddRow(1, 4.5, 2))

	out, err := RatingService{DB: db}.DriverRating(context.Background(), 1)
	if err != nil {
		t.Fatalf("DriverRating error: %v", err)
	}
	if out.Average != 4.5 || out.Count != 2 {
		t.Fatalf("unexpected rating: %+v", out)
	}
}
