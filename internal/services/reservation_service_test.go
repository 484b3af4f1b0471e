package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"rideshare/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
)

var rideCols = []string{"id", "driver_id", "vehicle_id", "start_time", "end_time", "total_seats", "available_seats", "price_per_seat", "created_at"}

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return sqlx.NewDb(db, "mysql"), mock
}

func rideRow(id, driverID int64, available int) *sqlmock.Rows {
	start := time.Date(2030, 5, 1, 8, 0, 0, 0, time.UTC)
	return sqlmock.NewRows(rideCols).
		AddRow(id, driverID, nil, start, start.Add(3*time.Hour), 4, available, 50000, start.Add(-48*time.Hour))
}

const (
	selectRide     = `SELECT .+ FROM rides WHERE id=\?`
	decrementSeats = `UPDATE rides SET available_seats = available_seats - \? WHERE id = \? AND available_seats >= \?`
	insertBooking  = `INSERT INTO bookings`
)

func TestReserveSuccessWritesOneBookingAndOneDecrement(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(selectRide).WithArgs(7).WillReturnRows(rideRow(7, 1, 2))
	mock.ExpectExec(decrementSeats).WithArgs(2, 7, 2).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(insertBooking).WithArgs(7, 42, 2).WillReturnResult(sqlmock.NewResult(99, 1))
	mock.ExpectCommit()

	svc := ReservationService{DB: db}
	booking, err := svc.Reserve(context.Background(), 7, 42, 2)
	if err != nil {
		t.Fatalf("Reserve returned error: %v", err)
	}
	if booking.ID != 99 || booking.RideID != 7 || booking.PassengerID != 42 || booking.SeatsReserved != 2 {
		t.Fatalf("unexpected booking: %+v", booking)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestReserveSelfBookingAlwaysRejected(t *testing.T) {
	for _, seats := range []int{-1, 0, 1, 2, 10} {
		db, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectQuery(selectRide).WithArgs(7).WillReturnRows(rideRow(7, 42, 2))
		mock.ExpectRollback()

		_, err := ReservationService{DB: db}.Reserve(context.Background(), 7, 42, seats)
		if !domain.IsSelfBooking(err) {
			t.Fatalf("seats=%d: expected SelfBookingError, got %v", seats, err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("seats=%d: unmet expectations: %v", seats, err)
		}
	}
}

func TestReserveNonPositiveSeatsIsInvalid(t *testing.T) {
	for _, seats := range []int{0, -1} {
		db, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectQuery(selectRide).WithArgs(7).WillReturnRows(rideRow(7, 1, 2))
		mock.ExpectRollback()

		_, err := ReservationService{DB: db}.Reserve(context.Background(), 7, 42, seats)
		if !domain.IsInvalidRequest(err) {
			t.Fatalf("seats=%d: expected InvalidRequestError, got %v", seats, err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("seats=%d: unmet expectations: %v", seats, err)
		}
	}
}

func TestReserveOverCapacityLeavesSeatsUntouched(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(selectRide).WithArgs(7).WillReturnRows(rideRow(7, 1, 2))
	mock.ExpectRollback()

	_, err := ReservationService{DB: db}.Reserve(context.Background(), 7, 42, 3)
	if !domain.IsInsufficientCapacity(err) {
		t.Fatalf("expected InsufficientCapacityError, got %v", err)
	}
	var capErr domain.InsufficientCapacityError
	if !errors.As(err, &capErr) || capErr.Available != 2 || capErr.Requested != 3 {
		t.Fatalf("unexpected capacity error: %+v", capErr)
	}
	// No UPDATE was expected, so sqlmock fails here if one was issued.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

// Two passengers read the same snapshot (2 seats). A asks for 2 and commits
// first; B's guarded update then matches no row and B is rejected.
func TestReserveConcurrentOverdrawRejectedByGuard(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(selectRide).WithArgs(7).WillReturnRows(rideRow(7, 1, 2))
	mock.ExpectExec(decrementSeats).WithArgs(2, 7, 2).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(insertBooking).WithArgs(7, 100, 2).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	mock.ExpectBegin()
	mock.ExpectQuery(selectRide).WithArgs(7).WillReturnRows(rideRow(7, 1, 2))
	mock.ExpectExec(decrementSeats).WithArgs(1, 7, 1).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	svc := ReservationService{DB: db}
	if _, err := svc.Reserve(context.Background(), 7, 100, 2); err != nil {
		t.Fatalf("first reservation failed: %v", err)
	}
	_, err := svc.Reserve(context.Background(), 7, 200, 1)
	if !domain.IsInsufficientCapacity(err) {
		t.Fatalf("expected InsufficientCapacityError for the loser, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestReserveInsertFailureRollsBackDecrement(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(selectRide).WithArgs(7).WillReturnRows(rideRow(7, 1, 2))
	mock.ExpectExec(decrementSeats).WithArgs(1, 7, 1).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(insertBooking).WillReturnError(errors.New("connection reset by peer"))
	mock.ExpectRollback()

	_, err := ReservationService{DB: db}.Reserve(context.Background(), 7, 42, 1)
	if !domain.IsTransport(err) {
		t.Fatalf("expected TransportError, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestReserveCommitFailureIsTransport(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(selectRide).WithArgs(7).WillReturnRows(rideRow(7, 1, 2))
	mock.ExpectExec(decrementSeats).WithArgs(1, 7, 1).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(insertBooking).WithArgs(7, 42, 1).WillReturnResult(sqlmock.NewResult(5, 1))
	mock.ExpectCommit().WillReturnError(errors.New("i/o timeout"))

	_, err := ReservationService{DB: db}.Reserve(context.Background(), 7, 42, 1)
	if !domain.IsTransport(err) {
		t.Fatalf("expected TransportError, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestReserveBeginFailureIsTransport(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin().WillReturnError(errors.New("connection refused"))

	_, err := ReservationService{DB: db}.Reserve(context.Background(), 7, 42, 1)
	if !domain.IsTransport(err) {
		t.Fatalf("expected TransportError, got %v", err)
	}
}

func TestReserveUnknownRide(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(selectRide).WithArgs(8).WillReturnRows(sqlmock.NewRows(rideCols))
	mock.ExpectRollback()

	_, err := ReservationService{DB: db}.Reserve(context.Background(), 8, 42, 1)
	if !domain.IsNotFound(err) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if domain.IsTransport(err) {
		t.Fatalf("missing ride must not look retryable")
	}
}

func TestListRideBookingsDriverOnly(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(selectRide).WithArgs(7).WillReturnRows(rideRow(7, 1, 2))

	_, err := ReservationService{DB: db}.ListRideBookings(context.Background(), 7, 42)
	if !domain.IsForbidden(err) {
		t.Fatalf("expected ForbiddenError, got %v", err)
	}

	now := time.Now()
	mock.ExpectQuery(selectRide).WithArgs(7).WillReturnRows(rideRow(7, 1, 0))
	mock.ExpectQuery(`FROM bookings WHERE ride_id=\?`).WithArgs(7).WillReturnRows(
		sqlmock.NewRows([]string{"id", "ride_id", "passenger_id", "seats_reserved", "created_at"}).
			AddRow(1, 7, 100, 2, now).
			AddRow(2, 7, 200, 2, now))

	out, err := ReservationService{DB: db}.ListRideBookings(context.Background(), 7, 1)
	if err != nil {
		t.Fatalf("ListRideBookings error: %v", err)
	}
	total := 0
	for _, b := range out {
		total += b.SeatsReserved
	}
	if len(out) != 2 || total != 4 {
		t.Fatalf("unexpected bookings: %+v", out)
	}
}
