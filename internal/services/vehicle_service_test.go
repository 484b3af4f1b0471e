package services

import (
	"context"
	"testing"
	"time"

	"rideshare/internal/domain"
	"rideshare/internal/domain/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
)

var vehicleCols = []string{"id", "driver_id", "plate_number", "model", "color", "seats", "created_at"}

func TestRegisterVehicle(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec(`INSERT INTO vehicles`).WithArgs(42, "B 1234 XY", "Avanza", nil, 6).
		WillReturnResult(sqlmock.NewResult(3, 1))
	mock.ExpectQuery(`FROM vehicles WHERE id = \?`).WithArgs(3).
		WillReturnRows(sqlmock.NewRows(vehicleCols).AddRow(3, 42, "B 1234 XY", "Avanza", "", 6, time.Now()))

	v, err := VehicleService{DB: db}.RegisterVehicle(context.Background(), 42, models.VehicleInput{
		PlateNumber: " b  1234 xy ", Model: "Avanza", Seats: 6,
	})
	if err != nil {
		t.Fatalf("RegisterVehicle error: %v", err)
	}
	if v.ID != 3 || v.PlateNumber != "B 1234 XY" {
		t.Fatalf("unexpected vehicle %+v", v)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRegisterVehicleDuplicatePlate(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec(`INSERT INTO vehicles`).WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})

	_, err := VehicleService{DB: db}.RegisterVehicle(context.Background(), 42, models.VehicleInput{PlateNumber: "B 1", Seats: 4})
	if !domain.IsConflict(err) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
}

func TestRegisterVehicleValidation(t *testing.T) {
	db, _ := newMockDB(t)
	for _, in := range []models.VehicleInput{{Seats: 4}, {PlateNumber: "B 1", Seats: 0}, {PlateNumber: "B 1", Seats: 20}} {
		if _, err := (VehicleService{DB: db}).RegisterVehicle(context.Background(), 42, in); !domain.IsValidation(err) {
			t.Fatalf("input %+v: expected ValidationError, got %v", in, err)
		}
	}
}

func TestUpdateVehicleOfAnotherDriverIsNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec(`UPDATE vehicles`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`FROM vehicles WHERE id = \?`).WithArgs(3).
		WillReturnRows(sqlmock.NewRows(vehicleCols).AddRow(3, 7, "B 1", "", "", 4, time.Now()))

	_, err := VehicleService{DB: db}.UpdateVehicle(context.Background(), 3, 42, models.VehicleInput{PlateNumber: "B 1", Seats: 4})
	if !domain.IsNotFound(err) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestRemoveVehicleMissing(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec(`DELETE FROM vehicles WHERE id = \? AND driver_id = \?`).WithArgs(3, 42).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := (VehicleService{DB: db}).RemoveVehicle(context.Background(), 3, 42); !domain.IsNotFound(err) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestOfferRideChecksVehicleCapacity(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`FROM vehicles WHERE id = \?`).WithArgs(3).
		WillReturnRows(sqlmock.NewRows(vehicleCols).AddRow(3, 42, "B 1", "", "", 2, now))

	in := simpleRideInput(now.Add(24 * time.Hour))
	vid := int64(3)
	in.VehicleID = &vid

	_, err := RideService{DB: db, Now: func() time.Time { return now }}.OfferRide(context.Background(), 42, in)
	if !domain.IsValidation(err) {
		t.Fatalf("expected ValidationError for 3 seats in a 2-seat car, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
