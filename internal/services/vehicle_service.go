package services

import (
	"context"
	"strings"

	intconfig "rideshare/internal/config"
	"rideshare/internal/domain"
	"rideshare/internal/domain/models"
	"rideshare/internal/repositories"
	"rideshare/internal/utils"

	"github.com/jmoiron/sqlx"
)

const maxVehicleSeats = 8

// VehicleService manages the cars a driver can attach to offered rides.
type VehicleService struct {
	DB        *sqlx.DB
	RequestID string
}

func (s VehicleService) db() *sqlx.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

func validateVehicle(in models.VehicleInput) error {
	if strings.TrimSpace(in.PlateNumber) == "" {
		return domain.ValidationError{Field: "plateNumber", Msg: "required"}
	}
	if in.Seats < 1 || in.Seats > maxVehicleSeats {
		return domain.ValidationError{Field: "seats", Msg: "must be between 1 and 8"}
	}
	return nil
}

func (s VehicleService) ListVehicles(ctx context.Context, driverID domain.ID, q string, page domain.Pagination) ([]models.Vehicle, error) {
	db := s.db()
	if db == nil {
		return nil, domain.TransportError{Op: "list vehicles"}
	}
	out, err := repositories.VehicleRepo{DB: db}.ListByDriver(ctx, driverID, q, page.Normalize())
	if err != nil {
		return nil, domain.TransportError{Op: "list vehicles", Err: err}
	}
	return out, nil
}

func (s VehicleService) RegisterVehicle(ctx context.Context, driverID domain.ID, in models.VehicleInput) (models.Vehicle, error) {
	if err := validateVehicle(in); err != nil {
		return models.Vehicle{}, err
	}
	db := s.db()
	if db == nil {
		return models.Vehicle{}, domain.TransportError{Op: "register vehicle"}
	}
	repo := repositories.VehicleRepo{DB: db}
	id, err := repo.Create(ctx, driverID, in)
	if err != nil {
		if domain.IsConflict(err) {
			return models.Vehicle{}, err
		}
		return models.Vehicle{}, domain.TransportError{Op: "insert vehicle", Err: err}
	}
	utils.LogEventf(s.RequestID, "vehicle", "register", "vehicle_id=%d driver_id=%d", id, driverID)
	return s.owned(ctx, repo, id, driverID)
}

func (s VehicleService) UpdateVehicle(ctx context.Context, id, driverID domain.ID, in models.VehicleInput) (models.Vehicle, error) {
	if err := validateVehicle(in); err != nil {
		return models.Vehicle{}, err
	}
	db := s.db()
	if db == nil {
		return models.Vehicle{}, domain.TransportError{Op: "update vehicle"}
	}
	repo := repositories.VehicleRepo{DB: db}
	if _, err := repo.Update(ctx, id, driverID, in); err != nil {
		if domain.IsConflict(err) {
			return models.Vehicle{}, err
		}
		return models.Vehicle{}, domain.TransportError{Op: "update vehicle", Err: err}
	}
	// MySQL reports zero affected rows for a no-op update, so ownership is
	// checked by reading the row back.
	v, err := s.owned(ctx, repo, id, driverID)
	if err != nil {
		return models.Vehicle{}, err
	}
	utils.LogEventf(s.RequestID, "vehicle", "update", "vehicle_id=%d", id)
	return v, nil
}

func (s VehicleService) RemoveVehicle(ctx context.Context, id, driverID domain.ID) error {
	db := s.db()
	if db == nil {
		return domain.TransportError{Op: "remove vehicle"}
	}
	ok, err := repositories.VehicleRepo{DB: db}.Delete(ctx, id, driverID)
	if err != nil {
		return domain.TransportError{Op: "delete vehicle", Err: err}
	}
	if !ok {
		return domain.NotFoundError{Resource: "vehicle"}
	}
	utils.LogEventf(s.RequestID, "vehicle", "remove", "vehicle_id=%d", id)
	return nil
}

// owned loads a vehicle and hides ones that belong to other drivers.
func (s VehicleService) owned(ctx context.Context, repo repositories.VehicleRepo, id, driverID domain.ID) (models.Vehicle, error) {
	v, err := repo.GetByID(ctx, id)
	if err != nil {
		if domain.IsNotFound(err) {
			return models.Vehicle{}, err
		}
		return models.Vehicle{}, domain.TransportError{Op: "read vehicle", Err: err}
	}
	if v.DriverID != driverID {
		return models.Vehicle{}, domain.NotFoundError{Resource: "vehicle"}
	}
	return v, nil
}
