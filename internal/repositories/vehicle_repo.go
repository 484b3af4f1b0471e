package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	intdb "rideshare/internal/db"
	"rideshare/internal/domain"
	"rideshare/internal/domain/models"

	"github.com/jmoiron/sqlx"
)

type VehicleRepo struct {
	DB sqlx.ExtContext
}

const vehicleSelect = `SELECT id, driver_id, plate_number, model, COALESCE(color, '') AS color, seats, created_at FROM vehicles`

// ListByDriver returns the driver's vehicles, newest first. q filters on plate
// or model.
func (r VehicleRepo) ListByDriver(ctx context.Context, driverID domain.ID, q string, page domain.Pagination) ([]models.Vehicle, error) {
	where := " WHERE driver_id = ?"
	args := []any{driverID}
	if q = strings.TrimSpace(q); q != "" {
		where += " AND (plate_number LIKE ? OR model LIKE ?)"
		like := "%" + q + "%"
		args = append(args, like, like)
	}
	if page.AfterID > 0 {
		where += " AND id < ?"
		args = append(args, page.AfterID)
	}
	args = append(args, page.Limit)

	out := []models.Vehicle{}
	err := sqlx.SelectContext(ctx, r.DB, &out, vehicleSelect+where+" ORDER BY id DESC LIMIT ?", args...)
	return out, err
}

func (r VehicleRepo) GetByID(ctx context.Context, id domain.ID) (models.Vehicle, error) {
	var v models.Vehicle
	err := sqlx.GetContext(ctx, r.DB, &v, vehicleSelect+` WHERE id = ? LIMIT 1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Vehicle{}, domain.NotFoundError{Resource: "vehicle"}
	}
	return v, err
}

func (r VehicleRepo) Create(ctx context.Context, driverID domain.ID, in models.VehicleInput) (domain.ID, error) {
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO vehicles (driver_id, plate_number, model, color, seats)
		VALUES (?, ?, ?, ?, ?)`,
		driverID, normalizePlate(in.PlateNumber), strings.TrimSpace(in.Model), intdb.NullIfEmpty(in.Color), in.Seats)
	if err != nil {
		if intdb.IsMySQLError(err, intdb.ErrDupEntry) {
			return 0, domain.ConflictError{Resource: "vehicle", Msg: "plate number already registered", Err: err}
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	return domain.ID(id), err
}

// Update changes a vehicle owned by driverID. Zero rows means it does not
// exist or belongs to someone else.
func (r VehicleRepo) Update(ctx context.Context, id, driverID domain.ID, in models.VehicleInput) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE vehicles
		SET plate_number = ?, model = ?, color = ?, seats = ?
		WHERE id = ? AND driver_id = ?`,
		normalizePlate(in.PlateNumber), strings.TrimSpace(in.Model), intdb.NullIfEmpty(in.Color), in.Seats, id, driverID)
	if err != nil {
		if intdb.IsMySQLError(err, intdb.ErrDupEntry) {
			return false, domain.ConflictError{Resource: "vehicle", Msg: "plate number already registered", Err: err}
		}
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r VehicleRepo) Delete(ctx context.Context, id, driverID domain.ID) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM vehicles WHERE id = ? AND driver_id = ?`, id, driverID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func normalizePlate(p string) string {
	return strings.ToUpper(strings.Join(strings.Fields(p), " "))
}
