package repositories

import (
	"context"

	"rideshare/internal/domain"
	"rideshare/internal/domain/models"

	"github.com/jmoiron/sqlx"
)

type LocationRepo struct {
	DB sqlx.ExtContext
}

func (r LocationRepo) List(ctx context.Context) ([]models.Location, error) {
	out := []models.Location{}
	err := sqlx.SelectContext(ctx, r.DB, &out, `SELECT id, name, latitude, longitude FROM locations ORDER BY name ASC`)
	return out, err
}

// CountExisting returns how many of the distinct ids exist.
func (r LocationRepo) CountExisting(ctx context.Context, ids []domain.ID) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query, args, err := sqlx.In(`SELECT COUNT(*) FROM locations WHERE id IN (?)`, ids)
	if err != nil {
		return 0, err
	}
	var n int
	err = sqlx.GetContext(ctx, r.DB, &n, r.DB.Rebind(query), args...)
	return n, err
}

func (r LocationRepo) Create(ctx context.Context, loc models.Location) (domain.ID, error) {
	res, err := r.DB.ExecContext(ctx, `INSERT INTO locations (name, latitude, longitude) VALUES (?, ?, ?)`,
		loc.Name, loc.Latitude, loc.Longitude)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	return domain.ID(id), err
}
