package repositories

import (
	"context"

	intdb "rideshare/internal/db"
	"rideshare/internal/domain"
	"rideshare/internal/domain/models"

	"github.com/jmoiron/sqlx"
)

type RatingRepo struct {
	DB sqlx.ExtContext
}

func (r RatingRepo) Insert(ctx context.Context, rating models.Rating) (domain.ID, error) {
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO ratings (ride_id, rater_id, score, comment)
		VALUES (?, ?, ?, ?)`, rating.RideID, rating.RaterID, rating.Score, rating.Comment)
	if err != nil {
		if intdb.IsMySQLError(err, intdb.ErrDupEntry) {
			return 0, domain.ConflictError{Resource: "rating", Msg: "ride already rated", Err: err}
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	return domain.ID(id), err
}

// DriverAverage aggregates ratings over every ride the driver offered.
func (r RatingRepo) DriverAverage(ctx context.Context, driverID domain.ID) (models.DriverRating, error) {
	out := models.DriverRating{DriverID: driverID}
	err := sqlx.GetContext(ctx, r.DB, &out, `
		SELECT ? AS driver_id, COALESCE(AVG(rt.score), 0) AS average, COUNT(rt.id) AS count
		FROM ratings rt
		JOIN rides r ON r.id = rt.ride_id
		WHERE r.driver_id = ?`, driverID, driverID)
	return out, err
}
