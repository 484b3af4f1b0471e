package services

import (
	"context"
	"strings"
	"time"

	intconfig "rideshare/internal/config"
	"rideshare/internal/domain"
	"rideshare/internal/domain/models"
	"rideshare/internal/repositories"
	"rideshare/internal/utils"

	"github.com/jmoiron/sqlx"
)

type RatingService struct {
	DB        *sqlx.DB
	RequestID string
	Now       func() time.Time
}

func (s RatingService) db() *sqlx.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

func (s RatingService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return utils.NowUTC()
}

// RateRide records a passenger's score for a finished ride they booked.
func (s RatingService) RateRide(ctx context.Context, rideID, raterID domain.ID, score int, comment string) (models.Rating, error) {
	if score < 1 || score > 5 {
		return models.Rating{}, domain.ValidationError{Field: "score", Msg: "must be between 1 and 5"}
	}
	comment = strings.TrimSpace(comment)
	if len(comment) > 1000 {
		return models.Rating{}, domain.ValidationError{Field: "comment", Msg: "too long"}
	}
	db := s.db()
	if db == nil {
		return models.Rating{}, domain.TransportError{Op: "rate ride"}
	}

	ride, err := repositories.RideRepo{DB: db}.GetByID(ctx, rideID)
	if err != nil {
		if domain.IsNotFound(err) {
			return models.Rating{}, err
		}
		return models.Rating{}, domain.TransportError{Op: "read ride", Err: err}
	}
	if s.now().Before(ride.EndTime) {
		return models.Rating{}, domain.ValidationError{Field: "ride", Msg: "ride has not ended yet"}
	}

	booked, err := repositories.BookingRepo{DB: db}.HasBooking(ctx, rideID, raterID)
	if err != nil {
		return models.Rating{}, domain.TransportError{Op: "check booking", Err: err}
	}
	if !booked {
		return models.Rating{}, domain.ForbiddenError{Msg: "only passengers of the ride can rate it"}
	}

	rating := models.Rating{RideID: rideID, RaterID: raterID, Score: score, Comment: comment}
	id, err := repositories.RatingRepo{DB: db}.Insert(ctx, rating)
	if err != nil {
		if domain.IsConflict(err) {
			return models.Rating{}, err
		}
		return models.Rating{}, domain.TransportError{Op: "insert rating", Err: err}
	}
	rating.ID = id
	rating.CreatedAt = s.now()

	utils.LogEventf(s.RequestID, "rating", "rate_ride", "ride_id=%d rater_id=%d score=%d", rideID, raterID, score)
	return rating, nil
}

func (s RatingService) DriverRating(ctx context.Context, driverID domain.ID) (models.DriverRating, error) {
	db := s.db()
	if db == nil {
		return models.DriverRating{}, domain.TransportError{Op: "driver rating"}
	}
	out, err := repositories.RatingRepo{DB: db}.DriverAverage(ctx, driverID)
	if err != nil {
		return models.DriverRating{}, domain.TransportError{Op: "driver rating", Err: err}
	}
	return out, nil
}
