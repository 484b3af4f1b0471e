package models

import (
	"time"

	"rideshare/internal/domain"
)

// Booking is a passenger's reservation of seats on a ride. Immutable once written.
type Booking struct {
	ID            domain.ID `db:"id" json:"id"`
	RideID        domain.ID `db:"ride_id" json:"rideId"`
	PassengerID   domain.ID `db:"passenger_id" json:"passengerId"`
	SeatsReserved int       `db:"seats_reserved" json:"seatsReserved"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
}

// Rating is a passenger's score for a ride they booked.
type Rating struct {
	ID        domain.ID `db:"id" json:"id"`
	RideID    domain.ID `db:"ride_id" json:"rideId"`
	RaterID   domain.ID `db:"rater_id" json:"raterId"`
	Score     int       `db:"score" json:"score"`
	Comment   string    `db:"comment" json:"comment"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

type DriverRating struct {
	DriverID domain.ID `db:"driver_id" json:"driverId"`
	Average  float64   `db:"average" json:"average"`
	Count    int       `db:"count" json:"count"`
}
