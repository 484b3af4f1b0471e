package models

import (
	"time"

	"rideshare/internal/domain"
)

// Vehicle is a car registered by a driver. A ride may reference one.
type Vehicle struct {
	ID          domain.ID `db:"id" json:"id"`
	DriverID    domain.ID `db:"driver_id" json:"driverId"`
	PlateNumber string    `db:"plate_number" json:"plateNumber"`
	Model       string    `db:"model" json:"model"`
	Color       string    `db:"color" json:"color,omitempty"`
	Seats       int       `db:"seats" json:"seats"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

type VehicleInput struct {
	PlateNumber string `json:"plateNumber" binding:"required"`
	Model       string `json:"model"`
	Color       string `json:"color"`
	Seats       int    `json:"seats" binding:"required"`
}
