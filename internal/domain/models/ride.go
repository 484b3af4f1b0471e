package models

import (
	"time"

	"rideshare/internal/domain"
)

type StopKind string

const (
	StopStart        StopKind = "start"
	StopIntermediate StopKind = "intermediate"
	StopEnd          StopKind = "end"
)

func (k StopKind) Valid() bool {
	switch k {
	case StopStart, StopIntermediate, StopEnd:
		return true
	}
	return false
}

// Location is an entry of the read-only stop directory.
type Location struct {
	ID        domain.ID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Latitude  float64   `db:"latitude" json:"latitude"`
	Longitude float64   `db:"longitude" json:"longitude"`
}

// Stop is a waypoint on a ride. ArrivalTime is set for intermediate stops only.
type Stop struct {
	ID           domain.ID  `db:"id" json:"id"`
	RideID       domain.ID  `db:"ride_id" json:"rideId"`
	Position     int        `db:"position" json:"position"`
	Kind         StopKind   `db:"kind" json:"kind"`
	LocationID   domain.ID  `db:"location_id" json:"locationId"`
	LocationName string     `db:"location_name" json:"locationName"`
	ArrivalTime  *time.Time `db:"arrival_time" json:"arrivalTime,omitempty"`
}

type Ride struct {
	ID             domain.ID `db:"id" json:"id"`
	DriverID       domain.ID `db:"driver_id" json:"driverId"`
	VehicleID      *int64    `db:"vehicle_id" json:"vehicleId,omitempty"`
	StartTime      time.Time `db:"start_time" json:"startTime"`
	EndTime        time.Time `db:"end_time" json:"endTime"`
	TotalSeats     int       `db:"total_seats" json:"totalSeats"`
	AvailableSeats int       `db:"available_seats" json:"availableSeats"`
	PricePerSeat   int64     `db:"price_per_seat" json:"pricePerSeat"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
	Stops          []Stop    `db:"-" json:"stops"`
}

// Origin returns the start stop, if loaded.
func (r Ride) Origin() (Stop, bool) {
	for _, s := range r.Stops {
		if s.Kind == StopStart {
			return s, true
		}
	}
	return Stop{}, false
}

// Destination returns the end stop, if loaded.
func (r Ride) Destination() (Stop, bool) {
	for _, s := range r.Stops {
		if s.Kind == StopEnd {
			return s, true
		}
	}
	return Stop{}, false
}

// StopInput is one stop of an offer-ride request.
type StopInput struct {
	Kind        StopKind   `json:"kind"`
	LocationID  domain.ID  `json:"locationId"`
	ArrivalTime *time.Time `json:"arrivalTime,omitempty"`
}

// RideInput is what a driver submits when offering a ride.
type RideInput struct {
	VehicleID    *int64      `json:"vehicleId,omitempty"`
	StartTime    time.Time   `json:"startTime"`
	EndTime      time.Time   `json:"endTime"`
	Seats        int         `json:"seats"`
	PricePerSeat int64       `json:"pricePerSeat"`
	Stops        []StopInput `json:"stops"`
}

// Validate checks timing, seat count and stop layout. Location existence is
// checked by the caller against storage.
func (in RideInput) Validate() error {
	if in.StartTime.IsZero() || in.EndTime.IsZero() {
		return domain.ValidationError{Field: "startTime", Msg: "start and end time are required"}
	}
	if !in.EndTime.After(in.StartTime) {
		return domain.ValidationError{Field: "endTime", Msg: "must be after start time"}
	}
	if in.Seats < 0 {
		return domain.ValidationError{Field: "seats", Msg: "must not be negative"}
	}
	if in.PricePerSeat < 0 {
		return domain.ValidationError{Field: "pricePerSeat", Msg: "must not be negative"}
	}

	starts, ends := 0, 0
	for i, s := range in.Stops {
		if !s.Kind.Valid() {
			return domain.ValidationError{Field: "stops", Msg: "unknown stop kind " + string(s.Kind)}
		}
		if s.LocationID <= 0 {
			return domain.ValidationError{Field: "stops", Msg: "location is required"}
		}
		switch s.Kind {
		case StopStart:
			starts++
			if i != 0 {
				return domain.ValidationError{Field: "stops", Msg: "start stop must come first"}
			}
		case StopEnd:
			ends++
			if i != len(in.Stops)-1 {
				return domain.ValidationError{Field: "stops", Msg: "end stop must come last"}
			}
		case StopIntermediate:
			if s.ArrivalTime == nil {
				return domain.ValidationError{Field: "stops", Msg: "intermediate stop needs an arrival time"}
			}
			if s.ArrivalTime.Before(in.StartTime) || s.ArrivalTime.After(in.EndTime) {
				return domain.ValidationError{Field: "stops", Msg: "intermediate stop time outside the ride window"}
			}
		}
	}
	if starts != 1 || ends != 1 {
		return domain.ValidationError{Field: "stops", Msg: "exactly one start and one end stop are required"}
	}
	return nil
}

// RideFilter drives ride search. Zero values mean "any".
type RideFilter struct {
	FromLocationID domain.ID
	ToLocationID   domain.ID
	Day            time.Time
	MinSeats       int
}
