package services

import (
	"context"
	"strings"
	"time"

	intconfig "rideshare/internal/config"
	intdb "rideshare/internal/db"
	"rideshare/internal/domain"
	"rideshare/internal/domain/models"
	"rideshare/internal/repositories"
	"rideshare/internal/utils"

	"github.com/jmoiron/sqlx"
)

// RideService reads and offers rides. Reads always hit storage; nothing is cached.
type RideService struct {
	DB        *sqlx.DB
	RequestID string
	Now       func() time.Time
}

func (s RideService) db() *sqlx.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

func (s RideService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return utils.NowUTC()
}

// GetRide returns the current ride snapshot with its ordered stops.
func (s RideService) GetRide(ctx context.Context, id domain.ID) (models.Ride, error) {
	db := s.db()
	if db == nil {
		return models.Ride{}, domain.TransportError{Op: "read ride"}
	}
	rides := repositories.RideRepo{DB: db}
	ride, err := rides.GetByID(ctx, id)
	if err != nil {
		if domain.IsNotFound(err) {
			return models.Ride{}, err
		}
		return models.Ride{}, domain.TransportError{Op: "read ride", Err: err}
	}
	stops, err := rides.ListStops(ctx, id)
	if err != nil {
		return models.Ride{}, domain.TransportError{Op: "read stops", Err: err}
	}
	ride.Stops = stops
	return ride, nil
}

// OfferRide validates and stores a new ride with its stops in one transaction.
func (s RideService) OfferRide(ctx context.Context, driverID domain.ID, in models.RideInput) (models.Ride, error) {
	if err := in.Validate(); err != nil {
		return models.Ride{}, err
	}
	if !in.StartTime.After(s.now()) {
		return models.Ride{}, domain.ValidationError{Field: "startTime", Msg: "must be in the future"}
	}
	db := s.db()
	if db == nil {
		return models.Ride{}, domain.TransportError{Op: "offer ride"}
	}

	if in.VehicleID != nil {
		repo := repositories.VehicleRepo{DB: db}
		v, err := VehicleService{DB: db}.owned(ctx, repo, domain.ID(*in.VehicleID), driverID)
		if err != nil {
			if domain.IsNotFound(err) {
				return models.Ride{}, domain.ValidationError{Field: "vehicleId", Msg: "not one of your vehicles"}
			}
			return models.Ride{}, err
		}
		if in.Seats > v.Seats {
			return models.Ride{}, domain.ValidationError{Field: "seats", Msg: "more seats than the vehicle has"}
		}
	}

	seen := map[domain.ID]struct{}{}
	ids := []domain.ID{}
	for _, st := range in.Stops {
		if _, ok := seen[st.LocationID]; ok {
			continue
		}
		seen[st.LocationID] = struct{}{}
		ids = append(ids, st.LocationID)
	}
	found, err := repositories.LocationRepo{DB: db}.CountExisting(ctx, ids)
	if err != nil {
		return models.Ride{}, domain.TransportError{Op: "check locations", Err: err}
	}
	if found != len(ids) {
		return models.Ride{}, domain.ValidationError{Field: "stops", Msg: "unknown location"}
	}

	var rideID domain.ID
	err = intdb.WithTx(ctx, db, func(tx *sqlx.Tx) error {
		rides := repositories.RideRepo{DB: tx}
		id, err := rides.Create(ctx, driverID, in)
		if err != nil {
			return err
		}
		if err := rides.InsertStops(ctx, id, in.Stops); err != nil {
			return err
		}
		rideID = id
		return nil
	})
	if err != nil {
		if intdb.IsMySQLError(err, intdb.ErrNoReferencedRow) {
			return models.Ride{}, domain.ValidationError{Field: "stops", Msg: "unknown driver or location", Err: err}
		}
		return models.Ride{}, domain.TransportError{Op: "offer ride", Err: err}
	}

	utils.LogEventf(s.RequestID, "ride", "offer", "ride_id=%d driver_id=%d seats=%d stops=%d", rideID, driverID, in.Seats, len(in.Stops))
	return s.GetRide(ctx, rideID)
}

// SearchRides lists upcoming rides matching the filter with their stops.
func (s RideService) SearchRides(ctx context.Context, f models.RideFilter) ([]models.Ride, error) {
	db := s.db()
	if db == nil {
		return nil, domain.TransportError{Op: "search rides"}
	}
	rides := repositories.RideRepo{DB: db}
	out, err := rides.Search(ctx, f, s.now())
	if err != nil {
		return nil, domain.TransportError{Op: "search rides", Err: err}
	}
	for i := range out {
		stops, err := rides.ListStops(ctx, out[i].ID)
		if err != nil {
			return nil, domain.TransportError{Op: "read stops", Err: err}
		}
		out[i].Stops = stops
	}
	return out, nil
}

func (s RideService) ListLocations(ctx context.Context) ([]models.Location, error) {
	db := s.db()
	if db == nil {
		return nil, domain.TransportError{Op: "list locations"}
	}
	out, err := repositories.LocationRepo{DB: db}.List(ctx)
	if err != nil {
		return nil, domain.TransportError{Op: "list locations", Err: err}
	}
	return out, nil
}

// AddLocation extends the stop directory.
func (s RideService) AddLocation(ctx context.Context, loc models.Location) (models.Location, error) {
	loc.Name = strings.TrimSpace(loc.Name)
	if loc.Name == "" {
		return models.Location{}, domain.ValidationError{Field: "name", Msg: "required"}
	}
	if loc.Latitude < -90 || loc.Latitude > 90 || loc.Longitude < -180 || loc.Longitude > 180 {
		return models.Location{}, domain.ValidationError{Field: "coordinates", Msg: "out of range"}
	}
	db := s.db()
	if db == nil {
		return models.Location{}, domain.TransportError{Op: "add location"}
	}
	id, err := repositories.LocationRepo{DB: db}.Create(ctx, loc)
	if err != nil {
		return models.Location{}, domain.TransportError{Op: "add location", Err: err}
	}
	loc.ID = id
	utils.LogEventf(s.RequestID, "ride", "add_location", "location_id=%d", id)
	return loc, nil
}
