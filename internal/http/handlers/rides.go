package handlers

import (
	"net/http"
	"strconv"

	"rideshare/internal/domain/models"
	"rideshare/internal/utils"

	"github.com/gin-gonic/gin"
)

// GET /api/locations
func (h Handlers) ListLocations(c *gin.Context) {
	out, err := h.rides(c).ListLocations(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"locations": out})
}

// POST /api/locations (admin)
func (h Handlers) CreateLocation(c *gin.Context) {
	var req models.Location
	if !BindJSONOrError(c, &req) {
		return
	}
	loc, err := h.rides(c).AddLocation(c.Request.Context(), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"location": loc})
}

// GET /api/rides?from=&to=&date=YYYY-MM-DD&seats=
func (h Handlers) SearchRides(c *gin.Context) {
	var f models.RideFilter
	var ok bool
	if f.FromLocationID, ok = queryID(c, "from"); !ok {
		return
	}
	if f.ToLocationID, ok = queryID(c, "to"); !ok {
		return
	}
	if raw := c.Query("date"); raw != "" {
		day, err := utils.ParseDate(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD", nil)
			return
		}
		f.Day = day
	}
	if raw := c.Query("seats"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			respondError(c, http.StatusBadRequest, "invalid_seats", "seats must be a non-negative integer", nil)
			return
		}
		f.MinSeats = n
	}

	out, err := h.rides(c).SearchRides(c.Request.Context(), f)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rides": out})
}

// GET /api/rides/:id
func (h Handlers) GetRide(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	ride, err := h.rides(c).GetRide(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ride": ride})
}

// POST /api/rides
func (h Handlers) OfferRide(c *gin.Context) {
	driverID, ok := currentUser(c)
	if !ok {
		return
	}
	var req models.RideInput
	if !BindJSONOrError(c, &req) {
		return
	}
	ride, err := h.rides(c).OfferRide(c.Request.Context(), driverID, req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ride": ride})
}

type rateRequest struct {
	Score   int    `json:"score"`
	Comment string `json:"comment"`
}

// POST /api/rides/:id/ratings
func (h Handlers) RateRide(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	rideID, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req rateRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	rating, err := h.ratings(c).RateRide(c.Request.Context(), rideID, userID, req.Score, req.Comment)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"rating": rating})
}

// GET /api/drivers/:id/rating
func (h Handlers) DriverRating(c *gin.Context) {
	driverID, ok := idParam(c, "id")
	if !ok {
		return
	}
	out, err := h.ratings(c).DriverRating(c.Request.Context(), driverID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rating": out})
}
