package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

type reserveRequest struct {
	Seats json.Number `json:"seats"`
}

// seatCount accepts only whole numbers; "1.5" or "two" are invalid requests.
func (r reserveRequest) seatCount() (int, bool) {
	n, err := r.Seats.Int64()
	if err != nil || n > 1<<20 || n < -(1<<20) {
		return 0, false
	}
	return int(n), true
}

// POST /api/rides/:id/bookings
func (h Handlers) ReserveSeats(c *gin.Context) {
	passengerID, ok := currentUser(c)
	if !ok {
		return
	}
	rideID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req reserveRequest
	dec := json.NewDecoder(c.Request.Body)
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_json", "invalid payload", nil)
		return
	}
	seats, ok := req.seatCount()
	if !ok {
		respondError(c, http.StatusBadRequest, "invalid_request", "seats must be a positive integer", nil)
		return
	}

	booking, err := h.reservations(c).Reserve(c.Request.Context(), rideID, passengerID, seats)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"booking": booking})
}

// GET /api/rides/:id/bookings
func (h Handlers) ListRideBookings(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	rideID, ok := idParam(c, "id")
	if !ok {
		return
	}
	out, err := h.reservations(c).ListRideBookings(c.Request.Context(), rideID, userID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": out})
}

// GET /api/bookings
func (h Handlers) ListMyBookings(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	out, err := h.reservations(c).ListPassengerBookings(c.Request.Context(), userID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": out})
}

// GET /api/bookings/:id/ticket
func (h Handlers) BookingTicket(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	bookingID, ok := idParam(c, "id")
	if !ok {
		return
	}
	pdf, filename, err := h.tickets(c).GenerateBookingTicket(c.Request.Context(), bookingID, userID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.DataFromReader(http.StatusOK, int64(len(pdf)), "application/pdf", bytes.NewReader(pdf), nil)
}
