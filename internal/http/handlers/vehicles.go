package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"rideshare/internal/domain"
	"rideshare/internal/domain/models"
	"rideshare/internal/http/middleware"
	"rideshare/internal/services"

	"github.com/gin-gonic/gin"
)

func (h Handlers) vehicles(c *gin.Context) services.VehicleService {
	return services.VehicleService{DB: h.DB, RequestID: middleware.GetRequestID(c)}
}

// GET /api/vehicles?q=AB&after=&limit=50
func (h Handlers) ListVehicles(c *gin.Context) {
	driverID, ok := currentUser(c)
	if !ok {
		return
	}
	afterID, ok := queryID(c, "after")
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(strings.TrimSpace(c.Query("limit")))

	list, err := h.vehicles(c).ListVehicles(c.Request.Context(), driverID, c.Query("q"), domain.Pagination{AfterID: afterID, Limit: limit})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vehicles": list})
}

// POST /api/vehicles
func (h Handlers) CreateVehicle(c *gin.Context) {
	driverID, ok := currentUser(c)
	if !ok {
		return
	}
	var payload models.VehicleInput
	if !BindJSONOrError(c, &payload) {
		return
	}
	v, err := h.vehicles(c).RegisterVehicle(c.Request.Context(), driverID, payload)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"vehicle": v})
}

// PUT /api/vehicles/:id
func (h Handlers) UpdateVehicle(c *gin.Context) {
	driverID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var payload models.VehicleInput
	if !BindJSONOrError(c, &payload) {
		return
	}
	v, err := h.vehicles(c).UpdateVehicle(c.Request.Context(), id, driverID, payload)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vehicle": v})
}

// DELETE /api/vehicles/:id
func (h Handlers) DeleteVehicle(c *gin.Context) {
	driverID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.vehicles(c).RemoveVehicle(c.Request.Context(), id, driverID); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "vehicle removed"})
}
