package handlers

import (
	"errors"
	"net/http"

	"rideshare/internal/domain"
	"rideshare/internal/http/middleware"
	"rideshare/internal/services"

	"github.com/gin-gonic/gin"
)

// ErrorResponse standardizes error payloads.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	Retryable bool   `json:"retryable"`
	RequestID string `json:"request_id,omitempty"`
	Details   any    `json:"details,omitempty"`
}

func respondError(c *gin.Context, status int, code, message string, details any) {
	if code == "" {
		code = http.StatusText(status)
	}
	c.AbortWithStatusJSON(status, ErrorResponse{
		Error:     message,
		Code:      code,
		Retryable: status == http.StatusServiceUnavailable,
		RequestID: middleware.GetRequestID(c),
		Details:   details,
	})
}

// RespondDomainError maps domain errors to HTTP responses. Only transport
// failures are marked retryable; business-rule rejections are final.
func RespondDomainError(c *gin.Context, err error) {
	switch {
	case domain.IsSelfBooking(err):
		respondError(c, http.StatusForbidden, "self_booking", "you cannot book a seat on your own ride", nil)
	case domain.IsInvalidRequest(err):
		respondError(c, http.StatusBadRequest, "invalid_request", err.Error(), nil)
	case domain.IsInsufficientCapacity(err):
		var capErr domain.InsufficientCapacityError
		errors.As(err, &capErr)
		respondError(c, http.StatusConflict, "insufficient_capacity", "not enough seats left on this ride", gin.H{
			"requested": capErr.Requested,
		})
	case domain.IsTransport(err):
		respondError(c, http.StatusServiceUnavailable, "backend_unavailable", "temporary backend failure, please try again", nil)
	case domain.IsValidation(err):
		respondError(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case domain.IsForbidden(err):
		respondError(c, http.StatusForbidden, "forbidden", err.Error(), nil)
	case domain.IsNotFound(err):
		respondError(c, http.StatusNotFound, "not_found", err.Error(), nil)
	case domain.IsConflict(err):
		respondError(c, http.StatusConflict, "conflict", err.Error(), nil)
	case errors.Is(err, services.ErrInvalidCredentials):
		respondError(c, http.StatusUnauthorized, "invalid_credentials", err.Error(), nil)
	default:
		respondError(c, http.StatusInternalServerError, "internal_error", "something went wrong", nil)
	}
}
