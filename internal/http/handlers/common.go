package handlers

import (
	"net/http"
	"strconv"

	"rideshare/internal/domain"
	"rideshare/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

// BindJSONOrError ensures body is present and parsable.
func BindJSONOrError[T any](c *gin.Context, dst *T) bool {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		respondError(c, http.StatusBadRequest, "invalid_body", "request body is empty", nil)
		return false
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_json", "invalid payload", err.Error())
		return false
	}
	return true
}

// idParam parses a positive int64 path parameter.
func idParam(c *gin.Context, name string) (domain.ID, bool) {
	v, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || v <= 0 {
		respondError(c, http.StatusBadRequest, "invalid_"+name, "invalid "+name, nil)
		return 0, false
	}
	return domain.ID(v), true
}

// queryID parses an optional positive int64 query value; empty means zero.
func queryID(c *gin.Context, name string) (domain.ID, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v < 0 {
		respondError(c, http.StatusBadRequest, "invalid_"+name, "invalid "+name, nil)
		return 0, false
	}
	return domain.ID(v), true
}

func currentUser(c *gin.Context) (domain.ID, bool) {
	id, ok := middleware.CurrentUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "unauthorized", "authentication required", nil)
	}
	return id, ok
}
