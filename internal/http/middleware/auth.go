package middleware

import (
	"net/http"
	"strings"

	"rideshare/internal/domain"
	"rideshare/internal/services"

	"github.com/gin-gonic/gin"
)

const (
	userIDKey   = "user_id"
	userRoleKey = "user_role"
)

// Auth requires a valid bearer token. Browsers cannot set headers on a
// WebSocket handshake, so the token is also accepted as ?access_token=.
func Auth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c.GetHeader("Authorization"))
		if raw == "" {
			raw = strings.TrimSpace(c.Query("access_token"))
		}
		if raw == "" {
			abortUnauthorized(c, "missing bearer token")
			return
		}

		claims, err := services.ParseToken(secret, raw)
		if err != nil {
			abortUnauthorized(c, "invalid or expired token")
			return
		}

		c.Set(userIDKey, claims.UserID)
		c.Set(userRoleKey, claims.Role)
		c.Next()
	}
}

func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	if len(header) < 7 || !strings.EqualFold(header[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error":      msg,
		"code":       "unauthorized",
		"request_id": GetRequestID(c),
	})
}

// CurrentUserID returns the authenticated user, if Auth ran.
func CurrentUserID(c *gin.Context) (domain.ID, bool) {
	v, ok := c.Get(userIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(domain.ID)
	return id, ok && id > 0
}

// RequestContext bundles the caller identity for services and logs.
func RequestContext(c *gin.Context) domain.RequestContext {
	id, _ := CurrentUserID(c)
	return domain.RequestContext{
		UserID:    id,
		Role:      c.GetString(userRoleKey),
		RequestID: GetRequestID(c),
	}
}
