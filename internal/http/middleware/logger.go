package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger prints one access line per request, with request_id and user_id when known.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)

		userID, _ := CurrentUserID(c)
		log.Printf("[HTTP] request_id=%s user_id=%d method=%s path=%s status=%d latency_ms=%.3f ip=%s",
			GetRequestID(c),
			userID,
			c.Request.Method,
			c.Request.URL.Path,
			c.Writer.Status(),
			float64(latency.Microseconds())/1000.0,
			c.ClientIP(),
		)
	}
}
