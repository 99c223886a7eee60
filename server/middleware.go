package server

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"craftmyprep-backend/controllers/authentication"
	"craftmyprep-backend/logger"
)

const requestIDHeader = "X-Request-ID"

// RequestLogger tags every request with an id, echoed in X-Request-ID, and
// logs one line when it finishes.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	log = log.With("middleware", "RequestLogger")
	return func(c *gin.Context) {
		start := time.Now()
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(requestIDHeader, requestID)

		c.Next()

		fields := []any{
			"request_id", requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		}
		if userID := authentication.UserID(c); userID != 0 {
			fields = append(fields, "user_id", userID)
		}
		if c.Writer.Status() >= 500 {
			log.Warn("Request", fields...)
			return
		}
		log.Info("Request", fields...)
	}
}
