package server

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"proposal-service/internal/common/logger"
)

const requestIDHeader = "X-Request-ID"

// requestID assigns each request a stable identifier, honoring one supplied
// by the caller so IDs survive proxy hops.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set("request_id", id)
		c.Writer.Header().Set(requestIDHeader, id)
		c.Next()
	}
}

// requestLogger logs one line per request with latency and status.
func requestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := map[string]interface{}{
			"method":      c.Request.Method,
			"path":        c.FullPath(),
			"status":      c.Writer.Status(),
			"duration_ms": time.Since(start).Milliseconds(),
			"request_id":  c.GetString("request_id"),
		}
		if c.Writer.Status() >= 500 {
			log.Error("request completed", fields)
		} else {
			log.Info("request completed", fields)
		}
	}
}
