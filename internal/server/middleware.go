package server

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/julianstephens/weekwise/internal/logger"
)

const requestIDHeader = "X-Request-ID"

// requestID tags every request with an id, reusing the caller's when given.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDHeader, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		keyvals := []interface{}{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"request_id", c.GetString(requestIDHeader),
		}
		if len(c.Errors) > 0 {
			logger.Error("http request", append(keyvals, "error", c.Errors.String())...)
			return
		}
		logger.Debug("http request", keyvals...)
	}
}
