package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeti47/vidfolio/server/core/ccc/logging"
)

// RequestLogger writes one structured log entry per request
type RequestLogger struct {
	logger logging.Logger
}

// NewRequestLogger creates a new request logging middleware
func NewRequestLogger(logger logging.Logger) *RequestLogger {
	if logger == nil {
		logger = logging.NopLogger
	}

	return &RequestLogger{
		logger: logger,
	}
}

// Handle logs method, path, status and latency once the request completes.
// Server errors are logged as errors, client errors as warnings.
func (m *RequestLogger) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		args := []any{
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"latency", time.Since(start).String(),
			"client_ip", c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			args = append(args, "errors", c.Errors.String())
		}

		switch {
		case status >= 500:
			m.logger.Error("Request failed", args...)
		case status >= 400:
			m.logger.Warn("Request rejected", args...)
		default:
			m.logger.Debug("Request handled", args...)
		}
	}
}
