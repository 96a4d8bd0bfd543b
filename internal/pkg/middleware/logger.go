package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kart-io/logger"
)

// AccessLogConfig defines the config for the access log middleware.
type AccessLogConfig struct {
	// SkipPaths is a list of paths to skip logging.
	SkipPaths []string
}

// DefaultAccessLogConfig skips the health probe.
var DefaultAccessLogConfig = AccessLogConfig{
	SkipPaths: []string{"/api/health"},
}

// AccessLog returns a middleware that logs each HTTP request through
// the global structured logger.
func AccessLog() gin.HandlerFunc {
	return AccessLogWithConfig(DefaultAccessLogConfig)
}

// AccessLogWithConfig returns an access log middleware with a custom config.
func AccessLogWithConfig(config AccessLogConfig) gin.HandlerFunc {
	skipPaths := make(map[string]bool, len(config.SkipPaths))
	for _, path := range config.SkipPaths {
		skipPaths[path] = true
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if skipPaths[path] {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		fields := []interface{}{
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"remote_addr", c.ClientIP(),
			"latency_ms", latency.Milliseconds(),
		}
		if requestID := GetRequestID(c); requestID != "" {
			fields = append(fields, "request_id", requestID)
		}

		logger.Infow("HTTP Request", fields...)
	}
}
