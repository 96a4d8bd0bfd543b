// Package middleware provides the gin middleware chain: request id,
// panic recovery, CORS, and access logging.
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"
)

// HeaderXRequestID is the request id header name.
const HeaderXRequestID = "X-Request-ID"

const requestIDKey = "request_id"

// RequestID returns a middleware that attaches a ULID request id to
// each request. An id supplied by the client is kept.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(HeaderXRequestID)
		if requestID == "" {
			requestID = ulid.Make().String()
		}

		c.Set(requestIDKey, requestID)
		c.Writer.Header().Set(HeaderXRequestID, requestID)

		c.Next()
	}
}

// GetRequestID returns the request id from the gin context, or "" when
// the RequestID middleware did not run.
func GetRequestID(c *gin.Context) string {
	if id, ok := c.Get(requestIDKey); ok {
		if s, ok := id.(string); ok {
			return s
		}
	}
	return ""
}
