package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/kart-io/logger"

	"github.com/WaliBandawu/Clinical-Notes-Assistant/pkg/utils/errors"
	"github.com/WaliBandawu/Clinical-Notes-Assistant/pkg/utils/response"
)

// Recovery returns a middleware that converts panics into a 500
// envelope. Panic details are logged, never returned to the client.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Errorw("panic recovered",
					"panic", r,
					"method", c.Request.Method,
					"path", c.Request.URL.Path,
					"request_id", GetRequestID(c),
					"stack", string(debug.Stack()),
				)

				resp := response.Err(errors.ErrInternal)
				if requestID := GetRequestID(c); requestID != "" {
					resp.WithRequestID(requestID)
				}
				c.AbortWithStatusJSON(http.StatusInternalServerError, resp)
			}
		}()

		c.Next()
	}
}
