// Package httputils provides HTTP utility functions.
package httputils

import (
	"github.com/gin-gonic/gin"

	"github.com/WaliBandawu/Clinical-Notes-Assistant/internal/pkg/middleware"
	"github.com/WaliBandawu/Clinical-Notes-Assistant/pkg/utils/errors"
	"github.com/WaliBandawu/Clinical-Notes-Assistant/pkg/utils/response"
)

// WriteResponse writes the response to the client. It handles both
// success and error cases, ensuring a consistent response format.
func WriteResponse(c *gin.Context, err error, data interface{}) {
	var resp *response.Response

	if err != nil {
		// Non-Errno errors collapse to a generic internal error so raw
		// internals never reach the client.
		resp = response.Err(errors.FromError(err))
	} else {
		resp = response.Success(data)
	}

	if requestID := middleware.GetRequestID(c); requestID != "" {
		resp.WithRequestID(requestID)
	}

	c.JSON(resp.HTTPStatus(), resp)
}
