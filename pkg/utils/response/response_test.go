package response_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/WaliBandawu/Clinical-Notes-Assistant/pkg/utils/errors"
	"github.com/WaliBandawu/Clinical-Notes-Assistant/pkg/utils/response"
)

func TestSuccess(t *testing.T) {
	resp := response.Success(map[string]int{"count": 3})
	assert.True(t, resp.IsSuccess())
	assert.Equal(t, 0, resp.Code)
	assert.Equal(t, "success", resp.Message)
	assert.Equal(t, http.StatusOK, resp.HTTPStatus())
}

func TestErrFromErrno(t *testing.T) {
	resp := response.Err(errors.ErrCorpusNotFound)
	assert.False(t, resp.IsSuccess())
	assert.Equal(t, errors.ErrCorpusNotFound.Code, resp.Code)
	assert.Equal(t, http.StatusNotFound, resp.HTTPStatus())
}

func TestErrNil(t *testing.T) {
	resp := response.Err(nil)
	assert.True(t, resp.IsSuccess())
}

func TestHTTPStatusCategoryFallback(t *testing.T) {
	// An unregistered code resolves through its category.
	code := errors.MakeCode(99, errors.CategoryRequest, 999)
	resp := response.ErrorWithCode(code, "bad request")
	assert.Equal(t, http.StatusBadRequest, resp.HTTPStatus())

	code = errors.MakeCode(99, errors.CategoryTimeout, 999)
	resp = response.ErrorWithCode(code, "timed out")
	assert.Equal(t, http.StatusGatewayTimeout, resp.HTTPStatus())
}

func TestWithRequestIDAndTimestamp(t *testing.T) {
	resp := response.Success(nil).WithRequestID("req-1").WithTimestamp(1700000000000)
	assert.Equal(t, "req-1", resp.RequestID)
	assert.Equal(t, int64(1700000000000), resp.Timestamp)
}
