package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContext() (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/rumors/r-1", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestMiddlewareWithStructuredError(t *testing.T) {
	c, rec := newTestContext()
	APIErrorsTotal.Reset()

	handler := Middleware()(func(c echo.Context) error {
		return NotFoundError("rumor not found").WithContext("rumor_id", "r-1")
	})

	require.NoError(t, handler(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "rumor not found", resp.Error)
	assert.Equal(t, TypeNotFound, resp.Type)
	assert.Equal(t, "r-1", resp.Context["rumor_id"])

	assert.Equal(t, 1.0, testutil.ToFloat64(APIErrorsTotal.WithLabelValues("not_found")))
}

func TestMiddlewareWithStandardError(t *testing.T) {
	c, rec := newTestContext()
	APIErrorsTotal.Reset()

	handler := Middleware()(func(c echo.Context) error {
		return fmt.Errorf("standard error")
	})

	require.NoError(t, handler(c))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, 1.0, testutil.ToFloat64(APIErrorsTotal.WithLabelValues("internal")))
}

func TestMiddlewareWithNoError(t *testing.T) {
	c, rec := newTestContext()

	handler := Middleware()(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	require.NoError(t, handler(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMiddlewarePassesEchoHTTPError(t *testing.T) {
	c, _ := newTestContext()
	APIErrorsTotal.Reset()

	handler := Middleware()(func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusTooManyRequests, "slow down")
	})

	err := handler(c)
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusTooManyRequests, httpErr.Code)
	assert.Equal(t, 1.0, testutil.ToFloat64(APIErrorsTotal.WithLabelValues("rate_limited")))
}

func TestMiddlewareStructuredErrorWrappingEchoError(t *testing.T) {
	c, rec := newTestContext()
	APIErrorsTotal.Reset()

	handler := Middleware()(func(c echo.Context) error {
		return MalformedInputError("bad body").WithCause(echo.NewHTTPError(http.StatusBadRequest, "syntax"))
	})

	require.NoError(t, handler(c))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, 1.0, testutil.ToFloat64(APIErrorsTotal.WithLabelValues("malformed_input")))
}

func TestHandleErrorWithNil(t *testing.T) {
	c, rec := newTestContext()

	require.NoError(t, HandleError(c, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestWrapHTTPError(t *testing.T) {
	tests := []struct {
		code     int
		wantType ErrorType
	}{
		{http.StatusBadRequest, TypeMalformedInput},
		{http.StatusUnprocessableEntity, TypeMalformedInput},
		{http.StatusNotFound, TypeNotFound},
		{http.StatusConflict, TypeConflict},
		{http.StatusTooManyRequests, TypeRateLimited},
		{http.StatusServiceUnavailable, TypeInternal},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.code), func(t *testing.T) {
			err := WrapHTTPError(echo.NewHTTPError(tt.code, "msg"))
			assert.Equal(t, tt.wantType, err.Type)
			assert.Equal(t, "msg", err.Message)
		})
	}
}

func TestWrapHTTPErrorWithNonStringMessage(t *testing.T) {
	err := WrapHTTPError(&echo.HTTPError{Code: http.StatusNotFound, Message: 42})

	assert.Equal(t, "internal error", err.Message)
}

func TestWrapHTTPErrorWithInternalCause(t *testing.T) {
	cause := fmt.Errorf("route missing")
	httpErr := echo.NewHTTPError(http.StatusNotFound, "not found").SetInternal(cause)

	err := WrapHTTPError(httpErr)

	assert.Equal(t, cause, err.Cause)
}
