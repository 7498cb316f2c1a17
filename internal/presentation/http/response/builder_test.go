package response_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Additional-Code/orders-api/internal/presentation/http/response"
	"github.com/Additional-Code/orders-api/pkg/errorbank"
)

func newContext() (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	return e.NewContext(req, rec), rec
}

func TestBuildSuccess(t *testing.T) {
	c, rec := newContext()

	err := response.New(c).
		WithStatus(http.StatusCreated).
		WithLocation("/api/orders/1").
		WithData(map[string]int{"id": 1}).
		Build()
	require.NoError(t, err)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "/api/orders/1", rec.Header().Get(echo.HeaderLocation))
	assert.JSONEq(t, `{"success":true,"data":{"id":1}}`, rec.Body.String())
}

func TestBuildNoContent(t *testing.T) {
	c, rec := newContext()

	require.NoError(t, response.New(c).WithStatus(http.StatusNoContent).Build())
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestBuildError(t *testing.T) {
	c, rec := newContext()

	err := response.New(c).
		WithError(errorbank.MalformedParameter("startDate", "startDate must be an ISO-8601 date-time")).
		Build()
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":{"kind":"malformed_parameter","message":"startDate must be an ISO-8601 date-time","details":{"parameter":"startDate"}}}`, rec.Body.String())
}

func TestBuildUnknownErrorIsInternal(t *testing.T) {
	c, rec := newContext()

	require.NoError(t, response.New(c).WithError(errors.New("db down")).Build())
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":{"kind":"internal","message":"internal error"}}`, rec.Body.String())
}
