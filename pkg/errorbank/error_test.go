package errorbank_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Additional-Code/orders-api/pkg/errorbank"
)

func TestStatusCodes(t *testing.T) {
	tests := []struct {
		err  *errorbank.AppError
		want int
	}{
		{errorbank.BadRequest("bad"), http.StatusBadRequest},
		{errorbank.Validation("invalid"), http.StatusBadRequest},
		{errorbank.MalformedParameter("page", "page must be a number"), http.StatusBadRequest},
		{errorbank.NotFound("missing"), http.StatusNotFound},
		{errorbank.Internal("boom"), http.StatusInternalServerError},
		{nil, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.err.StatusCode(), "kind %s", tt.err.Kind())
	}
}

func TestMalformedParameterCarriesName(t *testing.T) {
	err := errorbank.MalformedParameter("startDate", "invalid date", errorbank.WithDetail("value", "yesterday"))
	assert.Equal(t, "startDate", err.Details()["parameter"])
	assert.Equal(t, "yesterday", err.Details()["value"])
}

func TestFromWrapsUnknownErrors(t *testing.T) {
	cause := errors.New("connection refused")

	appErr := errorbank.From(cause)
	require.NotNil(t, appErr)
	assert.Equal(t, errorbank.KindInternal, appErr.Kind())
	assert.ErrorIs(t, appErr, cause)

	nf := errorbank.NotFound("order not found")
	wrapped := fmt.Errorf("handler: %w", nf)
	assert.Same(t, nf, errorbank.From(wrapped))
	assert.True(t, errorbank.IsKind(wrapped, errorbank.KindNotFound))
	assert.False(t, errorbank.IsKind(cause, errorbank.KindNotFound))

	assert.Nil(t, errorbank.From(nil))
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "not_found", errorbank.New(errorbank.KindNotFound, "").Error())
	assert.Equal(t, "load: disk", errorbank.Internal("load", errorbank.WithCause(errors.New("disk"))).Error())
	assert.Equal(t, map[string]any{"a": 1, "b": 2},
		errorbank.Validation("x", errorbank.WithDetails(map[string]any{"a": 1, "b": 2})).Details())
}
