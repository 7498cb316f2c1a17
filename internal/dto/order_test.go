package dto_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Additional-Code/orders-api/internal/dto"
)

func TestParseDateTime(t *testing.T) {
	want := time.Date(2025, 3, 10, 12, 30, 0, 0, time.UTC)

	for _, raw := range []string{
		"2025-03-10T12:30:00Z",
		"2025-03-10T14:30:00+02:00",
		"2025-03-10T12:30:00",
		"2025-03-10T12:30:00.000",
		"2025-03-10T12:30",
	} {
		got, err := dto.ParseDateTime(raw)
		require.NoError(t, err, raw)
		assert.True(t, want.Equal(got), raw)
		assert.Equal(t, time.UTC, got.Location())
	}

	for _, raw := range []string{"", "yesterday", "2025-03-10", "10/03/2025 12:30"} {
		_, err := dto.ParseDateTime(raw)
		assert.Error(t, err, raw)
	}
}

func TestOrderRequestDecodesLocalDateTime(t *testing.T) {
	var req dto.OrderRequest
	body := `{"customerName":"Carlos","product":"Headphones","quantity":1,"price":1999,"orderDate":"2025-03-10T12:30:00"}`
	require.NoError(t, json.Unmarshal([]byte(body), &req))
	require.NotNil(t, req.OrderDate)
	assert.Equal(t, time.Date(2025, 3, 10, 12, 30, 0, 0, time.UTC), req.OrderDate.Time)

	var missing dto.OrderRequest
	require.NoError(t, json.Unmarshal([]byte(`{"orderDate":null}`), &missing))
	assert.Nil(t, missing.OrderDate)

	assert.Error(t, json.Unmarshal([]byte(`{"orderDate":"soon"}`), &req))
}
