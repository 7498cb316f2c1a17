package dto

import (
	"encoding/json"
	"fmt"
	"time"
)

// OrderRequest is the body accepted by create and full update.
type OrderRequest struct {
	CustomerName string    `json:"customerName"`
	Product      string    `json:"product"`
	Quantity     int       `json:"quantity"`
	Price        float64   `json:"price"`
	OrderDate    *DateTime `json:"orderDate,omitempty"`
}

// OrderResponse represents an order as exposed via transport layers.
type OrderResponse struct {
	ID           int64     `json:"id"`
	CustomerName string    `json:"customerName"`
	Product      string    `json:"product"`
	Quantity     int       `json:"quantity"`
	Price        float64   `json:"price"`
	OrderDate    time.Time `json:"orderDate"`
}

// OrderPageResponse is the envelope of the paginated endpoints.
type OrderPageResponse struct {
	Orders      []OrderResponse `json:"orders"`
	CurrentPage int             `json:"currentPage"`
	PageSize    int             `json:"pageSize"`
	TotalItems  int             `json:"totalItems"`
	TotalPages  int             `json:"totalPages"`
	SortBy      string          `json:"sortBy"`
	Direction   string          `json:"direction"`
}

var dateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
}

// ParseDateTime reads an ISO-8601 date-time. Values without an offset are UTC.
func ParseDateTime(raw string) (time.Time, error) {
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid ISO-8601 date-time %q", raw)
}

// DateTime decodes JSON strings with ParseDateTime.
type DateTime struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *DateTime) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if raw == "" {
		return nil
	}
	t, err := ParseDateTime(raw)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}
