package order

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Additional-Code/orders-api/internal/dto"
	repo "github.com/Additional-Code/orders-api/internal/repository/order"
	"github.com/Additional-Code/orders-api/pkg/errorbank"
)

// query returns a trimmed query parameter; empty means absent.
func query(c echo.Context, name string) string {
	return strings.TrimSpace(c.QueryParam(name))
}

func malformed(name, raw, message string) error {
	return errorbank.MalformedParameter(name, message, errorbank.WithDetail("value", raw))
}

func (h *Handler) pageRequest(c echo.Context, defaultSort string, defaultDir repo.Direction) (repo.PageRequest, error) {
	req := repo.PageRequest{Size: h.defaultPageSize, SortBy: defaultSort, Direction: defaultDir}

	if raw := query(c, "page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 0 {
			return req, malformed("page", raw, "page must be a non-negative integer")
		}
		req.Page = page
	}

	if raw := query(c, "size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size < 1 {
			return req, malformed("size", raw, "size must be a positive integer")
		}
		req.Size = size
	}

	if raw := query(c, "sortBy"); raw != "" {
		field, err := repo.SortField(raw)
		if err != nil {
			return req, malformed("sortBy", raw, "unsupported sort field")
		}
		req.SortBy = field
	}

	if raw := query(c, "direction"); raw != "" {
		dir, err := repo.ParseDirection(raw)
		if err != nil {
			return req, malformed("direction", raw, "direction must be asc or desc")
		}
		req.Direction = dir
	}

	return req, nil
}

func parseFilter(c echo.Context) (repo.Filter, error) {
	filter := repo.Filter{
		CustomerName: query(c, "customerName"),
		Product:      query(c, "product"),
	}

	if raw := query(c, "minQuantity"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return filter, malformed("minQuantity", raw, "minQuantity must be an integer")
		}
		filter.MinQuantity = &v
	}

	if raw := query(c, "maxPrice"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return filter, malformed("maxPrice", raw, "maxPrice must be a finite number")
		}
		filter.MaxPrice = &v
	}

	var err error
	if filter.StartDate, err = parseDateParam(c, "startDate"); err != nil {
		return filter, err
	}
	if filter.EndDate, err = parseDateParam(c, "endDate"); err != nil {
		return filter, err
	}

	return filter, nil
}

func parseDateParam(c echo.Context, name string) (*time.Time, error) {
	raw := query(c, name)
	if raw == "" {
		return nil, nil
	}
	t, err := dto.ParseDateTime(raw)
	if err != nil {
		return nil, malformed(name, raw, name+" must be an ISO-8601 date-time")
	}
	return &t, nil
}
