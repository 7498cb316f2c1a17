package order

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/uptrace/bun"

	"github.com/Additional-Code/orders-api/internal/entity"
)

// Direction is the sort order of a paginated query.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// DefaultPageSize applies when a PageRequest carries no size.
const DefaultPageSize = 10

var (
	// ErrInvalidSortField is returned for sort fields outside the whitelist.
	ErrInvalidSortField = errors.New("invalid sort field")
	// ErrInvalidDirection is returned for directions other than asc/desc.
	ErrInvalidDirection = errors.New("invalid sort direction")
)

// sortColumns maps accepted sort names onto the canonical API name and column.
var sortColumns = map[string]struct{ name, column string }{
	"id":            {"id", "id"},
	"customername":  {"customerName", "customer_name"},
	"customer_name": {"customerName", "customer_name"},
	"product":       {"product", "product"},
	"quantity":      {"quantity", "quantity"},
	"price":         {"price", "price"},
	"orderdate":     {"orderDate", "order_date"},
	"order_date":    {"orderDate", "order_date"},
}

// ParseDirection accepts asc/desc in any case.
func ParseDirection(raw string) (Direction, error) {
	switch Direction(strings.ToLower(strings.TrimSpace(raw))) {
	case Asc:
		return Asc, nil
	case Desc:
		return Desc, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidDirection, raw)
	}
}

// SortField resolves a user supplied sort name to its canonical API name.
func SortField(raw string) (string, error) {
	col, ok := sortColumns[strings.ToLower(strings.TrimSpace(raw))]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidSortField, raw)
	}
	return col.name, nil
}

// PageRequest selects a zero-based page and its ordering.
type PageRequest struct {
	Page      int
	Size      int
	SortBy    string
	Direction Direction
}

// Page is a bounded slice of a result set plus count metadata.
type Page struct {
	Items      []entity.Order
	Page       int
	PageSize   int
	TotalItems int
	TotalPages int
	SortBy     string
	Direction  Direction
}

// Filter holds the optional search predicates. Blank strings and nil
// pointers impose no constraint.
type Filter struct {
	CustomerName string
	Product      string
	MinQuantity  *int
	MaxPrice     *float64
	StartDate    *time.Time
	EndDate      *time.Time
}

// IsEmpty reports whether the filter constrains nothing.
func (f Filter) IsEmpty() bool {
	return strings.TrimSpace(f.CustomerName) == "" &&
		strings.TrimSpace(f.Product) == "" &&
		f.MinQuantity == nil && f.MaxPrice == nil &&
		f.StartDate == nil && f.EndDate == nil
}

func (f Filter) apply(q *bun.SelectQuery) *bun.SelectQuery {
	if v := strings.TrimSpace(f.CustomerName); v != "" {
		q = q.Where("LOWER(customer_name) LIKE ? ESCAPE '!'", containsPattern(v))
	}
	if v := strings.TrimSpace(f.Product); v != "" {
		q = q.Where("LOWER(product) LIKE ? ESCAPE '!'", containsPattern(v))
	}
	if f.MinQuantity != nil {
		q = q.Where("quantity >= ?", *f.MinQuantity)
	}
	if f.MaxPrice != nil {
		q = q.Where("price <= ?", *f.MaxPrice)
	}
	if f.StartDate != nil {
		q = q.Where("order_date >= ?", f.StartDate.UTC())
	}
	if f.EndDate != nil {
		q = q.Where("order_date <= ?", f.EndDate.UTC())
	}
	return q
}

// likeEscaper makes LIKE wildcards in user input match literally. '!' is the
// escape character because MySQL treats a backslash inside literals specially.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func containsPattern(v string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(v)) + "%"
}

// resolve fills defaults and validates the requested ordering. It returns the
// normalised request and the column to order by.
func (p PageRequest) resolve(defaultSort string, defaultDir Direction) (PageRequest, string, error) {
	if p.Page < 0 {
		p.Page = 0
	}
	if p.Size <= 0 {
		p.Size = DefaultPageSize
	}
	if strings.TrimSpace(p.SortBy) == "" {
		p.SortBy = defaultSort
	}
	if p.Direction == "" {
		p.Direction = defaultDir
	}

	dir, err := ParseDirection(string(p.Direction))
	if err != nil {
		return p, "", err
	}
	p.Direction = dir

	col, ok := sortColumns[strings.ToLower(strings.TrimSpace(p.SortBy))]
	if !ok {
		return p, "", fmt.Errorf("%w: %q", ErrInvalidSortField, p.SortBy)
	}
	p.SortBy = col.name

	return p, col.column, nil
}

// offset returns the number of rows to skip; ok is false when it does not fit an int.
func (p PageRequest) offset() (n int, ok bool) {
	if p.Size > 0 && p.Page > math.MaxInt/p.Size {
		return 0, false
	}
	return p.Page * p.Size, true
}

func (p PageRequest) apply(q *bun.SelectQuery, column string, offset int) *bun.SelectQuery {
	dir := strings.ToUpper(string(p.Direction))
	q = q.OrderExpr("? "+dir, bun.Ident(column))
	if column != "id" {
		q = q.OrderExpr("? "+dir, bun.Ident("id"))
	}
	return q.Limit(p.Size).Offset(offset)
}

func totalPages(total, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	return (total + size - 1) / size
}
