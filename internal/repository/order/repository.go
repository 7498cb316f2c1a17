package order

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Additional-Code/orders-api/internal/database"
	"github.com/Additional-Code/orders-api/internal/entity"
)

//go:generate mockgen -destination=ordermock/mock_repository.go -package=ordermock . Repository

var repoTracer = otel.Tracer("github.com/Additional-Code/orders-api/repository/order")

// ErrNotFound is returned when an order is missing.
var ErrNotFound = errors.New("order not found")

// Default orderings of the paginated operations.
const (
	ListSortBy      = "id"
	ListDirection   = Asc
	SearchSortBy    = "orderDate"
	SearchDirection = Desc
)

const dateStoragePrecision = time.Microsecond

// Repository is the persistence boundary for orders.
type Repository interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id int64) (*entity.Order, error)
	List(ctx context.Context, req PageRequest) (*Page, error)
	Update(ctx context.Context, id int64, fields *entity.Order) (*entity.Order, error)
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, filter Filter, req PageRequest) (*Page, error)
}

// BunRepository implements Repository on top of bun, sending reads to the
// replica when one is configured.
type BunRepository struct {
	writer *bun.DB
	reader *bun.DB
	now    func() time.Time
}

// NewRepository wires a repository backed by configured database connections.
func NewRepository(conns *database.Connections) *BunRepository {
	return &BunRepository{
		writer: conns.Writer,
		reader: conns.Reader,
		now:    time.Now,
	}
}

// Create validates and persists a new order; the store assigns its ID. A zero
// OrderDate defaults to the current time.
func (r *BunRepository) Create(ctx context.Context, order *entity.Order) error {
	if order == nil {
		return errors.New("nil order")
	}
	ctx, span := repoTracer.Start(ctx, "OrderRepository.Create", trace.WithAttributes(attribute.String("order.product", order.Product)))
	defer span.End()

	if order.OrderDate.IsZero() {
		order.OrderDate = r.now()
	}
	order.OrderDate = normalizeDate(order.OrderDate)

	if err := order.Validate(); err != nil {
		span.SetStatus(codes.Error, "invalid order")
		return err
	}

	order.ID = 0
	if _, err := r.writer.NewInsert().Model(order).Exec(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
		return err
	}
	span.SetAttributes(attribute.Int64("order.id", order.ID))
	return nil
}

// GetByID fetches an order by primary key using the read replica when available.
func (r *BunRepository) GetByID(ctx context.Context, id int64) (*entity.Order, error) {
	ctx, span := repoTracer.Start(ctx, "OrderRepository.GetByID", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	order := new(entity.Order)
	err := r.reader.NewSelect().Model(order).Where("id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		span.SetStatus(codes.Error, "not found")
		return nil, ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return order, nil
}

// List returns one page of all orders, ordered by id ascending unless the
// request says otherwise.
func (r *BunRepository) List(ctx context.Context, req PageRequest) (*Page, error) {
	ctx, span := repoTracer.Start(ctx, "OrderRepository.List")
	defer span.End()

	return r.page(ctx, span, Filter{}, req, ListSortBy, ListDirection)
}

// Search returns one page of the orders matching every supplied filter,
// newest first unless the request says otherwise.
func (r *BunRepository) Search(ctx context.Context, filter Filter, req PageRequest) (*Page, error) {
	ctx, span := repoTracer.Start(ctx, "OrderRepository.Search", trace.WithAttributes(
		attribute.Bool("search.filtered", !filter.IsEmpty()),
	))
	defer span.End()

	return r.page(ctx, span, filter, req, SearchSortBy, SearchDirection)
}

func (r *BunRepository) page(ctx context.Context, span trace.Span, filter Filter, req PageRequest, defaultSort string, defaultDir Direction) (*Page, error) {
	req, column, err := req.resolve(defaultSort, defaultDir)
	if err != nil {
		span.SetStatus(codes.Error, "invalid page request")
		return nil, err
	}
	span.SetAttributes(
		attribute.Int("page.number", req.Page),
		attribute.Int("page.size", req.Size),
		attribute.String("page.sort", req.SortBy+" "+string(req.Direction)),
	)

	orders := make([]entity.Order, 0)
	q := filter.apply(r.reader.NewSelect().Model(&orders))

	var total int
	if offset, ok := req.offset(); ok {
		total, err = req.apply(q, column, offset).ScanAndCount(ctx)
	} else {
		// An offset past math.MaxInt is past every row; only the total is needed.
		total, err = q.Count(ctx)
	}
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	span.SetAttributes(attribute.Int("page.total", total))

	return &Page{
		Items:      orders,
		Page:       req.Page,
		PageSize:   req.Size,
		TotalItems: total,
		TotalPages: totalPages(total, req.Size),
		SortBy:     req.SortBy,
		Direction:  req.Direction,
	}, nil
}

// Update replaces every mutable field of an existing order inside a single
// transaction. Unknown ids yield ErrNotFound and leave the store untouched.
func (r *BunRepository) Update(ctx context.Context, id int64, fields *entity.Order) (*entity.Order, error) {
	if fields == nil {
		return nil, errors.New("nil order")
	}
	ctx, span := repoTracer.Start(ctx, "OrderRepository.Update", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	// The stored date survives a replacement without one, so only check the rest here.
	candidate := *fields
	if candidate.OrderDate.IsZero() {
		candidate.OrderDate = r.now()
	}
	if err := candidate.Validate(); err != nil {
		span.SetStatus(codes.Error, "invalid order")
		return nil, err
	}

	var updated *entity.Order
	err := r.writer.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		existing := new(entity.Order)
		if err := tx.NewSelect().Model(existing).Where("id = ?", id).Scan(ctx); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}

		existing.Replace(fields)
		existing.OrderDate = normalizeDate(existing.OrderDate)

		if _, err := tx.NewUpdate().Model(existing).WherePK().Exec(ctx); err != nil {
			return err
		}
		updated = existing
		return nil
	})
	if errors.Is(err, ErrNotFound) {
		span.SetStatus(codes.Error, "not found")
		return nil, ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "update failed")
		return nil, err
	}
	return updated, nil
}

// Delete removes an order, returning ErrNotFound when no row matched.
func (r *BunRepository) Delete(ctx context.Context, id int64) error {
	ctx, span := repoTracer.Start(ctx, "OrderRepository.Delete", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	res, err := r.writer.NewDelete().Model((*entity.Order)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "delete failed")
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "rows affected unavailable")
		return err
	}
	if n == 0 {
		span.SetStatus(codes.Error, "not found")
		return ErrNotFound
	}
	return nil
}

// normalizeDate stores dates in UTC at the precision every supported dialect keeps.
func normalizeDate(t time.Time) time.Time {
	return t.UTC().Truncate(dateStoragePrecision)
}
