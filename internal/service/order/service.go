package order

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Additional-Code/orders-api/internal/config"
	"github.com/Additional-Code/orders-api/internal/entity"
	"github.com/Additional-Code/orders-api/internal/observability"
	repo "github.com/Additional-Code/orders-api/internal/repository/order"
	"github.com/Additional-Code/orders-api/pkg/errorbank"
)

const instrumentationName = "github.com/Additional-Code/orders-api/service/order"

var serviceTracer = otel.Tracer(instrumentationName)

// Service encapsulates business logic around orders.
type Service struct {
	repo        repo.Repository
	logger      *zap.Logger
	maxPageSize int
	operations  metric.Int64Counter
	results     metric.Int64Histogram
}

// Params defines dependencies for constructing Service.
type Params struct {
	fx.In

	Repository repo.Repository
	Config     config.Config
	Logger     *zap.Logger
}

// NewService wires a new Service instance.
func NewService(p Params) *Service {
	logger := p.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Service{
		repo:        p.Repository,
		logger:      logger,
		maxPageSize: p.Config.Orders.MaxPageSize,
	}
	s.initMetrics(otel.Meter(instrumentationName))
	return s
}

func (s *Service) initMetrics(meter metric.Meter) {
	var err error
	s.operations, err = meter.Int64Counter(observability.OperationsCounter,
		metric.WithDescription("Order operations by name and outcome"))
	if err != nil {
		s.logger.Warn("orders counter unavailable", zap.Error(err))
		s.operations = noop.Int64Counter{}
	}
	s.results, err = meter.Int64Histogram(observability.SearchResultsHistogram,
		metric.WithDescription("Orders matched by a search, before paging"))
	if err != nil {
		s.logger.Warn("orders search histogram unavailable", zap.Error(err))
		s.results = noop.Int64Histogram{}
	}
}

// Create validates and persists a new order.
func (s *Service) Create(ctx context.Context, order *entity.Order) error {
	if order == nil {
		return errorbank.BadRequest("order payload is required")
	}
	ctx, span := serviceTracer.Start(ctx, "OrderService.Create", trace.WithAttributes(attribute.String("order.product", order.Product)))
	defer span.End()

	err := s.repo.Create(ctx, order)
	s.record(ctx, "create", err)
	if err != nil {
		return s.mapError(span, "create", err)
	}

	s.logger.Info("order created", zap.Int64("id", order.ID), zap.String("product", order.Product))
	return nil
}

// Get retrieves an order by id.
func (s *Service) Get(ctx context.Context, id int64) (*entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.Get", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	order, err := s.repo.GetByID(ctx, id)
	s.record(ctx, "get", err)
	if err != nil {
		return nil, s.mapError(span, "load", err)
	}
	return order, nil
}

// List returns one page of all orders.
func (s *Service) List(ctx context.Context, req repo.PageRequest) (*repo.Page, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.List")
	defer span.End()

	page, err := s.repo.List(ctx, s.clamp(req))
	s.record(ctx, "list", err)
	if err != nil {
		return nil, s.mapError(span, "list", err)
	}
	return page, nil
}

// Search returns one page of orders matching the filter.
func (s *Service) Search(ctx context.Context, filter repo.Filter, req repo.PageRequest) (*repo.Page, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.Search")
	defer span.End()

	page, err := s.repo.Search(ctx, filter, s.clamp(req))
	s.record(ctx, "search", err)
	if err != nil {
		return nil, s.mapError(span, "search", err)
	}
	s.results.Record(ctx, int64(page.TotalItems), metric.WithAttributes(
		attribute.Bool("filtered", !filter.IsEmpty()),
	))
	return page, nil
}

// Update replaces every mutable field of an existing order.
func (s *Service) Update(ctx context.Context, id int64, fields *entity.Order) (*entity.Order, error) {
	if fields == nil {
		return nil, errorbank.BadRequest("order payload is required")
	}
	ctx, span := serviceTracer.Start(ctx, "OrderService.Update", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	order, err := s.repo.Update(ctx, id, fields)
	s.record(ctx, "update", err)
	if err != nil {
		return nil, s.mapError(span, "update", err)
	}

	s.logger.Info("order updated", zap.Int64("id", id))
	return order, nil
}

// Delete removes an order.
func (s *Service) Delete(ctx context.Context, id int64) error {
	ctx, span := serviceTracer.Start(ctx, "OrderService.Delete", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	err := s.repo.Delete(ctx, id)
	s.record(ctx, "delete", err)
	if err != nil {
		return s.mapError(span, "delete", err)
	}

	s.logger.Info("order deleted", zap.Int64("id", id))
	return nil
}

func (s *Service) clamp(req repo.PageRequest) repo.PageRequest {
	if s.maxPageSize > 0 && req.Size > s.maxPageSize {
		req.Size = s.maxPageSize
	}
	return req
}

func (s *Service) record(ctx context.Context, op string, err error) {
	outcome := "ok"
	switch {
	case err == nil:
	case errors.Is(err, repo.ErrNotFound):
		outcome = "not_found"
	case isClientError(err):
		outcome = "invalid"
	default:
		outcome = "error"
	}
	s.operations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", op),
		attribute.String("outcome", outcome),
	))
}

func isClientError(err error) bool {
	var verr *entity.ValidationError
	return errors.As(err, &verr) ||
		errors.Is(err, repo.ErrInvalidSortField) ||
		errors.Is(err, repo.ErrInvalidDirection)
}

// mapError translates repository failures into errorbank kinds. Only
// unexpected store failures are logged and recorded on the span.
func (s *Service) mapError(span trace.Span, op string, err error) error {
	var verr *entity.ValidationError
	switch {
	case errors.As(err, &verr):
		return errorbank.Validation("order validation failed", errorbank.WithDetail("fields", verr.Fields))
	case errors.Is(err, repo.ErrNotFound):
		s.logger.Debug("order not found", zap.String("operation", op))
		return errorbank.NotFound("order not found")
	case errors.Is(err, repo.ErrInvalidSortField):
		return errorbank.MalformedParameter("sortBy", "unsupported sort field", errorbank.WithCause(err))
	case errors.Is(err, repo.ErrInvalidDirection):
		return errorbank.MalformedParameter("direction", "direction must be asc or desc", errorbank.WithCause(err))
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, "repository error")
	s.logger.Error("order repository failed", zap.String("operation", op), zap.Error(err))
	return errorbank.Internal("failed to "+op+" order", errorbank.WithCause(err))
}
