package order

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Additional-Code/orders-api/internal/config"
	"github.com/Additional-Code/orders-api/internal/dto"
	"github.com/Additional-Code/orders-api/internal/entity"
	"github.com/Additional-Code/orders-api/internal/presentation/http/response"
	repo "github.com/Additional-Code/orders-api/internal/repository/order"
	service "github.com/Additional-Code/orders-api/internal/service/order"
	"github.com/Additional-Code/orders-api/pkg/errorbank"
)

// BasePath is the mount point of the order endpoints.
const BasePath = "/api/orders"

var httpTracer = otel.Tracer("github.com/Additional-Code/orders-api/transport/http/order")

// Handler exposes order endpoints over HTTP.
type Handler struct {
	svc             *service.Service
	defaultPageSize int
}

// NewHandler constructs an order Handler.
func NewHandler(svc *service.Service, cfg config.Config) *Handler {
	size := cfg.Orders.DefaultPageSize
	if size <= 0 {
		size = repo.DefaultPageSize
	}
	return &Handler{svc: svc, defaultPageSize: size}
}

// Register routes with provided Echo instance.
func Register(e *echo.Echo, h *Handler) {
	g := e.Group(BasePath)
	g.POST("", h.create)
	g.GET("", h.list)
	g.GET("/search", h.search)
	g.GET("/:id", h.getByID)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.delete)
}

func (h *Handler) create(c echo.Context) error {
	b := response.New(c)

	order, err := bindOrder(c)
	if err != nil {
		return b.WithError(err).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.create")
	span.SetAttributes(attribute.String("order.product", order.Product))
	defer span.End()

	if err := h.svc.Create(ctx, order); err != nil {
		return b.WithError(err).Build()
	}

	return b.WithStatus(http.StatusCreated).
		WithLocation(fmt.Sprintf("%s/%d", BasePath, order.ID)).
		WithData(toDTO(order)).
		Build()
}

func (h *Handler) getByID(c echo.Context) error {
	b := response.New(c)

	id, err := parseID(c)
	if err != nil {
		return b.WithError(err).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.getByID", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	order, err := h.svc.Get(ctx, id)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(toDTO(order)).Build()
}

func (h *Handler) list(c echo.Context) error {
	b := response.New(c)

	req, err := h.pageRequest(c, repo.ListSortBy, repo.ListDirection)
	if err != nil {
		return b.WithError(err).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.list")
	defer span.End()

	page, err := h.svc.List(ctx, req)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(toPageDTO(page)).Build()
}

func (h *Handler) search(c echo.Context) error {
	b := response.New(c)

	req, err := h.pageRequest(c, repo.SearchSortBy, repo.SearchDirection)
	if err != nil {
		return b.WithError(err).Build()
	}
	filter, err := parseFilter(c)
	if err != nil {
		return b.WithError(err).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.search", trace.WithAttributes(
		attribute.Bool("search.filtered", !filter.IsEmpty()),
	))
	defer span.End()

	page, err := h.svc.Search(ctx, filter, req)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(toPageDTO(page)).Build()
}

func (h *Handler) update(c echo.Context) error {
	b := response.New(c)

	id, err := parseID(c)
	if err != nil {
		return b.WithError(err).Build()
	}
	fields, err := bindOrder(c)
	if err != nil {
		return b.WithError(err).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.update", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	order, err := h.svc.Update(ctx, id, fields)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(toDTO(order)).Build()
}

func (h *Handler) delete(c echo.Context) error {
	b := response.New(c)

	id, err := parseID(c)
	if err != nil {
		return b.WithError(err).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.delete", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	if err := h.svc.Delete(ctx, id); err != nil {
		return b.WithError(err).Build()
	}

	return b.WithStatus(http.StatusNoContent).Build()
}

func bindOrder(c echo.Context) (*entity.Order, error) {
	var payload dto.OrderRequest
	if err := (&echo.DefaultBinder{}).BindBody(c, &payload); err != nil {
		return nil, errorbank.BadRequest("invalid payload", errorbank.WithCause(err))
	}

	order := &entity.Order{
		CustomerName: strings.TrimSpace(payload.CustomerName),
		Product:      strings.TrimSpace(payload.Product),
		Quantity:     payload.Quantity,
		Price:        payload.Price,
	}
	if payload.OrderDate != nil {
		order.OrderDate = payload.OrderDate.Time
	}
	return order, nil
}

func parseID(c echo.Context) (int64, error) {
	raw := c.Param("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errorbank.MalformedParameter("id", "id must be a positive integer", errorbank.WithDetail("value", raw))
	}
	return id, nil
}

func toDTO(order *entity.Order) dto.OrderResponse {
	return dto.OrderResponse{
		ID:           order.ID,
		CustomerName: order.CustomerName,
		Product:      order.Product,
		Quantity:     order.Quantity,
		Price:        order.Price,
		OrderDate:    order.OrderDate.UTC(),
	}
}

func toPageDTO(page *repo.Page) dto.OrderPageResponse {
	orders := make([]dto.OrderResponse, 0, len(page.Items))
	for i := range page.Items {
		orders = append(orders, toDTO(&page.Items[i]))
	}
	return dto.OrderPageResponse{
		Orders:      orders,
		CurrentPage: page.Page,
		PageSize:    page.PageSize,
		TotalItems:  page.TotalItems,
		TotalPages:  page.TotalPages,
		SortBy:      page.SortBy,
		Direction:   string(page.Direction),
	}
}
