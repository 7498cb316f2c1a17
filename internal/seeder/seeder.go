package seeder

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Additional-Code/orders-api/internal/entity"
	repo "github.com/Additional-Code/orders-api/internal/repository/order"
)

// Module provides the Seeder to Fx.
var Module = fx.Provide(New)

// DefaultCount is the number of orders generated when no count is given.
const DefaultCount = 25

// Seeder fills the store with fake orders for local/dev setups.
type Seeder struct {
	repo   repo.Repository
	logger *zap.Logger
	faker  *gofakeit.Faker
	now    func() time.Time
}

// New constructs a Seeder writing through the order repository.
func New(r repo.Repository, logger *zap.Logger) *Seeder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Seeder{repo: r, logger: logger, faker: gofakeit.New(0), now: time.Now}
}

// WithSeed makes the generated orders deterministic.
func (s *Seeder) WithSeed(seed uint64) *Seeder {
	s.faker = gofakeit.New(seed)
	return s
}

// Orders inserts count fake orders dated within the last 90 days and returns
// how many were written. A non-positive count means DefaultCount.
func (s *Seeder) Orders(ctx context.Context, count int) (int, error) {
	if count <= 0 {
		count = DefaultCount
	}

	end := s.now().UTC()
	start := end.AddDate(0, 0, -90)
	for i := 0; i < count; i++ {
		order := s.fakeOrder(start, end)
		if err := s.repo.Create(ctx, order); err != nil {
			return i, fmt.Errorf("seed order %d: %w", i+1, err)
		}
	}

	s.logger.Info("seeded orders", zap.Int("count", count))
	return count, nil
}

func (s *Seeder) fakeOrder(start, end time.Time) *entity.Order {
	return &entity.Order{
		CustomerName: s.faker.Name(),
		Product:      s.faker.ProductName(),
		Quantity:     s.faker.Number(1, 20),
		Price:        math.Round(s.faker.Price(1, 2500)*100) / 100,
		OrderDate:    s.faker.DateRange(start, end).UTC(),
	}
}
