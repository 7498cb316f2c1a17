package seeder_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Additional-Code/orders-api/internal/database/dbtest"
	"github.com/Additional-Code/orders-api/internal/entity"
	repo "github.com/Additional-Code/orders-api/internal/repository/order"
	"github.com/Additional-Code/orders-api/internal/repository/order/ordermock"
	"github.com/Additional-Code/orders-api/internal/seeder"
)

func TestOrdersPersistsValidOrders(t *testing.T) {
	ctx := context.Background()
	store := repo.NewRepository(dbtest.New(t))

	n, err := seeder.New(store, zap.NewNop()).WithSeed(42).Orders(ctx, 12)
	require.NoError(t, err)
	assert.Equal(t, 12, n)

	page, err := store.List(ctx, repo.PageRequest{Size: 50, SortBy: repo.ListSortBy, Direction: repo.ListDirection})
	require.NoError(t, err)
	assert.Equal(t, 12, page.TotalItems)
	for i := range page.Items {
		assert.NoError(t, page.Items[i].Validate())
	}
}

func TestOrdersDefaultsCount(t *testing.T) {
	ctrl := gomock.NewController(t)
	mock := ordermock.NewMockRepository(ctrl)
	mock.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil).Times(seeder.DefaultCount)

	n, err := seeder.New(mock, nil).Orders(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, seeder.DefaultCount, n)
}

func TestOrdersStopsOnStoreFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	mock := ordermock.NewMockRepository(ctrl)
	boom := errors.New("boom")
	gomock.InOrder(
		mock.EXPECT().Create(gomock.Any(), gomock.AssignableToTypeOf(&entity.Order{})).Return(nil),
		mock.EXPECT().Create(gomock.Any(), gomock.Any()).Return(boom),
	)

	n, err := seeder.New(mock, zap.NewNop()).Orders(context.Background(), 5)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, n)
	assert.Contains(t, err.Error(), "seed order 2")
}
