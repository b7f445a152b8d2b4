package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/RoyceAzure/lab/pickup/internal/domain/model"
	"github.com/RoyceAzure/lab/pickup/internal/infra/repository/db"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockCatalogRepo struct {
	mock.Mock
}

func (m *mockCatalogRepo) ListActive(ctx context.Context) ([]model.MenuItem, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]model.MenuItem)
	return items, args.Error(1)
}

func (m *mockCatalogRepo) PriceLookup(ctx context.Context, ids []int64) (map[int64]model.CatalogEntry, error) {
	args := m.Called(ctx, ids)
	prices, _ := args.Get(0).(map[int64]model.CatalogEntry)
	return prices, args.Error(1)
}

func (m *mockCatalogRepo) CreateMenuItem(ctx context.Context, item *model.MenuItem) error {
	return m.Called(ctx, item).Error(0)
}

func (m *mockCatalogRepo) CountMenuItems(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type mockOrderRepo struct {
	mock.Mock
}

func (m *mockOrderRepo) CreateOrder(ctx context.Context, customerName, phone string, lines []model.OrderLine, totalCents int64) (*model.Order, error) {
	args := m.Called(ctx, customerName, phone, lines, totalCents)
	order, _ := args.Get(0).(*model.Order)
	return order, args.Error(1)
}

func (m *mockOrderRepo) ListRecent(ctx context.Context, limit int) ([]model.Order, error) {
	args := m.Called(ctx, limit)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Error(1)
}

func (m *mockOrderRepo) GetOrderByID(ctx context.Context, id string) (*model.Order, error) {
	args := m.Called(ctx, id)
	order, _ := args.Get(0).(*model.Order)
	return order, args.Error(1)
}

func (m *mockOrderRepo) CountOrders(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// newSeededStore in-memory sqlite 加上預設菜單, Cheese 的 id 為 3
func newSeededStore(t *testing.T) *db.UnifiedDBImpl {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", uuid.NewString())
	conn, err := db.GetSqliteConn(dsn)
	require.NoError(t, err)

	store := db.NewUnifiedDB(conn)
	require.NoError(t, store.InitMigrate())
	t.Cleanup(func() {
		store.Close()
	})

	items, err := db.LoadMenuSeed("")
	require.NoError(t, err)
	_, err = db.SeedMenuIfEmpty(context.Background(), store, items)
	require.NoError(t, err)
	return store
}
