package redis_decorator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/RoyceAzure/lab/pickup/internal/domain/model"
	"github.com/RoyceAzure/lab/pickup/internal/infra/repository/redis_repo"
	"github.com/rs/zerolog"
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

type mockMenuRedis struct {
	mock.Mock
}

func (m *mockMenuRedis) GetActiveMenu(ctx context.Context) ([]model.MenuItem, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]model.MenuItem)
	return items, args.Error(1)
}

func (m *mockMenuRedis) SetActiveMenu(ctx context.Context, items []model.MenuItem, ttl time.Duration) error {
	return m.Called(ctx, items, ttl).Error(0)
}

func (m *mockMenuRedis) DeleteActiveMenu(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

var testMenu = []model.MenuItem{
	{ID: 3, Name: "Cheese", PriceCents: 1199, Category: "Pizza", IsActive: true},
}

func TestListActive_CacheHit(t *testing.T) {
	ctx := context.Background()
	dbRepo := new(mockCatalogRepo)
	cache := new(mockMenuRedis)
	cache.On("GetActiveMenu", ctx).Return(testMenu, nil)

	repo := NewCacheAsideMenuRepo(dbRepo, cache, time.Minute, zerolog.Nop())
	items, err := repo.ListActive(ctx)
	require.NoError(t, err)
	require.Equal(t, testMenu, items)

	dbRepo.AssertNotCalled(t, "ListActive", mock.Anything)
	cache.AssertExpectations(t)
}

func TestListActive_CacheMissFillsCache(t *testing.T) {
	ctx := context.Background()
	dbRepo := new(mockCatalogRepo)
	cache := new(mockMenuRedis)
	cache.On("GetActiveMenu", ctx).Return(nil, redis_repo.ErrCacheMiss)
	dbRepo.On("ListActive", ctx).Return(testMenu, nil)
	cache.On("SetActiveMenu", ctx, testMenu, time.Minute).Return(nil)

	repo := NewCacheAsideMenuRepo(dbRepo, cache, time.Minute, zerolog.Nop())
	items, err := repo.ListActive(ctx)
	require.NoError(t, err)
	require.Equal(t, testMenu, items)

	dbRepo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestListActive_RedisDownFallsBackToDB(t *testing.T) {
	ctx := context.Background()
	dbRepo := new(mockCatalogRepo)
	cache := new(mockMenuRedis)
	cache.On("GetActiveMenu", ctx).Return(nil, errors.New("connection refused"))
	cache.On("SetActiveMenu", ctx, testMenu, time.Minute).Return(errors.New("connection refused"))
	dbRepo.On("ListActive", ctx).Return(testMenu, nil)

	repo := NewCacheAsideMenuRepo(dbRepo, cache, time.Minute, zerolog.Nop())
	items, err := repo.ListActive(ctx)
	require.NoError(t, err)
	require.Equal(t, testMenu, items)
}

func TestListActive_DBError(t *testing.T) {
	ctx := context.Background()
	dbRepo := new(mockCatalogRepo)
	cache := new(mockMenuRedis)
	cache.On("GetActiveMenu", ctx).Return(nil, redis_repo.ErrCacheMiss)
	dbRepo.On("ListActive", ctx).Return(nil, errors.New("db down"))

	repo := NewCacheAsideMenuRepo(dbRepo, cache, time.Minute, zerolog.Nop())
	_, err := repo.ListActive(ctx)
	require.Error(t, err)
	cache.AssertNotCalled(t, "SetActiveMenu", mock.Anything, mock.Anything, mock.Anything)
}

func TestPriceLookup_BypassesCache(t *testing.T) {
	ctx := context.Background()
	dbRepo := new(mockCatalogRepo)
	cache := new(mockMenuRedis)
	prices := map[int64]model.CatalogEntry{3: {ID: 3, Name: "Cheese", PriceCents: 1199}}
	dbRepo.On("PriceLookup", ctx, []int64{3}).Return(prices, nil)

	repo := NewCacheAsideMenuRepo(dbRepo, cache, time.Minute, zerolog.Nop())
	got, err := repo.PriceLookup(ctx, []int64{3})
	require.NoError(t, err)
	require.Equal(t, prices, got)
	cache.AssertNotCalled(t, "GetActiveMenu", mock.Anything)
}

func TestCreateMenuItem_InvalidatesCache(t *testing.T) {
	ctx := context.Background()
	dbRepo := new(mockCatalogRepo)
	cache := new(mockMenuRedis)
	item := &model.MenuItem{Name: "Garlic Knots", PriceCents: 499, IsActive: true}
	dbRepo.On("CreateMenuItem", ctx, item).Return(nil)
	cache.On("DeleteActiveMenu", ctx).Return(nil)

	repo := NewCacheAsideMenuRepo(dbRepo, cache, time.Minute, zerolog.Nop())
	require.NoError(t, repo.CreateMenuItem(ctx, item))
	cache.AssertExpectations(t)
}
