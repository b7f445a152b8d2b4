package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/RoyceAzure/lab/pickup/internal/domain/model"
	"github.com/RoyceAzure/lab/pickup/internal/infra/repository/db"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type OrderServiceSuite struct {
	suite.Suite
	store   *db.UnifiedDBImpl
	service *OrderService
}

func (s *OrderServiceSuite) SetupTest() {
	s.store = newSeededStore(s.T())
	s.service = NewOrderService(NewOrderValidator(s.store), s.store, zerolog.Nop())
}

func (s *OrderServiceSuite) orderCount() int64 {
	n, err := s.store.CountOrders(context.Background())
	s.Require().NoError(err)
	return n
}

func (s *OrderServiceSuite) TestSubmit() {
	order, err := s.service.Submit(context.Background(), validInput(`[{"id":3,"qty":2}]`))
	s.Require().NoError(err)
	s.NotEmpty(order.ID)
	s.Equal(int64(2398), order.TotalCents)

	stored, err := s.service.GetOrder(context.Background(), order.ID)
	s.Require().NoError(err)
	s.Equal("Ana", stored.CustomerName)
	s.Require().Len(stored.Lines, 1)
	s.Equal("Cheese", stored.Lines[0].Name)
	s.Equal(stored.SumLines(), stored.TotalCents)
}

func (s *OrderServiceSuite) TestSubmitInvalidItemWritesNothing() {
	_, err := s.service.Submit(context.Background(), validInput(`[{"id":3,"qty":1},{"id":99,"qty":1}]`))
	s.Require().Error(err)
	s.Equal(KindInvalidItem, KindOf(err))
	s.Equal(int64(0), s.orderCount())
}

func (s *OrderServiceSuite) TestSubmitInvalidRequestWritesNothing() {
	in := OrderInput{CustomerName: "", Phone: "555", Cart: json.RawMessage(`[{"id":3}]`)}
	_, err := s.service.Submit(context.Background(), in)
	s.Require().Error(err)
	s.Equal(KindInvalidRequest, KindOf(err))
	s.Equal(int64(0), s.orderCount())
}

func (s *OrderServiceSuite) TestResubmitCreatesTwoOrders() {
	in := validInput(`[{"id":1,"qty":1}]`)
	first, err := s.service.Submit(context.Background(), in)
	s.Require().NoError(err)
	second, err := s.service.Submit(context.Background(), in)
	s.Require().NoError(err)

	s.NotEqual(first.ID, second.ID)
	s.Equal(int64(2), s.orderCount())
}

func (s *OrderServiceSuite) TestConcurrentSubmit() {
	const n = 20
	var wg sync.WaitGroup
	ids := make([]string, n)
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			order, err := s.service.Submit(context.Background(), validInput(`[{"id":2,"qty":1},{"id":4,"qty":2}]`))
			errs[i] = err
			if order != nil {
				ids[i] = order.ID
			}
		}(i)
	}
	wg.Wait()

	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		s.Require().NoError(errs[i])
		seen[ids[i]] = struct{}{}
	}
	s.Len(seen, n)
	s.Equal(int64(n), s.orderCount())

	orders, err := s.service.ListRecent(context.Background(), 0)
	s.Require().NoError(err)
	s.Len(orders, n)
	for _, o := range orders {
		s.Equal(int64(1399+2*699), o.TotalCents)
		s.Equal(o.SumLines(), o.TotalCents)
	}
}

func (s *OrderServiceSuite) TestGetOrderNotFound() {
	_, err := s.service.GetOrder(context.Background(), "missing")
	s.ErrorIs(err, db.ErrOrderNotFound)
}

func TestOrderServiceSuite(t *testing.T) {
	suite.Run(t, new(OrderServiceSuite))
}

func TestSubmit_StoreFailureIsStorageUnavailable(t *testing.T) {
	catalog := &mockCatalogRepo{}
	catalog.On("PriceLookup", mock.Anything, []int64{3}).Return(map[int64]model.CatalogEntry{
		3: {ID: 3, Name: "Cheese", PriceCents: 1199},
	}, nil)
	orders := &mockOrderRepo{}
	orders.On("CreateOrder", mock.Anything, "Ana", "555-0100", mock.Anything, int64(1199)).
		Return(nil, errors.New("disk full"))

	svc := NewOrderService(NewOrderValidator(catalog), orders, zerolog.Nop())
	order, err := svc.Submit(context.Background(), validInput(`[{"id":3}]`))
	require.Nil(t, order)
	require.Equal(t, KindStorageUnavailable, KindOf(err))
	require.Equal(t, MsgStorageUnavailable, UserMessage(err))
	require.NotContains(t, UserMessage(err), "disk full")
	orders.AssertExpectations(t)
}

func TestListRecent_StoreFailure(t *testing.T) {
	orders := &mockOrderRepo{}
	orders.On("ListRecent", mock.Anything, 10).Return(nil, errors.New("db down"))

	svc := NewOrderService(NewOrderValidator(&mockCatalogRepo{}), orders, zerolog.Nop())
	_, err := svc.ListRecent(context.Background(), 10)
	require.Equal(t, KindStorageUnavailable, KindOf(err))
}

func TestMenuService(t *testing.T) {
	store := newSeededStore(t)
	svc := NewMenuService(store, zerolog.Nop())

	items, err := svc.ListMenu(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 6)
	require.Equal(t, "Dessert", items[0].Category)

	catalog := &mockCatalogRepo{}
	catalog.On("ListActive", mock.Anything).Return(nil, errors.New("db down"))
	_, err = NewMenuService(catalog, zerolog.Nop()).ListMenu(context.Background())
	require.Equal(t, KindStorageUnavailable, KindOf(err))
}
