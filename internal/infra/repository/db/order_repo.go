package db

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/RoyceAzure/lab/pickup/internal/constants"
	"github.com/RoyceAzure/lab/pickup/internal/domain/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	// ErrOrderNotFound 訂單不存在
	ErrOrderNotFound = errors.New("order not found")
	// ErrEmptyOrder 訂單沒有明細
	ErrEmptyOrder = errors.New("order has no lines")
	// ErrInconsistentTotal 總金額與明細加總不一致
	ErrInconsistentTotal = errors.New("order total does not match its lines")
)

// 訂單只新增不修改, 沒有 update / delete
type OrderRepo struct {
	db    *DbDao
	mu    sync.Mutex // 序列化寫入
	newID func() string
	now   func() time.Time
}

type OrderRepoOption func(*OrderRepo)

// WithIDGenerator 測試時可替換 id 產生方式
func WithIDGenerator(f func() string) OrderRepoOption {
	return func(r *OrderRepo) {
		r.newID = f
	}
}

func WithClock(f func() time.Time) OrderRepoOption {
	return func(r *OrderRepo) {
		r.now = f
	}
}

func NewOrderRepo(db *DbDao, opts ...OrderRepoOption) *OrderRepo {
	r := &OrderRepo{
		db:    db,
		newID: uuid.NewString,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// CreateOrder 產生新的訂單id, 蓋上時間戳記, 在同一個transaction寫入訂單與明細
// 失敗時不會留下任何部分資料
func (s *OrderRepo) CreateOrder(ctx context.Context, customerName, phone string, lines []model.OrderLine, totalCents int64) (*model.Order, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyOrder
	}

	order := &model.Order{
		ID:           s.newID(),
		CustomerName: customerName,
		Phone:        phone,
		TotalCents:   totalCents,
		CreatedAt:    s.now().UTC(),
	}
	order.Lines = make([]model.OrderLine, len(lines))
	for i, line := range lines {
		line.ID = 0
		line.OrderID = order.ID
		line.Position = i
		order.Lines[i] = line
	}
	if order.SumLines() != totalCents {
		return nil, fmt.Errorf("%w: lines=%d total=%d", ErrInconsistentTotal, order.SumLines(), totalCents)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Lines").Create(order).Error; err != nil {
			return err
		}
		return tx.Create(&order.Lines).Error
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// ListRecent 由新到舊, limit <= 0 時使用預設值
func (s *OrderRepo) ListRecent(ctx context.Context, limit int) ([]model.Order, error) {
	if limit <= 0 {
		limit = constants.DefaultRecentOrderLimit
	}
	if limit > constants.MaxRecentOrderLimit {
		limit = constants.MaxRecentOrderLimit
	}

	var orders []model.Order
	err := s.db.WithContext(ctx).
		Preload("Lines", orderLinesByPosition).
		Order("created_at DESC").
		Order("id ASC").
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *OrderRepo) GetOrderByID(ctx context.Context, id string) (*model.Order, error) {
	var order model.Order
	err := s.db.WithContext(ctx).
		Preload("Lines", orderLinesByPosition).
		First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *OrderRepo) CountOrders(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Order{}).Count(&count).Error
	return count, err
}

func orderLinesByPosition(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}
