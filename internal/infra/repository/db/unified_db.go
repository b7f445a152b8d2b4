package db

import (
	"context"

	"github.com/RoyceAzure/lab/pickup/internal/domain/model"
	"gorm.io/gorm"
)

// UnifiedDB 統一的資料庫介面
type UnifiedDB interface {
	// 基礎操作
	GetDB() *gorm.DB
	InitMigrate() error
	Close() error

	// Catalog 相關操作
	ICatalogRepository

	// Order 相關操作
	IOrderRepository
}

// ICatalogRepository Catalog 相關操作介面
type ICatalogRepository interface {
	ListActive(ctx context.Context) ([]model.MenuItem, error)
	PriceLookup(ctx context.Context, ids []int64) (map[int64]model.CatalogEntry, error)
	CreateMenuItem(ctx context.Context, item *model.MenuItem) error
	CountMenuItems(ctx context.Context) (int64, error)
}

// IOrderRepository Order 相關操作介面
type IOrderRepository interface {
	CreateOrder(ctx context.Context, customerName, phone string, lines []model.OrderLine, totalCents int64) (*model.Order, error)
	ListRecent(ctx context.Context, limit int) ([]model.Order, error)
	GetOrderByID(ctx context.Context, id string) (*model.Order, error)
	CountOrders(ctx context.Context) (int64, error)
}

// UnifiedDBImpl 統一資料庫實現
type UnifiedDBImpl struct {
	dbDao *DbDao
	*MenuRepo
	*OrderRepo
}

// NewUnifiedDB 創建新的統一資料庫實例
func NewUnifiedDB(db *gorm.DB, opts ...OrderRepoOption) *UnifiedDBImpl {
	dbDao := NewDbDao(db)
	return &UnifiedDBImpl{
		dbDao:     dbDao,
		MenuRepo:  NewMenuRepo(dbDao),
		OrderRepo: NewOrderRepo(dbDao, opts...),
	}
}

func (u *UnifiedDBImpl) InitMigrate() error {
	return u.dbDao.InitMigrate()
}

// GetDB 獲取資料庫連接
func (u *UnifiedDBImpl) GetDB() *gorm.DB {
	return u.dbDao.DB
}

func (u *UnifiedDBImpl) Close() error {
	return u.dbDao.Close()
}

var (
	_ UnifiedDB          = (*UnifiedDBImpl)(nil)
	_ ICatalogRepository = (*MenuRepo)(nil)
	_ IOrderRepository   = (*OrderRepo)(nil)
)
