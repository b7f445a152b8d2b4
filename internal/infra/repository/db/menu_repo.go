package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/RoyceAzure/lab/pickup/internal/domain/model"
)

var (
	// ErrInvalidMenuItem 品項資料不合法
	ErrInvalidMenuItem = errors.New("invalid menu item")
)

/*
Catalog 唯讀路徑: 瀏覽菜單 與 下單計價
下單計價永遠直接查 db, 不經過 cache
*/
type MenuRepo struct {
	db *DbDao
}

func NewMenuRepo(db *DbDao) *MenuRepo {
	return &MenuRepo{db: db}
}

// ListActive 只回傳上架品項, 依 category, name 排序
func (s *MenuRepo) ListActive(ctx context.Context) ([]model.MenuItem, error) {
	var items []model.MenuItem
	err := s.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("category ASC").
		Order("name ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// PriceLookup 以一次參數化查詢取得指定 id 的價格快照
// 不存在或已下架的 id 不會出現在結果中, 由呼叫端視為無效品項
func (s *MenuRepo) PriceLookup(ctx context.Context, ids []int64) (map[int64]model.CatalogEntry, error) {
	result := make(map[int64]model.CatalogEntry, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var rows []model.MenuItem
	err := s.db.WithContext(ctx).
		Select("id", "name", "price_cents").
		Where("id IN ?", ids).
		Where("is_active = ?", true).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		result[row.ID] = model.CatalogEntry{
			ID:         row.ID,
			Name:       row.Name,
			PriceCents: row.PriceCents,
		}
	}
	return result, nil
}

// CreateMenuItem 給 seed 與測試使用
func (s *MenuRepo) CreateMenuItem(ctx context.Context, item *model.MenuItem) error {
	if err := validateMenuItem(item); err != nil {
		return err
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *MenuRepo) CountMenuItems(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.MenuItem{}).Count(&count).Error
	return count, err
}

func validateMenuItem(item *model.MenuItem) error {
	if item == nil {
		return fmt.Errorf("%w: nil item", ErrInvalidMenuItem)
	}
	if strings.TrimSpace(item.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidMenuItem)
	}
	if item.PriceCents < 0 {
		return fmt.Errorf("%w: %s has negative price", ErrInvalidMenuItem, item.Name)
	}
	if strings.TrimSpace(item.Category) == "" {
		item.Category = "Pizza"
	}
	return nil
}
