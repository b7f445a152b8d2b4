package model

import "time"

// MenuItem 菜單品項，價格唯一真相來源
// IsActive=false 的品項不可瀏覽也不可下單
type MenuItem struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"not null;type:varchar(100);index:idx_menu_items_category_name,priority:2" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	PriceCents  int64     `gorm:"not null" json:"price_cents"`
	Category    string    `gorm:"not null;type:varchar(50);index:idx_menu_items_category_name,priority:1" json:"category"`
	IsActive    bool      `gorm:"not null" json:"is_active"`
	CreatedAt   time.Time `gorm:"not null" json:"-"`
}

func (MenuItem) TableName() string {
	return "menu_items"
}

// CatalogEntry 下單時從catalog取出的快照，只含計價需要的欄位
type CatalogEntry struct {
	ID         int64
	Name       string
	PriceCents int64
}
