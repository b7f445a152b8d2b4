package model

import "time"

// Order 建立後不可變更
// TotalCents 必須等於所有 Lines 的 LineTotalCents 加總
type Order struct {
	ID           string      `gorm:"primaryKey;type:varchar(36)" json:"id"`
	CustomerName string      `gorm:"not null;type:varchar(100)" json:"customer_name"`
	Phone        string      `gorm:"not null;type:varchar(50)" json:"phone"`
	Lines        []OrderLine `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"lines"`
	TotalCents   int64       `gorm:"not null" json:"total_cents"`
	CreatedAt    time.Time   `gorm:"not null;index" json:"created_at"`
}

func (Order) TableName() string {
	return "orders"
}

// SumLines 重新計算明細加總, 用來檢查 TotalCents
func (o *Order) SumLines() int64 {
	var sum int64
	for _, line := range o.Lines {
		sum += line.LineTotalCents
	}
	return sum
}

// OrderLine name 與 price 都是下單當下從catalog複製，不取自client
type OrderLine struct {
	ID             uint64 `gorm:"primaryKey" json:"-"`
	OrderID        string `gorm:"not null;type:varchar(36);index" json:"-"`
	Position       int    `gorm:"not null" json:"position"`
	ItemID         int64  `gorm:"not null" json:"item_id"`
	Name           string `gorm:"not null;type:varchar(100)" json:"name"`
	Quantity       int64  `gorm:"not null" json:"quantity"`
	PriceCents     int64  `gorm:"not null" json:"price_cents"`
	LineTotalCents int64  `gorm:"not null" json:"line_total_cents"`
}

func (OrderLine) TableName() string {
	return "order_lines"
}
