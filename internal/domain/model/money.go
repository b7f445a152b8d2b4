package model

import "github.com/shopspring/decimal"

// Cents 以最小貨幣單位表示的金額
type Cents int64

// Dollars 轉成兩位小數的 decimal, 只用於顯示
func (c Cents) Dollars() decimal.Decimal {
	return decimal.New(int64(c), -2)
}

// String 例: 2398 -> "$23.98"
func (c Cents) String() string {
	return "$" + c.Dollars().StringFixed(2)
}
