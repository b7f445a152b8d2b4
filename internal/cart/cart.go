package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/RoyceAzure/lab/pickup/internal/constants"
)

var (
	ErrLineIndexOutOfRange = errors.New("cart line index out of range")
	ErrInvalidItemID       = errors.New("item id must be positive")
)

// Line 購物車的一行, Name 只用來顯示, 不會送到伺服器
type Line struct {
	ItemID   int64  `json:"id"`
	Name     string `json:"name"`
	Quantity int64  `json:"qty"`
}

// PayloadLine 下單時送出的內容, 只有 id 與數量
type PayloadLine struct {
	ID  int64 `json:"id"`
	Qty int64 `json:"qty"`
}

// Store 依 key 保存購物車, 不存在時 Load 回傳空的購物車
type Store interface {
	Load(ctx context.Context, key string) ([]Line, error)
	Save(ctx context.Context, key string, lines []Line) error
	Delete(ctx context.Context, key string) error
}

/*
Accumulator 一個 client 的購物車
同一個 key 只允許單一寫入者
同一個品項加兩次會是兩行, 與下單的內容一致
*/
type Accumulator struct {
	store Store
	key   string
}

func NewAccumulator(store Store, key string) *Accumulator {
	if store == nil {
		panic("NewAccumulator: store cannot be nil")
	}
	if key == "" {
		key = constants.DefaultCartKey
	}
	return &Accumulator{store: store, key: key}
}

// Add 數量小於 1 時視為 1
func (a *Accumulator) Add(ctx context.Context, itemID int64, displayName string, qty int64) ([]Line, error) {
	if itemID <= 0 {
		return nil, ErrInvalidItemID
	}
	if qty < 1 {
		qty = 1
	}

	lines, err := a.store.Load(ctx, a.key)
	if err != nil {
		return nil, err
	}
	lines = append(lines, Line{ItemID: itemID, Name: displayName, Quantity: qty})
	if err := a.store.Save(ctx, a.key, lines); err != nil {
		return nil, err
	}
	return lines, nil
}

// Remove index 從 0 開始
func (a *Accumulator) Remove(ctx context.Context, index int) ([]Line, error) {
	lines, err := a.store.Load(ctx, a.key)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(lines) {
		return nil, fmt.Errorf("%w: %d (cart has %d lines)", ErrLineIndexOutOfRange, index, len(lines))
	}

	lines = append(lines[:index], lines[index+1:]...)
	if err := a.store.Save(ctx, a.key, lines); err != nil {
		return nil, err
	}
	return lines, nil
}

func (a *Accumulator) Clear(ctx context.Context) error {
	return a.store.Delete(ctx, a.key)
}

func (a *Accumulator) Lines(ctx context.Context) ([]Line, error) {
	return a.store.Load(ctx, a.key)
}

func (a *Accumulator) TotalQuantity(ctx context.Context) (int64, error) {
	lines, err := a.store.Load(ctx, a.key)
	if err != nil {
		return 0, err
	}
	var total int64
	for _, l := range lines {
		total += l.Quantity
	}
	return total, nil
}

// OrderPayload 去掉顯示名稱, 價格由伺服器決定
func (a *Accumulator) OrderPayload(ctx context.Context) ([]PayloadLine, error) {
	lines, err := a.store.Load(ctx, a.key)
	if err != nil {
		return nil, err
	}
	return ToPayload(lines), nil
}

func ToPayload(lines []Line) []PayloadLine {
	payload := make([]PayloadLine, 0, len(lines))
	for _, l := range lines {
		payload = append(payload, PayloadLine{ID: l.ItemID, Qty: l.Quantity})
	}
	return payload
}
