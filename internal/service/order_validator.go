package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/RoyceAzure/lab/pickup/internal/domain/model"
	"github.com/RoyceAzure/lab/pickup/internal/infra/repository/db"
)

// 2^53, json number 可以精確表示的最大整數
const maxExactItemID = 1 << 53

// 2^63, 大於等於此值的 float64 無法轉成 int64
const int64Bound = float64(1 << 63)

// OrderInput 來自client, 全部視為不可信任
// Cart 保留原始 json, 每個元素只讀 id 與 qty, 其他欄位(name, price...)一律忽略
type OrderInput struct {
	CustomerName string
	Phone        string
	Cart         json.RawMessage
}

// OrderDraft 驗證後的訂單草稿, 名稱與價格皆來自 catalog
type OrderDraft struct {
	CustomerName string
	Phone        string
	Lines        []model.OrderLine
	TotalCents   int64
}

// CartLine 從購物車解析出的 item id 與正規化後的數量
type CartLine struct {
	ItemID   int64
	Quantity int64
}

/*
OrderValidator 把不可信任的購物車轉成可信任的訂單草稿
沒有共享狀態, 可以同時被多個請求使用
*/
type OrderValidator struct {
	catalog db.ICatalogRepository
}

func NewOrderValidator(catalog db.ICatalogRepository) *OrderValidator {
	if catalog == nil {
		panic("NewOrderValidator: catalog cannot be nil")
	}
	return &OrderValidator{catalog: catalog}
}

// Validate
// 錯誤:
//   - KindInvalidRequest: 缺少姓名、電話, 購物車不是陣列或為空, 金額超出 int64
//   - KindInvalidItem: 任一品項不存在或已下架, 整張訂單拒絕
//   - KindStorageUnavailable: 查詢 catalog 失敗
func (v *OrderValidator) Validate(ctx context.Context, in OrderInput) (*OrderDraft, error) {
	name := strings.TrimSpace(in.CustomerName)
	phone := strings.TrimSpace(in.Phone)
	if name == "" || phone == "" {
		return nil, newInvalidRequest("")
	}

	cart, err := ParseCart(in.Cart)
	if err != nil {
		return nil, err
	}

	ids := distinctItemIDs(cart)
	prices, err := v.catalog.PriceLookup(ctx, ids)
	if err != nil {
		return nil, newStorageUnavailable(fmt.Errorf("price lookup: %w", err))
	}

	draft := &OrderDraft{
		CustomerName: name,
		Phone:        phone,
		Lines:        make([]model.OrderLine, 0, len(cart)),
	}
	for i, line := range cart {
		entry, ok := prices[line.ItemID]
		if !ok {
			return nil, newInvalidItem(fmt.Sprintf("%s (item %d)", MsgInvalidItem, line.ItemID))
		}

		lineTotal, ok := mulCents(entry.PriceCents, line.Quantity)
		if !ok {
			return nil, newInvalidRequest(fmt.Sprintf("Quantity for item %d is too large", line.ItemID))
		}
		total, ok := addCents(draft.TotalCents, lineTotal)
		if !ok {
			return nil, newInvalidRequest("Order total is too large")
		}
		draft.TotalCents = total
		draft.Lines = append(draft.Lines, model.OrderLine{
			Position:       i,
			ItemID:         entry.ID,
			Name:           entry.Name,
			Quantity:       line.Quantity,
			PriceCents:     entry.PriceCents,
			LineTotalCents: lineTotal,
		})
	}
	return draft, nil
}

// ParseCart 解析原始購物車
// 不是陣列或為空 -> InvalidRequest
// 元素不是物件或 id 不是正整數 -> InvalidItem
func ParseCart(raw json.RawMessage) ([]CartLine, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, newInvalidRequest("")
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(trimmed, &elems); err != nil || len(elems) == 0 {
		return nil, newInvalidRequest("")
	}

	lines := make([]CartLine, 0, len(elems))
	for _, elem := range elems {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(elem, &fields); err != nil || fields == nil {
			return nil, newInvalidItem("")
		}

		id, ok := parseItemID(fields["id"])
		if !ok {
			return nil, newInvalidItem("")
		}

		qty, tooLarge := NormalizeQuantity(fields["qty"])
		if tooLarge {
			return nil, newInvalidRequest(fmt.Sprintf("Quantity for item %d is too large", id))
		}
		lines = append(lines, CartLine{ItemID: id, Quantity: qty})
	}
	return lines, nil
}

// NormalizeQuantity 數量規則 max(1, floor(qty)):
// 數字取 floor, 數字字串先解析再 floor, 缺少或無法解析時為 1, 小於 1 時為 1
// 無法以 int64 表示時 tooLarge 為 true
func NormalizeQuantity(raw json.RawMessage) (qty int64, tooLarge bool) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return 1, false
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return 1, false
	}

	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 1, false
		}
		f = parsed
	default:
		return 1, false
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 1, false
	}
	f = math.Floor(f)
	if f < 1 {
		return 1, false
	}
	if f >= int64Bound {
		return 0, true
	}
	return int64(f), false
}

func parseItemID(raw json.RawMessage) (int64, bool) {
	if len(raw) == 0 {
		return 0, false
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0, false
	}
	if f < 1 || f > maxExactItemID || f != math.Trunc(f) {
		return 0, false
	}
	return int64(f), true
}

// mulCents price 不會是負數, 溢位時 ok 為 false
func mulCents(price, qty int64) (int64, bool) {
	if price < 0 || qty < 0 {
		return 0, false
	}
	if qty != 0 && price > math.MaxInt64/qty {
		return 0, false
	}
	return price * qty, true
}

func addCents(a, b int64) (int64, bool) {
	if b > 0 && a > math.MaxInt64-b {
		return 0, false
	}
	return a + b, true
}

func distinctItemIDs(lines []CartLine) []int64 {
	seen := make(map[int64]struct{}, len(lines))
	ids := make([]int64, 0, len(lines))
	for _, line := range lines {
		if _, ok := seen[line.ItemID]; ok {
			continue
		}
		seen[line.ItemID] = struct{}{}
		ids = append(ids, line.ItemID)
	}
	return ids
}
