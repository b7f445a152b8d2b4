package dto

import (
	"encoding/json"
	"time"

	"github.com/RoyceAzure/lab/pickup/internal/domain/model"
)

// PlaceOrderRequest cart 保留原始 json, 交給 validator 解析
type PlaceOrderRequest struct {
	CustomerName string          `json:"customer_name"`
	Phone        string          `json:"phone"`
	Cart         json.RawMessage `json:"cart"`
}

type PlaceOrderResponse struct {
	OK         bool   `json:"ok"`
	OrderID    string `json:"order_id"`
	TotalCents int64  `json:"total_cents"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type OrderLineDTO struct {
	ItemID         int64  `json:"item_id"`
	Name           string `json:"name"`
	Quantity       int64  `json:"quantity"`
	PriceCents     int64  `json:"price_cents"`
	LineTotalCents int64  `json:"line_total_cents"`
}

type AdminOrderDTO struct {
	ID           string         `json:"id"`
	CustomerName string         `json:"customer_name"`
	Phone        string         `json:"phone"`
	Lines        []OrderLineDTO `json:"lines"`
	TotalCents   int64          `json:"total_cents"`
	Total        string         `json:"total"`
	CreatedAt    time.Time      `json:"created_at"`
}

type AdminOrdersResponse struct {
	Orders []AdminOrderDTO `json:"orders"`
}

func ConvertAdminOrders(orders []model.Order) AdminOrdersResponse {
	res := AdminOrdersResponse{Orders: make([]AdminOrderDTO, 0, len(orders))}
	for _, o := range orders {
		lines := make([]OrderLineDTO, 0, len(o.Lines))
		for _, l := range o.Lines {
			lines = append(lines, OrderLineDTO{
				ItemID:         l.ItemID,
				Name:           l.Name,
				Quantity:       l.Quantity,
				PriceCents:     l.PriceCents,
				LineTotalCents: l.LineTotalCents,
			})
		}
		res.Orders = append(res.Orders, AdminOrderDTO{
			ID:           o.ID,
			CustomerName: o.CustomerName,
			Phone:        o.Phone,
			Lines:        lines,
			TotalCents:   o.TotalCents,
			Total:        model.Cents(o.TotalCents).Dollars().StringFixed(2),
			CreatedAt:    o.CreatedAt,
		})
	}
	return res
}
