package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/RoyceAzure/lab/pickup/internal/api/dto"
	"github.com/RoyceAzure/lab/pickup/internal/service"
)

const maxOrderBodyBytes = 64 << 10

type OrderHandler struct {
	orderService service.IOrderService
}

func NewOrderHandler(orderService service.IOrderService) *OrderHandler {
	if orderService == nil {
		panic("orderService cannot be nil")
	}
	return &OrderHandler{orderService: orderService}
}

// PlaceOrder POST /api/order
// 價格一律由伺服器端計算, body 內的 name/price 不會被使用
func (h *OrderHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req dto.PlaceOrderRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxOrderBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, service.MsgInvalidRequest)
		return
	}
	// body 只能有一個 json 值
	var extra json.RawMessage
	if err := dec.Decode(&extra); err != io.EOF {
		writeError(w, http.StatusBadRequest, service.MsgInvalidRequest)
		return
	}

	order, err := h.orderService.Submit(r.Context(), service.OrderInput{
		CustomerName: req.CustomerName,
		Phone:        req.Phone,
		Cart:         req.Cart,
	})
	if err != nil {
		writeError(w, statusOf(err), service.UserMessage(err))
		return
	}

	writeJSON(w, http.StatusOK, dto.PlaceOrderResponse{
		OK:         true,
		OrderID:    order.ID,
		TotalCents: order.TotalCents,
	})
}

func statusOf(err error) int {
	switch service.KindOf(err) {
	case service.KindInvalidRequest, service.KindInvalidItem:
		return http.StatusBadRequest
	case service.KindStorageUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
