package handler

import (
	"net/http"
	"strconv"

	"github.com/RoyceAzure/lab/pickup/internal/api/dto"
	"github.com/RoyceAzure/lab/pickup/internal/service"
)

type AdminHandler struct {
	orderService service.IOrderService
}

func NewAdminHandler(orderService service.IOrderService) *AdminHandler {
	if orderService == nil {
		panic("orderService cannot be nil")
	}
	return &AdminHandler{orderService: orderService}
}

// ListOrders GET /admin/orders?limit=N
// 驗證由 AdminKeyMiddleware 處理
func (h *AdminHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}

	orders, err := h.orderService.ListRecent(r.Context(), limit)
	if err != nil {
		writeError(w, statusOf(err), service.UserMessage(err))
		return
	}
	writeJSON(w, http.StatusOK, dto.ConvertAdminOrders(orders))
}
