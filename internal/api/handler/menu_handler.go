package handler

import (
	"net/http"

	"github.com/RoyceAzure/lab/pickup/internal/api/dto"
	"github.com/RoyceAzure/lab/pickup/internal/service"
)

type MenuHandler struct {
	menuService service.IMenuService
}

func NewMenuHandler(menuService service.IMenuService) *MenuHandler {
	if menuService == nil {
		panic("menuService cannot be nil")
	}
	return &MenuHandler{menuService: menuService}
}

// GetMenu GET /api/menu
func (h *MenuHandler) GetMenu(w http.ResponseWriter, r *http.Request) {
	items, err := h.menuService.ListMenu(r.Context())
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "Menu is temporarily unavailable")
		return
	}
	writeJSON(w, http.StatusOK, dto.ConvertMenuItems(items))
}
