package handler

import (
	"context"
	"net/http"
)

type HealthHandler struct {
	ping func(ctx context.Context) error
}

// NewHealthHandler ping 為 nil 時只回報 process 存活
func NewHealthHandler(ping func(ctx context.Context) error) *HealthHandler {
	return &HealthHandler{ping: ping}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if h.ping != nil {
		if err := h.ping(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "DOWN"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "UP"})
}
