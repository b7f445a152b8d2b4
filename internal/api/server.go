package api

import "github.com/RoyceAzure/lab/pickup/internal/api/handler"

type Server struct {
	MenuHandler   *handler.MenuHandler
	OrderHandler  *handler.OrderHandler
	AdminHandler  *handler.AdminHandler
	HealthHandler *handler.HealthHandler
}

func NewServer(menuHandler *handler.MenuHandler, orderHandler *handler.OrderHandler, adminHandler *handler.AdminHandler, healthHandler *handler.HealthHandler) *Server {
	return &Server{
		MenuHandler:   menuHandler,
		OrderHandler:  orderHandler,
		AdminHandler:  adminHandler,
		HealthHandler: healthHandler,
	}
}
