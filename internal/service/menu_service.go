package service

import (
	"context"

	"github.com/RoyceAzure/lab/pickup/internal/domain/model"
	"github.com/RoyceAzure/lab/pickup/internal/infra/repository/db"
	"github.com/rs/zerolog"
)

type IMenuService interface {
	ListMenu(ctx context.Context) ([]model.MenuItem, error)
}

// MenuService 只回傳上架中的品項, 依 category, name 排序
type MenuService struct {
	catalog db.ICatalogRepository
	logger  zerolog.Logger
}

func NewMenuService(catalog db.ICatalogRepository, logger zerolog.Logger) *MenuService {
	if catalog == nil {
		panic("NewMenuService: catalog cannot be nil")
	}
	return &MenuService{
		catalog: catalog,
		logger:  logger.With().Str("component", "menu_service").Logger(),
	}
}

func (s *MenuService) ListMenu(ctx context.Context) ([]model.MenuItem, error) {
	items, err := s.catalog.ListActive(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list menu")
		return nil, newStorageUnavailable(err)
	}
	if items == nil {
		items = []model.MenuItem{}
	}
	return items, nil
}

var _ IMenuService = (*MenuService)(nil)
