package redis_decorator

import (
	"context"
	"errors"
	"time"

	"github.com/RoyceAzure/lab/pickup/internal/domain/model"
	"github.com/RoyceAzure/lab/pickup/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/pickup/internal/infra/repository/redis_repo"
	"github.com/rs/zerolog"
)

/*
cache-aside, 只處理瀏覽用的 ListActive
PriceLookup 直接走 db, 下單金額一定用 db 的價格
redis 失敗時退回 db, 不影響請求
*/
type CacheAsideMenuRepo struct {
	db.ICatalogRepository
	redis  redis_repo.IMenuRedisRepository
	ttl    time.Duration
	logger zerolog.Logger
}

func NewCacheAsideMenuRepo(dbRepo db.ICatalogRepository, redis redis_repo.IMenuRedisRepository, ttl time.Duration, logger zerolog.Logger) *CacheAsideMenuRepo {
	if dbRepo == nil || redis == nil {
		panic("NewCacheAsideMenuRepo: repository implementation cannot be nil")
	}
	return &CacheAsideMenuRepo{
		ICatalogRepository: dbRepo,
		redis:              redis,
		ttl:                ttl,
		logger:             logger,
	}
}

func (p *CacheAsideMenuRepo) ListActive(ctx context.Context) ([]model.MenuItem, error) {
	items, err := p.redis.GetActiveMenu(ctx)
	if err == nil {
		return items, nil
	}
	if !errors.Is(err, redis_repo.ErrCacheMiss) {
		p.logger.Warn().Err(err).Msg("menu cache read failed, fallback to db")
	}

	items, err = p.ICatalogRepository.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	if err := p.redis.SetActiveMenu(ctx, items, p.ttl); err != nil {
		p.logger.Warn().Err(err).Msg("menu cache write failed")
	}
	return items, nil
}

func (p *CacheAsideMenuRepo) CreateMenuItem(ctx context.Context, item *model.MenuItem) error {
	if err := p.ICatalogRepository.CreateMenuItem(ctx, item); err != nil {
		return err
	}
	if err := p.redis.DeleteActiveMenu(ctx); err != nil {
		p.logger.Warn().Err(err).Int64("menu_item_id", item.ID).Msg("menu cache invalidate failed")
	}
	return nil
}

var _ db.ICatalogRepository = (*CacheAsideMenuRepo)(nil)
