package redis_repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/RoyceAzure/lab/pickup/internal/domain/model"
	"github.com/redis/go-redis/v9"
)

var ErrCacheMiss = errors.New("cache miss")

const activeMenuKey = "menu:active"

// IMenuRedisRepository 只快取瀏覽用的上架菜單, 不快取價格查詢
type IMenuRedisRepository interface {
	GetActiveMenu(ctx context.Context) ([]model.MenuItem, error)
	SetActiveMenu(ctx context.Context, items []model.MenuItem, ttl time.Duration) error
	DeleteActiveMenu(ctx context.Context) error
}

type MenuRedisRepo struct {
	client *redis.Client
	prefix string
}

func NewMenuRedisRepo(client *redis.Client, prefix string) *MenuRedisRepo {
	return &MenuRedisRepo{client: client, prefix: prefix}
}

func (r *MenuRedisRepo) key(k string) string {
	if r.prefix == "" {
		return k
	}
	var builder strings.Builder
	builder.Grow(len(r.prefix) + 1 + len(k))
	builder.WriteString(r.prefix)
	builder.WriteString(":")
	builder.WriteString(k)
	return builder.String()
}

// GetActiveMenu 錯誤:
//   - ErrCacheMiss: key 不存在
//   - err: 其他錯誤
func (r *MenuRedisRepo) GetActiveMenu(ctx context.Context) ([]model.MenuItem, error) {
	data, err := r.client.Get(ctx, r.key(activeMenuKey)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get active menu: %w", err)
	}

	var items []model.MenuItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to decode active menu: %w", err)
	}
	return items, nil
}

func (r *MenuRedisRepo) SetActiveMenu(ctx context.Context, items []model.MenuItem, ttl time.Duration) error {
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.key(activeMenuKey), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set active menu: %w", err)
	}
	return nil
}

func (r *MenuRedisRepo) DeleteActiveMenu(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key(activeMenuKey)).Err(); err != nil {
		return fmt.Errorf("failed to delete active menu: %w", err)
	}
	return nil
}

var _ IMenuRedisRepository = (*MenuRedisRepo)(nil)
