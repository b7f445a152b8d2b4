package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore key 為 cart:<key>, 不設過期時間
type RedisStore struct {
	client redis.Cmdable
}

func NewRedisStore(client redis.Cmdable) *RedisStore {
	if client == nil {
		panic("NewRedisStore: client cannot be nil")
	}
	return &RedisStore{client: client}
}

func redisKey(key string) string {
	return "cart:" + key
}

func (s *RedisStore) Load(ctx context.Context, key string) ([]Line, error) {
	b, err := s.client.Get(ctx, redisKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return []Line{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("獲取購物車失敗: %w", err)
	}

	var lines []Line
	if err := json.Unmarshal(b, &lines); err != nil {
		return nil, fmt.Errorf("反序列化購物車失敗: %w", err)
	}
	if lines == nil {
		lines = []Line{}
	}
	return lines, nil
}

func (s *RedisStore) Save(ctx context.Context, key string, lines []Line) error {
	if lines == nil {
		lines = []Line{}
	}
	b, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("序列化購物車失敗: %w", err)
	}
	if err := s.client.Set(ctx, redisKey(key), b, 0).Err(); err != nil {
		return fmt.Errorf("保存購物車失敗: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, redisKey(key)).Err(); err != nil {
		return fmt.Errorf("刪除購物車失敗: %w", err)
	}
	return nil
}

var _ Store = (*RedisStore)(nil)
