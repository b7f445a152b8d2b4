package redis_client

import (
	"context"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
)

var (
	_instances = sync.Map{}
)

// GetRedisClient 同一個 address 共用一個 client
func GetRedisClient(address string, options ...Option) (*redis.Client, error) {
	if address == "" {
		return nil, fmt.Errorf("redis address is required")
	}
	client, ok := _instances.Load(address)
	if !ok {
		client, _ = _instances.LoadOrStore(address, createRedisClient(address, options...))
	}

	return client.(*redis.Client), nil
}

// Ping 啟動時確認連線
func Ping(ctx context.Context, client *redis.Client) error {
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping %s: %w", client.Options().Addr, err)
	}
	return nil
}

// CloseAll 關閉所有 client
func CloseAll() error {
	var firstErr error
	_instances.Range(func(key, value any) bool {
		if err := value.(*redis.Client).Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		_instances.Delete(key)
		return true
	})
	return firstErr
}

func createRedisClient(address string, options ...Option) *redis.Client {
	opts := &redis.Options{
		Addr: address,
	}

	for _, option := range options {
		option(opts)
	}

	return redis.NewClient(opts)
}

type Option func(*redis.Options)

func WithPassword(password string) Option {
	return func(o *redis.Options) {
		o.Password = password
	}
}

func WithDB(db int) Option {
	return func(o *redis.Options) {
		o.DB = db
	}
}

func WithPoolSize(poolSize int) Option {
	return func(o *redis.Options) {
		o.PoolSize = poolSize
	}
}
