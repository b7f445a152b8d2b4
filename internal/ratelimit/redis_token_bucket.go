package ratelimit

import (
	"context"
	"math"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RedisClient 只需要 Eval, 方便替換
type RedisClient interface {
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

// now 與 last_refill 以毫秒計
const tokenBucketScript = `
local key = KEYS[1]
local capacity = tonumber(ARGV[1])
local rate = tonumber(ARGV[2])
local now = tonumber(ARGV[3])
local ttl = tonumber(ARGV[4])

local bucket = redis.call('HMGET', key, 'tokens', 'last_refill')
local tokens = tonumber(bucket[1])
local lastRefill = tonumber(bucket[2])

if tokens == nil then
	tokens = capacity
	lastRefill = now
end

local elapsed = (now - lastRefill) / 1000
if elapsed > 0 then
	tokens = math.min(capacity, tokens + elapsed * rate)
	lastRefill = now
end

local allowed = 0
if tokens >= 1 then
	tokens = tokens - 1
	allowed = 1
end

redis.call('HSET', key, 'tokens', tostring(tokens), 'last_refill', tostring(lastRefill))
redis.call('EXPIRE', key, ttl)
return allowed
`

/*
RedisTokenBucket 多個 instance 共用同一組 bucket
redis 失敗時放行, 限流不應該讓下單失敗
*/
type RedisTokenBucket struct {
	cfg    LimiterConfig
	client RedisClient
	prefix string
	now    func() time.Time
	logger zerolog.Logger
}

func NewRedisTokenBucket(client RedisClient, cfg LimiterConfig, prefix string, logger zerolog.Logger, opts ...Option) *RedisTokenBucket {
	if client == nil {
		panic("NewRedisTokenBucket: client cannot be nil")
	}
	if prefix == "" {
		prefix = "ratelimit"
	}
	o := buildOptions(opts)
	return &RedisTokenBucket{
		cfg:    cfg.withDefaults(),
		client: client,
		prefix: prefix,
		now:    o.now,
		logger: logger,
	}
}

func (r *RedisTokenBucket) Allow(ctx context.Context, key string) bool {
	result, err := r.client.Eval(
		ctx,
		tokenBucketScript,
		[]string{r.prefix + ":" + key},
		r.cfg.Capacity,
		r.cfg.Rate,
		r.now().UnixMilli(),
		r.keyTTLSeconds(),
	).Int64()
	if err != nil {
		r.logger.Warn().Err(err).Str("key", key).Msg("redis rate limiter failed, allow request")
		return true
	}
	return result == 1
}

// keyTTLSeconds bucket 從空到滿所需的時間, 之後 key 消失等同補滿
func (r *RedisTokenBucket) keyTTLSeconds() int64 {
	secs := int64(math.Ceil(float64(r.cfg.Capacity) / r.cfg.Rate))
	if secs < 1 {
		secs = 1
	}
	return secs + 1
}

var _ Limiter = (*RedisTokenBucket)(nil)
