package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type RedisTokenBucketSuite struct {
	suite.Suite
	mr     *miniredis.Miniredis
	client *redis.Client
	clock  *fakeClock
	ctx    context.Context
}

func (s *RedisTokenBucketSuite) SetupTest() {
	s.mr = miniredis.RunT(s.T())
	s.client = redis.NewClient(&redis.Options{Addr: s.mr.Addr()})
	s.clock = newFakeClock()
	s.ctx = context.Background()
}

func (s *RedisTokenBucketSuite) TearDownTest() {
	s.client.Close()
}

func (s *RedisTokenBucketSuite) newLimiter(capacity int, rate float64) *RedisTokenBucket {
	return NewRedisTokenBucket(s.client, LimiterConfig{Capacity: capacity, Rate: rate}, "test", zerolog.Nop(), WithClock(s.clock.Now))
}

func (s *RedisTokenBucketSuite) TestBasicRateLimit() {
	limiter := s.newLimiter(3, 1)
	for i := 0; i < 3; i++ {
		s.True(limiter.Allow(s.ctx, "ip"), "應該允許第 %d 次請求", i+1)
	}
	s.False(limiter.Allow(s.ctx, "ip"), "超過容量限制應該被拒絕")
	s.True(s.mr.Exists("test:ip"))
}

func (s *RedisTokenBucketSuite) TestRefill() {
	limiter := s.newLimiter(2, 1)
	s.True(limiter.Allow(s.ctx, "ip"))
	s.True(limiter.Allow(s.ctx, "ip"))
	s.False(limiter.Allow(s.ctx, "ip"))

	s.clock.Advance(1100 * time.Millisecond)
	s.True(limiter.Allow(s.ctx, "ip"), "等待後應該有一個新的token")
	s.False(limiter.Allow(s.ctx, "ip"), "不應該有第二個token")
}

func (s *RedisTokenBucketSuite) TestMultipleKeys() {
	limiter := s.newLimiter(1, 1)
	s.True(limiter.Allow(s.ctx, "a"))
	s.False(limiter.Allow(s.ctx, "a"))
	s.True(limiter.Allow(s.ctx, "b"))
}

func (s *RedisTokenBucketSuite) TestSharedAcrossInstances() {
	first := s.newLimiter(2, 1)
	second := s.newLimiter(2, 1)
	s.True(first.Allow(s.ctx, "ip"))
	s.True(second.Allow(s.ctx, "ip"))
	s.False(first.Allow(s.ctx, "ip"))
}

func (s *RedisTokenBucketSuite) TestRedisDownAllows() {
	down := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond, MaxRetries: -1})
	defer down.Close()

	limiter := NewRedisTokenBucket(down, LimiterConfig{Capacity: 1, Rate: 1}, "test", zerolog.Nop())
	s.True(limiter.Allow(s.ctx, "ip"))
	s.True(limiter.Allow(s.ctx, "ip"))
}

func TestRedisTokenBucketSuite(t *testing.T) {
	suite.Run(t, new(RedisTokenBucketSuite))
}

func TestRedisTokenBucket_KeyTTL(t *testing.T) {
	limiter := NewRedisTokenBucket(redis.NewClient(&redis.Options{}), LimiterConfig{Capacity: 20, Rate: 1}, "", zerolog.Nop())
	require.Equal(t, int64(21), limiter.keyTTLSeconds())
	require.Equal(t, "ratelimit", limiter.prefix)
}
