package ratelimit

import (
	"context"
	"sync"
	"time"
)

// 超過這個數量的 key 時, 清掉已經補滿的 bucket
const sweepThreshold = 10000

type bucket struct {
	tokens     float64
	lastRefill time.Time
}

/*
TokenBucket 單機版, 每個 key 一個 bucket
不用背景 goroutine 補 token, 在 Allow 時依經過時間計算
*/
type TokenBucket struct {
	cfg     LimiterConfig
	now     func() time.Time
	mu      sync.Mutex
	buckets map[string]*bucket
}

func NewTokenBucket(cfg LimiterConfig, opts ...Option) *TokenBucket {
	o := buildOptions(opts)
	return &TokenBucket{
		cfg:     cfg.withDefaults(),
		now:     o.now,
		buckets: make(map[string]*bucket),
	}
}

func (t *TokenBucket) Allow(_ context.Context, key string) bool {
	now := t.now()

	t.mu.Lock()
	defer t.mu.Unlock()

	b, ok := t.buckets[key]
	if !ok {
		if len(t.buckets) >= sweepThreshold {
			t.sweep(now)
		}
		b = &bucket{tokens: float64(t.cfg.Capacity), lastRefill: now}
		t.buckets[key] = b
	}
	t.refill(b, now)

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

func (t *TokenBucket) refill(b *bucket, now time.Time) {
	elapsed := now.Sub(b.lastRefill).Seconds()
	if elapsed <= 0 {
		return
	}
	b.tokens = min(float64(t.cfg.Capacity), b.tokens+elapsed*t.cfg.Rate)
	b.lastRefill = now
}

// sweep 補滿的 bucket 與新建的一樣, 可以直接丟掉
func (t *TokenBucket) sweep(now time.Time) {
	for key, b := range t.buckets {
		t.refill(b, now)
		if b.tokens >= float64(t.cfg.Capacity) {
			delete(t.buckets, key)
		}
	}
}

var _ Limiter = (*TokenBucket)(nil)
