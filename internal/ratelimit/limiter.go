package ratelimit

import (
	"context"
	"time"
)

// Limiter 依 key (通常是 client ip) 判斷請求是否放行
type Limiter interface {
	Allow(ctx context.Context, key string) bool
}

type LimiterConfig struct {
	Capacity int     // bucket 最大 token 數, 也是允許的瞬間爆量
	Rate     float64 // tokens/秒
}

func (l LimiterConfig) withDefaults() LimiterConfig {
	if l.Capacity <= 0 {
		l.Capacity = GetDefaultLimiterConfig().Capacity
	}
	if l.Rate <= 0 {
		l.Rate = GetDefaultLimiterConfig().Rate
	}
	return l
}

func GetDefaultLimiterConfig() LimiterConfig {
	return LimiterConfig{
		Capacity: 20,
		Rate:     1,
	}
}

type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock 測試時固定時間
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
