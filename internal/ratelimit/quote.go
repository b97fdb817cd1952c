package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/lankaconnect/eventpricing/internal/config"
	redis "github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const keyQuote = "quote:%s"

// Limiter decides whether the caller identified by key may issue another
// request.
type Limiter interface {
	Allow(ctx context.Context, key string) (*RateLimitResult, error)
}

type allowAll struct{}

func (allowAll) Allow(context.Context, string) (*RateLimitResult, error) {
	return &RateLimitResult{Allowed: true}, nil
}

// AllowAll returns a Limiter that never rejects.
func AllowAll() Limiter {
	return allowAll{}
}

// QuoteLimiter throttles quote requests per client.
type QuoteLimiter struct {
	bucket *TokenBucket
	rate   float64
	burst  int
}

func NewQuoteLimiter(bucket *TokenBucket, rate float64, burst int) (*QuoteLimiter, error) {
	if bucket == nil {
		return nil, ErrNotConfigured
	}
	if rate <= 0 || burst <= 0 {
		return nil, ErrInvalidRate
	}
	return &QuoteLimiter{bucket: bucket, rate: rate, burst: burst}, nil
}

func (l *QuoteLimiter) Allow(ctx context.Context, key string) (*RateLimitResult, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, ErrEmptyKey
	}
	return l.bucket.Allow(ctx, fmt.Sprintf(keyQuote, key), l.rate, l.burst)
}

// Provide builds the quote limiter from configuration. When rate limiting is
// disabled every request is allowed.
func Provide(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) (Limiter, error) {
	limitCfg := cfg.RateLimit
	if !limitCfg.Enabled {
		log.Info("quote rate limiting disabled")
		return AllowAll(), nil
	}

	addr := strings.TrimSpace(limitCfg.RedisAddr)
	if addr == "" {
		return nil, errors.New("rate limit redis addr is required")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: strings.TrimSpace(limitCfg.RedisPassword),
		DB:       limitCfg.RedisDB,
	})
	limiter, err := NewQuoteLimiter(NewTokenBucket(client), limitCfg.QuoteRate, limitCfg.QuoteBurst)
	if err != nil {
		_ = client.Close()
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := client.Ping(ctx).Err(); err != nil {
				log.Warn("rate limit redis unreachable", zap.String("addr", addr), zap.Error(err))
			}
			return nil
		},
		OnStop: func(context.Context) error {
			return client.Close()
		},
	})
	return limiter, nil
}
