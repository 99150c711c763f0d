// Package ratelimit provides the request limiter stores used by the echo
// rate limiter middleware: a per-process token bucket or a fixed window
// shared through Redis.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/SmriteePoudel/ProductivityApp-sub000/internal/infrastructure/config"
)

// Backends accepted by security.rate_limit_backend
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

const keyPrefix = "ratelimit:"

// NewRedisClient creates a client for cfg without contacting the server
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         cfg.GetAddr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 3,
	})
}

// RedisStore counts requests per identifier in fixed windows kept in Redis,
// so several API instances share one budget.
type RedisStore struct {
	client  *redis.Client
	limit   int64
	window  time.Duration
	timeout time.Duration
	onError func(error)
}

// NewRedisStore allows limit requests per window for each identifier.
// onError receives Redis failures; the request is let through in that case.
func NewRedisStore(client *redis.Client, limit int, window time.Duration, onError func(error)) *RedisStore {
	if onError == nil {
		onError = func(error) {}
	}
	return &RedisStore{
		client:  client,
		limit:   int64(limit),
		window:  window,
		timeout: 2 * time.Second,
		onError: onError,
	}
}

// Allow implements middleware.RateLimiterStore. The counter and its TTL are
// read in one transaction; a key left without expiry by an earlier failed
// EXPIRE gets its window back on the next request instead of locking the
// client out.
func (s *RedisStore) Allow(identifier string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	key := keyPrefix + identifier
	var (
		incr *redis.IntCmd
		ttl  *redis.DurationCmd
	)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		ttl = pipe.TTL(ctx, key)
		return nil
	})
	if err != nil {
		s.onError(fmt.Errorf("rate limit incr: %w", err))
		return true, nil
	}

	// TTL reports -1 for a key without expiry
	if ttl.Val() < 0 {
		if err := s.client.Expire(ctx, key, s.window).Err(); err != nil {
			s.onError(fmt.Errorf("rate limit expire: %w", err))
		}
	}
	return incr.Val() <= s.limit, nil
}

// NewStore picks the store for cfg.RateLimitBackend. client is only used by
// the redis backend.
func NewStore(cfg config.SecurityConfig, client *redis.Client, onError func(error)) middleware.RateLimiterStore {
	if cfg.RateLimitBackend == BackendRedis && client != nil {
		return NewRedisStore(client, cfg.RateLimitRequests, cfg.RateLimitWindow, onError)
	}

	perSecond := float64(cfg.RateLimitRequests) / cfg.RateLimitWindow.Seconds()
	return middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(perSecond),
		Burst:     cfg.RateLimitRequests,
		ExpiresIn: cfg.RateLimitWindow,
	})
}
