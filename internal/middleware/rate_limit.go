package middleware

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go-timesheet/internal/config"
	"go-timesheet/internal/shared/apperror"

	"github.com/gin-gonic/gin"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Limiter decides whether the client identified by key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// LRULimiter keeps one token bucket per client and evicts the least recently
// seen client once maxClients buckets exist.
type LRULimiter struct {
	mu    sync.Mutex
	cache *lru.Cache[string, *rate.Limiter]
	r     rate.Limit
	b     int
}

func NewLRULimiter(r rate.Limit, b, maxClients int) (*LRULimiter, error) {
	cache, err := lru.New[string, *rate.Limiter](maxClients)
	if err != nil {
		return nil, err
	}
	return &LRULimiter{cache: cache, r: r, b: b}, nil
}

func (l *LRULimiter) GetLimiter(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, ok := l.cache.Get(key)
	if !ok {
		limiter = rate.NewLimiter(l.r, l.b)
		l.cache.Add(key, limiter)
	}
	return limiter
}

func (l *LRULimiter) Allow(_ context.Context, key string) (bool, error) {
	return l.GetLimiter(key).Allow(), nil
}

// Len is the number of tracked clients.
func (l *LRULimiter) Len() int {
	return l.cache.Len()
}

// RedisWindowLimiter counts requests per key in a fixed window that starts at
// the first request of the window.
type RedisWindowLimiter struct {
	rdb    redis.Cmdable
	window time.Duration
	limit  int
}

func NewRedisWindowLimiter(rdb redis.Cmdable, window time.Duration, limit int) *RedisWindowLimiter {
	return &RedisWindowLimiter{rdb: rdb, window: window, limit: limit}
}

func RateLimitKey(key string) string {
	return fmt.Sprintf("ratelimit:%s", key)
}

func (l *RedisWindowLimiter) Allow(ctx context.Context, key string) (bool, error) {
	redisKey := RateLimitKey(key)

	// EXPIRE NX runs on every hit so a key that lost its TTL gets one back.
	var incr *redis.IntCmd
	_, err := l.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, redisKey)
		pipe.ExpireNX(ctx, redisKey, l.window)
		return nil
	})
	if err != nil {
		return false, err
	}
	return incr.Val() <= int64(l.limit), nil
}

// NewLimiter picks the store configured in RATE_LIMIT_STORE.
func NewLimiter(cfg config.RateLimitConfig, rdb redis.Cmdable) (Limiter, error) {
	switch cfg.Store {
	case "redis":
		if rdb == nil {
			return nil, fmt.Errorf("redis rate limit store requires a redis client")
		}
		return NewRedisWindowLimiter(rdb, cfg.Window, cfg.WindowLimit), nil
	default:
		return NewLRULimiter(rate.Limit(cfg.RequestsPerSec), cfg.Burst, cfg.MaxClients)
	}
}

// ByClientIP keys the limiter on the remote address.
func ByClientIP(c *gin.Context) string {
	return "ip:" + c.ClientIP()
}

// ByUserOrIP keys on the authenticated user, falling back to the address.
func ByUserOrIP(c *gin.Context) string {
	if uid := c.GetString("user_id"); uid != "" {
		return "user:" + uid
	}
	return ByClientIP(c)
}

// RateLimit answers 429 once limiter refuses the key. Store errors let the
// request through.
func RateLimit(limiter Limiter, keyFn func(*gin.Context) string, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := keyFn(c)
		allowed, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			logger.Warn("rate limit store unavailable", zap.String("key", key), zap.Error(err))
			c.Next()
			return
		}
		if !allowed {
			abortWith(c, apperror.ErrTooManyRequests)
			return
		}
		c.Next()
	}
}
