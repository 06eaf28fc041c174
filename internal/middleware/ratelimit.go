package middleware

import (
	"fmt"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func rateLimitExceeded(c *fiber.Ctx, retryAfter time.Duration) error {
	secs := int(retryAfter.Seconds())
	if secs < 1 {
		secs = 1
	}
	c.Set(fiber.HeaderRetryAfter, fmt.Sprintf("%d", secs))
	return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
		"error": "rate limit exceeded",
	})
}

// RateLimitMiddleware counts requests per route and IP in redis over a fixed
// window. Redis errors let the request through.
func RateLimitMiddleware(rdb *redis.Client, limit int, window time.Duration, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := fmt.Sprintf("rl:%s:%s", c.Route().Path, c.IP())

		ctx := c.UserContext()
		count, err := rdb.Incr(ctx, key).Result()
		if err != nil {
			log.Warn("rate limit counter unavailable", zap.Error(err))
			return c.Next() // fail open
		}

		if count == 1 {
			rdb.Expire(ctx, key, window)
		}

		if count > int64(limit) {
			log.Debug("rate limit exceeded", zap.String("ip", c.IP()), zap.String("route", c.Route().Path))
			return rateLimitExceeded(c, window)
		}

		return c.Next()
	}
}

type ipLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// LocalRateLimiter is the in-process token bucket used when redis is not
// configured. Buckets idle for two cleanup intervals are dropped.
type LocalRateLimiter struct {
	rate     rate.Limit
	burst    int
	interval time.Duration

	mu       sync.Mutex
	limiters map[string]*ipLimiter

	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewLocalRateLimiter allows perMinute requests per minute per key, with a
// burst of the same size.
func NewLocalRateLimiter(perMinute int, cleanupInterval time.Duration) *LocalRateLimiter {
	rl := &LocalRateLimiter{
		rate:     rate.Limit(float64(perMinute) / 60.0),
		burst:    perMinute,
		interval: cleanupInterval,
		limiters: make(map[string]*ipLimiter),
		stopCh:   make(chan struct{}),
	}
	go rl.cleanupLoop()
	return rl
}

func (rl *LocalRateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopCh) })
}

// Allow takes one token from key's bucket.
func (rl *LocalRateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	l, ok := rl.limiters[key]
	if !ok {
		l = &ipLimiter{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.limiters[key] = l
	}
	l.lastAccess = time.Now()
	return l.limiter.Allow()
}

func (rl *LocalRateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.limiters)
}

func (rl *LocalRateLimiter) Middleware(log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := c.Route().Path + ":" + c.IP()
		if !rl.Allow(key) {
			log.Debug("rate limit exceeded", zap.String("ip", c.IP()), zap.String("route", c.Route().Path))
			return rateLimitExceeded(c, time.Duration(float64(time.Second)/float64(rl.rate)))
		}
		return c.Next()
	}
}

func (rl *LocalRateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup(time.Now())
		case <-rl.stopCh:
			return
		}
	}
}

func (rl *LocalRateLimiter) cleanup(now time.Time) {
	ttl := rl.interval * 2

	rl.mu.Lock()
	defer rl.mu.Unlock()
	for key, l := range rl.limiters {
		if now.Sub(l.lastAccess) > ttl {
			delete(rl.limiters, key)
		}
	}
}
