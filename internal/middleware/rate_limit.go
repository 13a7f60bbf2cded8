package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RateLimitConfig defines configuration for rate limiting
type RateLimitConfig struct {
	// Window is the time window for rate limiting
	Window time.Duration
	// Limit is the maximum number of requests allowed in the window
	Limit int
	// Key prefix for Redis keys
	KeyPrefix string
}

// RateLimiter handles fixed-window rate limiting using Redis
type RateLimiter struct {
	redis  *redis.Client
	config RateLimitConfig
	logger *zap.Logger
}

// NewRateLimiter creates a new rate limiter instance
func NewRateLimiter(redisClient *redis.Client, config RateLimitConfig, logger *zap.Logger) *RateLimiter {
	return &RateLimiter{
		redis:  redisClient,
		config: config,
		logger: logger,
	}
}

// NewRecipeCreationRateLimiter limits recipe creation per user and hour
func NewRecipeCreationRateLimiter(redisClient *redis.Client, limit int, logger *zap.Logger) *RateLimiter {
	return NewRateLimiter(redisClient, RateLimitConfig{
		Window:    time.Hour,
		Limit:     limit,
		KeyPrefix: "rate_limit:recipe_creation",
	}, logger)
}

// NewVoteRateLimiter limits votes per user and hour
func NewVoteRateLimiter(redisClient *redis.Client, limit int, logger *zap.Logger) *RateLimiter {
	return NewRateLimiter(redisClient, RateLimitConfig{
		Window:    time.Hour,
		Limit:     limit,
		KeyPrefix: "rate_limit:vote",
	}, logger)
}

// Quota is the outcome of counting one request against a window.
type Quota struct {
	Allowed   bool
	Remaining int
	Reset     time.Time
}

// Middleware enforces the limit per principal, or per client IP for
// anonymous requests. GET requests are never counted.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodGet {
			c.Next()
			return
		}

		subject := "ip:" + c.ClientIP()
		if user := CurrentUser(c); user != nil {
			subject = "user:" + user.ID.String()
		}

		quota, err := rl.IsAllowed(c.Request.Context(), subject)
		if err != nil {
			// Fail open
			rl.logger.Warn("rate limit check failed", zap.String("prefix", rl.config.KeyPrefix), zap.Error(err))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.config.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(quota.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(quota.Reset.Unix(), 10))

		if !quota.Allowed {
			rl.logger.Info("rate limit exceeded", zap.String("prefix", rl.config.KeyPrefix), zap.String("subject", subject))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "rate limit exceeded",
				"message":     fmt.Sprintf("You have exceeded the rate limit of %d requests per %v", rl.config.Limit, rl.config.Window),
				"retry_after": int(time.Until(quota.Reset).Seconds()),
			})
			return
		}

		c.Next()
	}
}

// windowKey names the counter for subject in the window containing now.
func (rl *RateLimiter) windowKey(subject string, now time.Time) (string, time.Time) {
	start := now.Truncate(rl.config.Window)
	return fmt.Sprintf("%s:%s:%d", rl.config.KeyPrefix, subject, start.Unix()), start.Add(rl.config.Window)
}

// IsAllowed counts a request from subject in the current window. Increment
// and expiry run in one MULTI.
func (rl *RateLimiter) IsAllowed(ctx context.Context, subject string) (Quota, error) {
	key, reset := rl.windowKey(subject, time.Now())

	var incr *redis.IntCmd
	_, err := rl.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.ExpireAt(ctx, key, reset)
		return nil
	})
	if err != nil {
		return Quota{}, err
	}

	count := int(incr.Val())
	return Quota{
		Allowed:   count <= rl.config.Limit,
		Remaining: max(rl.config.Limit-count, 0),
		Reset:     reset,
	}, nil
}
