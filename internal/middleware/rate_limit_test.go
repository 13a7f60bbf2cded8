package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pageza/recipebox/internal/testhelpers"
)

func TestRateLimiterIsAllowed(t *testing.T) {
	client := testhelpers.SetupRedis(t)
	rl := NewRateLimiter(client, RateLimitConfig{Window: time.Hour, Limit: 2, KeyPrefix: "test"}, zap.NewNop())
	ctx := context.Background()

	quota, err := rl.IsAllowed(ctx, "user:1")
	require.NoError(t, err)
	assert.True(t, quota.Allowed)
	assert.Equal(t, 1, quota.Remaining)

	quota, err = rl.IsAllowed(ctx, "user:1")
	require.NoError(t, err)
	assert.True(t, quota.Allowed)
	assert.Equal(t, 0, quota.Remaining)

	quota, err = rl.IsAllowed(ctx, "user:1")
	require.NoError(t, err)
	assert.False(t, quota.Allowed)
	assert.Equal(t, 0, quota.Remaining)
	assert.True(t, quota.Reset.After(time.Now()))

	ttl, err := client.TTL(ctx, "test:user:1:"+strconv.FormatInt(time.Now().Truncate(time.Hour).Unix(), 10)).Result()
	require.NoError(t, err)
	assert.True(t, ttl > 0 && ttl <= time.Hour)

	// Other subjects have their own window
	quota, err = rl.IsAllowed(ctx, "user:2")
	require.NoError(t, err)
	assert.True(t, quota.Allowed)
}

func TestRateLimiterMiddleware(t *testing.T) {
	client := testhelpers.SetupRedis(t)
	rl := NewVoteRateLimiter(client, 1, zap.NewNop())

	r := gin.New()
	r.POST("/vote", rl.Middleware(), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/vote", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/vote", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestRateLimiterFailsOpen(t *testing.T) {
	// Nothing listens on this port
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond, MaxRetries: -1})
	defer client.Close()
	rl := NewRecipeCreationRateLimiter(client, 1, zap.NewNop())

	r := gin.New()
	r.POST("/recipes/new", rl.Middleware(), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/recipes/new", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
