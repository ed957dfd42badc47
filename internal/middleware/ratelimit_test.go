package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"internhub/internal/logging"
	"internhub/internal/metrics"
	"internhub/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func setupLimitedRouter(limiter middleware.Limiter, userID *uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	if userID != nil {
		r.Use(func(c *gin.Context) {
			c.Set(middleware.UserIDKey, *userID)
			c.Next()
		})
	}
	r.Use(middleware.RateLimitMiddleware(limiter, metrics.New(), logging.Discard()))
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	return r
}

func TestRateLimitMiddleware_RejectsPastBurst(t *testing.T) {
	router := setupLimitedRouter(middleware.NewMemoryLimiter(0.001, 2), nil)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		resp := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/ping", nil)
		req.RemoteAddr = "10.0.0.1:4000"
		router.ServeHTTP(resp, req)
		codes = append(codes, resp.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRateLimitMiddleware_SeparateKeys(t *testing.T) {
	limiter := middleware.NewMemoryLimiter(0.001, 1)
	first, second := uuid.New(), uuid.New()

	for _, userID := range []uuid.UUID{first, second} {
		id := userID
		resp := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/ping", nil)
		setupLimitedRouter(limiter, &id).ServeHTTP(resp, req)
		assert.Equal(t, http.StatusOK, resp.Code)
	}

	resp := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/ping", nil)
	setupLimitedRouter(limiter, &first).ServeHTTP(resp, req)
	assert.Equal(t, http.StatusTooManyRequests, resp.Code)
}

func TestRedisLimiter_FailsOpen(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	limiter := middleware.NewRedisLimiter(client, 1, time.Minute)

	assert.True(t, limiter.Allow(context.Background(), "user"))
	assert.True(t, limiter.Allow(context.Background(), "user"))
}

func TestRedisLimiter_NilClientAllows(t *testing.T) {
	limiter := middleware.NewRedisLimiter(nil, 1, time.Minute)
	assert.True(t, limiter.Allow(context.Background(), "user"))
}

func TestMemoryLimiter_EvictsIdleKeys(t *testing.T) {
	limiter := middleware.NewMemoryLimiter(0.001, 1)
	clock := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	limiter.SetClock(func() time.Time { return clock }, time.Minute)

	for i := 0; i < 50; i++ {
		limiter.Allow(context.Background(), uuid.NewString())
	}
	assert.Equal(t, 50, limiter.Len())

	clock = clock.Add(2 * time.Minute)
	assert.True(t, limiter.Allow(context.Background(), "fresh"))
	assert.Equal(t, 1, limiter.Len())
}

func TestMemoryLimiter_KeepsActiveKeys(t *testing.T) {
	limiter := middleware.NewMemoryLimiter(0.001, 1)
	clock := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	limiter.SetClock(func() time.Time { return clock }, time.Minute)

	assert.True(t, limiter.Allow(context.Background(), "user"))
	clock = clock.Add(30 * time.Second)
	assert.False(t, limiter.Allow(context.Background(), "user"))
	clock = clock.Add(45 * time.Second)

	// Still throttled: the bucket survived the sweep.
	assert.False(t, limiter.Allow(context.Background(), "user"))
	assert.Equal(t, 1, limiter.Len())
}
