package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"internhub/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

type Limiter interface {
	Allow(ctx context.Context, key string) bool
}

// MemoryLimiter держит token bucket на каждый ключ в памяти процесса.
// Ключи, к которым не обращались дольше idleTTL, удаляются.
type MemoryLimiter struct {
	mu        sync.Mutex
	limiters  map[string]*memoryEntry
	rate      rate.Limit
	burst     int
	idleTTL   time.Duration
	lastSweep time.Time
	now       func() time.Time
}

type memoryEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

const defaultLimiterIdleTTL = 10 * time.Minute

func NewMemoryLimiter(requestsPerSecond float64, burst int) *MemoryLimiter {
	return &MemoryLimiter{
		limiters: make(map[string]*memoryEntry),
		rate:     rate.Limit(requestsPerSecond),
		burst:    burst,
		idleTTL:  defaultLimiterIdleTTL,
		now:      time.Now,
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) bool {
	l.mu.Lock()
	now := l.now()
	l.sweepLocked(now)
	entry, exists := l.limiters[key]
	if !exists {
		entry = &memoryEntry{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.limiters[key] = entry
	}
	entry.lastSeen = now
	l.mu.Unlock()

	return entry.limiter.AllowN(now, 1)
}

// Len returns the number of keys currently tracked.
func (l *MemoryLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}

// sweepLocked drops idle keys at most once per idleTTL.
func (l *MemoryLimiter) sweepLocked(now time.Time) {
	if now.Sub(l.lastSweep) < l.idleTTL {
		return
	}
	l.lastSweep = now
	for key, entry := range l.limiters {
		if now.Sub(entry.lastSeen) >= l.idleTTL {
			delete(l.limiters, key)
		}
	}
}

const rateLimitScript = `
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
if current > tonumber(ARGV[2]) then
  return 0
end
return 1
`

// RedisLimiter считает запросы в фиксированном окне в Redis, чтобы лимит
// был общим для всех экземпляров сервиса. При недоступном Redis пропускает.
type RedisLimiter struct {
	client *redis.Client
	script *redis.Script
	limit  int
	window time.Duration
}

func NewRedisLimiter(client *redis.Client, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		script: redis.NewScript(rateLimitScript),
		limit:  limit,
		window: window,
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) bool {
	if l.client == nil || key == "" || l.limit <= 0 || l.window <= 0 {
		return true
	}
	ttl := l.window.Milliseconds()
	if ttl <= 0 {
		ttl = 1
	}

	ctx, cancel := context.WithTimeout(ctx, 250*time.Millisecond)
	defer cancel()
	allowed, err := l.script.Run(ctx, l.client, []string{"ratelimit:" + key}, ttl, l.limit).Int64()
	if err != nil {
		return true
	}
	return allowed == 1
}

// RateLimitMiddleware ограничивает запросы по пользователю, а для анонимных
// запросов по IP
func RateLimitMiddleware(limiter Limiter, m *metrics.Metrics, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if userID, exists := c.Get(UserIDKey); exists {
			if id, ok := userID.(uuid.UUID); ok {
				key = id.String()
			}
		}

		if !limiter.Allow(c.Request.Context(), key) {
			m.RecordRateLimited()
			log.WithFields(logrus.Fields{
				"key":    key,
				"path":   c.FullPath(),
				"method": c.Request.Method,
			}).Warn("rate limit exceeded")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
			return
		}
		c.Next()
	}
}
