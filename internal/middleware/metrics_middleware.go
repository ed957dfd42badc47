package middleware

import (
	"time"

	"internhub/internal/metrics"

	"github.com/gin-gonic/gin"
)

// MetricsMiddleware пишет метрики HTTP запросов по шаблону маршрута
func MetricsMiddleware(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.FullPath() == "/metrics" {
			c.Next()
			return
		}

		start := time.Now()
		m.RequestStarted()
		c.Next()
		m.RequestFinished(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}
