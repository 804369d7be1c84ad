package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/itemtrack/backend/internal/infrastructure/telemetry"
)

// Metrics records request counts and latency by route template. Unmatched
// paths share one series so that scanners cannot inflate cardinality.
func Metrics(m *telemetry.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()
		m.ObserveHTTPRequest(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}
