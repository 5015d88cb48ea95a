package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pratsy91/todo-backend/pkg/metrics"
)

// Metrics records request count and latency by route template, so
// /api/todos/:id is a single series.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveHTTP(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
