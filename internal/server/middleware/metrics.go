// file: internal/server/middleware/metrics.go
// version: 2.0.0
// guid: 5d6e7f8a-9b0c-1d2e-3f4a-5b6c7d8e9f0a

package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/obodeflix/obodeflix/internal/metrics"
)

// Metrics records request counts and latencies per route. The route label
// uses gin's template path so path parameters don't explode cardinality.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.IncRequest(route, strconv.Itoa(c.Writer.Status()))
		metrics.ObserveRequestDuration(route, time.Since(start))
	}
}
