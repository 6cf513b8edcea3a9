package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/seo-optimizer/seo-analyzer/metrics"
	"github.com/seo-optimizer/seo-analyzer/stats"
)

// Stats tracks unique visitors and, when m is non-nil, per-route request
// metrics. Analysis outcomes are recorded by the handlers themselves.
func Stats(storage *stats.Storage, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		storage.TrackVisitor(c.ClientIP())

		c.Next()

		if m == nil {
			return
		}
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.RecordHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
