package middleware

import (
	"strconv"
	"time"

	"community_hub/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// MetricsMiddleware 记录每个请求的 Prometheus 指标
func MetricsMiddleware(collector *metrics.MetricsCollector) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		collector.RecordHTTPRequest(
			c.Request.Method,
			endpoint,
			strconv.Itoa(c.Writer.Status()),
			time.Since(start),
			c.Writer.Size(),
		)
	}
}
