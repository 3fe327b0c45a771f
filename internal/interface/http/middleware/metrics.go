package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/saledash/pkg/metrics"
)

// Metrics 记录HTTP请求指标
// path使用路由模板（c.FullPath），未匹配的路由统一记为"unmatched"
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		if metrics.HTTPRequestsInProgress != nil {
			metrics.HTTPRequestsInProgress.Inc()
			defer metrics.HTTPRequestsInProgress.Dec()
		}

		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.ObserveHTTP(c.Request.Method, path, c.Writer.Status(), start)
	}
}
