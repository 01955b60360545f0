package middleware

import (
	"strconv"
	"time"

	"pctracer-svc/src/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// RequestLogger logs every request and records its latency under the route name
// set by the router, or the matched path when there is none.
func RequestLogger(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)

		route := c.GetString("route_name")
		if route == "" {
			route = c.FullPath()
		}
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()

		m.ObserveRequest(route, c.Request.Method, strconv.Itoa(status), latency.Seconds())

		entry := logrus.WithFields(logrus.Fields{
			"route":   route,
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  status,
			"latency": latency.String(),
			"client":  c.ClientIP(),
		})
		if status >= 500 {
			entry.Error("Request completed")
			return
		}
		entry.Debug("Request completed")
	}
}
