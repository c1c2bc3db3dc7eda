package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/netinv-backend/internal/observability"
)

// unobserved are scrape and liveness paths; counting them would drown the
// import API in the request series.
var unobserved = map[string]bool{
	"/metrics":     true,
	"/healthcheck": true,
}

// Metrics records request count and latency per route template, so
// /api/imports/:entity is one series regardless of the entity requested.
func Metrics(m *observability.Metrics) gin.HandlerFunc {
	if m == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		route := c.FullPath()
		if unobserved[route] {
			c.Next()
			return
		}
		start := time.Now()
		m.ApiInflightInc()
		defer m.ApiInflightDec()

		c.Next()

		if route == "" {
			route = "unmatched"
		}
		m.ObserveAPI(c.Request.Method, route, observability.StatusLabel(c.Writer.Status()), time.Since(start))
	}
}
