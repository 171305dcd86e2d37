package middleware

import (
	"strconv"
	"time"

	"streamhub/infrastructure/logger"
	"streamhub/infrastructure/metrics"

	"github.com/gin-gonic/gin"
)

// RequestLogger logs each request with logrus and records it in the HTTP metrics.
func RequestLogger() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()
		latency := time.Since(start)

		route := ctx.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := ctx.Writer.Status()
		metrics.HTTPRequests.WithLabelValues(ctx.Request.Method, route, strconv.Itoa(status)).Inc()
		metrics.HTTPLatency.WithLabelValues(ctx.Request.Method, route).Observe(latency.Seconds())

		entry := logger.GetLogger().
			WithField("method", ctx.Request.Method).
			WithField("path", ctx.Request.URL.Path).
			WithField("status", status).
			WithField("latency", latency.String()).
			WithField("client_ip", ctx.ClientIP())
		if userID, ok := ctx.Get(ContextUserIDKey); ok {
			entry = entry.WithField("user_id", userID)
		}
		if status >= 500 {
			entry.Error("Request handled")
			return
		}
		entry.Info("Request handled")
	}
}
