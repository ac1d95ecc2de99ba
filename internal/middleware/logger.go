package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/saas-factory/api/internal/telemetry"
	"go.uber.org/zap"
)

// ZapLogger logs one line per request. Server errors log at error level.
func ZapLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if traceID := c.GetString(telemetry.TraceIDKey); traceID != "" {
			fields = append(fields, zap.String("trace_id", traceID))
		}
		if id, ok := c.Get(IdentityKey); ok {
			if ident, ok := id.(*Identity); ok {
				fields = append(fields, zap.String("user_id", ident.UserID.String()), zap.Bool("demo", ident.Demo))
			}
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch status := c.Writer.Status(); {
		case status >= 500:
			log.Error("request", fields...)
		case status >= 400:
			log.Warn("request", fields...)
		default:
			log.Info("request", fields...)
		}
	}
}
