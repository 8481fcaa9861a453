package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"edumaster/pkg/logger"
)

// Logger logs one line per request and puts a request-scoped logger into
// the context so that domain code logs with the same trace fields.
func Logger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Request = c.Request.WithContext(logger.WithLogger(c.Request.Context(), log))
		reqLog := log.WithContext(c.Request.Context())

		c.Next()

		fields := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, "error", c.Errors.Last().Error())
		}

		if c.Writer.Status() >= 500 {
			reqLog.Warnw("http request", fields...)
			return
		}
		reqLog.Infow("http request", fields...)
	}
}
