package middleware

import (
	"github.com/gin-gonic/gin"

	appctx "edumaster/internal/core/context"
)

const (
	HeaderRequestID = "X-Request-ID"
	HeaderTraceID   = "X-Trace-ID"
)

// Trace propagates or generates request and trace ids.
func Trace() gin.HandlerFunc {
	return func(c *gin.Context) {
		trace := appctx.NewTraceContext(c.GetHeader(HeaderRequestID), c.GetHeader(HeaderTraceID))

		c.Request = c.Request.WithContext(appctx.WithTrace(c.Request.Context(), trace))
		c.Set("trace_id", trace.TraceID)
		c.Set("request_id", trace.RequestID)

		c.Header(HeaderRequestID, trace.RequestID)
		c.Header(HeaderTraceID, trace.TraceID)

		c.Next()
	}
}
