package middleware

import (
	"github.com/fatflowers/karma/pkg/logctx"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLoggerMiddleware attaches a request-scoped logger enriched with
// trace_id to gin.Context and request context. Auth adds user_id later.
func RequestLoggerMiddleware(base *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetString(logctx.TraceIDKey)

		reqLogger := base.With("trace_id", traceID)
		setLogger(c, reqLogger)

		// mirror trace id to response header when available
		if traceID != "" {
			c.Writer.Header().Set(RequestIDHeader, traceID)
		}

		c.Next()
	}
}

func setLogger(c *gin.Context, l *zap.SugaredLogger) {
	c.Set(logctx.LoggerKey, l)
	c.Request = c.Request.WithContext(logctx.WithLogger(c.Request.Context(), l))
}
