package httpapi

import (
	"time"

	"github.com/dmitrijs2005/hrmsauth/internal/common"
	"github.com/dmitrijs2005/hrmsauth/internal/logging"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// requestID reuses a caller-supplied X-Request-ID or generates one, echoes
// it on the response and stores it in the request context for logging.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(common.RequestIDHeaderName)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Header(common.RequestIDHeaderName, id)
		c.Request = c.Request.WithContext(logging.WithRequestID(c.Request.Context(), id))
		c.Next()
	}
}

func requestLogger(l logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		args := []any{
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start).String(),
		}
		if len(c.Errors) > 0 {
			args = append(args, "error", c.Errors.Last().Err)
		}

		switch {
		case c.Writer.Status() >= 500:
			l.Error(c.Request.Context(), "request failed", args...)
		case c.Writer.Status() >= 400:
			l.Warn(c.Request.Context(), "request rejected", args...)
		default:
			l.Info(c.Request.Context(), "request served", args...)
		}
	}
}
