// internal/middleware/logging_middleware.go
package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

const (
	RequestIDHeader = "X-Request-ID"
	ctxRequestID    = "request_id"
)

// GetRequestID returns the request id, taken from the incoming header or
// generated by LoggingMiddleware.
func GetRequestID(c *gin.Context) string {
	if id := c.GetString(ctxRequestID); id != "" {
		return id
	}
	if id := c.GetHeader(RequestIDHeader); id != "" {
		return id
	}
	return ulid.Make().String()
}

// LoggingMiddleware writes one structured line per request.
func LoggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		requestID := GetRequestID(c)
		c.Set(ctxRequestID, requestID)
		c.Header(RequestIDHeader, requestID)

		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("request_id", requestID),
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
			zap.String("user_agent", c.Request.UserAgent()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch {
		case status >= 500:
			logger.Error("HTTP request", fields...)
		case status >= 400:
			logger.Warn("HTTP request", fields...)
		default:
			logger.Info("HTTP request", fields...)
		}
	}
}
