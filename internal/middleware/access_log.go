package middleware

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// RequestIDGenerator returns a fresh request ID for echo's RequestID middleware.
func RequestIDGenerator() string {
	return uuid.NewString()
}

// AccessLog writes one zap line per request.
func AccessLog(log *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()
			fields := []zap.Field{
				zap.String("request_id", res.Header().Get(echo.HeaderXRequestID)),
				zap.String("method", req.Method),
				zap.String("uri", req.RequestURI),
				zap.Int("status", res.Status),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", c.RealIP()),
				zap.Int64("bytes_out", res.Size),
			}
			if userID, ok := c.Get(ContextKeyUserID).(string); ok {
				fields = append(fields, zap.String("user_id", userID))
			}

			switch {
			case res.Status >= 500:
				log.Error("HTTP access", append(fields, zap.Error(err))...)
			case res.Status >= 400:
				log.Warn("HTTP access", fields...)
			default:
				log.Info("HTTP access", fields...)
			}
			return nil
		}
	}
}
