package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// LoggingMiddleware logs one line per finished request with the request id
// attached for correlation with gateway-call logs
func LoggingMiddleware(logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			fields := []zap.Field{
				zap.String("request_id", RequestID(c)),
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", time.Since(start)),
				zap.String("remote_addr", c.RealIP()),
			}

			if err != nil {
				logger.Warn("Request failed", append(fields, zap.Error(err))...)
			} else {
				logger.Info("Request completed", fields...)
			}

			return err
		}
	}
}
