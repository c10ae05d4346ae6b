package middleware

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kevin07696/payment-relay/pkg/observability"
)

// MetricsMiddleware records Prometheus metrics for every request. The
// route template is used as the path label to keep cardinality bounded.
func MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			observability.HTTPRequestStarted()
			defer observability.HTTPRequestFinished()

			err := next(c)

			path := c.Path()
			if path == "" {
				path = c.Request().URL.Path
			}
			observability.RecordHTTPRequest(
				c.Request().Method,
				path,
				c.Response().Status,
				time.Since(start),
			)

			return err
		}
	}
}
