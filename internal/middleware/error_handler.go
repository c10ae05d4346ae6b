package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	pkgerrors "github.com/kevin07696/payment-relay/pkg/errors"
)

// ErrorResponse is the error body of the relay's public API. Message is a
// list of constraint violations for validation failures and a single
// string otherwise.
type ErrorResponse struct {
	StatusCode int    `json:"statusCode"`
	Message    any    `json:"message"`
	Error      string `json:"error"`
}

// ErrorHandlerMiddleware translates the relay's error taxonomy into HTTP
// responses: validation errors carry the full ordered violation list,
// gateway errors surface the upstream status and message, anything else
// becomes an opaque 500.
func ErrorHandlerMiddleware(logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			if err == nil {
				return nil
			}
			return handleError(c, err, logger)
		}
	}
}

func handleError(c echo.Context, err error, logger *zap.Logger) error {
	var validationErrs pkgerrors.ValidationErrors
	if errors.As(err, &validationErrs) {
		logger.Warn("Request validation failed",
			zap.String("path", c.Request().URL.Path),
			zap.Strings("violations", validationErrs.Messages()),
		)
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			StatusCode: http.StatusBadRequest,
			Message:    validationErrs.Messages(),
			Error:      http.StatusText(http.StatusBadRequest),
		})
	}

	var gatewayErr *pkgerrors.GatewayError
	if errors.As(err, &gatewayErr) {
		logger.Warn("Gateway call failed",
			zap.String("path", c.Request().URL.Path),
			zap.String("step", gatewayErr.Step),
			zap.String("category", string(gatewayErr.Category)),
			zap.Int("status", gatewayErr.StatusCode),
		)
		return c.JSON(gatewayErr.StatusCode, ErrorResponse{
			StatusCode: gatewayErr.StatusCode,
			Message:    gatewayErr.ClientMessage(),
			Error:      http.StatusText(gatewayErr.StatusCode),
		})
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		message := http.StatusText(httpErr.Code)
		if msg, ok := httpErr.Message.(string); ok {
			message = msg
		}
		logger.Warn("HTTP error",
			zap.String("path", c.Request().URL.Path),
			zap.Int("status", httpErr.Code),
		)
		return c.JSON(httpErr.Code, ErrorResponse{
			StatusCode: httpErr.Code,
			Message:    message,
			Error:      http.StatusText(httpErr.Code),
		})
	}

	logger.Error("Unhandled error",
		zap.String("path", c.Request().URL.Path),
		zap.Error(err),
	)
	return c.JSON(http.StatusInternalServerError, ErrorResponse{
		StatusCode: http.StatusInternalServerError,
		Message:    "Internal server error",
		Error:      http.StatusText(http.StatusInternalServerError),
	})
}
