package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	pkgerrors "github.com/kevin07696/payment-relay/pkg/errors"
)

func serveWithError(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	e.Use(ErrorHandlerMiddleware(zap.NewNop()))
	e.GET("/", func(c echo.Context) error {
		return err
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	return rec
}

func TestErrorHandler_ValidationErrors(t *testing.T) {
	var errs pkgerrors.ValidationErrors
	errs = errs.Add("amount", "Amount must be greater than 0")
	errs = errs.Add("currency", "Currency must be a valid 3-letter ISO code (e.g., EUR, USD)")

	rec := serveWithError(t, errs)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp struct {
		StatusCode int      `json:"statusCode"`
		Message    []string `json:"message"`
		Error      string   `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, []string{
		"Amount must be greater than 0",
		"Currency must be a valid 3-letter ISO code (e.g., EUR, USD)",
	}, resp.Message)
	assert.Equal(t, "Bad Request", resp.Error)
}

func TestErrorHandler_GatewayError(t *testing.T) {
	rec := serveWithError(t, pkgerrors.NewGatewayRejection("Payment processing", http.StatusConflict, "Duplicate purchase"))

	assert.Equal(t, http.StatusConflict, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.EqualValues(t, http.StatusConflict, resp["statusCode"])
	assert.Equal(t, "Duplicate purchase", resp["message"])
	assert.Equal(t, "Conflict", resp["error"])
}

func TestErrorHandler_EchoHTTPError(t *testing.T) {
	rec := serveWithError(t, echo.NewHTTPError(http.StatusBadRequest, "invalid request body"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "invalid request body", resp["message"])
}

func TestErrorHandler_UnknownError(t *testing.T) {
	rec := serveWithError(t, errors.New("boom"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Internal server error", resp["message"])
	assert.Equal(t, "Internal Server Error", resp["error"])
}

func TestErrorHandler_NoErrorPassesThrough(t *testing.T) {
	e := echo.New()
	e.Use(ErrorHandlerMiddleware(zap.NewNop()))
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}
