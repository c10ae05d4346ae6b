package payment

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/kevin07696/payment-relay/internal/domain"
	"github.com/kevin07696/payment-relay/internal/middleware"
)

// Gateway defines the outbound operations the handler depends on
type Gateway interface {
	CreatePurchase(ctx context.Context, req *domain.PaymentRequest) (*domain.Purchase, error)
	ProcessPurchase(ctx context.Context, purchase *domain.Purchase, req *domain.PaymentRequest) (*domain.PurchaseResult, error)
	Handle3DS(ctx context.Context, req *domain.ThreeDSRequest) (string, error)
}

// Handler exposes the relay's two public operations
type Handler struct {
	gateway Gateway
	logger  *zap.Logger
}

// NewHandler creates a new payment handler
func NewHandler(gateway Gateway, logger *zap.Logger) *Handler {
	return &Handler{
		gateway: gateway,
		logger:  logger,
	}
}

// Register mounts the payment routes on the given group
func (h *Handler) Register(g *echo.Group) {
	g.POST("/payments", h.CreatePayment)
	g.POST("/payments/proxy-3ds", h.Proxy3DS)
}

// CreatePayment validates the inbound request, then runs the two dependent
// gateway calls in order: create the purchase, submit card data to its
// direct-post URL. The gateway's process response is echoed verbatim. A
// failure of either step fails the whole operation; a purchase created
// before a later failure is left as-is on the gateway side.
func (h *Handler) CreatePayment(c echo.Context) error {
	var req domain.PaymentRequest
	if err := c.Bind(&req); err != nil {
		h.logger.Warn("Malformed payment request body",
			zap.String("request_id", middleware.RequestID(c)),
			zap.Error(err),
		)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if errs := req.Validate(); len(errs) > 0 {
		return errs
	}

	ctx := c.Request().Context()

	purchase, err := h.gateway.CreatePurchase(ctx, &req)
	if err != nil {
		return err
	}

	result, err := h.gateway.ProcessPurchase(ctx, purchase, &req)
	if err != nil {
		return err
	}

	if len(result.Raw) > 0 {
		return c.JSONBlob(http.StatusOK, result.Raw)
	}
	return c.JSON(http.StatusOK, result)
}

// Proxy3DS validates the 3-D Secure parameters and replays the challenge
// to the issuer's ACS, returning its raw body for the client to render
func (h *Handler) Proxy3DS(c echo.Context) error {
	var req domain.ThreeDSRequest
	if err := c.Bind(&req); err != nil {
		h.logger.Warn("Malformed 3DS request body",
			zap.String("request_id", middleware.RequestID(c)),
			zap.Error(err),
		)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if errs := req.Validate(); len(errs) > 0 {
		return errs
	}

	body, err := h.gateway.Handle3DS(c.Request().Context(), &req)
	if err != nil {
		return err
	}

	return c.HTML(http.StatusOK, body)
}
