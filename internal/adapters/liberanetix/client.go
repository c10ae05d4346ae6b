// Package liberanetix implements the outbound client for the Liberanetix
// payment gateway: purchase creation, server-to-server card submission and
// 3-D Secure challenge replay.
package liberanetix

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/kevin07696/payment-relay/internal/adapters/ports"
	"github.com/kevin07696/payment-relay/internal/config"
	"github.com/kevin07696/payment-relay/internal/domain"
	"github.com/kevin07696/payment-relay/internal/util"
	pkgerrors "github.com/kevin07696/payment-relay/pkg/errors"
	"github.com/kevin07696/payment-relay/pkg/observability"
)

// Step names used in error reporting and metrics
const (
	stepCreatePurchase  = "Purchase creation"
	stepProcessPurchase = "Payment processing"
	stepThreeDS         = "3DS processing"
)

// Fixed values the gateway expects on the direct-post submission. The relay
// never sees the shopper's real IP; the gateway treats s2s submissions from
// a fixed placeholder as server-originated.
const (
	directPostIPAddress    = "127.0.0.1"
	directPostAcceptHeader = "text/html"
	deliveryMethodEmail    = "email"
	purchaseLanguage       = "en"
	purchaseTimezone       = "UTC"
)

// Credentials holds the three gateway secrets. The gateway segregates
// purchase-creation trust (merchant-level APIKey) from raw card submission
// trust (S2SToken); the two must never be collapsed into one.
type Credentials struct {
	BrandID  string
	APIKey   string
	S2SToken string
}

// Client issues the outbound gateway calls and translates responses and
// failures into the relay's own result and error types. It holds no
// per-request state and is safe for concurrent use.
type Client struct {
	creds           Credentials
	baseURL         string
	successRedirect string
	failureRedirect string
	httpClient      ports.HTTPClient
	acsClient       ports.HTTPClient
	logger          *zap.Logger
	tracer          trace.Tracer
}

// NewClient creates a gateway client with dependency injection. httpClient
// carries the two gateway calls; acsClient carries 3DS replays, which may
// target a different host per request.
func NewClient(creds Credentials, cfg config.GatewayConfig, httpClient, acsClient ports.HTTPClient, logger *zap.Logger) *Client {
	return &Client{
		creds:           creds,
		baseURL:         strings.TrimSuffix(cfg.BaseURL, "/"),
		successRedirect: cfg.SuccessRedirect,
		failureRedirect: cfg.FailureRedirect,
		httpClient:      httpClient,
		acsClient:       acsClient,
		logger:          logger,
		tracer:          otel.Tracer("liberanetix"),
	}
}

type purchaseClient struct {
	Email string `json:"email"`
}

type purchasePayment struct {
	Amount      json.Number `json:"amount"`
	Currency    string      `json:"currency"`
	Description string      `json:"description"`
}

type purchaseDetails struct {
	Products []domain.Product `json:"products"`
	Language string           `json:"language"`
	Timezone string           `json:"timezone"`
}

type createPurchasePayload struct {
	Client          purchaseClient  `json:"client"`
	Payment         purchasePayment `json:"payment"`
	Purchase        purchaseDetails `json:"purchase"`
	DeliveryMethod  string          `json:"delivery_method"`
	BrandID         string          `json:"brand_id"`
	SuccessRedirect string          `json:"success_redirect"`
	FailureRedirect string          `json:"failure_redirect"`
}

type directPostPayload struct {
	CardholderName    string `json:"cardholder_name"`
	CardNumber        string `json:"card_number"`
	Expires           string `json:"expires"`
	CVC               string `json:"cvc"`
	RememberCard      string `json:"remember_card"`
	IPAddress         string `json:"ip_address"`
	UserAgent         string `json:"user_agent"`
	AcceptHeader      string `json:"accept_header"`
	Language          string `json:"language"`
	JavaEnabled       bool   `json:"java_enabled"`
	JavascriptEnabled bool   `json:"javascript_enabled"`
	ColorDepth        int    `json:"color_depth"`
	UTCOffset         int    `json:"utc_offset"`
	ScreenWidth       int    `json:"screen_width"`
	ScreenHeight      int    `json:"screen_height"`
}

// gatewayErrorBody is the gateway's error shape, read defensively: the
// message field may be absent entirely.
type gatewayErrorBody struct {
	Message string `json:"message"`
}

// CreatePurchase creates a checkout session on the gateway (step one).
// The returned Purchase carries the one-time direct-post URL that step two
// submits card data to.
func (c *Client) CreatePurchase(ctx context.Context, req *domain.PaymentRequest) (*domain.Purchase, error) {
	ctx, span := c.tracer.Start(ctx, "liberanetix.CreatePurchase")
	defer span.End()

	payload := createPurchasePayload{
		Client: purchaseClient{Email: req.Email},
		Payment: purchasePayment{
			Amount:      json.Number(req.Amount.String()),
			Currency:    req.Currency,
			Description: req.Description,
		},
		Purchase: purchaseDetails{
			Products: req.Products,
			Language: purchaseLanguage,
			Timezone: purchaseTimezone,
		},
		DeliveryMethod:  deliveryMethodEmail,
		BrandID:         c.creds.BrandID,
		SuccessRedirect: c.successRedirect,
		FailureRedirect: c.failureRedirect,
	}

	status, body, err := c.post(ctx, stepCreatePurchase, c.baseURL+"/purchases/", c.creds.APIKey, payload)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("http.status_code", status))

	if status != http.StatusOK && status != http.StatusCreated {
		return nil, c.rejection(stepCreatePurchase, status, body)
	}

	var purchase domain.Purchase
	if err := json.Unmarshal(body, &purchase); err != nil {
		c.logger.Error("Failed to decode purchase creation response",
			zap.Int("status", status),
			zap.Error(err),
		)
		return nil, pkgerrors.NewInternalError(stepCreatePurchase)
	}

	c.logger.Info("Purchase created",
		zap.String("purchase_id", purchase.ID),
		zap.String("status", purchase.Status),
	)

	return &purchase, nil
}

// ProcessPurchase submits card details to the purchase's direct-post URL
// (step two). The gateway's body is preserved verbatim in the result; the
// gateway alone decides whether 3DS continuation fields are present.
func (c *Client) ProcessPurchase(ctx context.Context, purchase *domain.Purchase, req *domain.PaymentRequest) (*domain.PurchaseResult, error) {
	ctx, span := c.tracer.Start(ctx, "liberanetix.ProcessPurchase")
	defer span.End()

	payload := directPostPayload{
		CardholderName:    req.CardholderName,
		CardNumber:        req.CardNumber,
		Expires:           req.Expires,
		CVC:               req.CVC,
		RememberCard:      req.RememberCard,
		IPAddress:         directPostIPAddress,
		UserAgent:         req.UserAgent,
		AcceptHeader:      directPostAcceptHeader,
		Language:          req.Language,
		JavaEnabled:       false,
		JavascriptEnabled: *req.JavascriptEnabled,
		ColorDepth:        *req.ColorDepth,
		UTCOffset:         *req.UTCOffset,
		ScreenWidth:       *req.ScreenWidth,
		ScreenHeight:      *req.ScreenHeight,
	}

	c.logger.Debug("Submitting direct post payment",
		zap.String("purchase_id", purchase.ID),
		zap.Any("card", util.MaskSensitiveData(map[string]any{
			"card_number": req.CardNumber,
			"cvc":         req.CVC,
		})),
	)

	status, body, err := c.post(ctx, stepProcessPurchase, directPostURL(purchase.DirectPostURL), c.creds.S2SToken, payload)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("http.status_code", status))

	if status != http.StatusOK && status != http.StatusCreated {
		return nil, c.rejection(stepProcessPurchase, status, body)
	}

	result := domain.PurchaseResult{Raw: body}
	if err := json.Unmarshal(body, &result); err != nil {
		c.logger.Error("Failed to decode direct post response",
			zap.Int("status", status),
			zap.Error(err),
		)
		return nil, pkgerrors.NewInternalError(stepProcessPurchase)
	}

	c.logger.Info("Payment submitted",
		zap.String("purchase_id", purchase.ID),
		zap.String("status", result.Status),
		zap.Bool("threeds_required", result.RequiresThreeDS()),
	)

	return &result, nil
}

// Handle3DS replays the 3-D Secure challenge to the caller-specified ACS
// endpoint and returns its raw body, typically an HTML document the
// original client renders. Every failure on this path collapses into one
// generic error; the caller never learns whether the ACS rejected the call
// or was unreachable.
func (c *Client) Handle3DS(ctx context.Context, req *domain.ThreeDSRequest) (string, error) {
	ctx, span := c.tracer.Start(ctx, "liberanetix.Handle3DS")
	defer span.End()

	form := url.Values{}
	form.Set("PaReq", req.PaReq)
	form.Set("MD", req.MD)
	form.Set("TermUrl", req.TermUrl)

	start := time.Now()
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, strings.NewReader(form.Encode()))
	if err != nil {
		c.logger.Error("Failed to build 3DS request", zap.Error(err))
		return "", threeDSError()
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.acsClient.Do(httpReq)
	if err != nil {
		observability.RecordGatewayRequest("handle_3ds", 0, time.Since(start))
		c.logger.Error("3DS replay failed", zap.String("acs_url", req.URL), zap.Error(err))
		span.RecordError(err)
		return "", threeDSError()
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	observability.RecordGatewayRequest("handle_3ds", resp.StatusCode, time.Since(start))
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if err != nil {
		c.logger.Error("Failed to read 3DS response", zap.Error(err))
		return "", threeDSError()
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("ACS rejected 3DS replay",
			zap.String("acs_url", req.URL),
			zap.Int("status", resp.StatusCode),
		)
		return "", threeDSError()
	}

	return string(body), nil
}

// post issues one JSON POST with a bearer credential and returns status and
// body. Transport failures come back as network errors, request-building
// and marshalling failures as internal errors; status interpretation is the
// caller's job.
func (c *Client) post(ctx context.Context, step, target, bearer string, payload any) (int, []byte, error) {
	operation := operationLabel(step)

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		c.logger.Error("Failed to marshal gateway payload", zap.String("step", step), zap.Error(err))
		return 0, nil, pkgerrors.NewInternalError(step)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(payloadBytes))
	if err != nil {
		c.logger.Error("Failed to build gateway request", zap.String("step", step), zap.Error(err))
		return 0, nil, pkgerrors.NewInternalError(step)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+bearer)

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		observability.RecordGatewayRequest(operation, 0, time.Since(start))
		c.logger.Error("Gateway unreachable",
			zap.String("step", step),
			zap.String("url", target),
			zap.Error(err),
		)
		return 0, nil, pkgerrors.NewNetworkError(step)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	observability.RecordGatewayRequest(operation, resp.StatusCode, time.Since(start))
	if err != nil {
		c.logger.Error("Failed to read gateway response", zap.String("step", step), zap.Error(err))
		return 0, nil, pkgerrors.NewNetworkError(step)
	}

	return resp.StatusCode, body, nil
}

// rejection translates a non-2xx gateway response. The message field of the
// error body is read defensively; the step's generic fallback applies when
// it is absent.
func (c *Client) rejection(step string, status int, body []byte) error {
	var errBody gatewayErrorBody
	_ = json.Unmarshal(body, &errBody)

	c.logger.Warn("Gateway rejected request",
		zap.String("step", step),
		zap.Int("status", status),
		zap.String("gateway_message", errBody.Message),
	)

	return pkgerrors.NewGatewayRejection(step, status, errBody.Message)
}

func threeDSError() *pkgerrors.GatewayError {
	return &pkgerrors.GatewayError{
		Step:       stepThreeDS,
		Message:    "3DS processing failed",
		StatusCode: http.StatusInternalServerError,
		Category:   pkgerrors.CategorySystemError,
	}
}

// directPostURL appends the fixed server-to-server marker to the
// purchase's one-time submission URL.
func directPostURL(base string) string {
	if strings.Contains(base, "?") {
		return base + "&s2s=true"
	}
	return base + "?s2s=true"
}

func operationLabel(step string) string {
	switch step {
	case stepCreatePurchase:
		return "create_purchase"
	case stepProcessPurchase:
		return "process_purchase"
	default:
		return "handle_3ds"
	}
}
