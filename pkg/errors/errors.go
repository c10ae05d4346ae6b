package errors

import (
	"fmt"
	"net/http"
	"strings"
)

// ErrorCategory represents the category of error for handling
type ErrorCategory string

const (
	CategoryGatewayRejected ErrorCategory = "gateway_rejected"
	CategoryNetworkError    ErrorCategory = "network_error"
	CategorySystemError     ErrorCategory = "system_error"
	CategoryInvalidRequest  ErrorCategory = "invalid_request"
)

// GatewayError represents a failure of one outbound gateway call.
// StatusCode is the HTTP status the relay surfaces to its caller: the
// gateway's own status for rejections, 502 when the gateway could not be
// reached, 500 for request-construction failures.
type GatewayError struct {
	Step           string
	Message        string
	GatewayMessage string
	StatusCode     int
	Category       ErrorCategory
}

func (e *GatewayError) Error() string {
	if e.GatewayMessage != "" {
		return fmt.Sprintf("%s: %s (gateway: %s)", e.Step, e.Message, e.GatewayMessage)
	}
	return fmt.Sprintf("%s: %s", e.Step, e.Message)
}

// ClientMessage returns the message exposed to the relay's caller. The
// gateway's own message wins when it provided one; otherwise the generic
// per-step fallback is used.
func (e *GatewayError) ClientMessage() string {
	if e.GatewayMessage != "" {
		return e.GatewayMessage
	}
	return e.Message
}

// NewGatewayRejection creates an error for a non-2xx gateway response.
// A zero status (gateway responded without a usable status) falls back to 502.
func NewGatewayRejection(step string, statusCode int, gatewayMessage string) *GatewayError {
	if statusCode == 0 {
		statusCode = http.StatusBadGateway
	}
	return &GatewayError{
		Step:           step,
		Message:        step + " failed",
		GatewayMessage: gatewayMessage,
		StatusCode:     statusCode,
		Category:       CategoryGatewayRejected,
	}
}

// NewNetworkError creates an error for a transport-level failure where no
// response was received. The underlying transport detail stays in the logs,
// never in the response.
func NewNetworkError(step string) *GatewayError {
	return &GatewayError{
		Step:       step,
		Message:    "Network error: Unable to connect to payment gateway",
		StatusCode: http.StatusBadGateway,
		Category:   CategoryNetworkError,
	}
}

// NewInternalError creates an error for failures in building or decoding a
// request, i.e. bugs on our side rather than the gateway's.
func NewInternalError(step string) *GatewayError {
	return &GatewayError{
		Step:       step,
		Message:    "Internal error processing payment",
		StatusCode: http.StatusInternalServerError,
		Category:   CategorySystemError,
	}
}

// ValidationError represents a single violated input constraint
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// ValidationErrors collects every violated constraint of one request so the
// caller sees the full list, not just the first failure.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	return "validation failed: " + strings.Join(e.Messages(), "; ")
}

// Messages returns the human-readable messages in declaration order
func (e ValidationErrors) Messages() []string {
	msgs := make([]string, len(e))
	for i, v := range e {
		msgs[i] = v.Message
	}
	return msgs
}

// Add appends a violation and returns the extended list
func (e ValidationErrors) Add(field, message string) ValidationErrors {
	return append(e, ValidationError{Field: field, Message: message})
}
