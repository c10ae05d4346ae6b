package domain

import (
	"encoding/json"
	"net/mail"
	"net/url"
	"regexp"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/kevin07696/payment-relay/pkg/errors"
)

var (
	currencyPattern   = regexp.MustCompile(`^[A-Z]{3}$`)
	cardNumberPattern = regexp.MustCompile(`^\d{13,19}$`)
	expiresPattern    = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
	cvcPattern        = regexp.MustCompile(`^\d{3,4}$`)
	holderNamePattern = regexp.MustCompile(`^[a-zA-Z .'-]+$`)

	minAmount = decimal.RequireFromString("0.01")
)

// Product is one line item of the purchase the gateway creates
type Product struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// PaymentRequest is the inbound payment payload. Every field is required;
// the browser fields feed the gateway's risk engine during the direct-post
// step. Pointer types distinguish an absent field from a zero value.
type PaymentRequest struct {
	Amount            decimal.Decimal `json:"amount"`
	Currency          string          `json:"currency"`
	CardholderName    string          `json:"cardholder_name"`
	CardNumber        string          `json:"card_number"`
	Expires           string          `json:"expires"`
	CVC               string          `json:"cvc"`
	Email             string          `json:"email"`
	Description       string          `json:"description"`
	Products          []Product       `json:"products"`
	ColorDepth        *int            `json:"color_depth"`
	JavascriptEnabled *bool           `json:"javascript_enabled"`
	Language          string          `json:"language"`
	RememberCard      string          `json:"remember_card"`
	ScreenWidth       *int            `json:"screen_width"`
	ScreenHeight      *int            `json:"screen_height"`
	UserAgent         string          `json:"user_agent"`
	UTCOffset         *int            `json:"utc_offset"`
}

// Validate runs the declarative per-field constraint pass. All violations
// are collected so the caller can report the complete list at once. No
// cross-field validation happens here.
func (r *PaymentRequest) Validate() pkgerrors.ValidationErrors {
	var errs pkgerrors.ValidationErrors

	if r.Amount.LessThan(minAmount) {
		errs = errs.Add("amount", "Amount must be greater than 0")
	}
	if !currencyPattern.MatchString(r.Currency) {
		errs = errs.Add("currency", "Currency must be a valid 3-letter ISO code (e.g., EUR, USD)")
	}
	switch {
	case r.CardholderName == "":
		errs = errs.Add("cardholder_name", "Cardholder name is required")
	case len(r.CardholderName) > 100:
		errs = errs.Add("cardholder_name", "Cardholder name must not exceed 100 characters")
	case !holderNamePattern.MatchString(r.CardholderName):
		errs = errs.Add("cardholder_name", "Cardholder name contains invalid characters")
	}
	if !cardNumberPattern.MatchString(r.CardNumber) {
		errs = errs.Add("card_number", "Card number must be 13-19 digits")
	}
	if !expiresPattern.MatchString(r.Expires) {
		errs = errs.Add("expires", "Expiration date must be in MM/YY format (e.g., 12/25)")
	}
	if !cvcPattern.MatchString(r.CVC) {
		errs = errs.Add("cvc", "Security code must be 3 or 4 digits")
	}
	if _, err := mail.ParseAddress(r.Email); err != nil {
		errs = errs.Add("email", "Email must be a valid email address")
	}
	if r.Description == "" {
		errs = errs.Add("description", "Description is required")
	}
	if len(r.Products) == 0 {
		errs = errs.Add("products", "Products must contain at least one item")
	}
	for _, p := range r.Products {
		if p.Name == "" {
			errs = errs.Add("products", "Product name is required")
		}
		if p.Price.IsNegative() {
			errs = errs.Add("products", "Product price must not be negative")
		}
	}
	switch {
	case r.ColorDepth == nil:
		errs = errs.Add("color_depth", "Color depth is required")
	case *r.ColorDepth < 0 || *r.ColorDepth > 255:
		errs = errs.Add("color_depth", "Color depth must be between 0 and 255")
	}
	if r.JavascriptEnabled == nil {
		errs = errs.Add("javascript_enabled", "Javascript enabled flag is required")
	}
	switch {
	case r.Language == "":
		errs = errs.Add("language", "Language is required")
	case len(r.Language) > 8:
		errs = errs.Add("language", "Language must not exceed 8 characters")
	}
	if r.RememberCard == "" {
		errs = errs.Add("remember_card", "Remember card is required")
	}
	switch {
	case r.ScreenWidth == nil:
		errs = errs.Add("screen_width", "Screen width is required")
	case *r.ScreenWidth < 0:
		errs = errs.Add("screen_width", "Screen width must not be negative")
	}
	switch {
	case r.ScreenHeight == nil:
		errs = errs.Add("screen_height", "Screen height is required")
	case *r.ScreenHeight < 0:
		errs = errs.Add("screen_height", "Screen height must not be negative")
	}
	switch {
	case r.UserAgent == "":
		errs = errs.Add("user_agent", "User agent is required")
	case len(r.UserAgent) > 2048:
		errs = errs.Add("user_agent", "User agent must not exceed 2048 characters")
	}
	switch {
	case r.UTCOffset == nil:
		errs = errs.Add("utc_offset", "UTC offset is required")
	case *r.UTCOffset < -32768 || *r.UTCOffset > 32767:
		errs = errs.Add("utc_offset", "UTC offset must be a valid offset in minutes")
	}

	return errs
}

// ThreeDSRequest carries the parameters of an issuer 3-D Secure challenge
// the relay replays to the ACS on the original client's behalf. PaReq and
// MD are issuer-defined opaque tokens; TermUrl is the return address after
// the cardholder completes the challenge.
type ThreeDSRequest struct {
	PaReq   string `json:"PaReq"`
	MD      string `json:"MD"`
	TermUrl string `json:"TermUrl"`
	Method  string `json:"method"`
	URL     string `json:"url"`
}

// Validate collects every violated constraint of the 3DS payload
func (r *ThreeDSRequest) Validate() pkgerrors.ValidationErrors {
	var errs pkgerrors.ValidationErrors

	if r.PaReq == "" {
		errs = errs.Add("PaReq", "PaReq is required")
	}
	if r.MD == "" {
		errs = errs.Add("MD", "MD is required")
	}
	if !isURL(r.TermUrl) {
		errs = errs.Add("TermUrl", "TermUrl must be a valid URL")
	}
	if r.Method == "" {
		errs = errs.Add("method", "Method is required")
	}
	if !isURL(r.URL) {
		errs = errs.Add("url", "URL must be a valid URL")
	}

	return errs
}

func isURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Purchase is the gateway-side checkout session created by step one and
// consumed by step two. It lives only for the duration of one relay
// invocation and is never persisted.
type Purchase struct {
	ID            string `json:"id"`
	CheckoutURL   string `json:"checkout_url"`
	DirectPostURL string `json:"direct_post_url"`
	Status        string `json:"status"`
}

// PurchaseResult is the outcome of the direct-post submission. The 3DS
// continuation fields are present only when the gateway demands step-up
// authentication; that determination is entirely the gateway's. Raw holds
// the unmodified gateway body so the relay can echo it verbatim.
type PurchaseResult struct {
	Status      string `json:"status"`
	Method      string `json:"Method,omitempty"`
	URL         string `json:"URL,omitempty"`
	PaReq       string `json:"PaReq,omitempty"`
	MD          string `json:"MD,omitempty"`
	CallbackURL string `json:"callback_url,omitempty"`

	Raw json.RawMessage `json:"-"`
}

// RequiresThreeDS reports whether the gateway demanded step-up authentication
func (r *PurchaseResult) RequiresThreeDS() bool {
	return r.Status == "3DS_required"
}
