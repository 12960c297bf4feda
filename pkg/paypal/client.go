package paypal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/AlaHassouna/Waw-Tee/pkg/config"
	pkgerrors "github.com/AlaHassouna/Waw-Tee/pkg/errors"
	pkgredis "github.com/AlaHassouna/Waw-Tee/pkg/redis"
)

const (
	sandboxBaseURL = "https://api-m.sandbox.paypal.com"
	liveBaseURL    = "https://api-m.paypal.com"

	tokenCacheName = "paypal"
	// tokenCacheSlack shortens the cached TTL so a token never expires
	// between cache read and API call.
	tokenCacheSlack = 60 * time.Second

	responseBodyReadLimit int64 = 4096
)

var (
	errCredentialsRequired = errors.New("paypal client id and secret are required")
)

// Client talks to the PayPal Orders v2 API. Access tokens obtained via the
// client-credentials grant are cached in redis so concurrent checkouts do
// not each mint a token.
type Client struct {
	httpClient *http.Client
	baseURL    string
	clientID   string
	secret     string
	tokens     pkgredis.TokenCache
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the API base URL. Used by tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// WithTokenCache attaches a cache for OAuth access tokens.
func WithTokenCache(cache pkgredis.TokenCache) Option {
	return func(c *Client) {
		c.tokens = cache
	}
}

// NewClient builds the PayPal client from config.
func NewClient(cfg config.PayPalConfig, opts ...Option) (*Client, error) {
	clientID := strings.TrimSpace(cfg.ClientID)
	secret := strings.TrimSpace(cfg.ClientSecret)
	if clientID == "" || secret == "" {
		return nil, errCredentialsRequired
	}

	baseURL := sandboxBaseURL
	if cfg.Live() {
		baseURL = liveBaseURL
	}

	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	client := &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		clientID:   clientID,
		secret:     secret,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	return client, nil
}

// PurchaseUnit is a single charge within a PayPal order.
type PurchaseUnit struct {
	ReferenceID string
	Amount      string
	Currency    string
	Description string
}

// CreateOrderRequest describes the order sent to PayPal.
type CreateOrderRequest struct {
	PurchaseUnits []PurchaseUnit
	ReturnURL     string
	CancelURL     string
}

// Order is the normalized PayPal order state.
type Order struct {
	ID         string
	Status     string
	ApproveURL string
}

// CaptureResult is the normalized outcome of a capture call.
type CaptureResult struct {
	OrderID    string
	Status     string
	CaptureID  string
	Amount     string
	Currency   string
	PayerEmail string
	PayerID    string
}

// CreateOrder creates a PayPal order with intent CAPTURE and returns the
// approval link the buyer must visit.
func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) (*Order, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "paypal client not configured")
	}
	if len(req.PurchaseUnits) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one purchase unit is required")
	}

	units := make([]map[string]any, 0, len(req.PurchaseUnits))
	for _, u := range req.PurchaseUnits {
		unit := map[string]any{
			"amount": map[string]string{
				"currency_code": strings.ToUpper(u.Currency),
				"value":         u.Amount,
			},
		}
		if u.ReferenceID != "" {
			unit["reference_id"] = u.ReferenceID
		}
		if u.Description != "" {
			unit["description"] = u.Description
		}
		units = append(units, unit)
	}

	payload := map[string]any{
		"intent":         "CAPTURE",
		"purchase_units": units,
	}
	if req.ReturnURL != "" || req.CancelURL != "" {
		payload["application_context"] = map[string]string{
			"return_url": req.ReturnURL,
			"cancel_url": req.CancelURL,
		}
	}

	var apiResp struct {
		ID     string `json:"id"`
		Status string `json:"status"`
		Links  []struct {
			Href string `json:"href"`
			Rel  string `json:"rel"`
		} `json:"links"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/v2/checkout/orders", payload, &apiResp); err != nil {
		return nil, err
	}

	order := &Order{ID: apiResp.ID, Status: apiResp.Status}
	for _, link := range apiResp.Links {
		if link.Rel == "approve" {
			order.ApproveURL = link.Href
			break
		}
	}
	return order, nil
}

// GetOrder fetches the current state of a PayPal order.
func (c *Client) GetOrder(ctx context.Context, orderID string) (*Order, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "paypal client not configured")
	}
	trimmed := strings.TrimSpace(orderID)
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "paypal order id is required")
	}

	var apiResp struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	path := "/v2/checkout/orders/" + url.PathEscape(trimmed)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &apiResp); err != nil {
		return nil, err
	}
	return &Order{ID: apiResp.ID, Status: apiResp.Status}, nil
}

// CaptureOrder captures an approved PayPal order.
func (c *Client) CaptureOrder(ctx context.Context, orderID string) (*CaptureResult, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "paypal client not configured")
	}
	trimmed := strings.TrimSpace(orderID)
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "paypal order id is required")
	}

	var apiResp struct {
		ID            string `json:"id"`
		Status        string `json:"status"`
		PurchaseUnits []struct {
			Payments struct {
				Captures []struct {
					ID     string `json:"id"`
					Status string `json:"status"`
					Amount struct {
						CurrencyCode string `json:"currency_code"`
						Value        string `json:"value"`
					} `json:"amount"`
				} `json:"captures"`
			} `json:"payments"`
		} `json:"purchase_units"`
		Payer struct {
			EmailAddress string `json:"email_address"`
			PayerID      string `json:"payer_id"`
		} `json:"payer"`
	}
	path := "/v2/checkout/orders/" + url.PathEscape(trimmed) + "/capture"
	if err := c.doJSON(ctx, http.MethodPost, path, map[string]any{}, &apiResp); err != nil {
		return nil, err
	}

	result := &CaptureResult{
		OrderID:    apiResp.ID,
		Status:     apiResp.Status,
		PayerEmail: apiResp.Payer.EmailAddress,
		PayerID:    apiResp.Payer.PayerID,
	}
	for _, unit := range apiResp.PurchaseUnits {
		for _, capture := range unit.Payments.Captures {
			result.CaptureID = capture.ID
			result.Amount = capture.Amount.Value
			result.Currency = capture.Amount.CurrencyCode
			break
		}
	}
	return result, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body any, out any) error {
	token, err := c.accessToken(ctx)
	if err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeGatewayError, err, "marshal paypal request")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.buildURL(path), reader)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeGatewayError, err, "build paypal request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeGatewayConnection, err, "execute paypal request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return c.apiError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeGatewayError, err, "decode paypal response")
	}
	return nil
}

func (c *Client) apiError(resp *http.Response) error {
	msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
	cause := fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return pkgerrors.Wrap(pkgerrors.CodeGatewayAuth, cause, "paypal rejected credentials")
	case resp.StatusCode == http.StatusTooManyRequests:
		return pkgerrors.Wrap(pkgerrors.CodeGatewayRateLimit, cause, "paypal rate limit reached")
	case resp.StatusCode >= http.StatusBadRequest && resp.StatusCode < http.StatusInternalServerError:
		return pkgerrors.Wrap(pkgerrors.CodeGatewayInvalid, cause, "paypal rejected request")
	case resp.StatusCode >= http.StatusInternalServerError:
		return pkgerrors.Wrap(pkgerrors.CodeGatewayConnection, cause, "paypal unavailable")
	default:
		return pkgerrors.Wrap(pkgerrors.CodeGatewayError, cause, "paypal request failed")
	}
}

func (c *Client) accessToken(ctx context.Context) (string, error) {
	if c.tokens != nil {
		cached, err := c.tokens.Get(ctx, c.tokens.GatewayTokenKey(tokenCacheName))
		if err == nil && cached != "" {
			return cached, nil
		}
	}

	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.buildURL("/v1/oauth2/token"), strings.NewReader(form.Encode()))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeGatewayError, err, "build paypal token request")
	}
	req.SetBasicAuth(c.clientID, c.secret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeGatewayConnection, err, "execute paypal token request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		cause := fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
		if resp.StatusCode == http.StatusUnauthorized {
			return "", pkgerrors.Wrap(pkgerrors.CodeGatewayAuth, cause, "paypal rejected credentials")
		}
		return "", pkgerrors.Wrap(pkgerrors.CodeGatewayConnection, cause, "paypal token request failed")
	}

	var tokenResp struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeGatewayError, err, "decode paypal token response")
	}
	if tokenResp.AccessToken == "" {
		return "", pkgerrors.New(pkgerrors.CodeGatewayAuth, "paypal returned an empty access token")
	}

	if c.tokens != nil && tokenResp.ExpiresIn > 0 {
		ttl := time.Duration(tokenResp.ExpiresIn)*time.Second - tokenCacheSlack
		if ttl > 0 {
			_ = c.tokens.Set(ctx, c.tokens.GatewayTokenKey(tokenCacheName), tokenResp.AccessToken, ttl)
		}
	}

	return tokenResp.AccessToken, nil
}

func (c *Client) buildURL(path string) string {
	return strings.TrimRight(c.baseURL, "/") + "/" + strings.TrimLeft(path, "/")
}
