// Package razorpay is a thin HTTP client for the provider's Orders API.
// Only the endpoints the payment adapter needs are implemented.
package razorpay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client talks to the Razorpay REST API with basic auth.
type Client struct {
	keyID     string
	keySecret string
	baseURL   string
	client    *http.Client
}

// Config holds client configuration.
type Config struct {
	KeyID     string
	KeySecret string
	BaseURL   string
	Timeout   time.Duration
}

// NewClient creates a new Razorpay client. Timeout bounds every call;
// a timed-out order creation leaves nothing recorded on our side, so
// the caller may retry.
func NewClient(config Config) *Client {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = "https://api.razorpay.com/v1"
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &Client{
		keyID:     config.KeyID,
		keySecret: config.KeySecret,
		baseURL:   baseURL,
		client:    &http.Client{Timeout: timeout},
	}
}

// KeyID exposes the public key id the frontend checkout needs.
func (c *Client) KeyID() string {
	return c.keyID
}

// KeySecret exposes the shared secret used for signature verification.
func (c *Client) KeySecret() string {
	return c.keySecret
}

// CreateOrderRequest is the provider's order creation payload. Amount
// is in the currency's minor unit.
type CreateOrderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

// Order is the provider's order representation.
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

type apiError struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

// CreateOrder creates an order with the provider.
func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) (*Order, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal order request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build order request: %w", err)
	}
	httpReq.SetBasicAuth(c.keyID, c.keySecret)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("order creation request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read order response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error.Description != "" {
			return nil, fmt.Errorf("provider rejected order: %s (%s)", apiErr.Error.Description, apiErr.Error.Code)
		}
		return nil, fmt.Errorf("provider returned status %d", resp.StatusCode)
	}

	var order Order
	if err := json.Unmarshal(respBody, &order); err != nil {
		return nil, fmt.Errorf("failed to decode order response: %w", err)
	}
	return &order, nil
}
