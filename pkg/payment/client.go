// Package payment is a thin client for the card-payment provider used to
// charge for PDF exports. With no secret key configured the client is
// disabled and exports are free.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// ErrDisabled reports that no provider credentials are configured.
var ErrDisabled = errors.New("payment provider not configured")

// Client calls the payment provider's intent API.
type Client struct {
	BaseURL        string
	HTTP           *http.Client
	SecretKey      string
	PublishableKey string
}

func NewClient() *Client {
	base := os.Getenv("PAYMENT_API_URL")
	if base == "" {
		base = "https://api.payment-provider.com"
	}
	return &Client{
		BaseURL:        base,
		HTTP:           &http.Client{Timeout: 30 * time.Second},
		SecretKey:      os.Getenv("PAYMENT_SECRET_KEY"),
		PublishableKey: os.Getenv("PAYMENT_PUBLISHABLE_KEY"),
	}
}

// Enabled reports whether the provider is configured.
func (c *Client) Enabled() bool {
	return c.SecretKey != ""
}

// Intent is the provider-side payment record.
type Intent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Status       string `json:"status"`
}

// CreateIntent opens an intent for the given amount.
func (c *Client) CreateIntent(ctx context.Context, amountCents int, currency string) (Intent, error) {
	if !c.Enabled() {
		return Intent{}, ErrDisabled
	}
	body, _ := json.Marshal(map[string]interface{}{
		"amount":   amountCents,
		"currency": currency,
	})
	return c.post(ctx, "/v1/intents", body)
}

// GetIntent fetches the current state of an intent.
func (c *Client) GetIntent(ctx context.Context, id string) (Intent, error) {
	if !c.Enabled() {
		return Intent{}, ErrDisabled
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/v1/intents/"+id, nil)
	if err != nil {
		return Intent{}, err
	}
	return c.send(req)
}

// Verify reports whether the intent has settled.
func (c *Client) Verify(ctx context.Context, id string) (bool, error) {
	intent, err := c.GetIntent(ctx, id)
	if err != nil {
		return false, err
	}
	return intent.Status == "succeeded", nil
}

func (c *Client) post(ctx context.Context, path string, body []byte) (Intent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return Intent{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.send(req)
}

func (c *Client) send(req *http.Request) (Intent, error) {
	req.Header.Set("Authorization", "Bearer "+c.SecretKey)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return Intent{}, fmt.Errorf("payment provider: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return Intent{}, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Intent{}, fmt.Errorf("payment provider returned status %d", resp.StatusCode)
	}

	var intent Intent
	if err := json.Unmarshal(respBody, &intent); err != nil {
		return Intent{}, fmt.Errorf("decode intent: %w", err)
	}
	return intent, nil
}
