// Package backend is the HTTP client for the resume API. Every call is
// bearer-authenticated from the bridge-held token pair; a 401 triggers
// exactly one refresh-and-replay before the failure is surfaced.
package backend

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

	"resume-studio/internal/model"
)

// ErrUnauthenticated reports that no valid session exists; tokens have been
// cleared and the user must log in again.
var ErrUnauthenticated = errors.New("unauthenticated")

// Client calls the resume API.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	tokens  *Tokens
}

func NewClient(tokens *Tokens) *Client {
	base := os.Getenv("RESUME_API_URL")
	if base == "" {
		base = "http://localhost:3000"
	}
	return &Client{
		BaseURL: base,
		HTTP:    &http.Client{Timeout: 60 * time.Second},
		tokens:  tokens,
	}
}

// apiError carries a non-2xx response through to the caller.
type apiError struct {
	Status  int
	Message string
}

func (e *apiError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api error %d", e.Status)
}

// do sends a JSON request with the current access token. On a 401 it makes
// exactly one refresh attempt: success replays the original request once,
// failure clears the token pair and returns ErrUnauthenticated.
func (c *Client) do(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	resp, respBody, err := c.send(ctx, method, path, body, c.tokens.Access())
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		if err := c.refresh(ctx); err != nil {
			c.tokens.Clear()
			return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
		}
		resp, respBody, err = c.send(ctx, method, path, body, c.tokens.Access())
		if err != nil {
			return nil, err
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &apiError{Status: resp.StatusCode, Message: errorMessage(respBody)}
	}
	return respBody, nil
}

func (c *Client) send(ctx context.Context, method, path string, body []byte, access string) (*http.Response, []byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return nil, nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if access != "" {
		req.Header.Set("Authorization", "Bearer "+access)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, err
	}
	return resp, respBody, nil
}

// refresh trades the stored refresh token for a new access token. It never
// recurses into do: a 401 here is final.
func (c *Client) refresh(ctx context.Context) error {
	refreshToken := c.tokens.Refresh()
	if refreshToken == "" {
		return errors.New("no refresh token")
	}

	body, _ := json.Marshal(map[string]string{"refresh": refreshToken})
	resp, respBody, err := c.send(ctx, http.MethodPost, "/api/token/refresh/", body, "")
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return &apiError{Status: resp.StatusCode, Message: errorMessage(respBody)}
	}

	var out struct {
		Access  string `json:"access"`
		Refresh string `json:"refresh"`
	}
	if err := json.Unmarshal(respBody, &out); err != nil {
		return fmt.Errorf("decode refresh response: %w", err)
	}
	if out.Access == "" {
		return errors.New("refresh response missing access token")
	}
	c.tokens.Set(out.Access, out.Refresh)
	return nil
}

func errorMessage(body []byte) string {
	var out struct {
		Detail string `json:"detail"`
		Error  string `json:"error"`
	}
	if json.Unmarshal(body, &out) == nil {
		if out.Detail != "" {
			return out.Detail
		}
		if out.Error != "" {
			return out.Error
		}
	}
	return ""
}

// Login obtains a token pair and stores it in the bridge.
func (c *Client) Login(ctx context.Context, username, password string) error {
	body, _ := json.Marshal(map[string]string{"username": username, "password": password})
	resp, respBody, err := c.send(ctx, http.MethodPost, "/api/token/", body, "")
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return &apiError{Status: resp.StatusCode, Message: errorMessage(respBody)}
	}

	var out struct {
		Access  string `json:"access"`
		Refresh string `json:"refresh"`
	}
	if err := json.Unmarshal(respBody, &out); err != nil {
		return fmt.Errorf("decode token response: %w", err)
	}
	c.tokens.Set(out.Access, out.Refresh)
	return nil
}

// Register creates an account; the caller logs in afterwards.
func (c *Client) Register(ctx context.Context, username, password string) error {
	body, _ := json.Marshal(map[string]string{"username": username, "password": password})
	resp, respBody, err := c.send(ctx, http.MethodPost, "/register/", body, "")
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &apiError{Status: resp.StatusCode, Message: errorMessage(respBody)}
	}
	return nil
}

// Logout drops the stored token pair.
func (c *Client) Logout() {
	c.tokens.Clear()
}

// GenerateFromText sends free-form text to the inference endpoint and
// returns the structured document seed.
func (c *Client) GenerateFromText(ctx context.Context, userInput string) (model.Document, error) {
	body, _ := json.Marshal(map[string]string{"user_input": userInput})
	respBody, err := c.do(ctx, http.MethodPost, "/resume/get_json/", body)
	if err != nil {
		return model.Document{}, err
	}
	return decodeDocument(respBody)
}

// FetchResume loads the caller's stored document.
func (c *Client) FetchResume(ctx context.Context) (model.Document, error) {
	respBody, err := c.do(ctx, http.MethodGet, "/resume/get_data/", nil)
	if err != nil {
		return model.Document{}, err
	}
	return decodeDocument(respBody)
}

// SaveResume stores the document server-side, wrapped in the same `{data}`
// envelope the fetch side returns.
func (c *Client) SaveResume(ctx context.Context, doc model.Document) error {
	body, err := json.Marshal(map[string]interface{}{"data": doc})
	if err != nil {
		return err
	}
	_, err = c.do(ctx, http.MethodPost, "/resume/get_data/", body)
	return err
}

// GeneratePDF renders the document through the named template server-side
// and returns the PDF bytes.
func (c *Client) GeneratePDF(ctx context.Context, doc model.Document, templateKey string) ([]byte, error) {
	return c.GeneratePDFPaid(ctx, doc, templateKey, "")
}

// GeneratePDFPaid is GeneratePDF with a payment reference for deployments
// that charge for export.
func (c *Client) GeneratePDFPaid(ctx context.Context, doc model.Document, templateKey, paymentID string) ([]byte, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	body, _ := json.Marshal(map[string]interface{}{
		"json_input":    json.RawMessage(raw),
		"template_name": templateKey,
		"css_name":      templateKey,
		"payment_id":    paymentID,
	})
	return c.do(ctx, http.MethodPost, "/resume/get_pdf_from_json/", body)
}

// PaymentConfig is the provider's publishable configuration plus the export
// price. A zero price means exports are free.
type PaymentConfig struct {
	PublishableKey string `json:"publishable_key"`
	PriceCents     int    `json:"price_cents"`
	Currency       string `json:"currency"`
}

func (c *Client) PaymentConfig(ctx context.Context) (PaymentConfig, error) {
	respBody, err := c.do(ctx, http.MethodGet, "/payment/config/", nil)
	if err != nil {
		return PaymentConfig{}, err
	}
	var cfg PaymentConfig
	if err := json.Unmarshal(respBody, &cfg); err != nil {
		return PaymentConfig{}, fmt.Errorf("decode payment config: %w", err)
	}
	return cfg, nil
}

// CreateIntent opens a payment intent and returns its id and client secret.
func (c *Client) CreateIntent(ctx context.Context) (id, clientSecret string, err error) {
	respBody, err := c.do(ctx, http.MethodPost, "/payment/create-intent/", []byte("{}"))
	if err != nil {
		return "", "", err
	}
	var out struct {
		ID           string `json:"id"`
		ClientSecret string `json:"client_secret"`
	}
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", "", fmt.Errorf("decode intent response: %w", err)
	}
	return out.ID, out.ClientSecret, nil
}

// VerifyPayment reports whether the referenced payment has settled.
func (c *Client) VerifyPayment(ctx context.Context, paymentID string) (bool, error) {
	body, _ := json.Marshal(map[string]string{"payment_id": paymentID})
	respBody, err := c.do(ctx, http.MethodPost, "/payment/verify/", body)
	if err != nil {
		return false, err
	}
	var out struct {
		Paid bool `json:"paid"`
	}
	if err := json.Unmarshal(respBody, &out); err != nil {
		return false, fmt.Errorf("decode verify response: %w", err)
	}
	return out.Paid, nil
}

// decodeDocument accepts both the enveloped {"data": …} shape and a bare
// document, then runs the result through shape normalization.
func decodeDocument(respBody []byte) (model.Document, error) {
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	raw := respBody
	if err := json.Unmarshal(respBody, &envelope); err == nil && len(envelope.Data) > 0 {
		raw = envelope.Data
	}
	return model.Normalize(raw), nil
}
