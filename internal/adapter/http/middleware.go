package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	nethttp "net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// TokenVerifier checks an access token and returns the user it belongs to.
// Verification lives in the auth service; this process never inspects token
// internals itself.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (uuid.UUID, error)
}

// AuthServiceVerifier asks the external auth service to verify tokens.
type AuthServiceVerifier struct {
	BaseURL string
	HTTP    *nethttp.Client
}

func NewAuthServiceVerifier(baseURL string) *AuthServiceVerifier {
	return &AuthServiceVerifier{
		BaseURL: baseURL,
		HTTP:    &nethttp.Client{Timeout: 10 * time.Second},
	}
}

func (v *AuthServiceVerifier) Verify(ctx context.Context, token string) (uuid.UUID, error) {
	body, _ := json.Marshal(map[string]string{"token": token})
	req, err := nethttp.NewRequestWithContext(ctx, nethttp.MethodPost, v.BaseURL+"/api/token/verify/", bytes.NewReader(body))
	if err != nil {
		return uuid.Nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.HTTP.Do(req)
	if err != nil {
		return uuid.Nil, fmt.Errorf("auth service: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return uuid.Nil, err
	}
	if resp.StatusCode != nethttp.StatusOK {
		return uuid.Nil, fmt.Errorf("auth service returned status %d", resp.StatusCode)
	}

	var out struct {
		UserID string `json:"user_id"`
	}
	if err := json.Unmarshal(respBody, &out); err != nil {
		return uuid.Nil, fmt.Errorf("decode verify response: %w", err)
	}
	return uuid.Parse(out.UserID)
}

// RequireAuth rejects requests without a verifiable bearer token and stores
// the resolved user id in the request locals.
func RequireAuth(verifier TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(header, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"detail": "authentication required"})
		}

		uid, err := verifier.Verify(c.UserContext(), strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"detail": "invalid or expired token"})
		}

		c.Locals("user_id", uid)
		return c.Next()
	}
}

// userID reads the id RequireAuth stored.
func userID(c *fiber.Ctx) uuid.UUID {
	if uid, ok := c.Locals("user_id").(uuid.UUID); ok {
		return uid
	}
	return uuid.Nil
}
