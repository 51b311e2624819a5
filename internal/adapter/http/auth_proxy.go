package http

import (
	"bytes"
	"io"
	nethttp "net/http"
	"time"

	"github.com/gofiber/fiber/v2"
)

// AuthProxy relays token and registration requests to the external auth
// service verbatim. Account handling never happens in this process.
type AuthProxy struct {
	BaseURL string
	HTTP    *nethttp.Client
}

func NewAuthProxy(baseURL string) *AuthProxy {
	return &AuthProxy{
		BaseURL: baseURL,
		HTTP:    &nethttp.Client{Timeout: 15 * time.Second},
	}
}

// Forward posts the request body to the same path on the auth service and
// relays status and body back unchanged.
func (p *AuthProxy) Forward(path string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req, err := nethttp.NewRequestWithContext(c.UserContext(), nethttp.MethodPost, p.BaseURL+path, bytes.NewReader(c.Body()))
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "proxy failed"})
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := p.HTTP.Do(req)
		if err != nil {
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "auth service unavailable"})
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "auth service unavailable"})
		}

		c.Set(fiber.HeaderContentType, resp.Header.Get("Content-Type"))
		return c.Status(resp.StatusCode).Send(body)
	}
}
