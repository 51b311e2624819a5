package http

import (
	"context"
	"log/slog"

	"resume-studio/internal/config"
	"resume-studio/internal/domain"
	"resume-studio/pkg/payment"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// PaymentsStore persists intent records.
type PaymentsStore interface {
	Create(ctx context.Context, userID uuid.UUID, intentID string, amountCents int, currency string) (*domain.PaymentRecord, error)
	MarkPaid(ctx context.Context, intentID string) error
	IsPaid(ctx context.Context, userID uuid.UUID, intentID string) (bool, error)
}

// PaymentProvider is the slice of the provider client the handlers need.
type PaymentProvider interface {
	Enabled() bool
	CreateIntent(ctx context.Context, amountCents int, currency string) (payment.Intent, error)
	Verify(ctx context.Context, id string) (bool, error)
}

type PaymentHandler struct {
	provider PaymentProvider
	store    PaymentsStore
	cfg      config.Config
}

func NewPaymentHandler(provider PaymentProvider, store PaymentsStore, cfg config.Config) *PaymentHandler {
	return &PaymentHandler{provider: provider, store: store, cfg: cfg}
}

// Config exposes the publishable key and export price. A zero price tells
// the client that exports are free.
func (h *PaymentHandler) Config(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"publishable_key": h.cfg.PaymentPublishableKey,
		"price_cents":     h.cfg.ExportPriceCents,
		"currency":        h.cfg.ExportCurrency,
	})
}

// CreateIntent opens a provider intent for the export price and records it.
func (h *PaymentHandler) CreateIntent(c *fiber.Ctx) error {
	if h.cfg.ExportPriceCents <= 0 || !h.provider.Enabled() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "payments are not enabled"})
	}

	intent, err := h.provider.CreateIntent(c.UserContext(), h.cfg.ExportPriceCents, h.cfg.ExportCurrency)
	if err != nil {
		slog.Error("create intent failed", "error", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "could not create payment intent"})
	}

	if _, err := h.store.Create(c.UserContext(), userID(c), intent.ID, h.cfg.ExportPriceCents, h.cfg.ExportCurrency); err != nil {
		slog.Warn("failed to record intent", "intent_id", intent.ID, "error", err)
	}

	return c.JSON(fiber.Map{"id": intent.ID, "client_secret": intent.ClientSecret})
}

type verifyReq struct {
	PaymentID string `json:"payment_id"`
}

// Verify checks the intent with the provider and records settlement.
func (h *PaymentHandler) Verify(c *fiber.Ctx) error {
	var req verifyReq
	if err := c.BodyParser(&req); err != nil || req.PaymentID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "payment_id is required"})
	}

	paid, err := h.confirmed(c.UserContext(), userID(c), req.PaymentID)
	if err != nil {
		slog.Error("verify payment failed", "payment_id", req.PaymentID, "error", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "verification failed"})
	}
	return c.JSON(fiber.Map{"paid": paid})
}

// confirmed answers from the local record first and falls back to the
// provider, persisting a positive answer.
func (h *PaymentHandler) confirmed(ctx context.Context, uid uuid.UUID, intentID string) (bool, error) {
	if paid, err := h.store.IsPaid(ctx, uid, intentID); err == nil && paid {
		return true, nil
	}

	paid, err := h.provider.Verify(ctx, intentID)
	if err != nil {
		return false, err
	}
	if paid {
		if err := h.store.MarkPaid(ctx, intentID); err != nil {
			slog.Warn("failed to mark intent paid", "intent_id", intentID, "error", err)
		}
	}
	return paid, nil
}
