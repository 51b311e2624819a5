package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"resume-studio/internal/config"
	"resume-studio/internal/model"
	"resume-studio/internal/render"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Parser turns free-form resume text into a structured document.
type Parser interface {
	ParseResume(ctx context.Context, userInput string) (model.Document, error)
}

// PDFRenderer prints standalone HTML to PDF bytes.
type PDFRenderer interface {
	RenderHTMLToPDF(ctx context.Context, html string) ([]byte, error)
}

// ResumesStore persists per-user documents.
type ResumesStore interface {
	SaveDocument(ctx context.Context, userID uuid.UUID, document json.RawMessage) error
	GetDocument(ctx context.Context, userID uuid.UUID) (json.RawMessage, error)
	SavePendingInput(ctx context.Context, userID uuid.UUID, input string) error
}

type Handler struct {
	parser   Parser
	engine   *render.Engine
	renderer PDFRenderer
	resumes  ResumesStore
	payments *PaymentHandler
	cfg      config.Config
}

func NewHandler(parser Parser, engine *render.Engine, renderer PDFRenderer, resumes ResumesStore, payments *PaymentHandler, cfg config.Config) *Handler {
	return &Handler{
		parser:   parser,
		engine:   engine,
		renderer: renderer,
		resumes:  resumes,
		payments: payments,
		cfg:      cfg,
	}
}

// Register mounts every route on the app. Resume and payment routes sit
// behind the bearer middleware; the auth proxy stays open.
func (h *Handler) Register(app *fiber.App, verifier TokenVerifier, proxy *AuthProxy) {
	app.Post("/api/token/", proxy.Forward("/api/token/"))
	app.Post("/api/token/refresh/", proxy.Forward("/api/token/refresh/"))
	app.Post("/register/", proxy.Forward("/register/"))

	auth := RequireAuth(verifier)
	app.Post("/resume/get_json/", auth, h.GetJSON)
	app.Get("/resume/get_data/", auth, h.GetData)
	app.Post("/resume/get_data/", auth, h.SaveData)
	app.Post("/resume/get_pdf_from_json/", auth, h.GetPDFFromJSON)

	if h.payments != nil {
		app.Get("/payment/config/", auth, h.payments.Config)
		app.Post("/payment/create-intent/", auth, h.payments.CreateIntent)
		app.Post("/payment/verify/", auth, h.payments.Verify)
	}
}

type getJSONReq struct {
	UserInput string `json:"user_input"`
}

// GetJSON structures free-form text into a document seed and stores both
// the raw input and the seed for the user.
func (h *Handler) GetJSON(c *fiber.Ctx) error {
	var req getJSONReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}
	if strings.TrimSpace(req.UserInput) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "user_input is required"})
	}

	doc, err := h.parser.ParseResume(c.UserContext(), req.UserInput)
	if err != nil {
		slog.Error("parse resume failed", "error", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "could not structure input"})
	}

	uid := userID(c)
	if err := h.resumes.SavePendingInput(c.UserContext(), uid, req.UserInput); err != nil {
		slog.Warn("failed to save pending input", "user_id", uid, "error", err)
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "encoding failed"})
	}
	if err := h.resumes.SaveDocument(c.UserContext(), uid, raw); err != nil {
		slog.Warn("failed to save document seed", "user_id", uid, "error", err)
	}

	return c.JSON(fiber.Map{"data": doc})
}

// GetData returns the user's stored document, or the canonical empty shape
// when nothing has been saved yet.
func (h *Handler) GetData(c *fiber.Ctx) error {
	raw, err := h.resumes.GetDocument(c.UserContext(), userID(c))
	if err != nil {
		return c.JSON(fiber.Map{"data": model.Default()})
	}
	return c.JSON(fiber.Map{"data": model.Normalize(raw)})
}

// SaveData validates, normalizes, and upserts the posted document. The
// request body is the same `{data: …}` envelope the fetch side responds
// with; a bare document is accepted too.
func (h *Handler) SaveData(c *fiber.Ctx) error {
	body := documentPayload(c.Body())
	if err := model.ValidateJSON(body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	doc := model.Normalize(body)
	if _, err := model.CheckWordLimit(doc); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "encoding failed"})
	}
	if err := h.resumes.SaveDocument(c.UserContext(), userID(c), raw); err != nil {
		slog.Error("failed to save document", "user_id", userID(c), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not persist document"})
	}

	return c.JSON(fiber.Map{"data": doc})
}

// documentPayload unwraps the `{data: …}` save envelope.
func documentPayload(body []byte) []byte {
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && len(envelope.Data) > 0 {
		return envelope.Data
	}
	return body
}

type getPDFReq struct {
	JSONInput    json.RawMessage `json:"json_input"`
	TemplateName string          `json:"template_name"`
	CSSName      string          `json:"css_name"`
	PaymentID    string          `json:"payment_id"`
}

// GetPDFFromJSON renders the posted document through the named template and
// prints it to PDF. When an export price is configured, a confirmed payment
// reference is required.
func (h *Handler) GetPDFFromJSON(c *fiber.Ctx) error {
	var req getPDFReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}
	if len(req.JSONInput) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "json_input is required"})
	}

	if h.cfg.ExportPriceCents > 0 {
		if req.PaymentID == "" {
			return c.Status(fiber.StatusPaymentRequired).JSON(fiber.Map{"error": "payment required"})
		}
		paid, err := h.payments.confirmed(c.UserContext(), userID(c), req.PaymentID)
		if err != nil {
			slog.Error("payment verification failed", "payment_id", req.PaymentID, "error", err)
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "payment verification failed"})
		}
		if !paid {
			return c.Status(fiber.StatusPaymentRequired).JSON(fiber.Map{"error": "payment not confirmed"})
		}
	}

	templateName := req.TemplateName
	if templateName == "" {
		if keys := h.engine.Keys(); len(keys) > 0 {
			templateName = keys[0]
		}
	}
	if !h.engine.Has(templateName) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown template"})
	}

	// json_input arrives either as the document object or as a
	// string-encoded document (the stringify-then-post shape); unquote the
	// latter before normalizing.
	rawDoc := []byte(req.JSONInput)
	var quoted string
	if json.Unmarshal(rawDoc, &quoted) == nil {
		rawDoc = []byte(quoted)
	}
	doc := model.Normalize(rawDoc)
	if _, err := model.CheckWordLimit(doc); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	html, err := h.engine.Render(templateName, doc, nil)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "render failed"})
	}

	pdf, err := h.printPDF(c.UserContext(), html)
	if err != nil {
		slog.Error("pdf rendering failed", "template", templateName, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "pdf rendering failed"})
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="resume.pdf"`)
	return c.Send(pdf)
}

// printPDF retries the headless print with exponential backoff and checks
// the PDF signature before accepting the output.
func (h *Handler) printPDF(ctx context.Context, html string) ([]byte, error) {
	var pdfBytes []byte
	var renderErr error
	attempts := 3
	for i := 0; i < attempts; i++ {
		pdfBytes, renderErr = h.renderer.RenderHTMLToPDF(ctx, html)
		if renderErr == nil {
			if len(pdfBytes) > 0 && strings.HasPrefix(string(pdfBytes), "%PDF") {
				return pdfBytes, nil
			}
			renderErr = fmt.Errorf("invalid PDF output (len=%d)", len(pdfBytes))
		}
		slog.Warn("pdf render attempt failed", "attempt", i+1, "error", renderErr)
		if i < attempts-1 {
			backoff := time.Duration(1<<i) * time.Second
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	return nil, renderErr
}
