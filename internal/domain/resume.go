package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ResumeRecord is the per-user stored resume: the structured document as it
// was last saved, plus the raw free-text input that seeded it.
type ResumeRecord struct {
	ID           uuid.UUID       `json:"id"`
	UserID       uuid.UUID       `json:"user_id"`
	Document     json.RawMessage `json:"document"`
	PendingInput string          `json:"pending_input"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// PaymentRecord tracks one export payment intent.
type PaymentRecord struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	IntentID    string    `json:"intent_id"`
	AmountCents int       `json:"amount_cents"`
	Currency    string    `json:"currency"`
	Paid        bool      `json:"paid"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
