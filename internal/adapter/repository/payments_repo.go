package repository

import (
	"context"
	"errors"
	"time"

	"resume-studio/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

type PaymentsRepo struct {
	pool *pgxpool.Pool
}

func NewPaymentsRepo(pool *pgxpool.Pool) *PaymentsRepo {
	return &PaymentsRepo{pool: pool}
}

// Create records a freshly opened intent.
func (r *PaymentsRepo) Create(ctx context.Context, userID uuid.UUID, intentID string, amountCents int, currency string) (*domain.PaymentRecord, error) {
	rec := &domain.PaymentRecord{
		ID:          uuid.New(),
		UserID:      userID,
		IntentID:    intentID,
		AmountCents: amountCents,
		Currency:    currency,
		CreatedAt:   time.Now().UTC(),
	}
	rec.UpdatedAt = rec.CreatedAt

	if r.pool == nil {
		return rec, nil
	}

	_, err := r.pool.Exec(ctx, `INSERT INTO payments (id, user_id, intent_id, amount_cents, currency, paid, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT (intent_id) DO UPDATE SET amount_cents = EXCLUDED.amount_cents, currency = EXCLUDED.currency, updated_at = EXCLUDED.updated_at`,
		rec.ID, rec.UserID, rec.IntentID, rec.AmountCents, rec.Currency, rec.Paid, rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// MarkPaid flips the paid flag once the provider confirms settlement.
func (r *PaymentsRepo) MarkPaid(ctx context.Context, intentID string) error {
	if r.pool == nil {
		return nil
	}

	_, err := r.pool.Exec(ctx,
		`UPDATE payments SET paid = TRUE, updated_at = $2 WHERE intent_id = $1`,
		intentID, time.Now().UTC())
	return err
}

// IsPaid reports whether the intent was confirmed for this user.
func (r *PaymentsRepo) IsPaid(ctx context.Context, userID uuid.UUID, intentID string) (bool, error) {
	if r.pool == nil {
		return false, nil
	}

	var paid bool
	err := r.pool.QueryRow(ctx,
		`SELECT paid FROM payments WHERE user_id = $1 AND intent_id = $2`,
		userID, intentID).Scan(&paid)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return paid, nil
}
