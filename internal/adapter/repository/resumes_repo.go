package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"resume-studio/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// ErrNotFound reports that no row exists for the user.
var ErrNotFound = errors.New("not found")

type ResumesRepo struct {
	pool *pgxpool.Pool
}

func NewResumesRepo(pool *pgxpool.Pool) *ResumesRepo {
	return &ResumesRepo{pool: pool}
}

// SaveDocument upserts the user's document JSONB. A nil pool degrades to a
// no-op so the server can run without a database in development.
func (r *ResumesRepo) SaveDocument(ctx context.Context, userID uuid.UUID, document json.RawMessage) error {
	if r.pool == nil {
		return nil
	}

	now := time.Now().UTC()
	_, err := r.pool.Exec(ctx, `INSERT INTO resumes (id, user_id, document, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$4)
		ON CONFLICT (user_id) DO UPDATE SET document = EXCLUDED.document, updated_at = EXCLUDED.updated_at`,
		uuid.New(), userID, document, now)
	return err
}

// GetDocument loads the user's stored document.
func (r *ResumesRepo) GetDocument(ctx context.Context, userID uuid.UUID) (json.RawMessage, error) {
	if r.pool == nil {
		return nil, ErrNotFound
	}

	var document json.RawMessage
	err := r.pool.QueryRow(ctx, `SELECT document FROM resumes WHERE user_id = $1`, userID).Scan(&document)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return document, nil
}

// SavePendingInput stores the raw free-text input alongside the document so
// a later re-generation can start from it.
func (r *ResumesRepo) SavePendingInput(ctx context.Context, userID uuid.UUID, input string) error {
	if r.pool == nil {
		return nil
	}

	now := time.Now().UTC()
	_, err := r.pool.Exec(ctx, `INSERT INTO resumes (id, user_id, pending_input, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$4)
		ON CONFLICT (user_id) DO UPDATE SET pending_input = EXCLUDED.pending_input, updated_at = EXCLUDED.updated_at`,
		uuid.New(), userID, input, now)
	return err
}

// Get loads the full record.
func (r *ResumesRepo) Get(ctx context.Context, userID uuid.UUID) (*domain.ResumeRecord, error) {
	if r.pool == nil {
		return nil, ErrNotFound
	}

	rec := &domain.ResumeRecord{}
	var pending *string
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, document, pending_input, created_at, updated_at FROM resumes WHERE user_id = $1`,
		userID).Scan(&rec.ID, &rec.UserID, &rec.Document, &pending, &rec.CreatedAt, &rec.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if pending != nil {
		rec.PendingInput = *pending
	}
	return rec, nil
}
