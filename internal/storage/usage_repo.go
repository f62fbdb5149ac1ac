package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_usage_store.go -package=mocks flexone-api/internal/storage UsageStore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// UsageRecord is one completed relay call's token accounting.
// Message content is never stored, only counts and metadata.
type UsageRecord struct {
	ID                string
	Endpoint          string
	Model             string
	PromptTokens      int
	CompletionTokens  int
	TotalTokens       int
	KnowledgeBaseUsed bool
	CreatedAt         time.Time
}

// UsageTotals aggregates all recorded relays.
type UsageTotals struct {
	Requests         int64 `json:"requests"`
	PromptTokens     int64 `json:"prompt_tokens"`
	CompletionTokens int64 `json:"completion_tokens"`
	TotalTokens      int64 `json:"total_tokens"`
}

// UsageStore defines the interface for usage accounting operations.
type UsageStore interface {
	// Record persists one usage record. A zero ID is replaced with a new UUID.
	Record(ctx context.Context, rec UsageRecord) error
	// Totals returns aggregate counts over all recorded relays.
	Totals(ctx context.Context) (UsageTotals, error)
}

// UsageRepo provides methods for usage accounting.
// It implements the UsageStore interface.
type UsageRepo struct {
	db *sql.DB
}

// NewUsageRepo creates a new UsageRepo.
func NewUsageRepo(db *sql.DB) *UsageRepo {
	return &UsageRepo{db: db}
}

// Record persists one usage record.
func (r *UsageRepo) Record(ctx context.Context, rec UsageRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO usage_records
			(id, endpoint, model, prompt_tokens, completion_tokens, total_tokens, kb_used)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Endpoint, rec.Model,
		rec.PromptTokens, rec.CompletionTokens, rec.TotalTokens,
		boolToInt(rec.KnowledgeBaseUsed),
	)
	if err != nil {
		return fmt.Errorf("failed to insert usage record: %w", err)
	}
	return nil
}

// Totals returns aggregate counts over all recorded relays.
func (r *UsageRepo) Totals(ctx context.Context) (UsageTotals, error) {
	var totals UsageTotals
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*),
			COALESCE(SUM(prompt_tokens), 0),
			COALESCE(SUM(completion_tokens), 0),
			COALESCE(SUM(total_tokens), 0)
		 FROM usage_records`,
	).Scan(&totals.Requests, &totals.PromptTokens, &totals.CompletionTokens, &totals.TotalTokens)
	if err != nil {
		return UsageTotals{}, fmt.Errorf("failed to query usage totals: %w", err)
	}
	return totals, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
