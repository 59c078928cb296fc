package store

import (
	"context"

	"github.com/nulzo/model-capability-api/internal/store/model"
)

// Repository is the main contract for the data layer.
type Repository interface {
	APIKeys() APIKeyRepository
	Resolutions() ResolutionRepository

	// transaction support
	WithTx(ctx context.Context, fn func(repo Repository) error) error

	Close() error
}

type APIKeyRepository interface {
	// GetByHash retrieves a key by its hashed value (for auth).
	GetByHash(ctx context.Context, hash string) (*model.APIKey, error)
	// Create issues a new API key.
	Create(ctx context.Context, key *model.APIKey) error
	// Touch updates the last-used timestamp.
	Touch(ctx context.Context, id string) error
}

type ResolutionRepository interface {
	// Log stores a single resolution decision.
	Log(ctx context.Context, entry *model.ResolutionLog) error
	// LogBatch stores a batch of decisions.
	LogBatch(ctx context.Context, entries []*model.ResolutionLog) error
	// GetRecent returns the last N decisions, newest first.
	GetRecent(ctx context.Context, limit int) ([]model.ResolutionLog, error)
	// GetDecisionStats returns per-day decision counts.
	GetDecisionStats(ctx context.Context, days int) ([]model.DecisionStats, error)
}
