package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/nulzo/model-capability-api/internal/store"
	"github.com/nulzo/model-capability-api/internal/store/model"
)

// DB defines the interface for database operations (satisfied by *sqlx.DB and *sqlx.Tx)
type DB interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	NamedExecContext(ctx context.Context, query string, arg interface{}) (sql.Result, error)
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// SqliteRepository implements store.Repository
type SqliteRepository struct {
	db       *sqlx.DB // Required for starting new transactions
	executor DB       // Used for actual queries (can be *sqlx.DB or *sqlx.Tx)
}

func NewSqliteRepository(db *sqlx.DB) *SqliteRepository {
	return &SqliteRepository{
		db:       db,
		executor: db,
	}
}

func (r *SqliteRepository) Close() error {
	return r.db.Close()
}

func (r *SqliteRepository) WithTx(ctx context.Context, fn func(repo store.Repository) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	// Create a repository instance that uses the transaction
	txRepo := &SqliteRepository{
		db:       r.db, // Keep the original DB handle
		executor: tx,
	}

	if err := fn(txRepo); err != nil {
		// attempt rollback, but prioritize original error
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

func (r *SqliteRepository) APIKeys() store.APIKeyRepository {
	return &apiKeyRepo{db: r.executor}
}

func (r *SqliteRepository) Resolutions() store.ResolutionRepository {
	return &resolutionRepo{db: r.executor}
}

type apiKeyRepo struct {
	db DB
}

func (r *apiKeyRepo) GetByHash(ctx context.Context, hash string) (*model.APIKey, error) {
	var key model.APIKey
	// active check is part of the query for speed
	query := `SELECT * FROM api_keys WHERE key_hash = ? AND is_active = 1`
	err := r.db.GetContext(ctx, &key, query, hash)
	if err != nil {
		return nil, err
	}
	return &key, nil
}

func (r *apiKeyRepo) Create(ctx context.Context, key *model.APIKey) error {
	query := `
	INSERT INTO api_keys (id, name, key_hash, key_prefix, is_active, created_at, updated_at)
	VALUES (:id, :name, :key_hash, :key_prefix, :is_active, :created_at, :updated_at)`
	_, err := r.db.NamedExecContext(ctx, query, key)
	return err
}

func (r *apiKeyRepo) Touch(ctx context.Context, id string) error {
	query := `UPDATE api_keys SET last_used_at = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, time.Now(), id)
	return err
}

type resolutionRepo struct {
	db DB
}

func (r *resolutionRepo) Log(ctx context.Context, entry *model.ResolutionLog) error {
	// Using NamedExec for cleaner mapping
	query := `
	INSERT INTO resolution_logs (
		id, requested_model, canonical_model, provider_kind,
		decision, source, latency_ms, created_at
	) VALUES (
		:id, :requested_model, :canonical_model, :provider_kind,
		:decision, :source, :latency_ms, :created_at
	)`
	_, err := r.db.NamedExecContext(ctx, query, entry)
	return err
}

func (r *resolutionRepo) LogBatch(ctx context.Context, entries []*model.ResolutionLog) error {
	for _, entry := range entries {
		if err := r.Log(ctx, entry); err != nil {
			return fmt.Errorf("failed to log resolution %s: %w", entry.ID, err)
		}
	}
	return nil
}

func (r *resolutionRepo) GetRecent(ctx context.Context, limit int) ([]model.ResolutionLog, error) {
	var logs []model.ResolutionLog
	query := `SELECT * FROM resolution_logs ORDER BY created_at DESC, id DESC LIMIT ?`
	err := r.db.SelectContext(ctx, &logs, query, limit)
	return logs, err
}

func (r *resolutionRepo) GetDecisionStats(ctx context.Context, days int) ([]model.DecisionStats, error) {
	var stats []model.DecisionStats
	query := `
		SELECT
			DATE(created_at) as date,
			SUM(CASE WHEN decision = 'served' THEN 1 ELSE 0 END) as served,
			SUM(CASE WHEN decision = 'restricted' THEN 1 ELSE 0 END) as restricted,
			SUM(CASE WHEN decision = 'unsupported' THEN 1 ELSE 0 END) as unsupported
		FROM resolution_logs
		WHERE created_at >= DATE('now', ?)
		GROUP BY date
		ORDER BY date DESC
	`
	// SQLite date offset format is '-7 days'
	err := r.db.SelectContext(ctx, &stats, query, fmt.Sprintf("-%d days", days))
	return stats, err
}
