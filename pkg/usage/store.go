package usage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Record is one provider call's usage accounting.
type Record struct {
	ID               string
	Time             time.Time
	Provider         string
	Model            string
	Action           string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	Streamed         bool
	OK               bool
}

// Summary aggregates usage over a period.
type Summary struct {
	Calls       int
	Failures    int
	TotalTokens int
	ByProvider  map[string]int
}

// StoreConfig configures the SQLite usage store.
type StoreConfig struct {
	// Path is the database file path. ":memory:" is accepted for tests.
	Path string

	// BusyTimeout is how long to wait on a locked database.
	BusyTimeout time.Duration
}

// Store persists usage records in SQLite.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

const schema = `
CREATE TABLE IF NOT EXISTS usage (
	id TEXT PRIMARY KEY,
	recorded_at INTEGER NOT NULL,
	provider TEXT NOT NULL,
	model TEXT NOT NULL,
	action TEXT NOT NULL DEFAULT '',
	prompt_tokens INTEGER NOT NULL DEFAULT 0,
	completion_tokens INTEGER NOT NULL DEFAULT 0,
	total_tokens INTEGER NOT NULL DEFAULT 0,
	streamed INTEGER NOT NULL DEFAULT 0,
	ok INTEGER NOT NULL DEFAULT 1
);
CREATE INDEX IF NOT EXISTS idx_usage_recorded_at ON usage(recorded_at);
CREATE INDEX IF NOT EXISTS idx_usage_provider ON usage(provider);
`

// NewStore opens (or creates) the usage database and applies the schema.
func NewStore(cfg StoreConfig) (*Store, error) {
	if cfg.Path == "" {
		cfg.Path = "data/usage.db"
	}
	if cfg.BusyTimeout <= 0 {
		cfg.BusyTimeout = 5 * time.Second
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open usage database %q: %w", cfg.Path, err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if _, err := db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", cfg.BusyTimeout.Milliseconds())); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create usage schema: %w", err)
	}

	logger := slog.Default().With("component", "usage.store")
	logger.Debug("usage store opened", "path", cfg.Path)

	return &Store{db: db, logger: logger}, nil
}

// Record persists one usage record. A missing id gets a fresh UUID.
func (s *Store) Record(ctx context.Context, rec Record) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.Time.IsZero() {
		rec.Time = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO usage (
			id, recorded_at, provider, model, action,
			prompt_tokens, completion_tokens, total_tokens, streamed, ok
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Time.Unix(), rec.Provider, rec.Model, rec.Action,
		rec.PromptTokens, rec.CompletionTokens, rec.TotalTokens,
		boolToInt(rec.Streamed), boolToInt(rec.OK),
	)
	if err != nil {
		return fmt.Errorf("failed to record usage: %w", err)
	}
	return nil
}

// Summarize aggregates usage since the given time.
func (s *Store) Summarize(ctx context.Context, since time.Time) (*Summary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT provider, total_tokens, ok FROM usage WHERE recorded_at >= ?`,
		since.Unix(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query usage: %w", err)
	}
	defer rows.Close()

	summary := &Summary{ByProvider: make(map[string]int)}
	for rows.Next() {
		var provider string
		var tokens, ok int
		if err := rows.Scan(&provider, &tokens, &ok); err != nil {
			return nil, fmt.Errorf("failed to scan usage row: %w", err)
		}
		summary.Calls++
		if ok == 0 {
			summary.Failures++
		}
		summary.TotalTokens += tokens
		summary.ByProvider[provider] += tokens
	}
	return summary, rows.Err()
}

// Prune deletes records older than the cutoff and returns the count.
func (s *Store) Prune(ctx context.Context, olderThan time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM usage WHERE recorded_at < ?`, olderThan.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to prune usage records: %w", err)
	}
	deleted, _ := res.RowsAffected()
	if deleted > 0 {
		s.logger.Info("pruned usage records", "deleted", deleted)
	}
	return deleted, nil
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
