package usage

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// RetentionConfig controls scheduled pruning of old usage records.
type RetentionConfig struct {
	// RetentionDays is how long records are kept. Zero disables pruning.
	RetentionDays int

	// Schedule is a standard cron expression (e.g., "0 3 * * *" for daily
	// at 3 AM). Empty disables the scheduler.
	Schedule string
}

// Scheduler prunes the usage store on a cron schedule.
type Scheduler struct {
	store  *Store
	config RetentionConfig
	cron   *cron.Cron
	logger *slog.Logger

	mu      sync.Mutex
	running bool
}

// NewScheduler creates a retention scheduler for the store.
func NewScheduler(store *Store, cfg RetentionConfig) *Scheduler {
	return &Scheduler{
		store:  store,
		config: cfg,
		cron:   cron.New(),
		logger: slog.Default().With("component", "usage.scheduler"),
	}
}

// Start begins scheduled pruning. A missing schedule or zero retention is a
// no-op. The scheduler stops when ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.config.Schedule == "" || s.config.RetentionDays <= 0 {
		s.logger.Info("usage retention not configured, skipping scheduler")
		return nil
	}

	if _, err := cron.ParseStandard(s.config.Schedule); err != nil {
		return fmt.Errorf("invalid retention schedule %q: %w", s.config.Schedule, err)
	}

	_, err := s.cron.AddFunc(s.config.Schedule, func() {
		cutoff := time.Now().AddDate(0, 0, -s.config.RetentionDays)
		if _, err := s.store.Prune(ctx, cutoff); err != nil {
			s.logger.Error("scheduled usage pruning failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule usage pruning: %w", err)
	}

	s.cron.Start()
	s.running = true
	s.logger.Info("usage retention scheduler started",
		"schedule", s.config.Schedule,
		"retention_days", s.config.RetentionDays,
	)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// Stop halts the scheduler.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.cron.Stop()
	s.running = false
	s.logger.Info("usage retention scheduler stopped")
}
