package service

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// snapshotRunTimeout bounds a single scheduled refresh of all portfolios.
const snapshotRunTimeout = 10 * time.Minute

// BulkRefresher refreshes the snapshots of every portfolio.
type BulkRefresher interface {
	RefreshAll(ctx context.Context) (int, error)
}

// SnapshotScheduler periodically regenerates all materialized performance periods.
// This keeps the ongoing month correct after a month rolls over without any write.
type SnapshotScheduler struct {
	cron      *cron.Cron
	refresher BulkRefresher
	logger    zerolog.Logger
}

// NewSnapshotScheduler registers a refresh job on a standard five-field cron schedule.
// Returns an error if the schedule cannot be parsed.
func NewSnapshotScheduler(schedule string, refresher BulkRefresher, logger zerolog.Logger) (*SnapshotScheduler, error) {
	s := &SnapshotScheduler{
		cron:      cron.New(cron.WithLocation(time.UTC)),
		refresher: refresher,
		logger:    logger.With().Str("component", "SnapshotScheduler").Logger(),
	}

	if _, err := s.cron.AddFunc(schedule, s.Run); err != nil {
		return nil, fmt.Errorf("invalid snapshot schedule %q: %w", schedule, err)
	}

	return s, nil
}

// Start begins running scheduled refreshes in the background.
func (s *SnapshotScheduler) Start() {
	s.cron.Start()
	s.logger.Info().Msg("snapshot scheduler started")
}

// Stop prevents further runs and waits for a running refresh to finish or ctx to expire.
func (s *SnapshotScheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.logger.Warn().Msg("snapshot scheduler stopped while a refresh was running")
	}
}

// Run performs one refresh of all portfolios.
func (s *SnapshotScheduler) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), snapshotRunTimeout)
	defer cancel()

	start := time.Now()
	count, err := s.refresher.RefreshAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Int("refreshed", count).Msg("scheduled snapshot refresh failed")
		return
	}

	s.logger.Info().
		Int("refreshed", count).
		Dur("duration", time.Since(start)).
		Msg("scheduled snapshot refresh completed")
}
