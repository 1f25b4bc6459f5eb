package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/Gitisfun/price-tracker-api/internal/domain"
	"github.com/Gitisfun/price-tracker-api/internal/service"
)

// runTimeout bounds a single tracking run.
const runTimeout = 10 * time.Minute

// Tracker defines the interface for tracking runs.
type Tracker interface {
	Track(ctx context.Context) (*domain.TrackStats, error)
}

type Scheduler struct {
	tracker  Tracker
	interval time.Duration
	logger   *slog.Logger
}

func NewScheduler(tracker Tracker, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		tracker:  tracker,
		interval: interval,
		logger:   logger,
	}
}

func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Info("scheduler started", "interval", s.interval)

	s.runTrack(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			s.runTrack(ctx)
		}
	}
}

func (s *Scheduler) runTrack(ctx context.Context) {
	trackCtx, cancel := context.WithTimeout(ctx, runTimeout)
	defer cancel()

	if _, err := s.tracker.Track(trackCtx); err != nil {
		if errors.Is(err, service.ErrRunInProgress) {
			s.logger.Warn("previous tracking run still in flight, skipping")
			return
		}
		s.logger.Error("tracking run failed", "error", err)
	}
}
