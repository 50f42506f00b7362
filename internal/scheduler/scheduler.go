package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/driveads/campaign-management/internal/campaign"
)

// CampaignSweeper is the slice of the campaign lifecycle the scheduler drives:
// activating campaigns whose start date has arrived and completing campaigns
// whose end date has passed.
type CampaignSweeper interface {
	ActivateDueCampaigns() (int64, error)
	CompleteCampaigns() (*campaign.CompletionResult, error)
}

// Scheduler runs the lifecycle sweeps on a fixed interval until its context
// is cancelled. Sweeps are idempotent, so an overlapping run after a missed
// tick is harmless.
type Scheduler struct {
	sweeper  CampaignSweeper
	interval time.Duration
	logger   *slog.Logger
}

func New(sweeper CampaignSweeper, interval time.Duration, logger *slog.Logger) *Scheduler {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &Scheduler{
		sweeper:  sweeper,
		interval: interval,
		logger:   logger,
	}
}

// Run sweeps once immediately, then on every tick until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	s.logger.Info("campaign scheduler started", "interval", s.interval)

	s.sweep()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("campaign scheduler stopped")
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *Scheduler) sweep() {
	activated, err := s.sweeper.ActivateDueCampaigns()
	if err != nil {
		s.logger.Error("activation sweep failed", "error", err)
	} else if activated > 0 {
		s.logger.Info("activation sweep done", "activated", activated)
	}

	result, err := s.sweeper.CompleteCampaigns()
	if err != nil {
		s.logger.Error("completion sweep failed", "error", err)
	} else if result.Count > 0 {
		s.logger.Info("completion sweep done", "completed", result.Count)
	}
}
