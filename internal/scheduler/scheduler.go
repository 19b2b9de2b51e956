// Package scheduler wires up the cron job that periodically re-computes
// cached match statistics for recently active seekers.
package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/ShantanuRaghuwanshi/JobGPT-sub000/internal/matching"
	"github.com/ShantanuRaghuwanshi/JobGPT-sub000/internal/statscache"
)

// Scheduler wraps robfig/cron and manages the stats refresh loop.
type Scheduler struct {
	cron   *cron.Cron
	engine *matching.Engine
	cache  *statscache.Cache
	logger *zap.Logger
	spec   string // cron spec, e.g. "@every 6h"
}

// New creates a Scheduler that fires every intervalHours hours.
func New(engine *matching.Engine, cache *statscache.Cache, logger *zap.Logger, intervalHours int) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		engine: engine,
		cache:  cache,
		logger: logger,
		spec:   fmt.Sprintf("@every %dh", intervalHours),
	}
}

// Start registers the job and starts the scheduler. Also runs one refresh
// immediately so warm entries survive a restart.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.refresh(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	s.logger.Info("stats refresh scheduler started", zap.String("spec", s.spec))

	go s.refresh(ctx)

	return nil
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.logger.Info("stats refresh scheduler stopped")
}

// refresh re-computes statistics for every recently active seeker.
func (s *Scheduler) refresh(ctx context.Context) {
	seekers, err := s.cache.ActiveSeekers(ctx)
	if err != nil {
		s.logger.Error("list active seekers", zap.Error(err))
		return
	}
	if len(seekers) == 0 {
		return
	}

	s.logger.Info("refreshing match statistics", zap.Int("seekers", len(seekers)))

	for _, seekerID := range seekers {
		stats, err := s.engine.GetMatchStatistics(ctx, seekerID)
		if err != nil {
			// Profiles get deleted; skip and keep refreshing the rest.
			s.logger.Warn("compute match statistics",
				zap.String("seeker_id", seekerID),
				zap.Error(err),
			)
			continue
		}
		if err := s.cache.Put(ctx, seekerID, stats); err != nil {
			s.logger.Warn("cache match statistics",
				zap.String("seeker_id", seekerID),
				zap.Error(err),
			)
		}
	}
}
