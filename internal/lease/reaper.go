package lease

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Reaper periodically sweeps a Manager
type Reaper struct {
	manager  Manager
	interval time.Duration
	logger   *zap.Logger
}

// ReaperConfig holds configuration for the reaper
type ReaperConfig struct {
	Manager  Manager
	Interval time.Duration
	Logger   *zap.Logger
}

// NewReaper creates a reaper; Interval defaults to DefaultSweepInterval
func NewReaper(cfg *ReaperConfig) *Reaper {
	if cfg == nil || cfg.Manager == nil {
		panic("lease manager is required")
	}

	r := &Reaper{
		manager:  cfg.Manager,
		interval: cfg.Interval,
		logger:   cfg.Logger,
	}
	if r.interval <= 0 {
		r.interval = DefaultSweepInterval
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}
	return r
}

// Start runs the sweep loop in a goroutine until ctx is cancelled
func (r *Reaper) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.SweepOnce(ctx)
			}
		}
	}()
}

// SweepOnce runs a single sweep, logging instead of failing
func (r *Reaper) SweepOnce(ctx context.Context) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("lease sweep panicked", zap.Any("panic", rec))
		}
	}()

	removed, err := r.manager.Sweep(ctx)
	if err != nil {
		r.logger.Warn("lease sweep failed", zap.Error(err))
		return
	}
	if removed > 0 {
		r.logger.Info("reclaimed stale leases", zap.Int("count", removed))
	}
}
