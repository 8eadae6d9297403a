package core

// scheduler.go provides background maintenance of the activity trail.
//
// The pruner deletes audit entries older than the retention period. It runs
// once on start and then every CheckInterval until its context is cancelled.
// A failed run is logged and retried on the next tick.

import (
	"context"
	"log/slog"
	"time"
)

// RetentionConfig holds configuration for the audit pruner.
type RetentionConfig struct {
	RetentionDays int           // Days to keep audit entries (default: 365)
	CheckInterval time.Duration // How often to run (default: 24h)
}

func (c RetentionConfig) withDefaults() RetentionConfig {
	if c.RetentionDays <= 0 {
		c.RetentionDays = 365
	}
	if c.CheckInterval <= 0 {
		c.CheckInterval = 24 * time.Hour
	}
	return c
}

// StartAuditPruner blocks, pruning old audit entries periodically. Run it in
// its own goroutine.
func (s *Service) StartAuditPruner(ctx context.Context, cfg RetentionConfig) {
	cfg = cfg.withDefaults()
	slog.Info("audit pruner started",
		"retention_days", cfg.RetentionDays,
		"interval", cfg.CheckInterval,
	)

	s.PruneAudit(ctx, cfg.RetentionDays)

	ticker := time.NewTicker(cfg.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("audit pruner stopped")
			return
		case <-ticker.C:
			s.PruneAudit(ctx, cfg.RetentionDays)
		}
	}
}

// PruneAudit performs one pruning pass and returns the number of entries
// removed. Errors are logged, and reported as zero removed.
func (s *Service) PruneAudit(ctx context.Context, retentionDays int) int64 {
	start := time.Now()
	cutoff := s.clock.Now().AddDate(0, 0, -retentionDays)

	pruned, err := s.store.PruneAudit(ctx, cutoff)
	if err != nil {
		slog.Error("audit prune failed", "error", err)
		return 0
	}
	slog.Info("pruned audit entries",
		"entries_pruned", pruned,
		"cutoff", cutoff.Format(time.RFC3339),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return pruned
}
