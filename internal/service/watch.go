package service

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"news_watchdog/internal/config"
	"news_watchdog/internal/domain"
)

// WatchService runs one check cycle over all targets.
//
// A target is stale when its count is exactly zero. Failed checks
// (domain.FailedCount) are logged and counted but do not trigger a
// notification. Nothing is remembered between cycles, so a target that
// stays stale is reported on every cycle.
type WatchService struct {
	targets   []domain.Target
	checker   *Checker
	notifier  Notifier
	formatter Formatter
	logger    *slog.Logger
	config    config.CheckConfig
	now       func() time.Time
}

func NewWatchService(
	targets []domain.Target,
	checker *Checker,
	notifier Notifier,
	formatter Formatter,
	logger *slog.Logger,
	cfg config.CheckConfig,
) *WatchService {
	return &WatchService{
		targets:   targets,
		checker:   checker,
		notifier:  notifier,
		formatter: formatter,
		logger:    logger,
		config:    cfg,
		now:       time.Now,
	}
}

func (s *WatchService) RunCycle(ctx context.Context) (*domain.CycleStats, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	startTime := time.Now()
	s.logger.Info("checking databases for news", "databases", len(s.targets))

	results := s.checkAll(ctx)

	stats := &domain.CycleStats{Checked: len(results)}
	for _, r := range results {
		s.logger.Info("news found", "db", r.Target.DB, "count", r.Count)

		if r.Failed() {
			stats.Failed++
		}
		if !r.Stale() {
			continue
		}

		stats.Stale++
		s.notify(ctx, r.Target, stats)
	}

	stats.Duration = time.Since(startTime)

	if stats.Clean() {
		s.logger.Info("all databases have fresh news",
			"failed", stats.Failed,
			"duration", stats.Duration,
		)
	} else {
		s.logger.Info("some databases have no fresh news",
			"stale", stats.Stale,
			"notified", stats.Notified,
			"notify_errors", stats.NotifyErrors,
			"failed", stats.Failed,
			"duration", stats.Duration,
		)
	}

	return stats, nil
}

// checkAll checks every target concurrently and returns once all checks
// are done. Results keep the order of targets.
func (s *WatchService) checkAll(ctx context.Context) []domain.CheckResult {
	results := make([]domain.CheckResult, len(s.targets))

	var g errgroup.Group
	if s.config.MaxConcurrency > 0 {
		g.SetLimit(s.config.MaxConcurrency)
	}

	for i, target := range s.targets {
		g.Go(func() error {
			results[i] = s.checker.Check(ctx, target)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (s *WatchService) notify(ctx context.Context, target domain.Target, stats *domain.CycleStats) {
	alert := domain.StaleAlert{
		Target:     target,
		Message:    s.formatter.Format(target),
		DetectedAt: s.now(),
	}

	if err := s.notifier.Notify(ctx, alert); err != nil {
		stats.NotifyErrors++
		s.logger.Error("error sending notification", "db", target.DB, "error", err)
		return
	}
	stats.Notified++
}
