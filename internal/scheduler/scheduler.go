package scheduler

import (
	"context"
	"log/slog"
	"time"

	"news_watchdog/internal/domain"
)

// Cycler defines the interface for a single check cycle.
type Cycler interface {
	RunCycle(ctx context.Context) (*domain.CycleStats, error)
}

// Clock abstracts waiting so tests can drive the loop.
type Clock interface {
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

func (realClock) After(d time.Duration) <-chan time.Time {
	return time.After(d)
}

type Option func(*Scheduler)

func WithClock(c Clock) Option {
	return func(s *Scheduler) {
		s.clock = c
	}
}

// WithCycleTimeout bounds a single cycle. Zero waits for every check.
func WithCycleTimeout(d time.Duration) Option {
	return func(s *Scheduler) {
		s.cycleTimeout = d
	}
}

// Scheduler runs a cycle, sleeps for the interval and repeats until the
// context is cancelled. The sleep starts after the cycle ends, so cycles
// never overlap.
type Scheduler struct {
	cycler       Cycler
	interval     time.Duration
	cycleTimeout time.Duration
	clock        Clock
	logger       *slog.Logger
}

func NewScheduler(cycler Cycler, interval time.Duration, logger *slog.Logger, opts ...Option) *Scheduler {
	s := &Scheduler{
		cycler:   cycler,
		interval: interval,
		clock:    realClock{},
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Info("scheduler started", "interval", s.interval)

	for {
		s.runCycle(ctx)

		if ctx.Err() != nil {
			s.logger.Info("scheduler stopped")
			return ctx.Err()
		}

		s.logger.Info("sleeping", "interval", s.interval)

		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return ctx.Err()
		case <-s.clock.After(s.interval):
		}
	}
}

func (s *Scheduler) runCycle(ctx context.Context) {
	if s.cycleTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cycleTimeout)
		defer cancel()
	}

	if _, err := s.cycler.RunCycle(ctx); err != nil {
		s.logger.Error("cycle failed", "error", err)
	}
}
