package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"news_watchdog/internal/domain"
	"news_watchdog/internal/storage/postgres"
)

// Checker counts recent news for a single target. It never returns an
// error: failures are reported as domain.FailedCount with Err set.
type Checker struct {
	counter NewsCounter
	timeout time.Duration
	logger  *slog.Logger
}

func NewChecker(counter NewsCounter, timeout time.Duration, logger *slog.Logger) *Checker {
	return &Checker{
		counter: counter,
		timeout: timeout,
		logger:  logger,
	}
}

func (c *Checker) Check(ctx context.Context, target domain.Target) (result domain.CheckResult) {
	startTime := time.Now()
	result.Target = target

	defer func() {
		if r := recover(); r != nil {
			result.Count = domain.FailedCount
			result.Err = fmt.Errorf("panic: %v", r)
			c.logger.Error("panic checking database", "db", target.DB, "panic", r)
		}
		result.Duration = time.Since(startTime)
	}()

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	count, err := c.counter.CountRecent(ctx, target.DB)
	if err != nil {
		result.Count = domain.FailedCount
		result.Err = err

		attrs := []any{"db", target.DB, "name", target.Name, "error", err}
		if code := postgres.ErrorCode(err); code != "" {
			attrs = append(attrs, "pq_code", code)
		}
		c.logger.Error("error checking database", attrs...)
		return result
	}

	result.Count = count
	c.logger.Debug("database checked", "db", target.DB, "count", count)

	return result
}
