package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"news_watchdog/internal/domain"
)

type fakeCycler struct {
	cycles chan context.Context
	err    error
}

func newFakeCycler() *fakeCycler {
	return &fakeCycler{cycles: make(chan context.Context, 10)}
}

func (f *fakeCycler) RunCycle(ctx context.Context) (*domain.CycleStats, error) {
	f.cycles <- ctx
	if f.err != nil {
		return nil, f.err
	}
	return &domain.CycleStats{}, nil
}

// fakeClock records every requested sleep and only wakes when fired.
type fakeClock struct {
	sleeps chan time.Duration
	fire   chan time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{
		sleeps: make(chan time.Duration, 10),
		fire:   make(chan time.Time),
	}
}

func (c *fakeClock) After(d time.Duration) <-chan time.Time {
	c.sleeps <- d
	return c.fire
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func receive[T any](t *testing.T, ch chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for scheduler")
	}
	var zero T
	return zero
}

func TestScheduler_SleepsIntervalBetweenCycles(t *testing.T) {
	cycler := newFakeCycler()
	clock := newFakeClock()
	sched := NewScheduler(cycler, 45*time.Second, testLogger(), WithClock(clock))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- sched.Start(ctx) }()

	receive(t, cycler.cycles)
	assert.Equal(t, 45*time.Second, receive(t, clock.sleeps))

	// No second cycle until the sleep elapses.
	select {
	case <-cycler.cycles:
		t.Fatal("cycle ran before the interval elapsed")
	case <-time.After(50 * time.Millisecond):
	}

	clock.fire <- time.Now()
	receive(t, cycler.cycles)
	assert.Equal(t, 45*time.Second, receive(t, clock.sleeps))

	clock.fire <- time.Now()
	receive(t, cycler.cycles)
	receive(t, clock.sleeps)

	cancel()
	assert.ErrorIs(t, receive(t, done), context.Canceled)
}

func TestScheduler_CancelDuringSleep(t *testing.T) {
	cycler := newFakeCycler()
	clock := newFakeClock()
	sched := NewScheduler(cycler, time.Hour, testLogger(), WithClock(clock))

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- sched.Start(ctx) }()

	receive(t, cycler.cycles)
	receive(t, clock.sleeps)
	cancel()

	assert.ErrorIs(t, receive(t, done), context.Canceled)
	assert.Empty(t, cycler.cycles)
}

func TestScheduler_CycleErrorDoesNotStopLoop(t *testing.T) {
	cycler := newFakeCycler()
	cycler.err = errors.New("boom")
	clock := newFakeClock()
	sched := NewScheduler(cycler, time.Minute, testLogger(), WithClock(clock))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- sched.Start(ctx) }()

	receive(t, cycler.cycles)
	receive(t, clock.sleeps)
	clock.fire <- time.Now()
	receive(t, cycler.cycles)

	cancel()
	assert.ErrorIs(t, receive(t, done), context.Canceled)
}

func TestScheduler_CycleTimeout(t *testing.T) {
	cycler := newFakeCycler()
	clock := newFakeClock()
	sched := NewScheduler(cycler, time.Minute, testLogger(),
		WithClock(clock),
		WithCycleTimeout(30*time.Second),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() { _ = sched.Start(ctx) }()

	cycleCtx := receive(t, cycler.cycles)
	deadline, ok := cycleCtx.Deadline()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(30*time.Second), deadline, time.Second)
}

func TestScheduler_NoCycleTimeoutByDefault(t *testing.T) {
	cycler := newFakeCycler()
	clock := newFakeClock()
	sched := NewScheduler(cycler, time.Minute, testLogger(), WithClock(clock))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() { _ = sched.Start(ctx) }()

	cycleCtx := receive(t, cycler.cycles)
	_, ok := cycleCtx.Deadline()
	assert.False(t, ok)
}
