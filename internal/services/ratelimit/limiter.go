// Package ratelimit throttles outbound API calls with a per-key sliding window.
package ratelimit

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"k8s.io/utils/clock"
)

// MinSleep is the shortest wait between two window checks.
const MinSleep = 100 * time.Millisecond

// Limiter allows at most Limit calls per key within any trailing Period.
// It never rejects a call, it only delays it.
type Limiter struct {
	period time.Duration
	limit  int
	clock  clock.Clock
	logger *slog.Logger

	mu    sync.Mutex
	calls map[string][]time.Time
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithClock sets the time source.
func WithClock(c clock.Clock) Option {
	return func(l *Limiter) {
		l.clock = c
	}
}

// NewLimiter creates a limiter admitting limit calls per period for each key.
// Waits are logged at debug level on logger.
func NewLimiter(period time.Duration, limit int, logger *slog.Logger, opts ...Option) *Limiter {
	if limit < 1 {
		limit = 1
	}

	l := &Limiter{
		period: period,
		limit:  limit,
		clock:  clock.RealClock{},
		logger: logger.With("component", "rate_limiter"),
		calls:  make(map[string][]time.Time),
	}
	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Acquire blocks until key has a free slot in the window, then records the call.
// It returns early only when ctx is done.
func (l *Limiter) Acquire(ctx context.Context, key string) error {
	for {
		wait, ok := l.tryAcquire(key)
		if ok {
			return nil
		}

		if wait < MinSleep {
			wait = MinSleep
		}

		l.logger.DebugContext(ctx, "Rate limit reached, waiting",
			"key", key,
			"wait", wait,
			"limit", l.limit,
			"period", l.period)

		if err := l.sleep(ctx, wait); err != nil {
			return err
		}
	}
}

// tryAcquire records a call if the window has room, else returns how long until the oldest call ages out.
func (l *Limiter) tryAcquire(key string) (time.Duration, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	window := evict(l.calls[key], now.Add(-l.period))

	if len(window) < l.limit {
		l.calls[key] = append(window, now)
		return 0, true
	}

	l.calls[key] = window
	return window[0].Add(l.period).Sub(now), false
}

// InWindow returns the number of calls recorded for key in the current window.
func (l *Limiter) InWindow(key string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	window := evict(l.calls[key], l.clock.Now().Add(-l.period))
	l.calls[key] = window
	return len(window)
}

func (l *Limiter) sleep(ctx context.Context, d time.Duration) error {
	timer := l.clock.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C():
		return nil
	}
}

// evict drops timestamps at or before cutoff. Timestamps are in ascending order.
func evict(window []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(window) && !window[i].After(cutoff) {
		i++
	}
	if i == 0 {
		return window
	}
	return append(window[:0:0], window[i:]...)
}
