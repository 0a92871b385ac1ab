package ratelimit

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	clocktesting "k8s.io/utils/clock/testing"

	"datalake/internal/logging"
	"datalake/internal/testutil"
)

// autoStep advances the fake clock whenever someone is waiting on it, until stop is closed.
func autoStep(fc *clocktesting.FakeClock, step time.Duration, stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return
		default:
		}
		if fc.HasWaiters() {
			fc.Step(step)
		} else {
			time.Sleep(time.Millisecond)
		}
	}
}

func TestLimiter_AdmitsUpToLimitImmediately(t *testing.T) {
	fc := clocktesting.NewFakeClock(time.Unix(0, 0))
	limiter := NewLimiter(time.Second, 3, testutil.Logger(), WithClock(fc))

	for range 3 {
		require.NoError(t, limiter.Acquire(context.Background(), "threats"))
	}

	assert.Equal(t, 3, limiter.InWindow("threats"))
	assert.False(t, fc.HasWaiters())
}

func TestLimiter_BlocksUntilOldestAgesOut(t *testing.T) {
	fc := clocktesting.NewFakeClock(time.Unix(0, 0))
	limiter := NewLimiter(time.Second, 2, testutil.Logger(), WithClock(fc))

	require.NoError(t, limiter.Acquire(context.Background(), "threats"))
	require.NoError(t, limiter.Acquire(context.Background(), "threats"))

	done := make(chan error, 1)
	go func() {
		done <- limiter.Acquire(context.Background(), "threats")
	}()

	require.Eventually(t, fc.HasWaiters, time.Second, time.Millisecond)
	select {
	case <-done:
		t.Fatal("third call should wait for the window to slide")
	default:
	}

	fc.Step(time.Second)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("third call was not released")
	}
	assert.Equal(t, 1, limiter.InWindow("threats"))
}

func TestLimiter_KeysAreIndependent(t *testing.T) {
	fc := clocktesting.NewFakeClock(time.Unix(0, 0))
	limiter := NewLimiter(time.Second, 1, testutil.Logger(), WithClock(fc))

	require.NoError(t, limiter.Acquire(context.Background(), "lookup"))
	require.NoError(t, limiter.Acquire(context.Background(), "bulk-search"))

	assert.Equal(t, 1, limiter.InWindow("lookup"))
	assert.Equal(t, 1, limiter.InWindow("bulk-search"))
	assert.False(t, fc.HasWaiters())
}

func TestLimiter_NeverExceedsLimitInAnyWindow(t *testing.T) {
	tests := []struct {
		name   string
		period time.Duration
		limit  int
		calls  int
	}{
		{"five per second", time.Second, 5, 23},
		{"one per second", time.Second, 1, 7},
		{"three per 250ms", 250 * time.Millisecond, 3, 17},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc := clocktesting.NewFakeClock(time.Unix(0, 0))
			limiter := NewLimiter(tt.period, tt.limit, testutil.Logger(), WithClock(fc))

			stop := make(chan struct{})
			var wg sync.WaitGroup
			wg.Add(1)
			go func() {
				defer wg.Done()
				autoStep(fc, 50*time.Millisecond, stop)
			}()

			starts := make([]time.Time, 0, tt.calls)
			for range tt.calls {
				require.NoError(t, limiter.Acquire(context.Background(), "k"))
				starts = append(starts, fc.Now())
			}
			close(stop)
			wg.Wait()

			for i := 0; i+tt.limit < len(starts); i++ {
				gap := starts[i+tt.limit].Sub(starts[i])
				assert.GreaterOrEqual(t, gap, tt.period,
					"calls %d and %d started within one window", i, i+tt.limit)
			}
		})
	}
}

func TestLimiter_ContextCancelled(t *testing.T) {
	fc := clocktesting.NewFakeClock(time.Unix(0, 0))
	limiter := NewLimiter(time.Minute, 1, testutil.Logger(), WithClock(fc))
	require.NoError(t, limiter.Acquire(context.Background(), "k"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := limiter.Acquire(ctx, "k")
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, limiter.InWindow("k"))
}

func TestLimiter_MinimumSleep(t *testing.T) {
	fc := clocktesting.NewFakeClock(time.Unix(0, 0))
	limiter := NewLimiter(time.Second, 1, testutil.Logger(), WithClock(fc))
	require.NoError(t, limiter.Acquire(context.Background(), "k"))

	// Only 10ms remain before the first call ages out; the wait is still MinSleep.
	fc.Step(990 * time.Millisecond)

	done := make(chan error, 1)
	go func() {
		done <- limiter.Acquire(context.Background(), "k")
	}()

	require.Eventually(t, fc.HasWaiters, time.Second, time.Millisecond)
	fc.Step(10 * time.Millisecond)
	assert.True(t, fc.HasWaiters(), "limiter must not wake before MinSleep")

	fc.Step(MinSleep)
	require.NoError(t, <-done)
}

func TestNewLimiter_ClampsLimit(t *testing.T) {
	limiter := NewLimiter(time.Second, 0, testutil.Logger())
	assert.Equal(t, 1, limiter.limit)
}

func TestLimiter_LogsWaitsOnGivenLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewLogger(logging.Config{Level: logging.LevelDebug, Format: "text", Output: &buf})
	fc := clocktesting.NewFakeClock(time.Unix(0, 0))
	limiter := NewLimiter(time.Second, 1, logger, WithClock(fc))

	require.NoError(t, limiter.Acquire(context.Background(), "sightings"))

	stop := make(chan struct{})
	go autoStep(fc, MinSleep, stop)
	err := limiter.Acquire(context.Background(), "sightings")
	close(stop)

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Rate limit reached, waiting")
	assert.Contains(t, buf.String(), "component=rate_limiter")
	assert.Contains(t, buf.String(), "key=sightings")
}
