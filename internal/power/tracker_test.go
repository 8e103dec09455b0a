package power_test

import (
	"sync"
	"testing"
	"time"

	"codeberg.org/mutker/wattmon/internal/errors"
	"codeberg.org/mutker/wattmon/internal/logger"
	"codeberg.org/mutker/wattmon/internal/power"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestTracker(t *testing.T, minInterval time.Duration) power.Tracker {
	t.Helper()

	tracker, err := power.NewTracker(power.Config{MinInterval: minInterval}, logger.Default())
	require.NoError(t, err)

	return tracker
}

func TestFirstObservationInitializes(t *testing.T) {
	tracker := newTestTracker(t, 5*time.Second)

	reading, err := tracker.Observe("pod:a", 100.0, t0)
	require.NoError(t, err)
	assert.Equal(t, power.StatusInitializing, reading.Status)
	assert.Zero(t, reading.Watts, "A rate must not be fabricated from a single sample")
}

func TestTooSoonKeepsOriginalBaseline(t *testing.T) {
	tracker := newTestTracker(t, 5*time.Second)

	_, err := tracker.Observe("pod:a", 100.0, t0)
	require.NoError(t, err)

	reading, err := tracker.Observe("pod:a", 150.0, t0.Add(2*time.Second))
	require.NoError(t, err)
	assert.Equal(t, power.StatusWaiting, reading.Status)
	assert.Zero(t, reading.Watts)

	// Elapsed time is measured from the original baseline at t0, not the
	// rejected sample at t0+2s
	reading, err = tracker.Observe("pod:a", 200.0, t0.Add(6*time.Second))
	require.NoError(t, err)
	assert.Equal(t, power.StatusActive, reading.Status)
	assert.InDelta(t, 100.0/6.0, reading.Watts, 1e-9)
}

func TestActiveDerivation(t *testing.T) {
	tracker := newTestTracker(t, 5*time.Second)

	_, err := tracker.Observe("pod:a", 1000.0, t0)
	require.NoError(t, err)

	reading, err := tracker.Observe("pod:a", 1100.0, t0.Add(10*time.Second))
	require.NoError(t, err)
	assert.Equal(t, power.StatusActive, reading.Status)
	assert.InDelta(t, 10.0, reading.Watts, 1e-9)

	// Baseline advances with each accepted sample
	reading, err = tracker.Observe("pod:a", 1150.0, t0.Add(20*time.Second))
	require.NoError(t, err)
	assert.InDelta(t, 5.0, reading.Watts, 1e-9)
}

func TestCounterResetReAnchorsBaseline(t *testing.T) {
	tracker := newTestTracker(t, 5*time.Second)

	_, err := tracker.Observe("pod:b", 500.0, t0)
	require.NoError(t, err)

	reading, err := tracker.Observe("pod:b", 300.0, t0.Add(10*time.Second))
	require.NoError(t, err)
	assert.Equal(t, power.StatusActive, reading.Status)
	assert.Zero(t, reading.Watts, "Power must never be negative")

	// The new reading became the baseline
	reading, err = tracker.Observe("pod:b", 400.0, t0.Add(20*time.Second))
	require.NoError(t, err)
	assert.InDelta(t, 10.0, reading.Watts, 1e-9)
}

func TestNonMonotonicClockIsFlaggedAndKeepsBaseline(t *testing.T) {
	tracker := newTestTracker(t, 5*time.Second)

	_, err := tracker.Observe("pod:c", 100.0, t0)
	require.NoError(t, err)

	reading, err := tracker.Observe("pod:c", 200.0, t0.Add(-1*time.Second))
	require.Error(t, err)
	assert.Equal(t, power.ErrNonMonotonicClock, errors.CodeOf(err))
	assert.Zero(t, reading.Watts)

	// Baseline was not corrupted by the skewed sample
	reading, err = tracker.Observe("pod:c", 160.0, t0.Add(6*time.Second))
	require.NoError(t, err)
	assert.Equal(t, power.StatusActive, reading.Status)
	assert.InDelta(t, 10.0, reading.Watts, 1e-9)
}

func TestEntitiesAreIndependent(t *testing.T) {
	tracker := newTestTracker(t, 5*time.Second)

	_, err := tracker.Observe("pod:a/package", 100.0, t0)
	require.NoError(t, err)

	// A different entity key starts its own baseline
	reading, err := tracker.Observe("pod:a/dram", 50.0, t0.Add(10*time.Second))
	require.NoError(t, err)
	assert.Equal(t, power.StatusInitializing, reading.Status)
}

func TestResetDropsAllBaselines(t *testing.T) {
	tracker := newTestTracker(t, 5*time.Second)

	_, err := tracker.Observe("pod:a", 100.0, t0)
	require.NoError(t, err)
	tracker.Reset()

	reading, err := tracker.Observe("pod:a", 200.0, t0.Add(10*time.Second))
	require.NoError(t, err)
	assert.Equal(t, power.StatusInitializing, reading.Status)
}

func TestConcurrentObserveOnDistinctEntities(t *testing.T) {
	tracker := newTestTracker(t, 1*time.Second)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := string(rune('a' + n))
			_, err := tracker.Observe(key, 100.0, t0)
			assert.NoError(t, err)
			reading, err := tracker.Observe(key, 200.0, t0.Add(10*time.Second))
			assert.NoError(t, err)
			assert.InDelta(t, 10.0, reading.Watts, 1e-9)
		}(i)
	}
	wg.Wait()
}

func TestNewTrackerRejectsInvalidInterval(t *testing.T) {
	_, err := power.NewTracker(power.Config{MinInterval: 0}, logger.Default())
	require.Error(t, err)
}
