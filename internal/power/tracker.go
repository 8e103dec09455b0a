package power

import (
	"sync"
	"time"

	"codeberg.org/mutker/wattmon/internal/errors"
	"codeberg.org/mutker/wattmon/internal/logger"
)

// baseline is the last accepted cumulative reading for one entity
type baseline struct {
	joules     float64
	observedAt time.Time
}

type tracker struct {
	cfg       Config
	mu        sync.Mutex
	baselines map[string]baseline
	logger    logger.Logger
}

// NewTracker creates a power derivation tracker
func NewTracker(cfg Config, log logger.Logger) (Tracker, error) {
	errFactory := errors.New()

	if err := cfg.Validate(); err != nil {
		return nil, errFactory.Wrap(ErrInvalidConfig, err)
	}

	return &tracker{
		cfg:       cfg,
		baselines: make(map[string]baseline),
		logger:    log,
	}, nil
}

func (t *tracker) Observe(entityKey string, joules float64, now time.Time) (Reading, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	prev, seen := t.baselines[entityKey]
	if !seen {
		t.baselines[entityKey] = baseline{joules: joules, observedAt: now}
		t.logger.Debug().
			Str("entity", entityKey).
			Float64("joules", joules).
			Msg("First measurement recorded")

		return Reading{Status: StatusInitializing}, nil
	}

	elapsed := now.Sub(prev.observedAt).Seconds()
	if elapsed <= 0 {
		errFactory := errors.New()
		err := errFactory.WithData(ErrNonMonotonicClock, struct {
			Entity  string
			Elapsed float64
		}{
			Entity:  entityKey,
			Elapsed: elapsed,
		})
		t.logger.Warn().
			Str("entity", entityKey).
			Float64("elapsed_seconds", elapsed).
			Msg("Non-positive elapsed time, keeping baseline")

		return Reading{}, err
	}

	if elapsed < t.cfg.MinInterval.Seconds() {
		// Baseline stays put so a later sample can still difference
		// against the original measurement
		t.logger.Debug().
			Str("entity", entityKey).
			Float64("elapsed_seconds", elapsed).
			Float64("required_seconds", t.cfg.MinInterval.Seconds()).
			Msg("Measurement too soon")

		return Reading{Status: StatusWaiting}, nil
	}

	delta := joules - prev.joules
	t.baselines[entityKey] = baseline{joules: joules, observedAt: now}

	if delta < 0 {
		// Counter reset or wraparound: never report negative power,
		// re-anchor on the new reading
		t.logger.Warn().
			Str("entity", entityKey).
			Float64("previous_joules", prev.joules).
			Float64("current_joules", joules).
			Msg("Cumulative counter decreased, re-anchoring baseline")

		return Reading{Status: StatusActive}, nil
	}

	watts := delta / elapsed
	t.logger.Debug().
		Str("entity", entityKey).
		Float64("delta_joules", delta).
		Float64("elapsed_seconds", elapsed).
		Float64("watts", watts).
		Msg("Power derived")

	return Reading{Watts: watts, Status: StatusActive}, nil
}

func (t *tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.baselines = make(map[string]baseline)
}
