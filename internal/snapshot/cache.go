package snapshot

import (
	"sync"
	"time"

	"codeberg.org/mutker/wattmon/internal/errors"
	"codeberg.org/mutker/wattmon/internal/exposition"
	"codeberg.org/mutker/wattmon/internal/logger"
)

type cache struct {
	cfg     Config
	mu      sync.Mutex
	entries map[string]*Snapshot
	now     func() time.Time
	logger  logger.Logger
}

// NewCache creates a snapshot cache. Eviction is lazy, performed at lookup
// time; entry count is bounded by the small set of fetch keys in use, so no
// background sweep is needed.
func NewCache(cfg Config, log logger.Logger, opts ...Option) (Cache, error) {
	errFactory := errors.New()

	if err := cfg.Validate(); err != nil {
		return nil, errFactory.Wrap(ErrInvalidConfig, err)
	}

	c := &cache{
		cfg:     cfg,
		entries: make(map[string]*Snapshot),
		now:     time.Now,
		logger:  log,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

func (c *cache) Get(key string) (*Snapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap, ok := c.entries[key]
	if !ok {
		return nil, false
	}

	if c.now().Sub(snap.CapturedAt) > c.cfg.TTL {
		delete(c.entries, key)
		c.logger.Debug().Str("key", key).Msg("Snapshot expired, evicting")
		return nil, false
	}

	return snap, true
}

func (c *cache) Put(key string, metrics []exposition.Metric) *Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := &Snapshot{
		Metrics:    metrics,
		CapturedAt: c.now(),
	}
	c.entries[key] = snap

	c.logger.Debug().Str("key", key).Int("metrics", len(metrics)).Msg("Snapshot cached")

	return snap
}

func (c *cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*Snapshot)
}
