package snapshot

import (
	"time"

	"codeberg.org/mutker/wattmon/internal/exposition"
)

// Snapshot is one decoded exposition payload paired with its capture time.
// Read-only to consumers; owned by the cache entry that holds it.
type Snapshot struct {
	Metrics    []exposition.Metric
	CapturedAt time.Time
}

// Cache holds the most recent snapshot per fetch key, bounded by a TTL.
// A lookup past the TTL behaves as a miss, never as stale data.
type Cache interface {
	// Get returns the cached snapshot for key while it is still within
	// the TTL. An expired entry is evicted and reported as a miss.
	Get(key string) (*Snapshot, bool)

	// Put replaces any entry for key with a freshly timestamped snapshot
	// built from metrics, and returns it.
	Put(key string, metrics []exposition.Metric) *Snapshot

	// Clear removes all entries; used for forced-refresh scenarios.
	Clear()
}

// Option configures a cache instance
type Option func(*cache)

// WithClock overrides the cache's time source
func WithClock(now func() time.Time) Option {
	return func(c *cache) {
		c.now = now
	}
}
