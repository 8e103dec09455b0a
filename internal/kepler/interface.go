package kepler

import (
	"context"
	"time"

	"codeberg.org/mutker/wattmon/internal/power"
)

// Source supplies raw exposition text. Fetch is expected to do the actual
// network round trip; timeouts and retries are its concern, not the client's.
type Source interface {
	Fetch(ctx context.Context) (string, error)
}

// PodEnergy holds the cumulative energy counters for one pod, split by
// RAPL zone. Values are joules since the meter's reference point.
type PodEnergy struct {
	TotalJoules   float64
	PackageJoules float64
	DRAMJoules    float64
}

// PodPower holds derived power for one pod. TotalWatts is the sum of the
// per-zone derived values; zones are differenced independently because they
// do not share a sampling cadence.
type PodPower struct {
	CPUWatts   float64
	DRAMWatts  float64
	TotalWatts float64
	Status     power.Status
}

// NamespaceEnergy aggregates cumulative energy over every pod in one
// namespace.
type NamespaceEnergy struct {
	TotalJoules   float64
	PackageJoules float64
	DRAMJoules    float64
	PodCount      int
}

// NodeEnergy holds the node-level RAPL counters in joules.
type NodeEnergy struct {
	PlatformJoules float64
	PackageJoules  float64
	CoreJoules     float64
	DRAMJoules     float64
	UncoreJoules   float64
}

// PodRef identifies one pod seen in the metric stream
type PodRef struct {
	Name      string
	Namespace string
}

// Client is the typed query surface over a Kepler exposition endpoint.
type Client interface {
	PodEnergy(ctx context.Context, pod, namespace string) (PodEnergy, error)
	PodPower(ctx context.Context, pod, namespace string) (PodPower, error)
	NamespaceEnergy(ctx context.Context, namespace string) (NamespaceEnergy, error)
	NodeEnergy(ctx context.Context) (NodeEnergy, error)

	// ListPods returns the distinct pods present in the snapshot, sorted
	// by namespace then name. An empty namespace matches all namespaces.
	ListPods(ctx context.Context, namespace string) ([]PodRef, error)

	// Refresh drops the cached snapshot and fetches a fresh one.
	Refresh(ctx context.Context) error
}

// Option configures a client instance
type Option func(*client)

// WithClock overrides the client's time source
func WithClock(now func() time.Time) Option {
	return func(c *client) {
		c.now = now
	}
}
