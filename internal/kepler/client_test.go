package kepler_test

import (
	"context"
	"testing"
	"time"

	"codeberg.org/mutker/wattmon/internal/kepler"
	"codeberg.org/mutker/wattmon/internal/logger"
	"codeberg.org/mutker/wattmon/internal/power"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSource serves canned exposition payloads in sequence, repeating the
// last one, and counts round trips
type fakeSource struct {
	payloads []string
	fetches  int
}

func (f *fakeSource) Fetch(_ context.Context) (string, error) {
	f.fetches++
	idx := f.fetches - 1
	if idx >= len(f.payloads) {
		idx = len(f.payloads) - 1
	}
	return f.payloads[idx], nil
}

type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time          { return f.now }
func (f *fakeClock) Advance(d time.Duration) { f.now = f.now.Add(d) }

const payloadOne = `# HELP kepler_pod_cpu_joules_total Cumulative CPU energy per pod and zone
kepler_pod_cpu_joules_total{pod_name="nginx",pod_namespace="default",zone="package"} 100
kepler_pod_cpu_joules_total{pod_name="nginx",pod_namespace="default",zone="dram"} 40
kepler_pod_cpu_joules_total{pod_name="api",pod_namespace="prod",zone="package"} 900
kepler_node_platform_joules_total 5000
kepler_node_package_joules_total 3000
kepler_node_dram_joules_total 800
`

const payloadTwo = `kepler_pod_cpu_joules_total{pod_name="nginx",pod_namespace="default",zone="package"} 220
kepler_pod_cpu_joules_total{pod_name="nginx",pod_namespace="default",zone="dram"} 100
kepler_pod_cpu_joules_total{pod_name="api",pod_namespace="prod",zone="package"} 950
`

func newTestClient(t *testing.T, payloads ...string) (kepler.Client, *fakeSource, *fakeClock) {
	t.Helper()

	source := &fakeSource{payloads: payloads}
	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}

	client, err := kepler.NewClient(kepler.Config{
		CacheTTL:    time.Minute,
		MinInterval: 5 * time.Second,
	}, source, logger.Default(), kepler.WithClock(clock.Now))
	require.NoError(t, err)

	return client, source, clock
}

func TestPodEnergySplitsZones(t *testing.T) {
	client, _, _ := newTestClient(t, payloadOne)

	energy, err := client.PodEnergy(context.Background(), "nginx", "default")
	require.NoError(t, err)
	assert.InDelta(t, 100.0, energy.PackageJoules, 1e-9)
	assert.InDelta(t, 40.0, energy.DRAMJoules, 1e-9)
	assert.InDelta(t, 140.0, energy.TotalJoules, 1e-9)
}

func TestPodEnergyUnknownPodIsZero(t *testing.T) {
	client, _, _ := newTestClient(t, payloadOne)

	energy, err := client.PodEnergy(context.Background(), "missing", "default")
	require.NoError(t, err)
	assert.Zero(t, energy.TotalJoules)
}

func TestSnapshotIsServedFromCache(t *testing.T) {
	client, source, _ := newTestClient(t, payloadOne)

	_, err := client.PodEnergy(context.Background(), "nginx", "default")
	require.NoError(t, err)
	_, err = client.NodeEnergy(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, source.fetches, "Second query within the TTL must not refetch")
}

func TestRefreshForcesRefetch(t *testing.T) {
	client, source, _ := newTestClient(t, payloadOne, payloadTwo)

	_, err := client.PodEnergy(context.Background(), "nginx", "default")
	require.NoError(t, err)

	require.NoError(t, client.Refresh(context.Background()))
	assert.Equal(t, 2, source.fetches)

	energy, err := client.PodEnergy(context.Background(), "nginx", "default")
	require.NoError(t, err)
	assert.InDelta(t, 220.0, energy.PackageJoules, 1e-9)
}

func TestPodPowerLifecycle(t *testing.T) {
	ctx := context.Background()
	client, _, clock := newTestClient(t, payloadOne, payloadTwo)

	// First observation only records baselines
	reading, err := client.PodPower(ctx, "nginx", "default")
	require.NoError(t, err)
	assert.Equal(t, power.StatusInitializing, reading.Status)
	assert.Zero(t, reading.TotalWatts)

	// Fresh counters, but below the minimum sampling interval
	require.NoError(t, client.Refresh(ctx))
	clock.Advance(2 * time.Second)
	reading, err = client.PodPower(ctx, "nginx", "default")
	require.NoError(t, err)
	assert.Equal(t, power.StatusWaiting, reading.Status)
	assert.Zero(t, reading.TotalWatts)

	// Past the interval: watts derive from the original t0 baselines
	clock.Advance(8 * time.Second)
	reading, err = client.PodPower(ctx, "nginx", "default")
	require.NoError(t, err)
	assert.Equal(t, power.StatusActive, reading.Status)
	assert.InDelta(t, 12.0, reading.CPUWatts, 1e-9)
	assert.InDelta(t, 6.0, reading.DRAMWatts, 1e-9)
	assert.InDelta(t, 18.0, reading.TotalWatts, 1e-9)
	assert.InDelta(t, reading.CPUWatts+reading.DRAMWatts, reading.TotalWatts, 1e-9,
		"Total watts is the sum of per-zone derivations")
}

func TestNamespaceEnergy(t *testing.T) {
	client, _, _ := newTestClient(t, payloadOne)

	energy, err := client.NamespaceEnergy(context.Background(), "default")
	require.NoError(t, err)
	assert.InDelta(t, 100.0, energy.PackageJoules, 1e-9)
	assert.InDelta(t, 40.0, energy.DRAMJoules, 1e-9)
	assert.InDelta(t, 140.0, energy.TotalJoules, 1e-9)
	assert.Equal(t, 1, energy.PodCount)
}

func TestNodeEnergy(t *testing.T) {
	client, _, _ := newTestClient(t, payloadOne)

	energy, err := client.NodeEnergy(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 5000.0, energy.PlatformJoules, 1e-9)
	assert.InDelta(t, 3000.0, energy.PackageJoules, 1e-9)
	assert.InDelta(t, 800.0, energy.DRAMJoules, 1e-9)
	assert.Zero(t, energy.CoreJoules, "Absent counters default to zero")
	assert.Zero(t, energy.UncoreJoules)
}

func TestListPods(t *testing.T) {
	client, _, _ := newTestClient(t, payloadOne)

	pods, err := client.ListPods(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, []kepler.PodRef{
		{Name: "nginx", Namespace: "default"},
		{Name: "api", Namespace: "prod"},
	}, pods)

	pods, err = client.ListPods(context.Background(), "prod")
	require.NoError(t, err)
	assert.Equal(t, []kepler.PodRef{{Name: "api", Namespace: "prod"}}, pods)
}

func TestNewClientRequiresSource(t *testing.T) {
	_, err := kepler.NewClient(kepler.DefaultConfig(), nil, logger.Default())
	require.Error(t, err)
}

func TestNewClientRejectsInvalidConfig(t *testing.T) {
	_, err := kepler.NewClient(kepler.Config{CacheTTL: 0, MinInterval: time.Second},
		&fakeSource{payloads: []string{""}}, logger.Default())
	require.Error(t, err)
}
