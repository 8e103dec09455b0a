package kepler

import (
	"context"
	"fmt"
	"sort"
	"time"

	"codeberg.org/mutker/wattmon/internal/errors"
	"codeberg.org/mutker/wattmon/internal/exposition"
	"codeberg.org/mutker/wattmon/internal/logger"
	"codeberg.org/mutker/wattmon/internal/power"
	"codeberg.org/mutker/wattmon/internal/snapshot"
)

// Metric and label names exposed by Kepler v0.11.x with RAPL zones
const (
	metricPodCPUJoules = "kepler_pod_cpu_joules_total"

	metricNodePlatformJoules = "kepler_node_platform_joules_total"
	metricNodePackageJoules  = "kepler_node_package_joules_total"
	metricNodeCoreJoules     = "kepler_node_core_joules_total"
	metricNodeDRAMJoules     = "kepler_node_dram_joules_total"
	metricNodeUncoreJoules   = "kepler_node_uncore_joules_total"

	labelPodName      = "pod_name"
	labelPodNamespace = "pod_namespace"
	labelZone         = "zone"

	zonePackage = "package"
	zoneDRAM    = "dram"

	snapshotKey = "all_metrics"
)

type client struct {
	cfg     Config
	source  Source
	cache   snapshot.Cache
	tracker power.Tracker
	now     func() time.Time
	logger  logger.Logger
}

// NewClient creates a Kepler metrics client with its own snapshot cache and
// power tracker. Both are private to the instance, so separate clients never
// share state.
func NewClient(cfg Config, source Source, log logger.Logger, opts ...Option) (Client, error) {
	errFactory := errors.New()

	if err := cfg.Validate(); err != nil {
		return nil, errFactory.Wrap(ErrInvalidConfig, err)
	}
	if source == nil {
		return nil, errFactory.New(ErrMissingSource)
	}

	cache, err := snapshot.NewCache(snapshot.Config{TTL: cfg.CacheTTL}, log)
	if err != nil {
		return nil, errFactory.Wrap(ErrInvalidConfig, err)
	}

	tracker, err := power.NewTracker(power.Config{MinInterval: cfg.MinInterval}, log)
	if err != nil {
		return nil, errFactory.Wrap(ErrInvalidConfig, err)
	}

	c := &client{
		cfg:     cfg,
		source:  source,
		cache:   cache,
		tracker: tracker,
		now:     time.Now,
		logger:  log,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// fetch returns the decoded snapshot, served from cache while the TTL holds
func (c *client) fetch(ctx context.Context) ([]exposition.Metric, error) {
	if snap, ok := c.cache.Get(snapshotKey); ok {
		c.logger.Debug().Int("metrics", len(snap.Metrics)).Msg("Using cached snapshot")
		return snap.Metrics, nil
	}

	return c.refetch(ctx)
}

func (c *client) refetch(ctx context.Context) ([]exposition.Metric, error) {
	errFactory := errors.New()

	text, err := c.source.Fetch(ctx)
	if err != nil {
		return nil, errFactory.Wrap(ErrFetchFailed, err)
	}

	metrics := exposition.Decode(text)
	c.cache.Put(snapshotKey, metrics)

	c.logger.Info().Int("metrics", len(metrics)).Msg("Metrics snapshot fetched")

	return metrics, nil
}

func (c *client) PodEnergy(ctx context.Context, pod, namespace string) (PodEnergy, error) {
	metrics, err := c.fetch(ctx)
	if err != nil {
		return PodEnergy{}, err
	}

	return podEnergyFrom(metrics, pod, namespace)
}

func podEnergyFrom(metrics []exposition.Metric, pod, namespace string) (PodEnergy, error) {
	pkg, err := zoneJoules(metrics, pod, namespace, zonePackage)
	if err != nil {
		return PodEnergy{}, err
	}

	dram, err := zoneJoules(metrics, pod, namespace, zoneDRAM)
	if err != nil {
		return PodEnergy{}, err
	}

	return PodEnergy{
		TotalJoules:   pkg + dram,
		PackageJoules: pkg,
		DRAMJoules:    dram,
	}, nil
}

func zoneJoules(metrics []exposition.Metric, pod, namespace, zone string) (float64, error) {
	joules, err := exposition.Aggregate(metrics, metricPodCPUJoules, exposition.Labels{
		labelPodName:      pod,
		labelPodNamespace: namespace,
		labelZone:         zone,
	}, exposition.AggSum)
	if err != nil {
		return 0, errors.New().Wrap(ErrQueryFailed, err)
	}

	return joules, nil
}

func (c *client) PodPower(ctx context.Context, pod, namespace string) (PodPower, error) {
	energy, err := c.PodEnergy(ctx, pod, namespace)
	if err != nil {
		return PodPower{}, err
	}

	now := c.now()

	// Each zone keeps its own baseline; total watts is the sum of the
	// zone-level derivations, never a derivative of the pre-summed counter
	pkg := c.observeZone(entityKey(pod, namespace, zonePackage), energy.PackageJoules, now)
	dram := c.observeZone(entityKey(pod, namespace, zoneDRAM), energy.DRAMJoules, now)

	return PodPower{
		CPUWatts:   pkg.Watts,
		DRAMWatts:  dram.Watts,
		TotalWatts: pkg.Watts + dram.Watts,
		Status:     combineStatus(pkg.Status, dram.Status),
	}, nil
}

// observeZone folds the tracker's clock-skew error into a zero-power waiting
// reading: the anomaly is logged and the untouched baseline will serve the
// next sample.
func (c *client) observeZone(key string, joules float64, now time.Time) power.Reading {
	reading, err := c.tracker.Observe(key, joules, now)
	if err != nil {
		var coded errors.Error
		if errors.As(err, &coded) {
			c.logger.ErrorWithCode(coded)
		} else {
			c.logger.Error().Err(err).Str("entity", key).Msg("Power derivation failed")
		}

		return power.Reading{Status: power.StatusWaiting}
	}

	return reading
}

func entityKey(pod, namespace, zone string) string {
	return fmt.Sprintf("pod:%s/%s/%s", namespace, pod, zone)
}

// combineStatus reduces per-zone statuses to one pod-level status:
// initializing dominates waiting, which dominates active.
func combineStatus(statuses ...power.Status) power.Status {
	combined := power.StatusActive
	for _, s := range statuses {
		switch {
		case s == power.StatusInitializing:
			return power.StatusInitializing
		case s == power.StatusWaiting && combined == power.StatusActive:
			combined = power.StatusWaiting
		}
	}

	return combined
}

func (c *client) NamespaceEnergy(ctx context.Context, namespace string) (NamespaceEnergy, error) {
	metrics, err := c.fetch(ctx)
	if err != nil {
		return NamespaceEnergy{}, err
	}

	nsLabels := exposition.Labels{labelPodNamespace: namespace}

	pkg, err := exposition.Aggregate(metrics, metricPodCPUJoules,
		exposition.Labels{labelPodNamespace: namespace, labelZone: zonePackage}, exposition.AggSum)
	if err != nil {
		return NamespaceEnergy{}, errors.New().Wrap(ErrQueryFailed, err)
	}

	dram, err := exposition.Aggregate(metrics, metricPodCPUJoules,
		exposition.Labels{labelPodNamespace: namespace, labelZone: zoneDRAM}, exposition.AggSum)
	if err != nil {
		return NamespaceEnergy{}, errors.New().Wrap(ErrQueryFailed, err)
	}

	pods := make(map[string]struct{})
	for _, m := range exposition.Filter(metrics, "", nsLabels) {
		if name, ok := m.Labels[labelPodName]; ok {
			pods[name] = struct{}{}
		}
	}

	return NamespaceEnergy{
		TotalJoules:   pkg + dram,
		PackageJoules: pkg,
		DRAMJoules:    dram,
		PodCount:      len(pods),
	}, nil
}

func (c *client) NodeEnergy(ctx context.Context) (NodeEnergy, error) {
	metrics, err := c.fetch(ctx)
	if err != nil {
		return NodeEnergy{}, err
	}

	return NodeEnergy{
		PlatformJoules: exposition.Value(metrics, metricNodePlatformJoules, nil, 0),
		PackageJoules:  exposition.Value(metrics, metricNodePackageJoules, nil, 0),
		CoreJoules:     exposition.Value(metrics, metricNodeCoreJoules, nil, 0),
		DRAMJoules:     exposition.Value(metrics, metricNodeDRAMJoules, nil, 0),
		UncoreJoules:   exposition.Value(metrics, metricNodeUncoreJoules, nil, 0),
	}, nil
}

func (c *client) ListPods(ctx context.Context, namespace string) ([]PodRef, error) {
	metrics, err := c.fetch(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[PodRef]struct{})
	for _, m := range metrics {
		name, hasName := m.Labels[labelPodName]
		ns, hasNS := m.Labels[labelPodNamespace]
		if !hasName || !hasNS {
			continue
		}
		if namespace != "" && ns != namespace {
			continue
		}
		seen[PodRef{Name: name, Namespace: ns}] = struct{}{}
	}

	pods := make([]PodRef, 0, len(seen))
	for ref := range seen {
		pods = append(pods, ref)
	}
	sort.Slice(pods, func(i, j int) bool {
		if pods[i].Namespace != pods[j].Namespace {
			return pods[i].Namespace < pods[j].Namespace
		}
		return pods[i].Name < pods[j].Name
	})

	return pods, nil
}

func (c *client) Refresh(ctx context.Context) error {
	c.cache.Clear()

	_, err := c.refetch(ctx)

	return err
}
