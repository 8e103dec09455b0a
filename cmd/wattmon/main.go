package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codeberg.org/mutker/wattmon/internal/collector"
	"codeberg.org/mutker/wattmon/internal/config"
	"codeberg.org/mutker/wattmon/internal/history"
	"codeberg.org/mutker/wattmon/internal/kepler"
	"codeberg.org/mutker/wattmon/internal/logger"
	"codeberg.org/mutker/wattmon/internal/power"
)

var (
	cfg      *config.Config
	client   kepler.Client
	recorder history.Recorder
)

func init() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Debug, cfg.Verbose, logger.IsService())

	// The debug and verbose switches take precedence over the configured level
	if !cfg.Debug && !cfg.Verbose {
		if level, ok := logger.ParseLevel(cfg.LogLevel); ok {
			logger.SetLogLevel(level)
		}
	}

	logger.Debug().Msg("Config loaded")

	log := logger.Default()

	source, err := collector.NewHTTPSource(collector.Config{
		Endpoint:           cfg.Endpoint,
		Timeout:            time.Duration(cfg.HTTPTimeout) * time.Second,
		InsecureSkipVerify: !cfg.VerifyTLS,
	}, log)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize collector")
	}

	client, err = kepler.NewClient(kepler.Config{
		CacheTTL:    time.Duration(cfg.CacheTTL) * time.Second,
		MinInterval: time.Duration(cfg.MinInterval) * time.Second,
	}, source, log)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize kepler client")
	}

	recorder, err = history.NewService(history.Config{
		DBPath:       cfg.HistoryDB,
		Enabled:      cfg.History,
		BatchSize:    history.DefaultConfig().BatchSize,
		BatchTimeout: history.DefaultConfig().BatchTimeout,
	}, log)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize history recorder")
	}
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go handleSignals(cancel)

	if err := loop(ctx); err != nil {
		logger.Error().Err(err).Msg("error in main loop")
	}
	cleanup()
}

func loop(ctx context.Context) error {
	interval := time.Duration(cfg.Interval) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Info().
		Str("endpoint", cfg.Endpoint).
		Int("interval", cfg.Interval).
		Msg("Polling Kepler metrics...")

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := pollOnce(ctx); err != nil {
				logger.Error().Err(err).Msg("poll failed")
			}
		}
	}
}

func pollOnce(ctx context.Context) error {
	pods, err := client.ListPods(ctx, cfg.Namespace)
	if err != nil {
		return err
	}

	now := time.Now()
	for _, pod := range pods {
		reading, err := client.PodPower(ctx, pod.Name, pod.Namespace)
		if err != nil {
			logger.Error().Err(err).
				Str("pod", pod.Name).
				Str("namespace", pod.Namespace).
				Msg("power derivation failed")
			continue
		}

		logPodPower(pod, reading)

		if err := recorder.Record(ctx, &history.PowerRecord{
			Timestamp:  now,
			Pod:        pod.Name,
			Namespace:  pod.Namespace,
			Status:     reading.Status,
			CPUWatts:   reading.CPUWatts,
			DRAMWatts:  reading.DRAMWatts,
			TotalWatts: reading.TotalWatts,
		}); err != nil {
			logger.Error().Err(err).Msg("failed to record reading")
		}
	}

	node, err := client.NodeEnergy(ctx)
	if err != nil {
		return err
	}

	logger.Debug().
		Float64("platform_joules", node.PlatformJoules).
		Float64("package_joules", node.PackageJoules).
		Float64("dram_joules", node.DRAMJoules).
		Msg("Node energy counters")

	return nil
}

func logPodPower(pod kepler.PodRef, reading kepler.PodPower) {
	if reading.Status != power.StatusActive {
		logger.Debug().
			Str("pod", pod.Name).
			Str("namespace", pod.Namespace).
			Str("status", reading.Status.String()).
			Msg("")
		return
	}

	logger.Info().
		Str("pod", pod.Name).
		Str("namespace", pod.Namespace).
		Str("status", reading.Status.String()).
		Float64("cpu_watts", reading.CPUWatts).
		Float64("dram_watts", reading.DRAMWatts).
		Float64("total_watts", reading.TotalWatts).
		Msg("")
}

func handleSignals(cancel context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	logger.Info().Msg("Received termination signal.")
	cancel()
}

func cleanup() {
	if err := recorder.Close(); err != nil {
		logger.Error().Err(err).Msg("failed to close history recorder")
	}
	logger.Info().Msg("Exiting...")
}
