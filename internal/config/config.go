package config

import (
	"flag"
	"os"

	"codeberg.org/mutker/wattmon/internal/errors"
	"github.com/spf13/viper"
)

const (
	DefaultLogLevel = "info"

	defaultInterval    = 10
	defaultCacheTTL    = 60
	defaultMinInterval = 5
	defaultHTTPTimeout = 10
)

type Config struct {
	// Endpoint is the Kepler exposition URL to poll
	Endpoint string
	// Interval between polls, in seconds
	Interval int
	// CacheTTL is the snapshot cache time-to-live, in seconds
	CacheTTL int `mapstructure:"cache_ttl"`
	// MinInterval is the minimum power-derivation sampling interval, in seconds
	MinInterval int `mapstructure:"min_interval"`
	// HTTPTimeout bounds one fetch, in seconds
	HTTPTimeout int `mapstructure:"http_timeout"`
	// VerifyTLS enables certificate verification on the endpoint
	VerifyTLS bool `mapstructure:"verify_tls"`
	// Namespace restricts the poll loop to one namespace; empty means all
	Namespace string
	// History enables the derived-reading sqlite recorder
	History bool
	// HistoryDB is the history database path
	HistoryDB string `mapstructure:"history_db"`
	LogLevel  string `mapstructure:"log_level"`
	Debug     bool
	Verbose   bool
}

func Load() (*Config, error) {
	errFactory := errors.New()

	v := viper.New()
	v.SetDefault("endpoint", "")
	v.SetDefault("interval", defaultInterval)
	v.SetDefault("cache_ttl", defaultCacheTTL)
	v.SetDefault("min_interval", defaultMinInterval)
	v.SetDefault("http_timeout", defaultHTTPTimeout)
	v.SetDefault("verify_tls", false)
	v.SetDefault("namespace", "")
	v.SetDefault("history", false)
	v.SetDefault("history_db", "")
	v.SetDefault("log_level", DefaultLogLevel)

	// Flags are created per call so repeated loads do not collide
	fs := flag.NewFlagSet("wattmon", flag.ContinueOnError)
	endpoint := fs.String("endpoint", "", "Kepler metrics endpoint URL")
	interval := fs.Int("interval", 0, "Seconds between polls")
	cacheTTL := fs.Int("cache-ttl", 0, "Snapshot cache TTL in seconds")
	minInterval := fs.Int("min-interval", 0, "Minimum sampling interval in seconds")
	namespace := fs.String("namespace", "", "Restrict polling to one namespace")
	history := fs.Bool("history", false, "Record derived readings to sqlite")
	logLevel := fs.String("log-level", "", "Log level (debug, info, warning, error)")
	debug := fs.Bool("debug", false, "Enable debugging mode")
	verbose := fs.Bool("verbose", false, "Enable verbose logging")

	if err := fs.Parse(os.Args[1:]); err != nil {
		return nil, errFactory.Wrap(errors.ErrReadConfig, err)
	}

	// Load configuration from file; an explicit path from the environment
	// wins over the /etc lookup
	if path := os.Getenv("WATTMON_CONFIG"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("wattmon")
		v.SetConfigType("toml")
		v.AddConfigPath("/etc")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		// Only a missing file during the search-path lookup is tolerable;
		// an explicit WATTMON_CONFIG path must exist and parse
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || os.Getenv("WATTMON_CONFIG") != "" {
			return nil, errFactory.WithMessage(errors.ErrReadConfig, "Failed to read config file: "+err.Error())
		}
	}

	// Command line flags override config file values
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "endpoint":
			v.Set("endpoint", *endpoint)
		case "interval":
			v.Set("interval", *interval)
		case "cache-ttl":
			v.Set("cache_ttl", *cacheTTL)
		case "min-interval":
			v.Set("min_interval", *minInterval)
		case "namespace":
			v.Set("namespace", *namespace)
		case "history":
			v.Set("history", *history)
		case "log-level":
			v.Set("log_level", *logLevel)
		case "debug":
			v.Set("debug", *debug)
		case "verbose":
			v.Set("verbose", *verbose)
		}
	})

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, errFactory.Wrap(errors.ErrReadConfig, err)
	}

	if !LogLevel(config.LogLevel).IsValid() {
		return nil, errFactory.WithData(errors.ErrInvalidLogLevel, config.LogLevel)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) Validate() error {
	errFactory := errors.New()

	if c.Interval <= 0 || c.CacheTTL <= 0 || c.MinInterval <= 0 || c.HTTPTimeout <= 0 {
		return errFactory.New(errors.ErrInvalidInterval)
	}

	return nil
}
