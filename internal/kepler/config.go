package kepler

import (
	"time"

	"codeberg.org/mutker/wattmon/internal/errors"
)

const (
	defaultCacheTTL    = 60 * time.Second
	defaultMinInterval = 5 * time.Second
)

type Config struct {
	// CacheTTL bounds how long a decoded snapshot is served before the
	// source is fetched again
	CacheTTL time.Duration

	// MinInterval is the minimum spacing between the two samples a power
	// value is derived from
	MinInterval time.Duration
}

func DefaultConfig() Config {
	return Config{
		CacheTTL:    defaultCacheTTL,
		MinInterval: defaultMinInterval,
	}
}

func (c Config) Validate() error {
	errFactory := errors.New()

	if c.CacheTTL <= 0 {
		return errFactory.New(ErrInvalidCacheTTL)
	}
	if c.MinInterval <= 0 {
		return errFactory.New(ErrInvalidMinInterval)
	}

	return nil
}
