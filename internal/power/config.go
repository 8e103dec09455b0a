package power

import (
	"time"

	"codeberg.org/mutker/wattmon/internal/errors"
)

const defaultMinInterval = 5 * time.Second

type Config struct {
	// MinInterval is the minimum elapsed time between the stored baseline
	// and a sample before a power value is derived from the pair.
	MinInterval time.Duration
}

func DefaultConfig() Config {
	return Config{
		MinInterval: defaultMinInterval,
	}
}

func (c Config) Validate() error {
	errFactory := errors.New()
	if c.MinInterval <= 0 {
		return errFactory.New(ErrInvalidMinInterval)
	}
	return nil
}
