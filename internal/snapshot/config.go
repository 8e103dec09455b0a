package snapshot

import (
	"time"

	"codeberg.org/mutker/wattmon/internal/errors"
)

const defaultTTL = 60 * time.Second

type Config struct {
	TTL time.Duration
}

func DefaultConfig() Config {
	return Config{
		TTL: defaultTTL,
	}
}

func (c Config) Validate() error {
	errFactory := errors.New()
	if c.TTL <= 0 {
		return errFactory.New(ErrInvalidTTL)
	}
	return nil
}
