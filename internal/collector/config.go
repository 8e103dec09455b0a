package collector

import (
	"strings"
	"time"

	"codeberg.org/mutker/wattmon/internal/errors"
)

const defaultTimeout = 10 * time.Second

type Config struct {
	// Endpoint is the exposition URL, e.g. https://host:30443/metrics
	Endpoint string

	// Timeout bounds one fetch round trip
	Timeout time.Duration

	// InsecureSkipVerify tolerates self-signed certificates; on by
	// default because Kepler endpoints commonly ship with them
	InsecureSkipVerify bool
}

func DefaultConfig() Config {
	return Config{
		Timeout:            defaultTimeout,
		InsecureSkipVerify: true,
	}
}

func (c Config) Validate() error {
	errFactory := errors.New()

	if strings.TrimSpace(c.Endpoint) == "" {
		return errFactory.New(ErrInvalidEndpoint)
	}
	if c.Timeout <= 0 {
		return errFactory.New(ErrInvalidTimeout)
	}

	return nil
}
