package history

import "codeberg.org/mutker/wattmon/internal/errors"

const (
	defaultDirPerm      = 0o755
	defaultDBPath       = "/var/lib/wattmon/history.db"
	defaultBatchSize    = 32
	defaultBatchTimeout = 30
)

type Config struct {
	DBPath       string
	Enabled      bool
	BatchSize    int
	BatchTimeout int // seconds
}

func DefaultConfig() Config {
	return Config{
		DBPath:       defaultDBPath,
		Enabled:      false,
		BatchSize:    defaultBatchSize,
		BatchTimeout: defaultBatchTimeout,
	}
}

func (c Config) Validate() error {
	errFactory := errors.New()

	if !c.Enabled {
		return nil
	}
	if c.DBPath == "" {
		return errFactory.New(ErrInvalidDBPath)
	}
	if c.BatchSize <= 0 || c.BatchTimeout <= 0 {
		return errFactory.New(ErrInvalidBatching)
	}

	return nil
}
