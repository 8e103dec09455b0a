package power

import "codeberg.org/mutker/wattmon/internal/errors"

const (
	ErrInvalidConfig      = errors.ErrorCode("power_invalid_config")
	ErrInvalidMinInterval = errors.ErrorCode("power_invalid_min_interval")
	ErrNonMonotonicClock  = errors.ErrorCode("power_non_monotonic_clock")
)
