package kepler

import "codeberg.org/mutker/wattmon/internal/errors"

const (
	// Configuration errors
	ErrInvalidConfig      = errors.ErrorCode("kepler_invalid_config")
	ErrInvalidCacheTTL    = errors.ErrorCode("kepler_invalid_cache_ttl")
	ErrInvalidMinInterval = errors.ErrorCode("kepler_invalid_min_interval")
	ErrMissingSource      = errors.ErrorCode("kepler_missing_source")

	// Fetch errors
	ErrFetchFailed = errors.ErrorCode("kepler_fetch_failed")

	// Query errors
	ErrQueryFailed = errors.ErrorCode("kepler_query_failed")
)
