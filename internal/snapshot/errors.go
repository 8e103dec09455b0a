package snapshot

import "codeberg.org/mutker/wattmon/internal/errors"

const (
	ErrInvalidConfig = errors.ErrorCode("snapshot_invalid_config")
	ErrInvalidTTL    = errors.ErrorCode("snapshot_invalid_ttl")
)
