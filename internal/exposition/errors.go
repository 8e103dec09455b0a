package exposition

import "codeberg.org/mutker/wattmon/internal/errors"

const (
	ErrUnknownAggregation = errors.ErrorCode("exposition_unknown_aggregation")
)
