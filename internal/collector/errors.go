package collector

import "codeberg.org/mutker/wattmon/internal/errors"

const (
	ErrInvalidConfig    = errors.ErrorCode("collector_invalid_config")
	ErrInvalidEndpoint  = errors.ErrorCode("collector_invalid_endpoint")
	ErrInvalidTimeout   = errors.ErrorCode("collector_invalid_timeout")
	ErrRequestFailed    = errors.ErrorCode("collector_request_failed")
	ErrUnexpectedStatus = errors.ErrorCode("collector_unexpected_status")
	ErrReadBody         = errors.ErrorCode("collector_read_body_failed")
)
