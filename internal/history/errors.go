package history

import "codeberg.org/mutker/wattmon/internal/errors"

const (
	// Configuration errors
	ErrInvalidConfig   = errors.ErrorCode("history_invalid_config")
	ErrInvalidDBPath   = errors.ErrorCode("history_invalid_db_path")
	ErrInvalidBatching = errors.ErrorCode("history_invalid_batching")

	// Storage errors
	ErrStorageInit       = errors.ErrorCode("history_storage_init_failed")
	ErrStorageClose      = errors.ErrorCode("history_storage_close_failed")
	ErrSchemaInitFailed  = errors.ErrorCode("history_schema_init_failed")
	ErrTransactionFailed = errors.ErrorCode("history_transaction_failed")

	// Recording errors
	ErrInvalidRecord    = errors.ErrorCode("history_invalid_record")
	ErrRecordFailed     = errors.ErrorCode("history_record_failed")
	ErrOperationTimeout = errors.ErrorCode("history_operation_timeout")
	ErrServiceShutdown  = errors.ErrorCode("history_service_shutdown_failed")
)
