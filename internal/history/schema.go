package history

import (
	"database/sql"

	"codeberg.org/mutker/wattmon/internal/errors"
)

// InitSchema initializes the database schema for derived power readings
func InitSchema(db *sql.DB) error {
	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS power_readings (
            timestamp INTEGER NOT NULL,
            pod TEXT NOT NULL,
            namespace TEXT NOT NULL,
            status TEXT NOT NULL,
            cpu_watts REAL,
            dram_watts REAL,
            total_watts REAL
        );
        CREATE INDEX IF NOT EXISTS idx_power_readings_pod
            ON power_readings (namespace, pod, timestamp)
    `)
	if err != nil {
		return errors.New().Wrap(ErrSchemaInitFailed, err)
	}

	return nil
}

// GetInsertRecordSQL returns the insert statement used by the batch flusher
func GetInsertRecordSQL() string {
	return `
        INSERT INTO power_readings (
            timestamp, pod, namespace, status,
            cpu_watts, dram_watts, total_watts
        ) VALUES (?, ?, ?, ?, ?, ?, ?)
    `
}
