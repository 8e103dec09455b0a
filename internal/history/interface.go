package history

import (
	"context"
	"time"

	"codeberg.org/mutker/wattmon/internal/power"
)

// PowerRecord is one derived pod reading as persisted for later inspection.
// Records are write-only to the engine: nothing here feeds back into tracker
// or cache state, so a restarted process derives from scratch.
type PowerRecord struct {
	Timestamp  time.Time
	Pod        string
	Namespace  string
	Status     power.Status
	CPUWatts   float64
	DRAMWatts  float64
	TotalWatts float64
}

// Recorder persists derived readings
type Recorder interface {
	Record(ctx context.Context, record *PowerRecord) error
	Close() error
}

// Repository is the storage-facing side of the recorder
type Repository interface {
	Record(record *PowerRecord) error
	Close() error
}
