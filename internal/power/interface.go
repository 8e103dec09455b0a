package power

import "time"

// Status describes how a derived reading should be interpreted. The string
// forms are part of the reporting contract.
type Status string

const (
	// StatusInitializing is returned when the entity's first reading was
	// just recorded; a rate cannot be fabricated from a single sample.
	StatusInitializing Status = "initializing"

	// StatusWaiting is returned when the elapsed time since the stored
	// baseline is below the minimum sampling interval. The baseline is
	// kept, so a later sample still differences against the original.
	StatusWaiting Status = "waiting_for_interval"

	// StatusActive is returned when a power value was derived from two
	// sufficiently spaced samples.
	StatusActive Status = "active"
)

// IsValid returns whether the status is valid
func (s Status) IsValid() bool {
	switch s {
	case StatusInitializing, StatusWaiting, StatusActive:
		return true
	default:
		return false
	}
}

// String implements the Stringer interface
func (s Status) String() string {
	return string(s)
}

// Reading is the outcome of one Observe call. Watts is zero unless Status
// is StatusActive, and may be zero even then (idle entity or counter reset).
type Reading struct {
	Watts  float64
	Status Status
}

// Tracker derives instantaneous power from successive cumulative-energy
// samples, one independent baseline per entity key.
type Tracker interface {
	// Observe records joules for entityKey at now and returns the derived
	// reading. A non-positive elapsed time since the stored baseline is
	// reported as a coded error; the baseline is left untouched and the
	// reading carries zero power.
	Observe(entityKey string, joules float64, now time.Time) (Reading, error)

	// Reset drops every stored baseline, returning all entities to their
	// unseen state.
	Reset()
}
