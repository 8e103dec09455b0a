package exposition

import (
	"fmt"
	"sort"
	"strings"
)

// Metric represents a single decoded sample line. Immutable once parsed.
type Metric struct {
	Name   string
	Labels Labels
	Value  float64
	// Timestamp is milliseconds since epoch; nil when the source omits it
	Timestamp *int64
}

// Labels is the label set of one metric. Keys are unique per metric;
// matching is exact string equality and order-independent.
type Labels map[string]string

// Matches reports whether l contains every pair in want. A metric may
// carry labels beyond the requested ones and still match.
func (l Labels) Matches(want Labels) bool {
	for k, v := range want {
		if l[k] != v {
			return false
		}
	}

	return true
}

// String renders the labels sorted by key, giving a stable identity
// usable as a cache or test key.
func (l Labels) String() string {
	if len(l) == 0 {
		return ""
	}

	keys := make([]string, 0, len(l))
	for k := range l {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, fmt.Sprintf("%s=%q", k, l[k]))
	}

	return strings.Join(pairs, ",")
}

// AggOp represents valid aggregation operators
type AggOp string

const (
	AggSum AggOp = "sum"
	AggAvg AggOp = "avg"
	AggMin AggOp = "min"
	AggMax AggOp = "max"
)

// IsValid returns whether the aggregation operator is valid
func (op AggOp) IsValid() bool {
	switch op {
	case AggSum, AggAvg, AggMin, AggMax:
		return true
	default:
		return false
	}
}

// String implements the Stringer interface
func (op AggOp) String() string {
	return string(op)
}
