package exposition

import "codeberg.org/mutker/wattmon/internal/errors"

// Filter returns the subsequence of metrics whose name equals name (when
// non-empty) and whose label set contains every pair in labels (when
// non-nil). Decode order is preserved.
func Filter(metrics []Metric, name string, labels Labels) []Metric {
	var filtered []Metric

	for _, m := range metrics {
		if name != "" && m.Name != name {
			continue
		}
		if !m.Labels.Matches(labels) {
			continue
		}
		filtered = append(filtered, m)
	}

	return filtered
}

// Value returns the value of the first matching metric, or fallback when
// there is no match. "First" is decode order; that order is part of the
// contract, not an accident of parsing.
func Value(metrics []Metric, name string, labels Labels, fallback float64) float64 {
	for _, m := range metrics {
		if m.Name != name {
			continue
		}
		if !m.Labels.Matches(labels) {
			continue
		}

		return m.Value
	}

	return fallback
}

// Aggregate reduces the values of all matching metrics with op. An empty
// filter result yields 0.0 for every operator, so downstream arithmetic
// never sees an undefined value. An operator outside the enum is a caller
// error.
func Aggregate(metrics []Metric, name string, labels Labels, op AggOp) (float64, error) {
	if !op.IsValid() {
		errFactory := errors.New()
		return 0, errFactory.WithData(ErrUnknownAggregation, string(op))
	}

	filtered := Filter(metrics, name, labels)
	if len(filtered) == 0 {
		return 0, nil
	}

	result := filtered[0].Value
	sum := 0.0
	for _, m := range filtered {
		sum += m.Value

		switch op {
		case AggMin:
			if m.Value < result {
				result = m.Value
			}
		case AggMax:
			if m.Value > result {
				result = m.Value
			}
		case AggSum, AggAvg:
		}
	}

	switch op {
	case AggSum:
		return sum, nil
	case AggAvg:
		return sum / float64(len(filtered)), nil
	default:
		return result, nil
	}
}
