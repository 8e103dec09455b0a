package exposition

import (
	"regexp"
	"strconv"
	"strings"
)

// Line grammar: <metric_name> [{label_list}] <value> [<timestamp_ms>]
// Comment lines (# HELP, # TYPE, ...) and blank lines are skipped.
var (
	lineRe  = regexp.MustCompile(`^([a-zA-Z_:][a-zA-Z0-9_:]*)\s*(\{[^}]*\})?\s+(\S+)(?:\s+(\d+))?$`)
	labelRe = regexp.MustCompile(`([a-zA-Z_][a-zA-Z0-9_]*)="([^"]*)"`)
)

// Decode parses Prometheus text exposition format into the ordered sequence
// of metrics it encodes. Lines that do not match the grammar are dropped
// without aborting the rest of the payload. Decode is pure: the same text
// always yields the same sequence.
func Decode(text string) []Metric {
	var metrics []Metric

	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		line = strings.TrimSpace(line)

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if m, ok := decodeLine(line); ok {
			metrics = append(metrics, m)
		}
	}

	return metrics
}

func decodeLine(line string) (Metric, bool) {
	match := lineRe.FindStringSubmatch(line)
	if match == nil {
		return Metric{}, false
	}

	value, err := strconv.ParseFloat(match[3], 64)
	if err != nil {
		// ParseFloat already accepts NaN, +Inf and -Inf; anything
		// it rejects is not a sample value
		return Metric{}, false
	}

	metric := Metric{
		Name:   match[1],
		Labels: decodeLabels(match[2]),
		Value:  value,
	}

	if match[4] != "" {
		ts, err := strconv.ParseInt(match[4], 10, 64)
		if err != nil {
			return Metric{}, false
		}
		metric.Timestamp = &ts
	}

	return metric, true
}

// decodeLabels parses a {key="value",...} block. A repeated key keeps the
// last occurrence.
func decodeLabels(block string) Labels {
	labels := Labels{}
	if block == "" {
		return labels
	}

	for _, pair := range labelRe.FindAllStringSubmatch(block, -1) {
		labels[pair[1]] = pair[2]
	}

	return labels
}
