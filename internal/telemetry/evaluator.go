package telemetry

import (
	"strconv"
	"strings"

	"bench_monitor/internal/models"
)

// Violation is one channel whose reading exceeded its limit.
type Violation struct {
	Channel string  `json:"channel"`
	Value   float64 `json:"value"`
	Limit   float64 `json:"limit"`
}

// String formats the violation as "{channel}:{value}".
func (v Violation) String() string {
	return v.Channel + ":" + FormatValue(v.Value)
}

// Verdict is the outcome of evaluating one sample.
type Verdict struct {
	OK         bool        `json:"ok"`
	Violations []Violation `json:"violations,omitempty"`
}

// Reason joins the violations with ", ". Empty for an OK verdict.
func (v Verdict) Reason() string {
	if len(v.Violations) == 0 {
		return ""
	}
	parts := make([]string, len(v.Violations))
	for i, vi := range v.Violations {
		parts[i] = vi.String()
	}
	return strings.Join(parts, ", ")
}

// Evaluate compares every reading against its channel limit.
// A reading equal to the limit is within bounds; only strictly greater values violate.
func Evaluate(s models.Sample, th Thresholds) Verdict {
	var violations []Violation
	for i, v := range s.Pressure {
		ch := PressureChannel(i)
		if limit := th.Limit(ch); v > limit {
			violations = append(violations, Violation{Channel: ch, Value: v, Limit: limit})
		}
	}
	for i, v := range s.Temperature {
		ch := TemperatureChannel(i)
		if limit := th.Limit(ch); v > limit {
			violations = append(violations, Violation{Channel: ch, Value: v, Limit: limit})
		}
	}
	return Verdict{OK: len(violations) == 0, Violations: violations}
}

// FormatValue renders a reading the shortest way that round-trips (6.5, 7, 6.0001).
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
