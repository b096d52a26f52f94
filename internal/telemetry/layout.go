package telemetry

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"bench_monitor/internal/models"
)

const (
	pressurePrefix    = "P"
	temperaturePrefix = "T"
)

// ErrInvalidSample is returned for samples whose shape does not match the layout.
var ErrInvalidSample = errors.New("invalid sample")

// Layout is the fixed channel arrangement of the bench and the fallback limits
// used for channels that have no stored threshold.
type Layout struct {
	Pressure                int
	Temperature             int
	DefaultPressureLimit    float64
	DefaultTemperatureLimit float64
}

// PressureChannel returns the channel id for the i-th (0-based) pressure reading.
func PressureChannel(i int) string { return pressurePrefix + strconv.Itoa(i+1) }

// TemperatureChannel returns the channel id for the i-th (0-based) temperature reading.
func TemperatureChannel(i int) string { return temperaturePrefix + strconv.Itoa(i+1) }

// Channels lists every recognized channel, P1..Pn then T1..Tm.
func (l Layout) Channels() []string {
	out := make([]string, 0, l.Pressure+l.Temperature)
	for i := 0; i < l.Pressure; i++ {
		out = append(out, PressureChannel(i))
	}
	for i := 0; i < l.Temperature; i++ {
		out = append(out, TemperatureChannel(i))
	}
	return out
}

// Default returns the fallback limit for channel; ok is false for unknown channels.
func (l Layout) Default(channel string) (limit float64, ok bool) {
	prefix, idx, ok := splitChannel(channel)
	if !ok {
		return 0, false
	}
	switch prefix {
	case pressurePrefix:
		if idx <= l.Pressure {
			return l.DefaultPressureLimit, true
		}
	case temperaturePrefix:
		if idx <= l.Temperature {
			return l.DefaultTemperatureLimit, true
		}
	}
	return 0, false
}

// Recognized reports whether channel belongs to this layout.
func (l Layout) Recognized(channel string) bool {
	_, ok := l.Default(channel)
	return ok
}

// NormalizeChannel upper-cases and trims a channel id ("p1 " -> "P1").
func NormalizeChannel(channel string) string {
	return strings.ToUpper(strings.TrimSpace(channel))
}

// Validate checks that s has exactly the configured arity and only finite readings.
func (l Layout) Validate(s models.Sample) error {
	if s.Pressure == nil {
		return fmt.Errorf("%w: pressure readings missing", ErrInvalidSample)
	}
	if s.Temperature == nil {
		return fmt.Errorf("%w: temperature readings missing", ErrInvalidSample)
	}
	if len(s.Pressure) != l.Pressure {
		return fmt.Errorf("%w: expected %d pressure readings, got %d", ErrInvalidSample, l.Pressure, len(s.Pressure))
	}
	if len(s.Temperature) != l.Temperature {
		return fmt.Errorf("%w: expected %d temperature readings, got %d", ErrInvalidSample, l.Temperature, len(s.Temperature))
	}
	for i, v := range s.Pressure {
		if !isFinite(v) {
			return fmt.Errorf("%w: %s is not a finite number", ErrInvalidSample, PressureChannel(i))
		}
	}
	for i, v := range s.Temperature {
		if !isFinite(v) {
			return fmt.Errorf("%w: %s is not a finite number", ErrInvalidSample, TemperatureChannel(i))
		}
	}
	return nil
}

func splitChannel(channel string) (prefix string, idx int, ok bool) {
	if len(channel) < 2 {
		return "", 0, false
	}
	prefix = channel[:1]
	if prefix != pressurePrefix && prefix != temperaturePrefix {
		return "", 0, false
	}
	n, err := strconv.Atoi(channel[1:])
	if err != nil || n < 1 || strconv.Itoa(n) != channel[1:] {
		return "", 0, false
	}
	return prefix, n, true
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
