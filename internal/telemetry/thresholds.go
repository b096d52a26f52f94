package telemetry

import "bench_monitor/internal/models"

// Thresholds is an immutable view of the current limit for every channel of a layout.
// Channels without a stored value resolve to the layout default.
type Thresholds struct {
	layout Layout
	limits map[string]float64
}

// NewThresholds builds thresholds from stored values; entries for channels
// the layout does not recognize are ignored.
func NewThresholds(layout Layout, stored map[string]float64) Thresholds {
	limits := make(map[string]float64, len(stored))
	for ch, v := range stored {
		ch = NormalizeChannel(ch)
		if layout.Recognized(ch) && isFinite(v) {
			limits[ch] = v
		}
	}
	return Thresholds{layout: layout, limits: limits}
}

// Layout returns the channel layout these thresholds cover.
func (t Thresholds) Layout() Layout { return t.layout }

// Limit returns the limit for channel, falling back to the layout default.
func (t Thresholds) Limit(channel string) float64 {
	if v, ok := t.limits[channel]; ok {
		return v
	}
	def, _ := t.layout.Default(channel)
	return def
}

// IsDefault reports whether channel has no stored value.
func (t Thresholds) IsDefault(channel string) bool {
	_, ok := t.limits[channel]
	return !ok
}

// With returns a copy with channel set to limit.
func (t Thresholds) With(channel string, limit float64) Thresholds {
	limits := make(map[string]float64, len(t.limits)+1)
	for k, v := range t.limits {
		limits[k] = v
	}
	limits[channel] = limit
	return Thresholds{layout: t.layout, limits: limits}
}

// List returns every channel with its effective limit in P1..Pn, T1..Tm order.
func (t Thresholds) List() []models.Threshold {
	channels := t.layout.Channels()
	out := make([]models.Threshold, 0, len(channels))
	for _, ch := range channels {
		out = append(out, models.Threshold{Sensor: ch, MaxValue: t.Limit(ch)})
	}
	return out
}
