package service

import (
	"context"
	"time"
)

const (
	healthHealthy  = "healthy"
	healthDegraded = "degraded"
)

// SubscriberCounter reports how many live subscribers are attached.
type SubscriberCounter interface {
	Count() int
}

// ThresholdLoader reports whether stored limits have been read.
type ThresholdLoader interface {
	Loaded() bool
}

type MonitoringService struct {
	state      *RunStateService
	thresholds ThresholdLoader
	subs       SubscriberCounter
	started    time.Time
}

func NewMonitoringService(state *RunStateService, thresholds ThresholdLoader, subs SubscriberCounter) *MonitoringService {
	return &MonitoringService{state: state, thresholds: thresholds, subs: subs, started: time.Now()}
}

// GetStatus returns the in-memory run status. It works while storage is down;
// Degraded tells the caller the last write did not persist.
func (s *MonitoringService) GetStatus(_ context.Context) (StatusView, error) {
	snap := s.state.Snapshot()
	if !snap.Initialized {
		return StatusView{}, ErrNotInitialized
	}
	return newStatusView(snap), nil
}

// Health summarizes storage state and live fan-out for probes. Limits still on
// the layout defaults count as degraded.
func (s *MonitoringService) Health() HealthView {
	snap := s.state.Snapshot()
	h := HealthView{
		Status:           healthHealthy,
		Initialized:      snap.Initialized,
		Degraded:         snap.Degraded,
		ThresholdsLoaded: s.thresholds == nil || s.thresholds.Loaded(),
		Uptime:           time.Since(s.started).Round(time.Second).String(),
	}
	if snap.Degraded || !snap.Initialized || !h.ThresholdsLoaded {
		h.Status = healthDegraded
	}
	if s.subs != nil {
		h.Subscribers = s.subs.Count()
	}
	return h
}

func newStatusView(snap Snapshot) StatusView {
	return StatusView{
		IsRunning:   snap.Status.IsRunning,
		AlarmActive: snap.Status.AlarmActive,
		Reason:      snap.Status.Reason,
		UpdatedAt:   toUTC(snap.Status.UpdatedAt),
		State:       snap.Status.State(),
		Degraded:    snap.Degraded,
	}
}

// toUTC normalizes non-zero time to UTC, preserving zero values.
func toUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}
