package models

import "time"

// RunStatus is the singleton run/stop/alarm record of the monitored bench.
// AlarmActive always implies !IsRunning.
type RunStatus struct {
	IsRunning   bool      `json:"isRunning"`
	AlarmActive bool      `json:"alarmActive"`
	Reason      *string   `json:"reason"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ReasonText returns the reason or "" when none is set.
func (s RunStatus) ReasonText() string {
	if s.Reason == nil {
		return ""
	}
	return *s.Reason
}

// State names the derived machine state.
func (s RunStatus) State() string {
	switch {
	case s.AlarmActive:
		return StateAlarm
	case s.IsRunning:
		return StateRunning
	default:
		return StateStopped
	}
}

// Derived machine states.
const (
	StateStopped = "STOPPED"
	StateRunning = "RUNNING"
	StateAlarm   = "ALARM"
)

// StringPtr is a small helper for optional reasons.
func StringPtr(s string) *string {
	return &s
}
