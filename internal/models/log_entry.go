package models

import "time"

// Action is what the state machine did with a sample or command.
type Action string

const (
	ActionOK               Action = "OK"
	ActionStopByAlarm      Action = "STOP_BY_ALARM"
	ActionStartByUser      Action = "START_BY_USER"
	ActionStopByUser       Action = "STOP_BY_USER"
	ActionResetAlarm       Action = "RESET_ALARM"
	ActionAlarmStillActive Action = "ALARM_STILL_ACTIVE"
)

// Actions lists every known action, in declaration order.
var Actions = []Action{
	ActionOK,
	ActionStopByAlarm,
	ActionStartByUser,
	ActionStopByUser,
	ActionResetAlarm,
	ActionAlarmStillActive,
}

// Valid reports whether a is one of the known actions.
func (a Action) Valid() bool {
	for _, known := range Actions {
		if a == known {
			return true
		}
	}
	return false
}

// LogEntry is an immutable telemetry log record.
type LogEntry struct {
	ID          int64     `json:"id"`
	CreatedAt   time.Time `json:"createdAt"`
	Pressure    []float64 `json:"pressure"`
	Temperature []float64 `json:"temperature"`
	Action      Action    `json:"action"`
	Reason      string    `json:"reason"`
}
