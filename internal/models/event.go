package models

import "time"

// EventTypeStatus is the only event type pushed to live subscribers.
const EventTypeStatus = "STATUS"

// StatusPayload is the body of a STATUS event.
type StatusPayload struct {
	IsRunning   bool    `json:"isRunning"`
	AlarmActive bool    `json:"alarmActive"`
	Reason      *string `json:"reason"`
	Action      Action  `json:"action,omitempty"`
}

// Event is what subscribers receive on every publish.
type Event struct {
	Type    string        `json:"type"`
	Payload StatusPayload `json:"payload"`
	Time    time.Time     `json:"time"`
}

// NewStatusEvent builds a STATUS event from a run status and the action that produced it.
func NewStatusEvent(st RunStatus, action Action, at time.Time) Event {
	return Event{
		Type: EventTypeStatus,
		Payload: StatusPayload{
			IsRunning:   st.IsRunning,
			AlarmActive: st.AlarmActive,
			Reason:      st.Reason,
			Action:      action,
		},
		Time: at.UTC(),
	}
}
