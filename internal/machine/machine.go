// Package machine holds the run/stop/alarm transition rules of the bench.
//
// Next is a pure function over models.RunStatus. Serialization, persistence and
// fan-out are the caller's job (see service.RunStateService).
package machine

import (
	"errors"
	"fmt"
	"strings"

	"bench_monitor/internal/models"
	"bench_monitor/internal/telemetry"
)

// Command is an operator-issued instruction.
type Command string

const (
	CommandStart Command = "START"
	CommandStop  Command = "STOP"
	CommandReset Command = "RESET"
)

// Wire aliases used by the PLC panel: SET starts, RST stops.
const (
	aliasSet = "SET"
	aliasRst = "RST"
)

// ErrUnknownCommand is returned by ParseCommand for anything it can't map.
var ErrUnknownCommand = errors.New("unknown command")

// ParseCommand maps START/STOP/RESET and the SET/RST aliases (case-insensitive).
func ParseCommand(s string) (Command, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case string(CommandStart), aliasSet:
		return CommandStart, nil
	case string(CommandStop), aliasRst:
		return CommandStop, nil
	case string(CommandReset):
		return CommandReset, nil
	default:
		return "", fmt.Errorf("%w %q: expected SET, RST, START, STOP or RESET", ErrUnknownCommand, s)
	}
}

// IllegalTransitionError rejects a command in the current state. Reason is shown to operators as-is.
type IllegalTransitionError struct {
	Reason string
}

func (e *IllegalTransitionError) Error() string { return e.Reason }

var (
	// ErrAlarmActive rejects START while the alarm latch is set.
	ErrAlarmActive = &IllegalTransitionError{Reason: "Alarm active, cannot start"}
	// ErrNoActiveAlarm rejects RESET when there is nothing to reset.
	ErrNoActiveAlarm = &IllegalTransitionError{Reason: "No active alarm to reset"}
)

// Trigger is either an operator command or an evaluated sample, never both.
type Trigger struct {
	Command Command
	Verdict *telemetry.Verdict
}

// CommandTrigger wraps an operator command.
func CommandTrigger(c Command) Trigger { return Trigger{Command: c} }

// SampleTrigger wraps the verdict of an ingested sample.
func SampleTrigger(v telemetry.Verdict) Trigger { return Trigger{Verdict: &v} }

// IsSample reports whether the trigger came from ingestion.
func (t Trigger) IsSample() bool { return t.Verdict != nil }

// Outcome is the accepted result of a trigger: the next status and what to log.
// Status.UpdatedAt is left for the caller to stamp.
type Outcome struct {
	Status models.RunStatus
	Action models.Action
	Reason string
}

// Next applies t to cur. On error cur is unchanged and nothing must be logged.
func Next(cur models.RunStatus, t Trigger) (Outcome, error) {
	if t.IsSample() {
		return onSample(cur, *t.Verdict), nil
	}
	switch t.Command {
	case CommandStart:
		if cur.AlarmActive {
			return Outcome{}, ErrAlarmActive
		}
		next := cur
		next.IsRunning = true
		next.Reason = nil
		return Outcome{Status: next, Action: models.ActionStartByUser}, nil

	case CommandStop:
		// STOP never clears the alarm latch; RESET is the only way out of ALARM.
		next := cur
		next.IsRunning = false
		return Outcome{Status: next, Action: models.ActionStopByUser, Reason: cur.ReasonText()}, nil

	case CommandReset:
		if !cur.AlarmActive {
			return Outcome{}, ErrNoActiveAlarm
		}
		next := cur
		next.AlarmActive = false
		next.IsRunning = false
		next.Reason = nil
		return Outcome{Status: next, Action: models.ActionResetAlarm}, nil

	default:
		return Outcome{}, fmt.Errorf("%w %q", ErrUnknownCommand, t.Command)
	}
}

func onSample(cur models.RunStatus, v telemetry.Verdict) Outcome {
	if cur.AlarmActive {
		next := cur
		next.IsRunning = false
		reason := cur.ReasonText()
		if !v.OK {
			reason = v.Reason()
			next.Reason = models.StringPtr(reason)
		}
		return Outcome{Status: next, Action: models.ActionAlarmStillActive, Reason: reason}
	}

	if !v.OK {
		reason := v.Reason()
		return Outcome{
			Status: models.RunStatus{
				IsRunning:   false,
				AlarmActive: true,
				Reason:      models.StringPtr(reason),
				UpdatedAt:   cur.UpdatedAt,
			},
			Action: models.ActionStopByAlarm,
			Reason: reason,
		}
	}

	return Outcome{Status: cur, Action: models.ActionOK}
}
