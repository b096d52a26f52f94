package service

import (
	"bench_monitor/internal/machine"
	"bench_monitor/internal/models"
)

// relayTurn is one device write queued by an accepted transition. Turns are
// handed out under the run state lock, so they reach the bench in the order
// the status changed even when an earlier write is slow.
type relayTurn struct {
	cmd  machine.Command
	prev <-chan struct{}
	done chan struct{}
}

// run waits for the previous turn, then sends. It must be called exactly once.
func (t *relayTurn) run(send func(machine.Command) error) error {
	defer close(t.done)
	if t.prev != nil {
		<-t.prev
	}
	return send(t.cmd)
}

// nextTurn queues cmd behind every turn issued so far. It must be called with mu held.
func (s *RunStateService) nextTurn(cmd machine.Command) *relayTurn {
	t := &relayTurn{cmd: cmd, prev: s.relayTail, done: make(chan struct{})}
	s.relayTail = t.done
	return t
}

// relayCommand maps an accepted action to the command the bench must receive.
// RESET only clears the latch here; the PLC has no input for it.
func relayCommand(a models.Action) (machine.Command, bool) {
	switch a {
	case models.ActionStartByUser:
		return machine.CommandStart, true
	case models.ActionStopByUser, models.ActionStopByAlarm:
		return machine.CommandStop, true
	}
	return "", false
}
