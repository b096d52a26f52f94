package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bench_monitor/internal/device"
	"bench_monitor/internal/logger"
	"bench_monitor/internal/machine"
	"bench_monitor/internal/metrics"
	"bench_monitor/internal/models"
)

// CommandResult is the status after an accepted command.
type CommandResult struct {
	Action models.Action    `json:"action"`
	Status models.RunStatus `json:"status"`
}

// CommandService checks operator commands against the run state and relays
// accepted ones to the bench. The run state is the source of truth: a relay
// failure is reported but never undoes the transition.
type CommandService struct {
	state   *RunStateService
	relay   device.Relay
	timeout time.Duration
	metrics *metrics.Metrics
	log     *logger.Logger
}

func NewCommandService(state *RunStateService, relay device.Relay, timeout time.Duration, m *metrics.Metrics, log *logger.Logger) *CommandService {
	if relay == nil {
		relay = device.NopRelay{}
	}
	return &CommandService{
		state:   state,
		relay:   relay,
		timeout: timeout,
		metrics: m,
		log:     log.Named("command"),
	}
}

// Execute applies cmd. Illegal commands return *machine.IllegalTransitionError
// and change nothing. An accepted command may still return an error wrapping
// ErrStorageUnavailable and/or ErrDeviceUnreachable together with its result.
// The device write waits for earlier relays, so the bench sees commands in
// the order they were accepted.
func (s *CommandService) Execute(ctx context.Context, cmd machine.Command) (CommandResult, error) {
	tr, err := s.state.fireRelayed(ctx, machine.CommandTrigger(cmd), nil)
	if tr.Action == "" {
		s.metrics.IncCommand(string(cmd), "rejected")
		s.log.Infow("command_rejected", "command", cmd, "reason", err)
		return CommandResult{}, err
	}
	s.metrics.IncCommand(string(cmd), "accepted")
	s.log.Infow("command_accepted", "command", cmd, "action", tr.Action)

	res := CommandResult{Action: tr.Action, Status: tr.Status}
	storeErr := err
	var relayErr error
	if tr.relay != nil {
		relayErr = tr.relay.run(func(c machine.Command) error { return s.send(ctx, c) })
	}
	return res, errors.Join(storeErr, relayErr)
}

func (s *CommandService) send(ctx context.Context, cmd machine.Command) error {
	c, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.relay.Send(c, cmd); err != nil {
		s.metrics.IncRelayFailure(string(cmd))
		s.log.Errorw("command_relay_failed", "command", cmd, "err", err)
		return fmt.Errorf("%w: %w", ErrDeviceUnreachable, err)
	}
	return nil
}
