// Package device connects the service to the physical bench: feeds deliver
// samples, relays forward accepted operator commands.
package device

import (
	"context"
	"errors"

	"bench_monitor/internal/machine"
	"bench_monitor/internal/models"
)

// Panel values understood by the bench PLC.
const (
	WireStart = "SET"
	WireStop  = "RST"
)

// ErrNotRelayed is returned by WireValue for commands the PLC has no input for.
var ErrNotRelayed = errors.New("command is not relayed to the device")

// Relay forwards a logical command to the bench. Implementations must honor ctx.
type Relay interface {
	Send(ctx context.Context, cmd machine.Command) error
}

// Sink consumes samples produced by a Feed.
type Sink interface {
	Accept(ctx context.Context, s models.Sample) error
}

// Feed produces samples until ctx is done.
type Feed interface {
	Run(ctx context.Context, sink Sink) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, s models.Sample) error

func (f SinkFunc) Accept(ctx context.Context, s models.Sample) error { return f(ctx, s) }

// NopRelay accepts every command without talking to hardware.
type NopRelay struct{}

func (NopRelay) Send(context.Context, machine.Command) error { return nil }

// WireValue maps a command to the panel value. RESET only clears the
// software latch, so it has no wire value.
func WireValue(cmd machine.Command) (string, error) {
	switch cmd {
	case machine.CommandStart:
		return WireStart, nil
	case machine.CommandStop:
		return WireStop, nil
	default:
		return "", ErrNotRelayed
	}
}
