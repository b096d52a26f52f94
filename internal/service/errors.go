package service

import (
	"errors"

	"bench_monitor/internal/machine"
	"bench_monitor/internal/telemetry"
)

// Errors callers classify with errors.Is. Illegal transitions come back as
// *machine.IllegalTransitionError and are matched with errors.As.
var (
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrDeviceUnreachable  = errors.New("device unreachable")
	ErrInvalidThreshold   = errors.New("invalid threshold")
	ErrInvalidLogFilter   = errors.New("invalid log filter")
	ErrNotInitialized     = errors.New("run status not initialized")

	ErrInvalidSample  = telemetry.ErrInvalidSample
	ErrInvalidCommand = machine.ErrUnknownCommand
)
