// Package telemetry evaluates bench samples against per-channel alarm thresholds.
//
// Everything here is pure: no I/O, no clocks, no shared state.
package telemetry
