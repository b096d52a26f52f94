package service

import (
	"context"
	"testing"
	"time"

	"bench_monitor/internal/device"
	"bench_monitor/internal/logger"
	"bench_monitor/internal/machine"
	"bench_monitor/internal/models"
)

func TestApproach(t *testing.T) {
	tests := []struct {
		v, target, step, want float64
	}{
		{1, 4.5, 0.5, 1.5},
		{4.25, 4.5, 0.5, 4.5},
		{60, 25, 5, 55},
		{26, 25, 5, 25},
		{25, 25, 5, 25},
	}
	for _, tc := range tests {
		if got := approach(tc.v, tc.target, tc.step); got != tc.want {
			t.Errorf("approach(%v, %v, %v) = %v, want %v", tc.v, tc.target, tc.step, got, tc.want)
		}
	}
}

func TestSimulator_StepFollowsRunState(t *testing.T) {
	sim := NewSimulatorService(testLayout, time.Second, 0, logger.Nop())

	s := sim.Step(1)
	if len(s.Pressure) != testLayout.Pressure || len(s.Temperature) != testLayout.Temperature {
		t.Fatalf("sample does not match layout: %+v", s)
	}
	for _, p := range s.Pressure {
		if p > AmbientBar+NoiseBar {
			t.Fatalf("stopped bench should stay at ambient, got %v", p)
		}
	}

	_ = sim.Send(context.Background(), machine.CommandStart)
	if !sim.Running() {
		t.Fatalf("START should switch the bench on")
	}
	s = sim.Step(100)
	for _, p := range s.Pressure {
		if p < RunningBar-NoiseBar {
			t.Fatalf("running bench should reach working pressure, got %v", p)
		}
	}

	_ = sim.Send(context.Background(), machine.CommandReset)
	if !sim.Running() {
		t.Fatalf("RESET has no physical effect")
	}
	_ = sim.Send(context.Background(), machine.CommandStop)
	if sim.Running() {
		t.Fatalf("STOP should switch the bench off")
	}
}

func TestSimulator_SpikeTripsDefaultLimit(t *testing.T) {
	sim := NewSimulatorService(testLayout, time.Second, 3, logger.Nop())
	_ = sim.Send(context.Background(), machine.CommandStart)

	var spiked []float64
	for i := 0; i < 3; i++ {
		spiked = append(spiked, sim.Step(100).Pressure[0])
	}
	if spiked[0] > testLayout.DefaultPressureLimit || spiked[1] > testLayout.DefaultPressureLimit {
		t.Fatalf("only every third tick should spike: %v", spiked)
	}
	if spiked[2] <= testLayout.DefaultPressureLimit {
		t.Fatalf("spike should exceed the default limit, got %v", spiked[2])
	}
}

func TestSimulator_RunFeedsSink(t *testing.T) {
	sim := NewSimulatorService(testLayout, 5*time.Millisecond, 0, logger.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan models.Sample, 1)
	sink := device.SinkFunc(func(_ context.Context, s models.Sample) error {
		select {
		case got <- s:
		default:
		}
		return nil
	})

	done := make(chan error, 1)
	go func() { done <- sim.Run(ctx, sink) }()

	select {
	case <-got:
	case <-time.After(time.Second):
		t.Fatal("no sample produced")
	}
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Run: %v", err)
	}
}
