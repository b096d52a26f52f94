package service

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"bench_monitor/internal/device"
	"bench_monitor/internal/logger"
	"bench_monitor/internal/machine"
	"bench_monitor/internal/models"
	"bench_monitor/internal/telemetry"
)

// ----------- Simulation constants -----------
const (
	AmbientC        = 25.0 // temperature at rest °C
	AmbientBar      = 1.0  // pressure at rest bar
	RunningC        = 60.0 // temperature the bench settles at while running °C
	RunningBar      = 4.5  // pressure the bench settles at while running bar
	RampUpCPerSec   = 3.0  // °C per second while running
	CoolDownCPerSec = 5.0  // °C per second while stopped
	RampBarPerSec   = 0.8  // bar per second in either direction
	NoiseBar        = 0.05 // peak sensor noise on pressure channels
	NoiseC          = 0.5  // peak sensor noise on temperature channels
	SpikeFactor     = 2.0  // pressure multiplier of an injected surge
)

// SimulatorService stands in for the bench PLC: it produces drifting readings
// and reacts to START/STOP like the real panel would.
type SimulatorService struct {
	layout     telemetry.Layout
	tick       time.Duration
	spikeEvery int // inject a pressure surge every N ticks; 0 disables
	log        *logger.Logger

	mu          sync.Mutex
	rnd         *rand.Rand
	running     bool
	ticks       int
	pressure    []float64
	temperature []float64
}

var (
	_ device.Feed  = (*SimulatorService)(nil)
	_ device.Relay = (*SimulatorService)(nil)
)

// NewSimulatorService returns a stopped bench at ambient conditions.
func NewSimulatorService(layout telemetry.Layout, tick time.Duration, spikeEvery int, log *logger.Logger) *SimulatorService {
	s := &SimulatorService{
		layout:      layout,
		tick:        tick,
		spikeEvery:  spikeEvery,
		log:         log.Named("simulator"),
		rnd:         rand.New(rand.NewSource(time.Now().UnixNano())),
		pressure:    make([]float64, layout.Pressure),
		temperature: make([]float64, layout.Temperature),
	}
	for i := range s.pressure {
		s.pressure[i] = AmbientBar
	}
	for i := range s.temperature {
		s.temperature[i] = AmbientC
	}
	return s
}

// Run ticks at the configured interval until ctx is canceled.
func (s *SimulatorService) Run(ctx context.Context, sink device.Sink) error {
	t := time.NewTicker(s.tick)
	defer t.Stop()
	prev := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-t.C:
			sample := s.Step(now.Sub(prev).Seconds())
			prev = now
			if err := sink.Accept(ctx, sample); err != nil {
				s.log.Warnw("simulated_sample_rejected", "err", err)
			}
		}
	}
}

// Send switches the simulated bench on (START) or off (STOP). RESET has no
// physical effect.
func (s *SimulatorService) Send(_ context.Context, cmd machine.Command) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch cmd {
	case machine.CommandStart:
		s.running = true
	case machine.CommandStop:
		s.running = false
	}
	return nil
}

// Running reports whether the simulated bench is switched on.
func (s *SimulatorService) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Step advances the simulation by elapsed seconds and returns the readings.
func (s *SimulatorService) Step(elapsed float64) models.Sample {
	s.mu.Lock()
	defer s.mu.Unlock()

	targetBar, targetC, rateC := AmbientBar, AmbientC, CoolDownCPerSec
	if s.running {
		targetBar, targetC, rateC = RunningBar, RunningC, RampUpCPerSec
	}
	for i := range s.pressure {
		s.pressure[i] = approach(s.pressure[i], targetBar, RampBarPerSec*elapsed)
	}
	for i := range s.temperature {
		s.temperature[i] = approach(s.temperature[i], targetC, rateC*elapsed)
	}

	out := models.Sample{
		Pressure:    make([]float64, len(s.pressure)),
		Temperature: make([]float64, len(s.temperature)),
	}
	for i, v := range s.pressure {
		out.Pressure[i] = v + s.noise(NoiseBar)
	}
	for i, v := range s.temperature {
		out.Temperature[i] = v + s.noise(NoiseC)
	}

	s.ticks++
	if s.spikeEvery > 0 && s.ticks%s.spikeEvery == 0 && len(out.Pressure) > 0 {
		out.Pressure[0] = s.pressure[0]*SpikeFactor + RunningBar
	}
	return out
}

func (s *SimulatorService) noise(peak float64) float64 {
	return (s.rnd.Float64()*2 - 1) * peak
}

// approach moves v toward target by at most step, without overshooting.
func approach(v, target, step float64) float64 {
	switch {
	case v < target:
		return min(v+step, target)
	case v > target:
		return max(v-step, target)
	default:
		return v
	}
}
