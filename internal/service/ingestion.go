package service

import (
	"context"
	"sync"
	"time"

	"bench_monitor/internal/device"
	"bench_monitor/internal/logger"
	"bench_monitor/internal/machine"
	"bench_monitor/internal/metrics"
	"bench_monitor/internal/models"
	"bench_monitor/internal/telemetry"
)

// ThresholdSource provides the thresholds in force right now. EnsureLoaded
// gives a source that started on defaults a chance to read stored limits.
type ThresholdSource interface {
	Get() telemetry.Thresholds
	EnsureLoaded(ctx context.Context)
}

// IngestResult is what the ingestion endpoint reports back to the device.
type IngestResult struct {
	Action models.Action `json:"action"`
	Reason string        `json:"reason,omitempty"`
}

// IngestionService validates a raw sample, evaluates it and feeds the verdict
// to the run state. When a sample trips the alarm it also tells the bench to
// stop, without making the caller wait for the device.
type IngestionService struct {
	layout       telemetry.Layout
	thresholds   ThresholdSource
	state        *RunStateService
	relay        device.Relay
	relayTimeout time.Duration
	metrics      *metrics.Metrics
	log          *logger.Logger

	wg sync.WaitGroup
}

var _ device.Sink = (*IngestionService)(nil)

func NewIngestionService(
	layout telemetry.Layout,
	thresholds ThresholdSource,
	state *RunStateService,
	relay device.Relay,
	relayTimeout time.Duration,
	m *metrics.Metrics,
	log *logger.Logger,
) *IngestionService {
	if relay == nil {
		relay = device.NopRelay{}
	}
	return &IngestionService{
		layout:       layout,
		thresholds:   thresholds,
		state:        state,
		relay:        relay,
		relayTimeout: relayTimeout,
		metrics:      m,
		log:          log.Named("ingest"),
	}
}

// Ingest processes one sample. Invalid samples return ErrInvalidSample and are
// not logged. A storage failure still returns the decided result alongside an
// error wrapping ErrStorageUnavailable.
func (s *IngestionService) Ingest(ctx context.Context, raw models.Sample) (IngestResult, error) {
	start := time.Now()

	if err := s.layout.Validate(raw); err != nil {
		s.metrics.IncRejected()
		return IngestResult{}, err
	}
	sample := raw.Clone()

	s.thresholds.EnsureLoaded(ctx)
	verdict := telemetry.Evaluate(sample, s.thresholds.Get())
	tr, err := s.state.fireRelayed(ctx, machine.SampleTrigger(verdict), &sample)
	if tr.Action == "" {
		return IngestResult{}, err
	}

	s.metrics.ObserveIngest(string(tr.Action), time.Since(start))
	if tr.Action == models.ActionStopByAlarm {
		s.log.Warnw("alarm_raised", "reason", tr.Reason)
	}
	if tr.relay != nil {
		s.relayStop(tr.relay)
	}

	res := IngestResult{Action: tr.Action, Reason: tr.Reason}
	if err != nil {
		s.log.Errorw("ingest_persist_failed", "action", tr.Action, "err", err)
		return res, err
	}
	return res, nil
}

// Accept implements device.Sink for polling drivers.
func (s *IngestionService) Accept(ctx context.Context, sample models.Sample) error {
	_, err := s.Ingest(ctx, sample)
	return err
}

// Wait blocks until every fail-safe relay started so far has finished.
func (s *IngestionService) Wait() {
	s.wg.Wait()
}

// relayStop sends the fail-safe STOP in its turn without holding up the caller.
func (s *IngestionService) relayStop(turn *relayTurn) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		err := turn.run(func(cmd machine.Command) error {
			ctx, cancel := context.WithTimeout(context.Background(), s.relayTimeout)
			defer cancel()
			return s.relay.Send(ctx, cmd)
		})
		if err != nil {
			s.metrics.IncRelayFailure(string(turn.cmd))
			s.log.Errorw("failsafe_stop_relay_failed", "err", err)
		}
	}()
}
