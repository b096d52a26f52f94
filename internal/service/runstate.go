package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"bench_monitor/internal/logger"
	"bench_monitor/internal/machine"
	"bench_monitor/internal/metrics"
	"bench_monitor/internal/models"
	"bench_monitor/internal/repository"
)

// Publisher fans events out to live subscribers. Publish must not block.
type Publisher interface {
	Publish(ev models.Event) int
}

// Snapshot is a consistent read of the run status.
type Snapshot struct {
	Status      models.RunStatus
	Initialized bool
	Degraded    bool
}

// Transition is the accepted result of one trigger.
type Transition struct {
	Status models.RunStatus
	Action models.Action
	Reason string
	Entry  models.LogEntry

	relay *relayTurn
}

// RunStateService is the only writer of the run status. Every transition is
// applied, persisted, logged and published under one lock, so the log order is
// the order transitions happened.
type RunStateService struct {
	statusRepo repository.StatusRepo
	logRepo    repository.TelemetryRepo
	hub        Publisher
	timeout    time.Duration
	metrics    *metrics.Metrics
	log        *logger.Logger
	now        func() time.Time

	mu          sync.Mutex
	status      models.RunStatus
	initialized bool
	degraded    bool
	lastAt      time.Time
	lastSample  models.Sample
	relayTail   <-chan struct{}

	snap atomic.Pointer[Snapshot]
}

func NewRunStateService(
	statusRepo repository.StatusRepo,
	logRepo repository.TelemetryRepo,
	hub Publisher,
	timeout time.Duration,
	m *metrics.Metrics,
	log *logger.Logger,
) *RunStateService {
	s := &RunStateService{
		statusRepo: statusRepo,
		logRepo:    logRepo,
		hub:        hub,
		timeout:    timeout,
		metrics:    m,
		log:        log.Named("runstate"),
		now:        time.Now,
	}
	s.publishSnapshot()
	return s
}

// Bootstrap loads the persisted status, creating the STOPPED row on first start.
// On storage failure the service keeps running uninitialized and degraded.
func (s *RunStateService) Bootstrap(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// load reads the stored status into memory. It must be called with mu held.
func (s *RunStateService) load(ctx context.Context) error {
	defer s.publishSnapshot()

	c, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	st, err := s.statusRepo.Load(c)
	switch {
	case err == nil:
		s.status = st
		s.lastAt = st.UpdatedAt
	case errors.Is(err, repository.ErrNotFound):
		st = models.RunStatus{UpdatedAt: s.stamp()}
		if err := s.statusRepo.Save(c, st); err != nil {
			s.degraded = true
			s.metrics.IncStorageFailure("save_status")
			return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
		}
		s.status = st
		s.log.Infow("run_status_created")
	default:
		s.degraded = true
		s.metrics.IncStorageFailure("load_status")
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	s.initialized = true
	s.degraded = false
	s.metrics.SetAlarmActive(s.status.AlarmActive)
	s.log.Infow("run_status_loaded", "state", s.status.State(), "reason", s.status.ReasonText())
	return nil
}

// Snapshot returns the latest status without waiting for an in-flight transition.
func (s *RunStateService) Snapshot() Snapshot {
	return *s.snap.Load()
}

// Fire applies t. sample is nil for commands; command entries carry the most
// recent readings. On a storage error the transition still took effect in
// memory and was published; the returned error wraps ErrStorageUnavailable.
//
// Until the stored status has been read, Fire retries the load and refuses
// the trigger with an error wrapping ErrNotInitialized if it still fails.
func (s *RunStateService) Fire(ctx context.Context, t machine.Trigger, sample *models.Sample) (Transition, error) {
	return s.fire(ctx, t, sample, false)
}

// fireRelayed is Fire for callers that forward the result to the bench. An
// accepted transition that has a device command carries a relay turn, and
// the caller must run it.
func (s *RunStateService) fireRelayed(ctx context.Context, t machine.Trigger, sample *models.Sample) (Transition, error) {
	return s.fire(ctx, t, sample, true)
}

func (s *RunStateService) fire(ctx context.Context, t machine.Trigger, sample *models.Sample, relayed bool) (Transition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		if err := s.load(ctx); err != nil {
			return Transition{}, fmt.Errorf("%w: %w", ErrNotInitialized, err)
		}
	}

	out, err := machine.Next(s.status, t)
	if err != nil {
		return Transition{}, err
	}

	at := s.stamp()
	out.Status.UpdatedAt = at
	s.status = out.Status
	if sample != nil {
		s.lastSample = sample.Clone()
	}

	readings := s.lastSample.Clone()
	entry := models.LogEntry{
		CreatedAt:   at,
		Pressure:    readings.Pressure,
		Temperature: readings.Temperature,
		Action:      out.Action,
		Reason:      out.Reason,
	}

	storeErr := s.persist(ctx, &entry)
	s.publishSnapshot()
	s.metrics.SetAlarmActive(s.status.AlarmActive)
	s.hub.Publish(models.NewStatusEvent(s.status, out.Action, at))

	tr := Transition{Status: s.status, Action: out.Action, Reason: out.Reason, Entry: entry}
	if cmd, ok := relayCommand(out.Action); ok && relayed {
		tr.relay = s.nextTurn(cmd)
	}
	if storeErr != nil {
		return tr, fmt.Errorf("%w: %w", ErrStorageUnavailable, storeErr)
	}
	return tr, nil
}

// persist writes status then log entry with a bounded timeout. It must be
// called with mu held. The request context's cancellation is ignored so a
// client hanging up can't leave the log behind the in-memory state.
func (s *RunStateService) persist(ctx context.Context, entry *models.LogEntry) error {
	c, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()

	var errs []error
	if err := s.statusRepo.Save(c, s.status); err != nil {
		s.metrics.IncStorageFailure("save_status")
		errs = append(errs, fmt.Errorf("save status: %w", err))
	}

	id, err := s.logRepo.Append(c, *entry)
	if err != nil {
		s.metrics.IncStorageFailure("append_log")
		errs = append(errs, fmt.Errorf("append log: %w", err))
	} else {
		entry.ID = id
	}

	err = errors.Join(errs...)
	switch {
	case err != nil && !s.degraded:
		s.log.Errorw("storage_degraded", "action", entry.Action, "err", err)
	case err != nil:
		s.log.Warnw("storage_still_degraded", "action", entry.Action, "err", err)
	case s.degraded:
		s.log.Infow("storage_recovered")
	}
	s.degraded = err != nil
	return err
}

// stamp returns the creation time for the next entry, never earlier than the previous one.
func (s *RunStateService) stamp() time.Time {
	now := s.now().UTC()
	if now.Before(s.lastAt) {
		now = s.lastAt
	}
	s.lastAt = now
	return now
}

func (s *RunStateService) publishSnapshot() {
	s.snap.Store(&Snapshot{
		Status:      s.status,
		Initialized: s.initialized,
		Degraded:    s.degraded,
	})
}
