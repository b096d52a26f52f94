package service

import (
	"context"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"bench_monitor/internal/logger"
	"bench_monitor/internal/models"
	"bench_monitor/internal/repository"
	"bench_monitor/internal/telemetry"
)

// ThresholdFailure reports one entry of a bulk update that was not committed.
type ThresholdFailure struct {
	Sensor string `json:"sensor"`
	Error  string `json:"error"`
}

// BulkResult lists what a bulk update actually committed and what it did not.
type BulkResult struct {
	Committed []models.Threshold `json:"committed"`
	Failed    []ThresholdFailure `json:"failed"`
}

// thresholdRetryInterval spaces out reload attempts after a failed Load.
const thresholdRetryInterval = 5 * time.Second

// SettingsService owns the threshold table. Evaluation reads an in-memory
// snapshot, so a storage outage never blocks ingestion.
type SettingsService struct {
	repo    repository.SettingRepo
	layout  telemetry.Layout
	timeout time.Duration
	log     *logger.Logger

	// writeMu orders storage writes with the snapshot updates that follow them.
	writeMu    sync.Mutex
	loaded     atomic.Bool
	lastTry    atomic.Int64
	retryEvery time.Duration

	mu      sync.RWMutex
	current telemetry.Thresholds
}

func NewSettingsService(repo repository.SettingRepo, layout telemetry.Layout, timeout time.Duration, log *logger.Logger) *SettingsService {
	return &SettingsService{
		repo:    repo,
		layout:  layout,
		timeout: timeout,
		log:     log.Named("settings"),
		current: telemetry.NewThresholds(layout, nil),

		retryEvery: thresholdRetryInterval,
	}
}

// Load replaces the snapshot with stored values. On failure the previous snapshot stays.
func (s *SettingsService) Load(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.lastTry.Store(time.Now().UnixNano())

	c, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	stored, err := s.repo.List(c)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	th := telemetry.NewThresholds(s.layout, stored)

	s.mu.Lock()
	s.current = th
	s.mu.Unlock()
	if !s.loaded.Swap(true) {
		s.log.Infow("thresholds_loaded", "stored", len(stored))
	}
	return nil
}

// Loaded reports whether the stored limits have been read at least once.
// Until then evaluation runs on the layout defaults.
func (s *SettingsService) Loaded() bool {
	return s.loaded.Load()
}

// EnsureLoaded retries Load while the stored limits have never been read, at
// most once per retry interval.
func (s *SettingsService) EnsureLoaded(ctx context.Context) {
	if s.loaded.Load() {
		return
	}
	last := s.lastTry.Load()
	now := time.Now().UnixNano()
	if last != 0 && now-last < int64(s.retryEvery) {
		return
	}
	if !s.lastTry.CompareAndSwap(last, now) {
		return
	}
	if err := s.Load(ctx); err != nil {
		s.log.Warnw("thresholds_on_defaults", "err", err)
	}
}

// Get returns the current thresholds.
func (s *SettingsService) Get() telemetry.Thresholds {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// List returns every channel with its effective limit.
func (s *SettingsService) List() []models.Threshold {
	return s.Get().List()
}

// SetOne upserts one threshold. The snapshot changes only after storage commits.
func (s *SettingsService) SetOne(ctx context.Context, sensor string, value float64) (models.Threshold, error) {
	ch, err := s.validate(sensor, value)
	if err != nil {
		return models.Threshold{}, err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	c, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.repo.Upsert(c, ch, value); err != nil {
		s.log.Errorw("threshold_upsert_failed", "sensor", ch, "err", err)
		return models.Threshold{}, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	s.mu.Lock()
	s.current = s.current.With(ch, value)
	s.mu.Unlock()

	s.log.Infow("threshold_updated", "sensor", ch, "max_value", value)
	return models.Threshold{Sensor: ch, MaxValue: value}, nil
}

// SetMany upserts each entry independently; one failure never rolls back another.
func (s *SettingsService) SetMany(ctx context.Context, items []models.Threshold) BulkResult {
	res := BulkResult{
		Committed: make([]models.Threshold, 0, len(items)),
		Failed:    make([]ThresholdFailure, 0),
	}
	for _, it := range items {
		th, err := s.SetOne(ctx, it.Sensor, it.MaxValue)
		if err != nil {
			res.Failed = append(res.Failed, ThresholdFailure{Sensor: it.Sensor, Error: err.Error()})
			continue
		}
		res.Committed = append(res.Committed, th)
	}
	return res
}

func (s *SettingsService) validate(sensor string, value float64) (string, error) {
	ch := telemetry.NormalizeChannel(sensor)
	if !s.layout.Recognized(ch) {
		return "", fmt.Errorf("%w: unknown sensor %q", ErrInvalidThreshold, sensor)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return "", fmt.Errorf("%w: %s must be a finite number", ErrInvalidThreshold, ch)
	}
	return ch, nil
}
