package service

import (
	"context"
	"errors"
	"time"

	"bench_monitor/internal/device"
	"bench_monitor/internal/logger"
	"bench_monitor/internal/machine"
	"bench_monitor/internal/metrics"
	"bench_monitor/internal/models"
	"bench_monitor/internal/repository"
	"bench_monitor/internal/telemetry"
)

type Authorization interface {
	SignUp(username, password string) (int, error)
	GenerateToken(username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// Ingestion accepts samples from the bench.
type Ingestion interface {
	Ingest(ctx context.Context, raw models.Sample) (IngestResult, error)
}

// Commands exposes operator control: START, STOP, RESET.
type Commands interface {
	Execute(ctx context.Context, cmd machine.Command) (CommandResult, error)
}

// Monitoring exposes read-only state.
type Monitoring interface {
	GetStatus(ctx context.Context) (StatusView, error)
	Health() HealthView
}

// TelemetryLog exposes history reads and bulk administration.
type TelemetryLog interface {
	Recent(ctx context.Context, limit int) ([]models.LogEntry, error)
	Query(ctx context.Context, q LogQuery) (LogPage, error)
	Stats(ctx context.Context) (LogStats, error)
	Purge(ctx context.Context) (int64, error)
}

// Settings exposes the per-channel thresholds.
type Settings interface {
	List() []models.Threshold
	SetOne(ctx context.Context, sensor string, value float64) (models.Threshold, error)
	SetMany(ctx context.Context, items []models.Threshold) BulkResult
}

// Hub is the live event fan-out as seen by the services.
type Hub interface {
	Publisher
	SubscriberCounter
}

// Options carries what the services need beyond the repositories.
type Options struct {
	Layout          telemetry.Layout
	Hub             Hub
	Relay           device.Relay
	Metrics         *metrics.Metrics
	Log             *logger.Logger
	StorageTimeout  time.Duration
	DeviceTimeout   time.Duration
	SigningKey      string
	TokenTTL        time.Duration
	DefaultLogLimit int
	MaxLogLimit     int
}

//
// Root Service aggregates all sub-services.
//

type Service struct {
	Authorization
	Ingestion
	Commands
	Monitoring
	TelemetryLog
	Settings

	settings  *SettingsService
	state     *RunStateService
	ingestion *IngestionService
}

// NewService wires the repository layer into concrete services.
func NewService(repos *repository.Repository, opts Options) *Service {
	settings := NewSettingsService(repos.SettingRepo, opts.Layout, opts.StorageTimeout, opts.Log)
	state := NewRunStateService(repos.StatusRepo, repos.TelemetryRepo, opts.Hub, opts.StorageTimeout, opts.Metrics, opts.Log)
	ingestion := NewIngestionService(opts.Layout, settings, state, opts.Relay, opts.DeviceTimeout, opts.Metrics, opts.Log)

	return &Service{
		Authorization: NewAuthService(repos.Auth, opts.SigningKey, opts.TokenTTL),
		Ingestion:     ingestion,
		Commands:      NewCommandService(state, opts.Relay, opts.DeviceTimeout, opts.Metrics, opts.Log),
		Monitoring:    NewMonitoringService(state, settings, opts.Hub),
		TelemetryLog:  NewTelemetryLogService(repos.TelemetryRepo, opts.StorageTimeout, opts.DefaultLogLimit, opts.MaxLogLimit, opts.Log),
		Settings:      settings,

		settings:  settings,
		state:     state,
		ingestion: ingestion,
	}
}

// Bootstrap loads thresholds and the run status. Errors are returned for
// logging; the service stays usable in degraded mode.
func (s *Service) Bootstrap(ctx context.Context) error {
	return errors.Join(s.settings.Load(ctx), s.state.Bootstrap(ctx))
}

// Sink is where device feeds deliver samples.
func (s *Service) Sink() device.Sink {
	return s.ingestion
}

// Wait blocks until background device relays have finished.
func (s *Service) Wait() {
	s.ingestion.Wait()
}
