package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"bench_monitor/internal/models"
)

var (
	// ErrNotFound is returned when a singleton row has never been written.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when an insert hits a UNIQUE constraint.
	ErrDuplicate = errors.New("duplicate")
)

type Authorization interface {
	Create(username, hash string) (int, error)
	GetByUsername(username string) (*models.User, error)
}

type StatusRepo interface {
	Save(ctx context.Context, s models.RunStatus) error
	Load(ctx context.Context) (models.RunStatus, error)
}

type TelemetryRepo interface {
	Append(ctx context.Context, e models.LogEntry) (int64, error)
	Recent(ctx context.Context, limit int) ([]models.LogEntry, error)
	Query(ctx context.Context, f LogFilter) ([]models.LogEntry, int, error)
	Count(ctx context.Context) (int, error)
	DeleteAll(ctx context.Context) (int64, error)
	ApproxSize(ctx context.Context) (int64, error)
}

type SettingRepo interface {
	List(ctx context.Context) (map[string]float64, error)
	Upsert(ctx context.Context, sensor string, value float64) error
}

// LogFilter narrows a telemetry log query. Zero values mean "no constraint";
// Limit and Offset are expected to be normalized by the caller.
type LogFilter struct {
	Start          time.Time
	End            time.Time
	Action         models.Action
	ReasonContains string
	Ascending      bool
	Limit          int
	Offset         int
}

type Repository struct {
	StatusRepo    StatusRepo
	TelemetryRepo TelemetryRepo
	SettingRepo   SettingRepo
	Auth          Authorization
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		StatusRepo:    NewStatusSQLite(db),
		TelemetryRepo: NewTelemetrySQLite(db),
		SettingRepo:   NewSettingSQLite(db),
		Auth:          NewUserRepository(db),
	}
}

// timeLayout is fixed-width so that lexical order in SQLite equals chronological order.
const timeLayout = "2006-01-02 15:04:05.000000000"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.ParseInLocation(timeLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}

// nowUTC is swapped in tests.
var nowUTC = func() time.Time { return time.Now().UTC() }
