package repository_test

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	"bench_monitor/internal/models"
	"bench_monitor/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestStatusSQLite_Save_WritesReasonAndUTCText(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer db.Close()

	repo := repository.NewStatusSQLite(db)

	locTokyo := time.FixedZone("JST", 9*60*60)
	at := time.Date(2024, 5, 1, 18, 0, 0, 123, locTokyo)

	st := models.RunStatus{
		IsRunning:   false,
		AlarmActive: true,
		Reason:      models.StringPtr("P1:7"),
		UpdatedAt:   at,
	}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO run_status")).
		WithArgs(1, false, true, "P1:7", "2024-05-01 09:00:00.000000123").
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Save(context.Background(), st); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestStatusSQLite_Save_NilReasonAndZeroTime(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer db.Close()

	repo := repository.NewStatusSQLite(db)

	nonEmptyText := sqlmockArgumentFunc(func(v driver.Value) bool {
		s, ok := v.(string)
		return ok && len(s) == len("2006-01-02 15:04:05.000000000")
	})

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO run_status")).
		WithArgs(1, true, false, nil, nonEmptyText).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Save(context.Background(), models.RunStatus{IsRunning: true}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestStatusSQLite_Save_ExecErrorIsWrapped(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer db.Close()

	repo := repository.NewStatusSQLite(db)
	down := errors.New("db down")

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO run_status")).
		WillReturnError(down)

	err = repo.Save(context.Background(), models.RunStatus{})
	if !errors.Is(err, down) {
		t.Fatalf("Save() expected wrapped %v, got %v", down, err)
	}
}

func TestStatusSQLite_Load_NoRowsIsNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer db.Close()

	repo := repository.NewStatusSQLite(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT is_running, alarm_active, reason, updated_at")).
		WithArgs(1).
		WillReturnError(sql.ErrNoRows)

	_, err = repo.Load(context.Background())
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("Load() expected ErrNotFound, got %v", err)
	}
}

func TestStatusSQLite_Load_HappyPath(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer db.Close()

	repo := repository.NewStatusSQLite(db)

	rows := sqlmock.NewRows([]string{"is_running", "alarm_active", "reason", "updated_at"}).
		AddRow(false, true, "T2:81.5", "2024-02-01 13:30:00.000000000")

	mock.ExpectQuery(regexp.QuoteMeta("SELECT is_running, alarm_active, reason, updated_at")).
		WithArgs(1).
		WillReturnRows(rows)

	got, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if got.IsRunning || !got.AlarmActive || got.ReasonText() != "T2:81.5" {
		t.Fatalf("Load() unexpected fields: %+v", got)
	}
	want := time.Date(2024, 2, 1, 13, 30, 0, 0, time.UTC)
	if !got.UpdatedAt.Equal(want) || got.UpdatedAt.Location() != time.UTC {
		t.Fatalf("Load() UpdatedAt = %v, want %v", got.UpdatedAt, want)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestStatusSQLite_Load_NullReason(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer db.Close()

	repo := repository.NewStatusSQLite(db)

	rows := sqlmock.NewRows([]string{"is_running", "alarm_active", "reason", "updated_at"}).
		AddRow(true, false, nil, "2024-02-01 13:30:00.000000000")

	mock.ExpectQuery(regexp.QuoteMeta("SELECT is_running, alarm_active, reason, updated_at")).
		WithArgs(1).
		WillReturnRows(rows)

	got, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if got.Reason != nil {
		t.Fatalf("Load() expected nil reason, got %q", *got.Reason)
	}
}

func TestStatusSQLite_Load_InvalidTimestamp(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer db.Close()

	repo := repository.NewStatusSQLite(db)

	rows := sqlmock.NewRows([]string{"is_running", "alarm_active", "reason", "updated_at"}).
		AddRow(false, false, nil, "not a time")

	mock.ExpectQuery(regexp.QuoteMeta("SELECT is_running, alarm_active, reason, updated_at")).
		WithArgs(1).
		WillReturnRows(rows)

	if _, err := repo.Load(context.Background()); err == nil {
		t.Fatalf("Load() expected error for invalid timestamp, got nil")
	}
}

// Helpers

type sqlmockArgumentFunc func(v driver.Value) bool

func (f sqlmockArgumentFunc) Match(v driver.Value) bool {
	return f(v)
}
