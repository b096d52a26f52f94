package repository

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"bench_monitor/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
)

func ctx(t *testing.T) context.Context {
	t.Helper()
	c, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	t.Cleanup(cancel)
	return c
}

var logColumns = []string{"id", "created_at", "pressure", "temperature", "action", "reason"}

func TestTelemetryAppend_EncodesReadings(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	at := time.Date(2025, 1, 1, 10, 0, 0, 5, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta(insertLogSQL)).
		WithArgs("2025-01-01 10:00:00.000000005", "[1,2,3]", "[10,20.5]", "STOP_BY_ALARM", "P1:7").
		WillReturnResult(sqlmock.NewResult(17, 1))

	id, err := NewTelemetrySQLite(db).Append(ctx(t), models.LogEntry{
		CreatedAt:   at,
		Pressure:    []float64{1, 2, 3},
		Temperature: []float64{10, 20.5},
		Action:      models.ActionStopByAlarm,
		Reason:      "P1:7",
	})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if id != 17 {
		t.Fatalf("want id 17, got %d", id)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestTelemetryAppend_DefaultsTimeAndEmptyReadings(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	fixed := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	prev := nowUTC
	nowUTC = func() time.Time { return fixed }
	t.Cleanup(func() { nowUTC = prev })

	mock.ExpectExec(regexp.QuoteMeta(insertLogSQL)).
		WithArgs("2025-06-01 00:00:00.000000000", "[]", "[]", "STOP_BY_USER", "").
		WillReturnResult(sqlmock.NewResult(1, 1))

	if _, err := NewTelemetrySQLite(db).Append(ctx(t), models.LogEntry{Action: models.ActionStopByUser}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestTelemetryAppend_DBError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("INSERT INTO telemetry_log").WillReturnError(errors.New("down"))

	_, err = NewTelemetrySQLite(db).Append(ctx(t), models.LogEntry{Action: models.ActionOK})
	if err == nil || !strings.Contains(err.Error(), "down") {
		t.Fatalf("expected error, got %v", err)
	}
}

func TestTelemetryRecent_NewestFirst(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	rows := sqlmock.NewRows(logColumns).
		AddRow(2, "2025-01-01 10:00:01.000000000", "[1]", "[2]", "OK", "").
		AddRow(1, "2025-01-01 10:00:00.000000000", "[1]", "[2]", "START_BY_USER", "")

	mock.ExpectQuery(regexp.QuoteMeta(selectLogColumns + " ORDER BY created_at DESC, id DESC LIMIT ?")).
		WithArgs(10).
		WillReturnRows(rows)

	got, err := NewTelemetrySQLite(db).Recent(ctx(t), 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 2 || got[0].ID != 2 || got[1].Action != models.ActionStartByUser {
		t.Fatalf("unexpected entries: %+v", got)
	}
	if got[0].Pressure[0] != 1 || got[0].Temperature[0] != 2 {
		t.Fatalf("readings not decoded: %+v", got[0])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestTelemetryQuery_FiltersAndPaging(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	where := ` WHERE created_at >= ? AND created_at <= ? AND action = ? AND LOWER(reason) LIKE ? ESCAPE '\'`

	mock.ExpectQuery(regexp.QuoteMeta(countLogSQL+where)).
		WithArgs("2025-01-01 00:00:00.000000000", "2025-01-02 00:00:00.000000000", "STOP_BY_ALARM", `%p1\_%`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	mock.ExpectQuery(regexp.QuoteMeta(selectLogColumns+where+" ORDER BY created_at ASC, id ASC LIMIT ? OFFSET ?")).
		WithArgs("2025-01-01 00:00:00.000000000", "2025-01-02 00:00:00.000000000", "STOP_BY_ALARM", `%p1\_%`, 2, 1).
		WillReturnRows(sqlmock.NewRows(logColumns).
			AddRow(5, "2025-01-01 12:00:00.000000000", "[7]", "[1]", "STOP_BY_ALARM", "P1_:7"))

	got, total, err := NewTelemetrySQLite(db).Query(ctx(t), LogFilter{
		Start:          start,
		End:            end,
		Action:         models.ActionStopByAlarm,
		ReasonContains: " P1_ ",
		Ascending:      true,
		Limit:          2,
		Offset:         1,
	})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if total != 3 || len(got) != 1 || got[0].ID != 5 {
		t.Fatalf("unexpected page: total=%d entries=%+v", total, got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestTelemetryQuery_NoFiltersDefaultsToDescending(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(countLogSQL)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(regexp.QuoteMeta(selectLogColumns + " ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?")).
		WithArgs(50, 0).
		WillReturnRows(sqlmock.NewRows(logColumns))

	got, total, err := NewTelemetrySQLite(db).Query(ctx(t), LogFilter{Limit: 50})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if total != 0 || len(got) != 0 {
		t.Fatalf("expected empty page, got total=%d entries=%d", total, len(got))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestTelemetryQuery_BadRowIsError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(countLogSQL)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta(selectLogColumns)).
		WillReturnRows(sqlmock.NewRows(logColumns).
			AddRow(1, "2025-01-01 12:00:00.000000000", "{oops", "[1]", "OK", ""))

	if _, _, err := NewTelemetrySQLite(db).Query(ctx(t), LogFilter{Limit: 10}); err == nil {
		t.Fatalf("expected decode error, got nil")
	}
}

func TestTelemetryDeleteCountSize(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(countLogSQL)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))
	mock.ExpectExec(regexp.QuoteMeta(deleteLogSQL)).
		WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectQuery(regexp.QuoteMeta(approxSizeSQL)).
		WillReturnRows(sqlmock.NewRows([]string{"size"}).AddRow(int64(8192)))

	repo := NewTelemetrySQLite(db)
	if n, err := repo.Count(ctx(t)); err != nil || n != 4 {
		t.Fatalf("Count = %d, %v", n, err)
	}
	if n, err := repo.DeleteAll(ctx(t)); err != nil || n != 4 {
		t.Fatalf("DeleteAll = %d, %v", n, err)
	}
	if n, err := repo.ApproxSize(ctx(t)); err != nil || n != 8192 {
		t.Fatalf("ApproxSize = %d, %v", n, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestEscapeLike(t *testing.T) {
	if got := escapeLike(`50%_a\b`); got != `50\%\_a\\b` {
		t.Fatalf("escapeLike = %q", got)
	}
}
