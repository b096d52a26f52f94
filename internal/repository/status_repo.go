package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"bench_monitor/internal/models"
)

type StatusSQLite struct {
	db *sql.DB
}

func NewStatusSQLite(db *sql.DB) *StatusSQLite {
	return &StatusSQLite{db: db}
}

const (
	runStatusRowID = 1

	upsertStatusSQL = `
		INSERT INTO run_status (id, is_running, alarm_active, reason, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			is_running=excluded.is_running,
			alarm_active=excluded.alarm_active,
			reason=excluded.reason,
			updated_at=excluded.updated_at
	`

	selectStatusSQL = `
		SELECT is_running, alarm_active, reason, updated_at
		FROM run_status WHERE id=?
	`
)

// Save updates or inserts the run_status row (id always 1).
func (r *StatusSQLite) Save(ctx context.Context, st models.RunStatus) error {
	ts := st.UpdatedAt
	if ts.IsZero() {
		ts = time.Now()
	}

	var reason sql.NullString
	if st.Reason != nil {
		reason = sql.NullString{String: *st.Reason, Valid: true}
	}

	if _, err := r.db.ExecContext(ctx, upsertStatusSQL,
		runStatusRowID,
		st.IsRunning,
		st.AlarmActive,
		reason,
		formatTime(ts),
	); err != nil {
		return fmt.Errorf("save run status: %w", err)
	}
	return nil
}

// Load fetches the singleton row. ErrNotFound means the status was never initialized.
func (r *StatusSQLite) Load(ctx context.Context) (models.RunStatus, error) {
	var (
		st      models.RunStatus
		reason  sql.NullString
		updated string
	)
	err := r.db.QueryRowContext(ctx, selectStatusSQL, runStatusRowID).
		Scan(&st.IsRunning, &st.AlarmActive, &reason, &updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.RunStatus{}, ErrNotFound
		}
		return models.RunStatus{}, fmt.Errorf("load run status: %w", err)
	}

	if reason.Valid {
		st.Reason = models.StringPtr(reason.String)
	}
	if st.UpdatedAt, err = parseTime(updated); err != nil {
		return models.RunStatus{}, fmt.Errorf("parse run status updated_at %q: %w", updated, err)
	}
	return st, nil
}
