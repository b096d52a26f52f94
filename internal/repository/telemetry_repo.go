package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"bench_monitor/internal/models"
)

type TelemetrySQLite struct {
	db *sql.DB
}

func NewTelemetrySQLite(db *sql.DB) *TelemetrySQLite { return &TelemetrySQLite{db: db} }

const (
	insertLogSQL = `
		INSERT INTO telemetry_log (created_at, pressure, temperature, action, reason)
		VALUES (?, ?, ?, ?, ?)
	`

	selectLogColumns = `SELECT id, created_at, pressure, temperature, action, reason FROM telemetry_log`

	countLogSQL     = `SELECT COUNT(*) FROM telemetry_log`
	deleteLogSQL    = `DELETE FROM telemetry_log`
	approxSizeSQL   = `SELECT page_count * page_size FROM pragma_page_count(), pragma_page_size()`
	likeEscapeChars = `\%_`
)

// Append inserts one entry and returns its id. A zero CreatedAt is set to now.
func (r *TelemetrySQLite) Append(ctx context.Context, e models.LogEntry) (int64, error) {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = nowUTC()
	}

	pressure, err := marshalReadings(e.Pressure)
	if err != nil {
		return 0, fmt.Errorf("marshal pressure: %w", err)
	}
	temperature, err := marshalReadings(e.Temperature)
	if err != nil {
		return 0, fmt.Errorf("marshal temperature: %w", err)
	}

	res, err := r.db.ExecContext(ctx, insertLogSQL,
		formatTime(e.CreatedAt),
		pressure,
		temperature,
		string(e.Action),
		e.Reason,
	)
	if err != nil {
		return 0, fmt.Errorf("insert log entry: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id for log entry: %w", err)
	}
	return id, nil
}

// Recent returns up to limit entries, newest first.
func (r *TelemetrySQLite) Recent(ctx context.Context, limit int) ([]models.LogEntry, error) {
	q := selectLogColumns + " ORDER BY created_at DESC, id DESC LIMIT ?"
	return r.list(ctx, q, limit)
}

// Query returns one page of entries matching f together with the total number of matches.
func (r *TelemetrySQLite) Query(ctx context.Context, f LogFilter) ([]models.LogEntry, int, error) {
	where, args := buildLogWhere(f)

	var total int
	if err := r.db.QueryRowContext(ctx, countLogSQL+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count log entries: %w", err)
	}

	dir := "DESC"
	if f.Ascending {
		dir = "ASC"
	}
	q := selectLogColumns + where +
		" ORDER BY created_at " + dir + ", id " + dir +
		" LIMIT ? OFFSET ?"

	entries, err := r.list(ctx, q, append(args, f.Limit, f.Offset)...)
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// Count returns the number of stored entries.
func (r *TelemetrySQLite) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, countLogSQL).Scan(&n); err != nil {
		return 0, fmt.Errorf("count log entries: %w", err)
	}
	return n, nil
}

// DeleteAll removes every entry and returns how many were deleted.
func (r *TelemetrySQLite) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, deleteLogSQL)
	if err != nil {
		return 0, fmt.Errorf("delete log entries: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected for log delete: %w", err)
	}
	return n, nil
}

// ApproxSize estimates the database file size in bytes.
func (r *TelemetrySQLite) ApproxSize(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, approxSizeSQL).Scan(&n); err != nil {
		return 0, fmt.Errorf("approximate storage size: %w", err)
	}
	return n, nil
}

func (r *TelemetrySQLite) list(ctx context.Context, q string, args ...any) ([]models.LogEntry, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("select log entries: %w", err)
	}
	defer rows.Close()

	out := make([]models.LogEntry, 0, 64)
	for rows.Next() {
		var (
			e                     models.LogEntry
			created, action       string
			pressure, temperature string
		)
		if err := rows.Scan(&e.ID, &created, &pressure, &temperature, &action, &e.Reason); err != nil {
			return nil, fmt.Errorf("scan log entry: %w", err)
		}
		if e.CreatedAt, err = parseTime(created); err != nil {
			return nil, fmt.Errorf("parse created_at %q: %w", created, err)
		}
		if e.Pressure, err = unmarshalReadings(pressure); err != nil {
			return nil, fmt.Errorf("decode pressure of entry %d: %w", e.ID, err)
		}
		if e.Temperature, err = unmarshalReadings(temperature); err != nil {
			return nil, fmt.Errorf("decode temperature of entry %d: %w", e.ID, err)
		}
		e.Action = models.Action(action)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate log entries: %w", err)
	}
	return out, nil
}

func buildLogWhere(f LogFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if !f.Start.IsZero() {
		conds = append(conds, "created_at >= ?")
		args = append(args, formatTime(f.Start))
	}
	if !f.End.IsZero() {
		conds = append(conds, "created_at <= ?")
		args = append(args, formatTime(f.End))
	}
	if f.Action != "" {
		conds = append(conds, "action = ?")
		args = append(args, string(f.Action))
	}
	if s := strings.TrimSpace(f.ReasonContains); s != "" {
		conds = append(conds, `LOWER(reason) LIKE ? ESCAPE '\'`)
		args = append(args, "%"+escapeLike(strings.ToLower(s))+"%")
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func escapeLike(s string) string {
	var b strings.Builder
	for _, r := range s {
		if strings.ContainsRune(likeEscapeChars, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// marshalReadings converts readings to a JSON array string.
func marshalReadings(v []float64) (string, error) {
	if v == nil {
		v = []float64{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// unmarshalReadings parses a JSON array string into readings.
func unmarshalReadings(s string) ([]float64, error) {
	if s == "" {
		return []float64{}, nil
	}
	var v []float64
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, err
	}
	return v, nil
}
