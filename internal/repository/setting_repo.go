package repository

import (
	"context"
	"database/sql"
	"fmt"
)

type SettingSQLite struct {
	db *sql.DB
}

func NewSettingSQLite(db *sql.DB) *SettingSQLite {
	return &SettingSQLite{db: db}
}

const (
	selectSettingsSQL = `SELECT sensor, max_value FROM settings`

	upsertSettingSQL = `
		INSERT INTO settings (sensor, max_value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(sensor) DO UPDATE SET
			max_value=excluded.max_value,
			updated_at=excluded.updated_at
	`
)

// List returns every stored threshold keyed by sensor id.
func (r *SettingSQLite) List(ctx context.Context) (map[string]float64, error) {
	rows, err := r.db.QueryContext(ctx, selectSettingsSQL)
	if err != nil {
		return nil, fmt.Errorf("select settings: %w", err)
	}
	defer rows.Close()

	out := make(map[string]float64)
	for rows.Next() {
		var (
			sensor string
			value  float64
		)
		if err := rows.Scan(&sensor, &value); err != nil {
			return nil, fmt.Errorf("scan setting: %w", err)
		}
		out[sensor] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate settings: %w", err)
	}
	return out, nil
}

// Upsert stores value for sensor; the last write wins.
func (r *SettingSQLite) Upsert(ctx context.Context, sensor string, value float64) error {
	if _, err := r.db.ExecContext(ctx, upsertSettingSQL, sensor, value, formatTime(nowUTC())); err != nil {
		return fmt.Errorf("upsert setting %q: %w", sensor, err)
	}
	return nil
}
