package service

import (
	"time"

	"bench_monitor/internal/models"
)

// StatusView is the run status as reported to clients.
type StatusView struct {
	IsRunning   bool      `json:"isRunning"`
	AlarmActive bool      `json:"alarmActive"`
	Reason      *string   `json:"reason"`
	UpdatedAt   time.Time `json:"updatedAt"`
	State       string    `json:"state"`
	Degraded    bool      `json:"degraded"`
}

// HealthView is the body of the health probe.
type HealthView struct {
	Status           string `json:"status"`
	Initialized      bool   `json:"initialized"`
	Degraded         bool   `json:"degraded"`
	ThresholdsLoaded bool   `json:"thresholdsLoaded"`
	Subscribers      int    `json:"subscribers"`
	Uptime           string `json:"uptime"`
}

// LogQuery is a history request as received from the API; see TelemetryLogService.Query.
type LogQuery struct {
	Start     time.Time // inclusive; zero means no lower bound
	End       time.Time // inclusive; zero means no upper bound
	Action    string    // "" or one of models.Actions
	Reason    string    // case-insensitive substring
	SortOrder string    // "asc" | "desc" (default)
	Limit     int
	Offset    int
}

// LogPage is one page of history plus the number of matching entries.
type LogPage struct {
	Data       []models.LogEntry `json:"data"`
	TotalCount int               `json:"totalCount"`
}

// LogStats describes the size of the telemetry log.
type LogStats struct {
	Count       int   `json:"count"`
	ApproxBytes int64 `json:"approxBytes"`
}
