package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"bench_monitor/internal/logger"
	"bench_monitor/internal/models"
	"bench_monitor/internal/repository"
)

const (
	sortAsc  = "asc"
	sortDesc = "desc"
)

var errInvalidTimeRange = errors.New("invalid time range: start must be <= end")

// TelemetryLogService serves history reads and the administrative bulk operations.
// Appends happen only through RunStateService.
type TelemetryLogService struct {
	repo         repository.TelemetryRepo
	timeout      time.Duration
	defaultLimit int
	maxLimit     int
	log          *logger.Logger
}

func NewTelemetryLogService(repo repository.TelemetryRepo, timeout time.Duration, defaultLimit, maxLimit int, log *logger.Logger) *TelemetryLogService {
	return &TelemetryLogService{
		repo:         repo,
		timeout:      timeout,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
		log:          log.Named("telemetrylog"),
	}
}

// Recent returns up to limit entries, newest first. limit is clamped like Query.
func (s *TelemetryLogService) Recent(ctx context.Context, limit int) ([]models.LogEntry, error) {
	c, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	entries, err := s.repo.Recent(c, s.clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	return entries, nil
}

// Query returns one page of matching entries. Filters are ANDed. limit 0 means
// the default; larger values are clamped to the maximum; a negative offset is 0.
func (s *TelemetryLogService) Query(ctx context.Context, q LogQuery) (LogPage, error) {
	f, err := s.normalize(q)
	if err != nil {
		return LogPage{}, err
	}

	c, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	entries, total, err := s.repo.Query(c, f)
	if err != nil {
		return LogPage{}, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	return LogPage{Data: entries, TotalCount: total}, nil
}

// Stats reports the entry count and the approximate storage size.
func (s *TelemetryLogService) Stats(ctx context.Context) (LogStats, error) {
	c, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	n, err := s.repo.Count(c)
	if err != nil {
		return LogStats{}, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	size, err := s.repo.ApproxSize(c)
	if err != nil {
		return LogStats{}, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	return LogStats{Count: n, ApproxBytes: size}, nil
}

// Purge deletes every entry.
func (s *TelemetryLogService) Purge(ctx context.Context) (int64, error) {
	c, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	n, err := s.repo.DeleteAll(c)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	s.log.Warnw("telemetry_log_purged", "deleted", n)
	return n, nil
}

func (s *TelemetryLogService) normalize(q LogQuery) (repository.LogFilter, error) {
	f := repository.LogFilter{
		Start:          toUTC(q.Start),
		End:            toUTC(q.End),
		ReasonContains: q.Reason,
		Limit:          s.clampLimit(q.Limit),
		Offset:         q.Offset,
	}
	if !f.Start.IsZero() && !f.End.IsZero() && f.Start.After(f.End) {
		return repository.LogFilter{}, fmt.Errorf("%w: %w", ErrInvalidLogFilter, errInvalidTimeRange)
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	if a := strings.ToUpper(strings.TrimSpace(q.Action)); a != "" {
		f.Action = models.Action(a)
		if !f.Action.Valid() {
			return repository.LogFilter{}, fmt.Errorf("%w: unknown action %q", ErrInvalidLogFilter, q.Action)
		}
	}

	switch strings.ToLower(strings.TrimSpace(q.SortOrder)) {
	case "", sortDesc:
	case sortAsc:
		f.Ascending = true
	default:
		return repository.LogFilter{}, fmt.Errorf("%w: sortOrder must be asc or desc", ErrInvalidLogFilter)
	}
	return f, nil
}

func (s *TelemetryLogService) clampLimit(limit int) int {
	switch {
	case limit == 0:
		return s.defaultLimit
	case limit < 1:
		return 1
	case limit > s.maxLimit:
		return s.maxLimit
	default:
		return limit
	}
}
