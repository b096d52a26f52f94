package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"bench_monitor/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errStartInvalid = "invalid 'start' time; use RFC3339 or YYYY-MM-DD"
	errEndInvalid   = "invalid 'end' time; use RFC3339 or YYYY-MM-DD"

	layoutDateTime = "2006-01-02 15:04:05"
	layoutDate     = "2006-01-02"
)

// isDateOnly reports whether the query string represents a date without time component.
func isDateOnly(s string) bool {
	return !strings.ContainsAny(s, "T ")
}

// @Summary      Query the telemetry log
// @Description  Filters are combined with AND. If 'end' is date-only it covers the whole day. limit defaults to 50 and is clamped to 1..500.
// @Tags         logs
// @Produce      json
// @Param        start      query  string  false  "Inclusive lower bound (RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD')"  example(2025-08-01)
// @Param        end        query  string  false  "Inclusive upper bound; date-only means end of day"  example(2025-08-31)
// @Param        action     query  string  false  "Action"  Enums(OK,STOP_BY_ALARM,START_BY_USER,STOP_BY_USER,RESET_ALARM,ALARM_STILL_ACTIVE)
// @Param        reason     query  string  false  "Case-insensitive substring of the reason"
// @Param        sortOrder  query  string  false  "Creation order"  Enums(asc,desc)
// @Param        limit      query  int     false  "Page size"
// @Param        offset     query  int     false  "Entries to skip"
// @Success      200  {object}  service.LogPage
// @Failure      400  {object}  errorResponse
// @Failure      401  {object}  errorResponse
// @Failure      503  {object}  errorResponse
// @Router       /api/v1/logs [get]
// @Security     BearerAuth
func (h *Handler) getLogs(c *gin.Context) {
	q := service.LogQuery{
		Action:    c.Query("action"),
		Reason:    c.Query("reason"),
		SortOrder: c.Query("sortOrder"),
	}
	var err error

	if qs := c.Query("start"); qs != "" {
		if q.Start, err = parseQueryTime(qs); err != nil {
			c.JSON(http.StatusBadRequest, errorResponse{Error: errStartInvalid})
			return
		}
	}
	// If the user didn't include a time component, treat "end" as the end of that day.
	if qs := c.Query("end"); qs != "" {
		if q.End, err = parseQueryTime(qs); err != nil {
			c.JSON(http.StatusBadRequest, errorResponse{Error: errEndInvalid})
			return
		}
		if isDateOnly(qs) {
			q.End = q.End.Add(24*time.Hour - time.Nanosecond)
		}
	}
	if q.Limit, err = queryInt(c, "limit"); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if q.Offset, err = queryInt(c, "offset"); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	page, err := h.services.Query(c.Request.Context(), q)
	if err != nil {
		h.serviceError(c, "logs_query_failed", err, "start", q.Start, "end", q.End, "action", q.Action)
		return
	}
	c.JSON(http.StatusOK, page)
}

// @Summary      Most recent log entries
// @Tags         logs
// @Produce      json
// @Param        limit  query  int  false  "How many, newest first"
// @Success      200  {array}   models.LogEntry
// @Failure      400  {object}  errorResponse
// @Failure      401  {object}  errorResponse
// @Failure      503  {object}  errorResponse
// @Router       /api/v1/logs/recent [get]
// @Security     BearerAuth
func (h *Handler) getRecentLogs(c *gin.Context) {
	limit, err := queryInt(c, "limit")
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	entries, err := h.services.Recent(c.Request.Context(), limit)
	if err != nil {
		h.serviceError(c, "logs_recent_failed", err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// @Summary      Telemetry log size
// @Tags         logs
// @Produce      json
// @Success      200  {object}  service.LogStats
// @Failure      401  {object}  errorResponse
// @Failure      503  {object}  errorResponse
// @Router       /api/v1/logs/stats [get]
// @Security     BearerAuth
func (h *Handler) getLogStats(c *gin.Context) {
	st, err := h.services.Stats(c.Request.Context())
	if err != nil {
		h.serviceError(c, "logs_stats_failed", err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// @Summary      Delete the whole telemetry log
// @Tags         logs
// @Produce      json
// @Success      200  {object}  map[string]int64
// @Failure      401  {object}  errorResponse
// @Failure      503  {object}  errorResponse
// @Router       /api/v1/logs [delete]
// @Security     BearerAuth
func (h *Handler) purgeLogs(c *gin.Context) {
	n, err := h.services.Purge(c.Request.Context())
	if err != nil {
		h.serviceError(c, "logs_purge_failed", err)
		return
	}
	if h.log != nil {
		uid, _ := c.Get(userIDKey)
		h.log.Warnw("logs_purged", "deleted", n, "user_id", uid)
	}
	c.JSON(http.StatusOK, gin.H{"deleted": n})
}

func parseQueryTime(s string) (time.Time, error) {
	// Try multiple accepted formats, normalizing to UTC.
	for _, layout := range []string{time.RFC3339Nano, layoutDateTime, layoutDate} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf(
		"invalid time format %q, expected one of: "+
			"RFC3339 (e.g. 2025-08-27T15:04:05Z), "+
			"'YYYY-MM-DD HH:MM:SS', "+
			"'YYYY-MM-DD'",
		s,
	)
}

// queryInt reads an optional integer parameter; absent means 0.
func queryInt(c *gin.Context, name string) (int, error) {
	s := c.Query(name)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid '%s': must be an integer", name)
	}
	return v, nil
}
