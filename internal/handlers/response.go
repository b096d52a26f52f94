package handlers

import (
	"errors"
	"net/http"

	"bench_monitor/internal/machine"
	"bench_monitor/internal/service"

	"github.com/gin-gonic/gin"
)

// Common response/status constants to avoid magic strings and typos.
const (
	errInvalidBodyPref = "invalid body: "
	errInternal        = "internal error"
	errStreamDisabled  = "live events are not enabled"
)

// errorResponse is the body of every non-2xx reply.
type errorResponse struct {
	Error string `json:"error" example:"Alarm active, cannot start"`
}

// httpStatus maps service errors to HTTP codes. Storage is checked before the
// device and before not-initialized, so a command that failed both ways or was
// refused because the status could not be read reports 503.
func httpStatus(err error) int {
	var illegal *machine.IllegalTransitionError
	switch {
	case errors.As(err, &illegal):
		return http.StatusForbidden
	case errors.Is(err, service.ErrInvalidSample),
		errors.Is(err, service.ErrInvalidCommand),
		errors.Is(err, service.ErrInvalidThreshold),
		errors.Is(err, service.ErrInvalidLogFilter):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrStorageUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, service.ErrNotInitialized):
		return http.StatusNotFound
	case errors.Is(err, service.ErrDeviceUnreachable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		if httpCode >= http.StatusInternalServerError {
			h.log.Errorw(logKey, fields...)
		} else {
			h.log.Infow(logKey, fields...)
		}
	}
	c.JSON(httpCode, errorResponse{Error: userMsg})
}

// serviceError classifies err and replies with its message. 500s hide the
// cause from the client.
func (h *Handler) serviceError(c *gin.Context, logKey string, err error, kv ...interface{}) {
	code := httpStatus(err)
	msg := err.Error()
	if code == http.StatusInternalServerError {
		msg = errInternal
	}
	h.logAndJSONError(c, code, msg, logKey, err, kv...)
}
