package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"bench_monitor/internal/broadcast"
	"bench_monitor/internal/models"

	"github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"
)

// sseWriter frames events as text/event-stream and flushes after each one.
type sseWriter struct {
	w gin.ResponseWriter
}

func (s sseWriter) WriteEvent(ev models.Event) error {
	if err := sse.Encode(s.w, sse.Event{Event: "status", Data: ev}); err != nil {
		return err
	}
	s.w.Flush()
	return nil
}

// Ping writes an SSE comment line, which clients ignore.
func (s sseWriter) Ping() error {
	if _, err := io.WriteString(s.w, ": ping\n\n"); err != nil {
		return err
	}
	s.w.Flush()
	return nil
}

// @Summary      Live status events
// @Description  Server-sent events. The current status is sent first, then one "status" event per transition. Nothing is replayed.
// @Tags         status
// @Produce      text/event-stream
// @Success      200  {object}  models.Event
// @Failure      503  {object}  errorResponse
// @Router       /api/v1/events [get]
func (h *Handler) streamEvents(c *gin.Context) {
	if h.hub == nil {
		c.JSON(http.StatusServiceUnavailable, errorResponse{Error: errStreamDisabled})
		return
	}

	header := c.Writer.Header()
	header.Set("Content-Type", sse.ContentType)
	header.Set("Cache-Control", "no-cache")
	header.Set("Connection", "keep-alive")
	header.Set("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	sub := h.hub.Subscribe()
	w := sseWriter{w: c.Writer}
	if ev, ok := h.currentStatusEvent(c.Request.Context()); ok {
		if err := w.WriteEvent(ev); err != nil {
			h.hub.Unsubscribe(sub)
			return
		}
	} else {
		c.Writer.Flush()
	}

	if h.log != nil {
		h.log.Debugw("sse_subscribed", "subscription", sub.ID())
	}
	err := broadcast.Pump(c.Request.Context(), h.hub, sub, w, h.keepalive)
	if err != nil && h.log != nil {
		if errors.Is(err, broadcast.ErrSubscriptionClosed) {
			h.log.Infow("sse_dropped_slow_consumer", "subscription", sub.ID())
			return
		}
		h.log.Infow("sse_write_failed", "subscription", sub.ID(), "err", err)
	}
}

// currentStatusEvent describes the present status so a new subscriber doesn't
// wait for the next transition. ok is false before the status is initialized.
func (h *Handler) currentStatusEvent(ctx context.Context) (models.Event, bool) {
	st, err := h.services.GetStatus(ctx)
	if err != nil {
		return models.Event{}, false
	}
	return models.NewStatusEvent(models.RunStatus{
		IsRunning:   st.IsRunning,
		AlarmActive: st.AlarmActive,
		Reason:      st.Reason,
		UpdatedAt:   st.UpdatedAt,
	}, "", st.UpdatedAt), true
}
