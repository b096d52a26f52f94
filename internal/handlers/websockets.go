package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"bench_monitor/internal/broadcast"
	"bench_monitor/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Send/receive timing configuration and message size limits.
const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 1 << 12 // 4 KB
)

// Upgrader for HTTP -> WebSocket.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true }, // TODO: restrict to the dashboard origin once it has a fixed host
}

// wsWriter sends each event as one JSON text frame. Only the pump goroutine
// writes, so no extra locking is needed.
type wsWriter struct {
	conn *websocket.Conn
}

func (w wsWriter) WriteEvent(ev models.Event) error {
	_ = w.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return w.conn.WriteJSON(ev)
}

func (w wsWriter) Ping() error {
	_ = w.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return w.conn.WriteMessage(websocket.PingMessage, nil)
}

// @Summary      Live status events over a websocket
// @Description  Same events as /api/v1/events, one JSON message each. Client messages are ignored.
// @Tags         status
// @Success      101
// @Failure      503  {object}  errorResponse
// @Router       /ws [get]
func (h *Handler) wsConnect(c *gin.Context) {
	if h.hub == nil {
		c.JSON(http.StatusServiceUnavailable, errorResponse{Error: errStreamDisabled})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_upgrade_failed", "err", err)
		}
		return
	}
	defer func() { _ = conn.Close() }()

	// Configure read limits and pong handler to extend read deadline.
	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	// Reader goroutine to handle control frames and detect disconnects.
	go h.startReader(conn, cancel)

	sub := h.hub.Subscribe()
	w := wsWriter{conn: conn}

	// Send current status immediately.
	if ev, ok := h.currentStatusEvent(ctx); ok {
		if err := w.WriteEvent(ev); err != nil {
			h.hub.Unsubscribe(sub)
			if h.log != nil {
				h.log.Infow("ws_write_failed_initial", "err", err)
			}
			return
		}
	}

	err = broadcast.Pump(ctx, h.hub, sub, w, pingPeriod)
	if err != nil && h.log != nil {
		if errors.Is(err, broadcast.ErrSubscriptionClosed) {
			h.log.Infow("ws_dropped_slow_consumer", "subscription", sub.ID())
			return
		}
		h.log.Infow("ws_write_failed", "subscription", sub.ID(), "err", err)
	}
}

// Helper: startReader drains incoming messages to handle control frames and detect closure.
func (h *Handler) startReader(conn *websocket.Conn, done context.CancelFunc) {
	defer done()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if h.log != nil {
				h.log.Debugw("ws_read_closed", "err", err)
			}
			return
		}
	}
}
