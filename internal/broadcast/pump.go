package broadcast

import (
	"context"
	"time"

	"bench_monitor/internal/models"
)

// Writer is the transport side of a subscription: an SSE response, a websocket,
// or an in-memory collector in tests.
type Writer interface {
	WriteEvent(ev models.Event) error
	// Ping keeps idle connections open and surfaces dead peers between events.
	Ping() error
}

// Pump copies events from sub to w until ctx ends, the hub drops the
// subscriber, or a write fails. sub is always unsubscribed on return.
func Pump(ctx context.Context, h *Hub, sub *Subscription, w Writer, keepalive time.Duration) error {
	defer h.Unsubscribe(sub)

	var tick <-chan time.Time
	if keepalive > 0 {
		t := time.NewTicker(keepalive)
		defer t.Stop()
		tick = t.C
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-sub.Done():
			return ErrSubscriptionClosed
		case ev := <-sub.Events():
			if err := w.WriteEvent(ev); err != nil {
				return err
			}
		case <-tick:
			if err := w.Ping(); err != nil {
				return err
			}
		}
	}
}
