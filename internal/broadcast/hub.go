// Package broadcast fans status events out to live subscribers.
//
// Delivery is at-most-once per subscriber per publish. A subscriber whose buffer
// is full or which has gone away is dropped on the spot; the publisher never waits.
package broadcast

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	cmap "github.com/orcaman/concurrent-map/v2"

	"bench_monitor/internal/logger"
	"bench_monitor/internal/models"
)

const defaultBuffer = 16

// ErrSubscriptionClosed is returned by Pump when the hub dropped the subscriber.
var ErrSubscriptionClosed = errors.New("subscription closed")

// Recorder receives hub statistics. metrics.Metrics satisfies it.
type Recorder interface {
	SetSubscribers(n int)
	IncBroadcastDropped()
}

// Subscription is one live consumer. Events is never closed; watch Done instead.
type Subscription struct {
	id     string
	events chan models.Event
	done   chan struct{}
	once   sync.Once
}

// ID is a random identifier, handy in logs.
func (s *Subscription) ID() string { return s.id }

// Events yields published events in publish order.
func (s *Subscription) Events() <-chan models.Event { return s.events }

// Done is closed once the subscription has been removed from the hub.
func (s *Subscription) Done() <-chan struct{} { return s.done }

func (s *Subscription) close() {
	s.once.Do(func() { close(s.done) })
}

// Hub owns the set of active subscribers.
type Hub struct {
	subs     cmap.ConcurrentMap[string, *Subscription]
	buffer   int
	recorder Recorder
	log      *logger.Logger
}

// Option customizes a Hub.
type Option func(*Hub)

// WithRecorder attaches a metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(h *Hub) { h.recorder = r }
}

// WithLogger attaches a logger for subscribe/drop diagnostics.
func WithLogger(l *logger.Logger) Option {
	return func(h *Hub) { h.log = l }
}

// NewHub creates a hub whose subscribers buffer up to buffer events each.
func NewHub(buffer int, opts ...Option) *Hub {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	h := &Hub{
		subs:   cmap.New[*Subscription](),
		buffer: buffer,
		log:    logger.Nop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Subscribe registers a new subscriber. It only sees events published after this call.
func (h *Hub) Subscribe() *Subscription {
	sub := &Subscription{
		id:     uuid.NewString(),
		events: make(chan models.Event, h.buffer),
		done:   make(chan struct{}),
	}
	h.subs.Set(sub.id, sub)
	h.log.Debugw("subscriber_added", "id", sub.id)
	h.recordCount()
	return sub
}

// Unsubscribe removes sub immediately. Safe to call more than once.
func (h *Hub) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}
	if _, ok := h.subs.Pop(sub.id); ok {
		h.log.Debugw("subscriber_removed", "id", sub.id)
		h.recordCount()
	}
	sub.close()
}

// Publish offers ev to every active subscriber without blocking and returns
// how many accepted it. Subscribers that can't take it are removed.
func (h *Hub) Publish(ev models.Event) int {
	delivered := 0
	for item := range h.subs.IterBuffered() {
		sub := item.Val
		select {
		case <-sub.done:
			continue
		default:
		}
		select {
		case sub.events <- ev:
			delivered++
		default:
			h.log.Infow("subscriber_dropped_slow", "id", sub.id)
			if h.recorder != nil {
				h.recorder.IncBroadcastDropped()
			}
			h.Unsubscribe(sub)
		}
	}
	return delivered
}

// Count returns the number of active subscribers.
func (h *Hub) Count() int { return h.subs.Count() }

// Close drops every subscriber; used on shutdown so streaming handlers return.
func (h *Hub) Close() {
	for _, sub := range h.subs.Items() {
		h.Unsubscribe(sub)
	}
}

func (h *Hub) recordCount() {
	if h.recorder != nil {
		h.recorder.SetSubscribers(h.subs.Count())
	}
}
