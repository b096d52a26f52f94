package broadcast

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bench_monitor/internal/models"
)

type countingRecorder struct {
	subscribers atomic.Int64
	dropped     atomic.Int64
}

func (r *countingRecorder) SetSubscribers(n int) { r.subscribers.Store(int64(n)) }
func (r *countingRecorder) IncBroadcastDropped() { r.dropped.Add(1) }

func event(action models.Action) models.Event {
	return models.NewStatusEvent(models.RunStatus{}, action, time.Now())
}

func TestPublish_NoSubscribers(t *testing.T) {
	h := NewHub(4)
	assert.Equal(t, 0, h.Publish(event(models.ActionOK)))
}

func TestPublish_DeliversToAll(t *testing.T) {
	h := NewHub(4)
	a, b := h.Subscribe(), h.Subscribe()

	require.Equal(t, 2, h.Publish(event(models.ActionStartByUser)))

	for _, sub := range []*Subscription{a, b} {
		select {
		case ev := <-sub.Events():
			assert.Equal(t, models.EventTypeStatus, ev.Type)
			assert.Equal(t, models.ActionStartByUser, ev.Payload.Action)
		default:
			t.Fatalf("subscriber %s got nothing", sub.ID())
		}
	}
}

func TestSubscribe_NoReplay(t *testing.T) {
	h := NewHub(4)
	h.Subscribe()
	h.Publish(event(models.ActionOK))

	late := h.Subscribe()
	select {
	case ev := <-late.Events():
		t.Fatalf("late subscriber received history: %+v", ev)
	default:
	}
}

func TestUnsubscribe_IsImmediateAndIdempotent(t *testing.T) {
	rec := &countingRecorder{}
	h := NewHub(4, WithRecorder(rec))
	sub := h.Subscribe()
	require.EqualValues(t, 1, rec.subscribers.Load())

	h.Unsubscribe(sub)
	h.Unsubscribe(sub)

	assert.Equal(t, 0, h.Count())
	assert.EqualValues(t, 0, rec.subscribers.Load())
	select {
	case <-sub.Done():
	default:
		t.Fatal("done not closed")
	}
	assert.Equal(t, 0, h.Publish(event(models.ActionOK)))
}

func TestPublish_DropsSlowSubscriber(t *testing.T) {
	rec := &countingRecorder{}
	h := NewHub(1, WithRecorder(rec))
	slow := h.Subscribe()
	fast := h.Subscribe()

	assert.Equal(t, 2, h.Publish(event(models.ActionOK)))
	<-fast.Events()

	// slow never drained its single slot.
	assert.Equal(t, 1, h.Publish(event(models.ActionOK)))
	assert.Equal(t, 1, h.Count())
	assert.EqualValues(t, 1, rec.dropped.Load())

	select {
	case <-slow.Done():
	default:
		t.Fatal("slow subscriber should be closed")
	}
}

func TestPublish_NeverBlocks(t *testing.T) {
	h := NewHub(1)
	for i := 0; i < 50; i++ {
		h.Subscribe()
	}

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			h.Publish(event(models.ActionOK))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on undrained subscribers")
	}
	assert.Equal(t, 0, h.Count())
}

func TestHub_ConcurrentUse(t *testing.T) {
	h := NewHub(8)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			sub := h.Subscribe()
			time.Sleep(time.Millisecond)
			h.Unsubscribe(sub)
		}()
		go func() {
			defer wg.Done()
			h.Publish(event(models.ActionOK))
		}()
	}
	wg.Wait()
	assert.Equal(t, 0, h.Count())
}

func TestClose_DropsEveryone(t *testing.T) {
	h := NewHub(4)
	subs := []*Subscription{h.Subscribe(), h.Subscribe()}
	h.Close()
	assert.Equal(t, 0, h.Count())
	for _, s := range subs {
		<-s.Done()
	}
}

type memWriter struct {
	mu     sync.Mutex
	events []models.Event
	pings  int
	failOn int
}

func (w *memWriter) WriteEvent(ev models.Event) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.events = append(w.events, ev)
	if w.failOn > 0 && len(w.events) >= w.failOn {
		return errors.New("broken pipe")
	}
	return nil
}

func (w *memWriter) Ping() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pings++
	return nil
}

func (w *memWriter) len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.events)
}

func TestPump_WriteFailureUnsubscribes(t *testing.T) {
	h := NewHub(4)
	sub := h.Subscribe()
	w := &memWriter{failOn: 1}

	errCh := make(chan error, 1)
	go func() { errCh <- Pump(context.Background(), h, sub, w, 0) }()

	h.Publish(event(models.ActionOK))

	select {
	case err := <-errCh:
		require.Error(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("pump did not return after write failure")
	}
	assert.Equal(t, 0, h.Count())
	assert.Equal(t, 0, h.Publish(event(models.ActionOK)))
}

func TestPump_ContextCancelUnsubscribes(t *testing.T) {
	h := NewHub(4)
	sub := h.Subscribe()
	w := &memWriter{}
	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() { errCh <- Pump(ctx, h, sub, w, 5*time.Millisecond) }()

	h.Publish(event(models.ActionStopByUser))
	require.Eventually(t, func() bool { return w.len() == 1 }, time.Second, 5*time.Millisecond)

	cancel()
	require.NoError(t, <-errCh)
	assert.Equal(t, 0, h.Count())
}

func TestPump_ReturnsWhenHubDrops(t *testing.T) {
	h := NewHub(4)
	sub := h.Subscribe()
	errCh := make(chan error, 1)
	go func() { errCh <- Pump(context.Background(), h, sub, &memWriter{}, 0) }()

	h.Close()
	assert.ErrorIs(t, <-errCh, ErrSubscriptionClosed)
}
