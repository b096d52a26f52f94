package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"bench_monitor/internal/logger"
	"bench_monitor/internal/machine"
	"bench_monitor/internal/models"
	"bench_monitor/internal/repository"
	"bench_monitor/internal/telemetry"
)

// ---- Test doubles ----

type fakeStatusRepo struct {
	mu       sync.Mutex
	loadResp models.RunStatus
	loadErr  error
	saveErr  error
	saved    []models.RunStatus
}

func (f *fakeStatusRepo) Load(ctx context.Context) (models.RunStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loadResp, f.loadErr
}

func (f *fakeStatusRepo) Save(ctx context.Context, s models.RunStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, s)
	return nil
}

func (f *fakeStatusRepo) setSaveErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saveErr = err
}

func (f *fakeStatusRepo) setLoadErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loadErr = err
}

func (f *fakeStatusRepo) savedRows() []models.RunStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.RunStatus(nil), f.saved...)
}

type fakeLogRepo struct {
	mu         sync.Mutex
	entries    []models.LogEntry
	appendErr  error
	readErr    error
	lastFilter repository.LogFilter
	lastLimit  int
	size       int64
}

func (f *fakeLogRepo) Append(ctx context.Context, e models.LogEntry) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.appendErr != nil {
		return 0, f.appendErr
	}
	e.ID = int64(len(f.entries) + 1)
	f.entries = append(f.entries, e)
	return e.ID, nil
}

func (f *fakeLogRepo) Recent(ctx context.Context, limit int) ([]models.LogEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastLimit = limit
	if f.readErr != nil {
		return nil, f.readErr
	}
	var out []models.LogEntry
	for i := len(f.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, f.entries[i])
	}
	return out, nil
}

func (f *fakeLogRepo) Query(ctx context.Context, flt repository.LogFilter) ([]models.LogEntry, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastFilter = flt
	if f.readErr != nil {
		return nil, 0, f.readErr
	}
	var match []models.LogEntry
	for _, e := range f.entries {
		if flt.Action != "" && e.Action != flt.Action {
			continue
		}
		if !flt.Start.IsZero() && e.CreatedAt.Before(flt.Start) {
			continue
		}
		if !flt.End.IsZero() && e.CreatedAt.After(flt.End) {
			continue
		}
		match = append(match, e)
	}
	total := len(match)
	if flt.Offset >= len(match) {
		return []models.LogEntry{}, total, nil
	}
	match = match[flt.Offset:]
	if len(match) > flt.Limit {
		match = match[:flt.Limit]
	}
	return match, total, nil
}

func (f *fakeLogRepo) Count(ctx context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.readErr != nil {
		return 0, f.readErr
	}
	return len(f.entries), nil
}

func (f *fakeLogRepo) DeleteAll(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.readErr != nil {
		return 0, f.readErr
	}
	n := int64(len(f.entries))
	f.entries = nil
	return n, nil
}

func (f *fakeLogRepo) ApproxSize(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.size, f.readErr
}

func (f *fakeLogRepo) snapshot() []models.LogEntry {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.LogEntry(nil), f.entries...)
}

func (f *fakeLogRepo) setAppendErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.appendErr = err
}

func (f *fakeLogRepo) actions() []models.Action {
	var out []models.Action
	for _, e := range f.snapshot() {
		out = append(out, e.Action)
	}
	return out
}

type fakeSettingRepo struct {
	mu        sync.Mutex
	stored    map[string]float64
	listErr   error
	upsertErr map[string]error
}

func (f *fakeSettingRepo) List(ctx context.Context) (map[string]float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make(map[string]float64, len(f.stored))
	for k, v := range f.stored {
		out[k] = v
	}
	return out, nil
}

func (f *fakeSettingRepo) Upsert(ctx context.Context, sensor string, value float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.upsertErr[sensor]; err != nil {
		return err
	}
	if f.stored == nil {
		f.stored = map[string]float64{}
	}
	f.stored[sensor] = value
	return nil
}

type fakeHub struct {
	mu     sync.Mutex
	events []models.Event
	subs   int
}

func (h *fakeHub) Publish(ev models.Event) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, ev)
	return h.subs
}

func (h *fakeHub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.subs
}

func (h *fakeHub) published() []models.Event {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]models.Event(nil), h.events...)
}

// fakeRelay records commands in the order they reach it. A command with a
// delay is recorded only after the delay has passed.
type fakeRelay struct {
	mu    sync.Mutex
	cmds  []machine.Command
	err   error
	delay map[machine.Command]time.Duration
}

func (r *fakeRelay) Send(ctx context.Context, cmd machine.Command) error {
	if d := r.delay[cmd]; d > 0 {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cmds = append(r.cmds, cmd)
	return r.err
}

func (r *fakeRelay) sent() []machine.Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]machine.Command(nil), r.cmds...)
}

// ---- Fixture ----

var testLayout = telemetry.Layout{
	Pressure:                3,
	Temperature:             6,
	DefaultPressureLimit:    6,
	DefaultTemperatureLimit: 80,
}

type fixture struct {
	statusRepo  *fakeStatusRepo
	logRepo     *fakeLogRepo
	settingRepo *fakeSettingRepo
	hub         *fakeHub
	relay       *fakeRelay

	settings  *SettingsService
	state     *RunStateService
	ingestion *IngestionService
	commands  *CommandService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		statusRepo:  &fakeStatusRepo{loadErr: repository.ErrNotFound},
		logRepo:     &fakeLogRepo{},
		settingRepo: &fakeSettingRepo{},
		hub:         &fakeHub{},
		relay:       &fakeRelay{},
	}
	log := logger.Nop()
	f.settings = NewSettingsService(f.settingRepo, testLayout, time.Second, log)
	f.state = NewRunStateService(f.statusRepo, f.logRepo, f.hub, time.Second, nil, log)
	f.ingestion = NewIngestionService(testLayout, f.settings, f.state, f.relay, time.Second, nil, log)
	f.commands = NewCommandService(f.state, f.relay, time.Second, nil, log)

	if err := f.settings.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := f.state.Bootstrap(context.Background()); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	return f
}

func okSample() models.Sample {
	return models.Sample{
		Pressure:    []float64{1, 1, 1},
		Temperature: []float64{20, 20, 20, 20, 20, 20},
	}
}

func (f *fixture) mustExecute(t *testing.T, cmd machine.Command) CommandResult {
	t.Helper()
	res, err := f.commands.Execute(context.Background(), cmd)
	if err != nil {
		t.Fatalf("Execute(%s): %v", cmd, err)
	}
	return res
}

func (f *fixture) mustIngest(t *testing.T, s models.Sample) IngestResult {
	t.Helper()
	res, err := f.ingestion.Ingest(context.Background(), s)
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	return res
}
