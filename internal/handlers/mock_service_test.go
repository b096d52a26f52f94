package handlers

import (
	"context"
	"net/http"
	"sync"

	"bench_monitor/internal/machine"
	"bench_monitor/internal/models"
	"bench_monitor/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseID       int
	parseErr      error

	lastSignUpUsername string
	lastSignUpPassword string
	lastGenUsername    string
	lastGenPassword    string
	lastParseToken     string
}

func (m *mockAuth) SignUp(username, password string) (int, error) {
	m.lastSignUpUsername = username
	m.lastSignUpPassword = password
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) GenerateToken(username, password string) (string, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

type mockIngestion struct {
	resp   service.IngestResult
	err    error
	last   models.Sample
	called int
}

func (m *mockIngestion) Ingest(ctx context.Context, s models.Sample) (service.IngestResult, error) {
	m.called++
	m.last = s
	return m.resp, m.err
}

type mockCommands struct {
	resp service.CommandResult
	err  error
	cmds []machine.Command
}

func (m *mockCommands) Execute(ctx context.Context, cmd machine.Command) (service.CommandResult, error) {
	m.cmds = append(m.cmds, cmd)
	return m.resp, m.err
}

type mockMonitoring struct {
	mu     sync.Mutex
	status service.StatusView
	err    error
	health service.HealthView
}

func (m *mockMonitoring) GetStatus(ctx context.Context) (service.StatusView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status, m.err
}

func (m *mockMonitoring) Health() service.HealthView {
	return m.health
}

type mockTelemetryLog struct {
	page      service.LogPage
	entries   []models.LogEntry
	stats     service.LogStats
	deleted   int64
	err       error
	lastQuery service.LogQuery
	lastLimit int
	purged    int
}

func (m *mockTelemetryLog) Recent(ctx context.Context, limit int) ([]models.LogEntry, error) {
	m.lastLimit = limit
	return m.entries, m.err
}

func (m *mockTelemetryLog) Query(ctx context.Context, q service.LogQuery) (service.LogPage, error) {
	m.lastQuery = q
	return m.page, m.err
}

func (m *mockTelemetryLog) Stats(ctx context.Context) (service.LogStats, error) {
	return m.stats, m.err
}

func (m *mockTelemetryLog) Purge(ctx context.Context) (int64, error) {
	m.purged++
	return m.deleted, m.err
}

type mockSettings struct {
	list     []models.Threshold
	setErr   error
	bulk     service.BulkResult
	lastSet  models.Threshold
	lastBulk []models.Threshold
}

func (m *mockSettings) List() []models.Threshold { return m.list }

func (m *mockSettings) SetOne(ctx context.Context, sensor string, value float64) (models.Threshold, error) {
	m.lastSet = models.Threshold{Sensor: sensor, MaxValue: value}
	if m.setErr != nil {
		return models.Threshold{}, m.setErr
	}
	return m.lastSet, nil
}

func (m *mockSettings) SetMany(ctx context.Context, items []models.Threshold) service.BulkResult {
	m.lastBulk = items
	return m.bulk
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service, opts ...Option) *gin.Engine {
	h := NewHandler(s, nil, opts...)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}

func withHeaders(req *http.Request, hdr http.Header) *http.Request {
	for k, vv := range hdr {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}
	return req
}
