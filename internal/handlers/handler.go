package handlers

import (
	"net/http"
	"time"

	"bench_monitor/internal/broadcast"
	"bench_monitor/internal/logger"
	"bench_monitor/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const defaultKeepalive = 15 * time.Second

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services  *service.Service
	hub       *broadcast.Hub
	log       *logger.Logger
	deviceKey string
	keepalive time.Duration
	metrics   http.Handler
}

// Option customizes a Handler.
type Option func(*Handler)

// WithHub enables the live event streams (SSE and websocket).
func WithHub(hub *broadcast.Hub, keepalive time.Duration) Option {
	return func(h *Handler) {
		h.hub = hub
		if keepalive > 0 {
			h.keepalive = keepalive
		}
	}
}

// WithDeviceKey requires X-Device-Key on the ingestion endpoint.
func WithDeviceKey(key string) Option {
	return func(h *Handler) { h.deviceKey = key }
}

// WithMetrics exposes a Prometheus handler at /metrics.
func WithMetrics(m http.Handler) Option {
	return func(h *Handler) { h.metrics = m }
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger, opts ...Option) *Handler {
	h := &Handler{services: services, log: log, keepalive: defaultKeepalive}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", h.health)
	if h.metrics != nil {
		router.GET("/metrics", gin.WrapH(h.metrics))
	}

	h.registerAuthRoutes(router)
	h.registerAPIRoutes(router)

	// Live status stream over a websocket, same events as /api/v1/events
	router.GET("/ws", h.wsConnect)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/sign-up", h.signUp)
		auth.POST("/sign-in", h.signIn)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")

	// public reads
	api.GET("/status", h.getStatus)
	api.GET("/events", h.streamEvents)
	api.GET("/thresholds", h.listThresholds)

	// bench -> server
	api.POST("/ingest", h.deviceKeyMiddleware, h.ingest)

	// operator endpoints
	protected := api.Group("", h.userIdMiddleware)
	{
		h.registerCommandRoutes(protected)
		h.registerLogRoutes(protected)
		h.registerThresholdRoutes(protected)
	}
}

func (h *Handler) registerCommandRoutes(api *gin.RouterGroup) {
	cmd := api.Group("/command")
	{
		// Body example: {"command":"START"}; SET and RST are accepted as aliases
		cmd.POST("", h.command)
		cmd.POST("/reset", h.resetAlarm)
	}
}

func (h *Handler) registerLogRoutes(api *gin.RouterGroup) {
	logs := api.Group("/logs")
	{
		logs.GET("", h.getLogs)
		logs.GET("/recent", h.getRecentLogs)
		logs.GET("/stats", h.getLogStats)
		logs.DELETE("", h.purgeLogs)
	}
}

func (h *Handler) registerThresholdRoutes(api *gin.RouterGroup) {
	th := api.Group("/thresholds")
	{
		th.POST("", h.setThreshold)
		th.POST("/bulk", h.setThresholds)
	}
}
