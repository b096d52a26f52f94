package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"bench_monitor/internal/broadcast"
	"bench_monitor/internal/config"
	"bench_monitor/internal/handlers"
	"bench_monitor/internal/metrics"
	"bench_monitor/internal/repository"
	"bench_monitor/internal/server"
	"bench_monitor/internal/service"
	"bench_monitor/internal/telemetry"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, live event streams and the device driver.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}
}

func layoutFromConfig(c config.ChannelConfig) telemetry.Layout {
	return telemetry.Layout{
		Pressure:                c.Pressure,
		Temperature:             c.Temperature,
		DefaultPressureLimit:    c.DefaultPressureLimit,
		DefaultTemperatureLimit: c.DefaultTemperatureLimit,
	}
}

func (a *app) serve(ctx context.Context) error {
	cfg, log := a.cfg, a.log
	defer func() { _ = log.Sync() }()

	conn, err := a.openDB()
	if err != nil {
		return err
	}
	defer a.closeDB(conn)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	hub := broadcast.NewHub(cfg.Broadcast.Buffer,
		broadcast.WithRecorder(m),
		broadcast.WithLogger(log.Named("broadcast")),
	)

	layout := layoutFromConfig(cfg.Channels)
	b, err := openBench(cfg, layout, log)
	if err != nil {
		return err
	}
	defer b.close()

	svc := service.NewService(repository.NewRepository(conn), service.Options{
		Layout:          layout,
		Hub:             hub,
		Relay:           b.relay,
		Metrics:         m,
		Log:             log,
		StorageTimeout:  cfg.DB.Timeout,
		DeviceTimeout:   cfg.Device.Timeout,
		SigningKey:      cfg.Auth.SigningKey,
		TokenTTL:        cfg.Auth.TokenTTL,
		DefaultLogLimit: cfg.Logs.DefaultLimit,
		MaxLogLimit:     cfg.Logs.MaxLimit,
	})
	// A storage outage at boot leaves the service up in degraded mode.
	if err := svc.Bootstrap(ctx); err != nil {
		log.Errorw("bootstrap_degraded", "err", err)
	}

	feedCtx, cancelFeed := context.WithCancel(ctx)
	defer cancelFeed()
	feedDone := make(chan struct{})
	go func() {
		defer close(feedDone)
		if b.feed == nil {
			return
		}
		if err := b.feed.Run(feedCtx, svc.Sink()); err != nil {
			log.Errorw("device_feed_stopped", "driver", cfg.Device.Driver, "err", err)
		}
	}()

	h := handlers.NewHandler(svc, log.Named("http"),
		handlers.WithHub(hub, cfg.Broadcast.Keepalive),
		handlers.WithDeviceKey(cfg.Auth.DeviceKey),
		handlers.WithMetrics(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})),
	)

	srv := &server.Server{}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Run(cfg.Port, h.InitRoutes()) }()
	log.Infow("server_started", "port", cfg.Port, "driver", cfg.Device.Driver)

	var runErr error
	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			runErr = fmt.Errorf("http server: %w", err)
		}
	}

	log.Infow("shutting down server...")
	cancelFeed()
	// end live streams so Shutdown doesn't wait on them
	hub.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}

	<-feedDone
	svc.Wait()
	return runErr
}
