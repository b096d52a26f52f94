package main

import (
	"context"
	"fmt"

	"bench_monitor/internal/config"
	"bench_monitor/internal/device"
	"bench_monitor/internal/device/mqtt"
	"bench_monitor/internal/device/opcua"
	"bench_monitor/internal/logger"
	"bench_monitor/internal/service"
	"bench_monitor/internal/telemetry"
)

// bench is the selected device driver: where samples come from and where
// commands go. feed is nil when samples only arrive over HTTP.
type bench struct {
	feed  device.Feed
	relay device.Relay
	close func()
}

func openBench(cfg *config.Config, layout telemetry.Layout, log *logger.Logger) (bench, error) {
	d := cfg.Device
	switch d.Driver {
	case config.DriverSim:
		sim := service.NewSimulatorService(layout, d.PollInterval, d.SimSpikeEvery, log)
		return bench{feed: sim, relay: sim, close: func() {}}, nil

	case config.DriverOPCUA:
		drv, err := opcua.New(d.OPCUA, d.PollInterval, log)
		if err != nil {
			return bench{}, fmt.Errorf("opcua driver: %w", err)
		}
		return bench{feed: drv, relay: drv, close: func() {
			ctx, cancel := context.WithTimeout(context.Background(), d.Timeout)
			defer cancel()
			if err := drv.Close(ctx); err != nil {
				log.Warnw("opcua_close_failed", "err", err)
			}
		}}, nil

	case config.DriverMQTT:
		drv := mqtt.New(mqtt.NewClient(d.MQTT, d.Timeout), d.MQTT, d.Timeout, log)
		if err := drv.Connect(); err != nil {
			return bench{}, fmt.Errorf("mqtt driver: %w", err)
		}
		return bench{feed: drv, relay: drv, close: drv.Close}, nil

	default:
		return bench{relay: device.NopRelay{}, close: func() {}}, nil
	}
}
