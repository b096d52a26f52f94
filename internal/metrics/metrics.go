// Package metrics exposes Prometheus instruments for ingestion, commands, storage and fan-out.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups every instrument the service updates.
type Metrics struct {
	samplesIngested  *prometheus.CounterVec
	samplesRejected  prometheus.Counter
	commands         *prometheus.CounterVec
	storageFailures  *prometheus.CounterVec
	relayFailures    *prometheus.CounterVec
	subscribers      prometheus.Gauge
	broadcastDropped prometheus.Counter
	ingestLatency    prometheus.Histogram
	alarmActive      prometheus.Gauge
}

// New creates the instruments and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		samplesIngested: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bench_samples_ingested_total",
			Help: "Samples accepted by the ingestion pipeline, by resulting action.",
		}, []string{"action"}),
		samplesRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bench_samples_rejected_total",
			Help: "Samples rejected for malformed shape or values.",
		}),
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bench_commands_total",
			Help: "Operator commands by command and result (accepted, rejected).",
		}, []string{"command", "result"}),
		storageFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bench_storage_failures_total",
			Help: "Failed persistence operations by operation.",
		}, []string{"op"}),
		relayFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bench_device_relay_failures_total",
			Help: "Failed device command relays by command.",
		}, []string{"command"}),
		subscribers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "bench_live_subscribers",
			Help: "Currently connected live subscribers.",
		}),
		broadcastDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bench_broadcast_dropped_total",
			Help: "Subscribers removed because they could not accept an event.",
		}),
		ingestLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "bench_ingest_latency_seconds",
			Help:    "Time from sample receipt to committed transition.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
		}),
		alarmActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "bench_alarm_active",
			Help: "1 while the alarm latch is set.",
		}),
	}

	reg.MustRegister(
		m.samplesIngested,
		m.samplesRejected,
		m.commands,
		m.storageFailures,
		m.relayFailures,
		m.subscribers,
		m.broadcastDropped,
		m.ingestLatency,
		m.alarmActive,
	)
	return m
}

// The methods below are nil-safe so callers may run without metrics.

func (m *Metrics) ObserveIngest(action string, took time.Duration) {
	if m == nil {
		return
	}
	m.samplesIngested.WithLabelValues(action).Inc()
	m.ingestLatency.Observe(took.Seconds())
}

func (m *Metrics) IncRejected() {
	if m == nil {
		return
	}
	m.samplesRejected.Inc()
}

func (m *Metrics) IncCommand(command, result string) {
	if m == nil {
		return
	}
	m.commands.WithLabelValues(command, result).Inc()
}

func (m *Metrics) IncStorageFailure(op string) {
	if m == nil {
		return
	}
	m.storageFailures.WithLabelValues(op).Inc()
}

func (m *Metrics) IncRelayFailure(command string) {
	if m == nil {
		return
	}
	m.relayFailures.WithLabelValues(command).Inc()
}

func (m *Metrics) SetAlarmActive(active bool) {
	if m == nil {
		return
	}
	if active {
		m.alarmActive.Set(1)
		return
	}
	m.alarmActive.Set(0)
}

// SetSubscribers implements broadcast.Recorder.
func (m *Metrics) SetSubscribers(n int) {
	if m == nil {
		return
	}
	m.subscribers.Set(float64(n))
}

// IncBroadcastDropped implements broadcast.Recorder.
func (m *Metrics) IncBroadcastDropped() {
	if m == nil {
		return
	}
	m.broadcastDropped.Inc()
}
