// Package mqtt receives bench samples from a broker topic and publishes
// operator commands to the PLC command topic.
package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"bench_monitor/internal/config"
	"bench_monitor/internal/device"
	"bench_monitor/internal/logger"
	"bench_monitor/internal/machine"
	"bench_monitor/internal/models"

	MQTT "github.com/eclipse/paho.mqtt.golang"
)

const disconnectQuiesceMs = 250

var errConnectTimeout = errors.New("mqtt: connect timed out")

// Client is the subset of the paho client the driver needs.
type Client interface {
	Connect() MQTT.Token
	Publish(topic string, qos byte, retained bool, payload interface{}) MQTT.Token
	Subscribe(topic string, qos byte, callback MQTT.MessageHandler) MQTT.Token
	Unsubscribe(topics ...string) MQTT.Token
	Disconnect(quiesce uint)
}

// NewClient builds a paho client for cfg. It does not connect.
func NewClient(cfg config.MQTTConfig, timeout time.Duration) Client {
	opts := MQTT.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	opts.SetAutoReconnect(true)
	opts.SetConnectTimeout(timeout)
	return MQTT.NewClient(opts)
}

// samplePayload is what the PLC gateway publishes on the sample topic.
type samplePayload struct {
	Pressure    []float64 `json:"pressure"`
	Temperature []float64 `json:"temperature"`
}

type commandPayload struct {
	Command string    `json:"command"`
	Time    time.Time `json:"time"`
}

// Driver is both a device.Feed and a device.Relay over one broker connection.
type Driver struct {
	client  Client
	cfg     config.MQTTConfig
	timeout time.Duration
	log     *logger.Logger
}

var (
	_ device.Feed  = (*Driver)(nil)
	_ device.Relay = (*Driver)(nil)
)

func New(client Client, cfg config.MQTTConfig, timeout time.Duration, log *logger.Logger) *Driver {
	return &Driver{client: client, cfg: cfg, timeout: timeout, log: log.Named("mqtt")}
}

// Connect blocks until the broker accepts the session or the timeout expires.
func (d *Driver) Connect() error {
	token := d.client.Connect()
	if !token.WaitTimeout(d.timeout) {
		return errConnectTimeout
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt connect %s: %w", d.cfg.Broker, err)
	}
	return nil
}

// Run subscribes to the sample topic and forwards decoded samples to sink until ctx is done.
func (d *Driver) Run(ctx context.Context, sink device.Sink) error {
	token := d.client.Subscribe(d.cfg.SampleTopic, d.cfg.QoS, func(_ MQTT.Client, msg MQTT.Message) {
		d.handleSample(ctx, sink, msg)
	})
	if !token.WaitTimeout(d.timeout) {
		return fmt.Errorf("mqtt subscribe %s: timed out", d.cfg.SampleTopic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt subscribe %s: %w", d.cfg.SampleTopic, err)
	}
	d.log.Infow("mqtt_subscribed", "topic", d.cfg.SampleTopic)

	<-ctx.Done()

	d.client.Unsubscribe(d.cfg.SampleTopic).WaitTimeout(d.timeout)
	return nil
}

func (d *Driver) handleSample(ctx context.Context, sink device.Sink, msg MQTT.Message) {
	var p samplePayload
	if err := json.Unmarshal(msg.Payload(), &p); err != nil {
		d.log.Warnw("mqtt_sample_decode_failed", "topic", msg.Topic(), "err", err)
		return
	}
	if err := sink.Accept(ctx, models.Sample{Pressure: p.Pressure, Temperature: p.Temperature}); err != nil {
		d.log.Warnw("mqtt_sample_rejected", "err", err)
	}
}

// Send publishes {"command":"SET"|"RST"} to the command topic and waits for the broker ack.
func (d *Driver) Send(ctx context.Context, cmd machine.Command) error {
	wire, err := device.WireValue(cmd)
	if errors.Is(err, device.ErrNotRelayed) {
		return nil
	}
	payload, err := json.Marshal(commandPayload{Command: wire, Time: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("mqtt encode command: %w", err)
	}

	token := d.client.Publish(d.cfg.CommandTopic, d.cfg.QoS, false, payload)
	select {
	case <-token.Done():
		if err := token.Error(); err != nil {
			return fmt.Errorf("mqtt publish %s: %w", wire, err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("mqtt publish %s: %w", wire, ctx.Err())
	}
}

// Close disconnects from the broker.
func (d *Driver) Close() {
	d.client.Disconnect(disconnectQuiesceMs)
}
