// Package opcua polls bench readings from an OPC UA server and writes
// operator commands back to the PLC command tag.
package opcua

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"bench_monitor/internal/config"
	"bench_monitor/internal/device"
	"bench_monitor/internal/logger"
	"bench_monitor/internal/machine"
	"bench_monitor/internal/models"

	"github.com/gopcua/opcua"
	"github.com/gopcua/opcua/ua"
)

const applicationName = "Bench Monitor"

var errNoCommandNode = errors.New("opcua: device.opcua.command_node is not configured")

// nodeIDForm is the textual node id: an optional namespace index followed by
// a numeric, string, guid or opaque identifier.
var nodeIDForm = regexp.MustCompile(`^(ns=\d+;)?[isgb]=.+$`)

// nodeClient is the subset of *opcua.Client the driver uses.
type nodeClient interface {
	Read(ctx context.Context, req *ua.ReadRequest) (*ua.ReadResponse, error)
	Write(ctx context.Context, req *ua.WriteRequest) (*ua.WriteResponse, error)
	Close(ctx context.Context) error
}

type dialFunc func(ctx context.Context) (nodeClient, error)

// Driver is both a device.Feed and a device.Relay over one OPC UA session.
type Driver struct {
	interval    time.Duration
	pressure    []*ua.NodeID
	temperature []*ua.NodeID
	command     *ua.NodeID
	dial        dialFunc
	log         *logger.Logger

	mu     sync.Mutex
	client nodeClient
}

var (
	_ device.Feed  = (*Driver)(nil)
	_ device.Relay = (*Driver)(nil)
)

// New parses node ids up front so that a typo fails at startup, not on the first poll.
func New(cfg config.OPCUAConfig, interval time.Duration, log *logger.Logger) (*Driver, error) {
	d, err := newDriver(cfg, interval, log)
	if err != nil {
		return nil, err
	}
	opts := clientOptions(cfg)
	d.dial = func(ctx context.Context) (nodeClient, error) {
		c, err := opcua.NewClient(cfg.Endpoint, opts...)
		if err != nil {
			return nil, fmt.Errorf("opcua new client: %w", err)
		}
		if err := c.Connect(ctx); err != nil {
			return nil, fmt.Errorf("opcua connect %s: %w", cfg.Endpoint, err)
		}
		return c, nil
	}
	return d, nil
}

func newDriver(cfg config.OPCUAConfig, interval time.Duration, log *logger.Logger) (*Driver, error) {
	pressure, err := parseNodes(cfg.PressureNodes)
	if err != nil {
		return nil, err
	}
	temperature, err := parseNodes(cfg.TemperatureNodes)
	if err != nil {
		return nil, err
	}
	d := &Driver{
		interval:    interval,
		pressure:    pressure,
		temperature: temperature,
		log:         log.Named("opcua"),
	}
	if cfg.CommandNode != "" {
		if d.command, err = parseNodeID(cfg.CommandNode); err != nil {
			return nil, fmt.Errorf("parse command node: %w", err)
		}
	}
	return d, nil
}

// Run polls every interval and hands each complete sample to sink.
// A failed read drops the session; the next tick reconnects.
func (d *Driver) Run(ctx context.Context, sink device.Sink) error {
	t := time.NewTicker(d.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			s, err := d.Poll(ctx)
			if err != nil {
				d.log.Warnw("opcua_poll_failed", "err", err)
				continue
			}
			if err := sink.Accept(ctx, s); err != nil {
				d.log.Warnw("opcua_sample_rejected", "err", err)
			}
		}
	}
}

// Poll reads every configured node once.
func (d *Driver) Poll(ctx context.Context) (models.Sample, error) {
	c, err := d.conn(ctx)
	if err != nil {
		return models.Sample{}, err
	}

	ids := make([]*ua.ReadValueID, 0, len(d.pressure)+len(d.temperature))
	for _, id := range append(append([]*ua.NodeID{}, d.pressure...), d.temperature...) {
		ids = append(ids, &ua.ReadValueID{NodeID: id, AttributeID: ua.AttributeIDValue})
	}
	resp, err := c.Read(ctx, &ua.ReadRequest{
		NodesToRead:        ids,
		TimestampsToReturn: ua.TimestampsToReturnNeither,
	})
	if err != nil {
		d.reset(ctx)
		return models.Sample{}, fmt.Errorf("opcua read: %w", err)
	}
	if len(resp.Results) != len(ids) {
		return models.Sample{}, fmt.Errorf("opcua read: expected %d results, got %d", len(ids), len(resp.Results))
	}

	values := make([]float64, len(ids))
	for i, res := range resp.Results {
		if res.Status != ua.StatusOK {
			return models.Sample{}, fmt.Errorf("opcua read %s: %s", ids[i].NodeID, res.Status)
		}
		v, ok := variantToFloat(res.Value)
		if !ok {
			return models.Sample{}, fmt.Errorf("opcua read %s: unsupported value type", ids[i].NodeID)
		}
		values[i] = v
	}

	n := len(d.pressure)
	return models.Sample{Pressure: values[:n:n], Temperature: values[n:]}, nil
}

// Send writes true (SET) or false (RST) to the command node.
func (d *Driver) Send(ctx context.Context, cmd machine.Command) error {
	wire, err := device.WireValue(cmd)
	if errors.Is(err, device.ErrNotRelayed) {
		return nil
	}
	if d.command == nil {
		return errNoCommandNode
	}
	c, err := d.conn(ctx)
	if err != nil {
		return err
	}

	v, err := ua.NewVariant(wire == device.WireStart)
	if err != nil {
		return fmt.Errorf("opcua encode %s: %w", wire, err)
	}
	resp, err := c.Write(ctx, &ua.WriteRequest{
		NodesToWrite: []*ua.WriteValue{{
			NodeID:      d.command,
			AttributeID: ua.AttributeIDValue,
			Value: &ua.DataValue{
				EncodingMask: ua.DataValueValue,
				Value:        v,
			},
		}},
	})
	if err != nil {
		d.reset(ctx)
		return fmt.Errorf("opcua write %s: %w", wire, err)
	}
	if len(resp.Results) == 0 || resp.Results[0] != ua.StatusOK {
		return fmt.Errorf("opcua write %s rejected: %v", wire, resp.Results)
	}
	return nil
}

// Close ends the session if one is open.
func (d *Driver) Close(ctx context.Context) error {
	d.mu.Lock()
	c := d.client
	d.client = nil
	d.mu.Unlock()
	if c == nil {
		return nil
	}
	if err := c.Close(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func (d *Driver) conn(ctx context.Context) (nodeClient, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.client != nil {
		return d.client, nil
	}
	c, err := d.dial(ctx)
	if err != nil {
		return nil, err
	}
	d.client = c
	return c, nil
}

func (d *Driver) reset(ctx context.Context) {
	if err := d.Close(ctx); err != nil {
		d.log.Debugw("opcua_close_failed", "err", err)
	}
}

func parseNodes(raw []string) ([]*ua.NodeID, error) {
	out := make([]*ua.NodeID, len(raw))
	for i, s := range raw {
		id, err := parseNodeID(s)
		if err != nil {
			return nil, err
		}
		out[i] = id
	}
	return out, nil
}

// parseNodeID rejects anything that is not in node id form before handing it
// to ua.ParseNodeID, which takes unprefixed text as a string identifier.
func parseNodeID(s string) (*ua.NodeID, error) {
	if !nodeIDForm.MatchString(s) {
		return nil, fmt.Errorf("parse node id %q: want [ns=<index>;]<i|s|g|b>=<identifier>", s)
	}
	id, err := ua.ParseNodeID(s)
	if err != nil {
		return nil, fmt.Errorf("parse node id %q: %w", s, err)
	}
	return id, nil
}

func clientOptions(cfg config.OPCUAConfig) []opcua.Option {
	opts := []opcua.Option{
		opcua.SecurityModeString(normalizeSecurityMode(cfg.SecurityMode)),
		opcua.SecurityPolicy(normalizeSecurityPolicy(cfg.SecurityPolicy)),
		opcua.ApplicationName(applicationName),
		opcua.AutoReconnect(true),
	}
	if cfg.Username != "" {
		opts = append(opts, opcua.AuthUsername(cfg.Username, cfg.Password))
	} else {
		opts = append(opts, opcua.AuthAnonymous())
	}
	return opts
}

func variantToFloat(v *ua.Variant) (float64, bool) {
	if v == nil {
		return 0, false
	}
	switch val := v.Value().(type) {
	case float32:
		return float64(val), true
	case float64:
		return val, true
	case int16:
		return float64(val), true
	case uint16:
		return float64(val), true
	case int32:
		return float64(val), true
	case uint32:
		return float64(val), true
	case int64:
		return float64(val), true
	case uint64:
		return float64(val), true
	default:
		return 0, false
	}
}

func normalizeSecurityMode(mode string) string {
	switch strings.ToLower(mode) {
	case "sign":
		return "Sign"
	case "signandencrypt", "sign_and_encrypt":
		return "SignAndEncrypt"
	default:
		return "None"
	}
}

func normalizeSecurityPolicy(policy string) string {
	if policy == "" {
		return "None"
	}
	return policy
}
