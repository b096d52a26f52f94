package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"bench_monitor/internal/logger"

	"github.com/spf13/viper"
)

// Config is the full runtime configuration, read from configs/config.yml
// and overridable through BENCH_* environment variables.
type Config struct {
	Port      string          `mapstructure:"port"`
	LogLevel  string          `mapstructure:"log_level"`
	LogFormat string          `mapstructure:"log_format"`
	DB        DBConfig        `mapstructure:"db"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Channels  ChannelConfig   `mapstructure:"channels"`
	Broadcast BroadcastConfig `mapstructure:"broadcast"`
	Logs      LogsConfig      `mapstructure:"logs"`
	Device    DeviceConfig    `mapstructure:"device"`
}

type DBConfig struct {
	Path    string        `mapstructure:"path"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type AuthConfig struct {
	SigningKey string        `mapstructure:"signing_key"`
	TokenTTL   time.Duration `mapstructure:"token_ttl"`
	// DeviceKey protects the ingestion endpoint when set.
	DeviceKey string `mapstructure:"device_key"`
}

// ChannelConfig fixes sample arity and the fallback limits.
type ChannelConfig struct {
	Pressure                int     `mapstructure:"pressure"`
	Temperature             int     `mapstructure:"temperature"`
	DefaultPressureLimit    float64 `mapstructure:"default_pressure_limit"`
	DefaultTemperatureLimit float64 `mapstructure:"default_temperature_limit"`
}

type BroadcastConfig struct {
	Buffer    int           `mapstructure:"buffer"`
	Keepalive time.Duration `mapstructure:"keepalive"`
}

type LogsConfig struct {
	DefaultLimit int `mapstructure:"default_limit"`
	MaxLimit     int `mapstructure:"max_limit"`
}

// DeviceConfig selects the PLC driver used for sample feed and command relay.
type DeviceConfig struct {
	Driver       string        `mapstructure:"driver"` // none | sim | opcua | mqtt
	Timeout      time.Duration `mapstructure:"timeout"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
	OPCUA        OPCUAConfig   `mapstructure:"opcua"`
	MQTT         MQTTConfig    `mapstructure:"mqtt"`

	// SimSpikeEvery makes the simulator inject a pressure surge every N ticks; 0 disables.
	SimSpikeEvery int `mapstructure:"sim_spike_every"`
}

type OPCUAConfig struct {
	Endpoint         string   `mapstructure:"endpoint"`
	SecurityMode     string   `mapstructure:"security_mode"`
	SecurityPolicy   string   `mapstructure:"security_policy"`
	Username         string   `mapstructure:"username"`
	Password         string   `mapstructure:"password"`
	CommandNode      string   `mapstructure:"command_node"`
	PressureNodes    []string `mapstructure:"pressure_nodes"`
	TemperatureNodes []string `mapstructure:"temperature_nodes"`
}

type MQTTConfig struct {
	Broker       string `mapstructure:"broker"`
	ClientID     string `mapstructure:"client_id"`
	Username     string `mapstructure:"username"`
	Password     string `mapstructure:"password"`
	SampleTopic  string `mapstructure:"sample_topic"`
	CommandTopic string `mapstructure:"command_topic"`
	QoS          byte   `mapstructure:"qos"`
}

// Device drivers.
const (
	DriverNone  = "none"
	DriverSim   = "sim"
	DriverOPCUA = "opcua"
	DriverMQTT  = "mqtt"
)

const envPrefix = "BENCH"

var errSigningKeyRequired = errors.New("auth.signing_key is required")

// Load reads the config file from dir (config.yml) and applies defaults.
// A missing file is not an error: defaults plus environment are enough to boot.
func Load(dir string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(dir)
	v.SetConfigName("config")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("log_level", logger.InfoLevel)
	v.SetDefault("log_format", logger.ConsoleFormat)

	v.SetDefault("db.path", "app.db")
	v.SetDefault("db.timeout", 3*time.Second)

	// Keys without a real default still need registering so env overrides reach Unmarshal.
	v.SetDefault("auth.signing_key", "")
	v.SetDefault("auth.device_key", "")
	v.SetDefault("auth.token_ttl", time.Hour)

	v.SetDefault("channels.pressure", 3)
	v.SetDefault("channels.temperature", 6)
	v.SetDefault("channels.default_pressure_limit", 6.0)
	v.SetDefault("channels.default_temperature_limit", 80.0)

	v.SetDefault("broadcast.buffer", 16)
	v.SetDefault("broadcast.keepalive", 15*time.Second)

	v.SetDefault("logs.default_limit", 50)
	v.SetDefault("logs.max_limit", 500)

	v.SetDefault("device.driver", DriverNone)
	v.SetDefault("device.timeout", 3*time.Second)
	v.SetDefault("device.poll_interval", time.Second)
	v.SetDefault("device.sim_spike_every", 0)
	v.SetDefault("device.opcua.endpoint", "")
	v.SetDefault("device.opcua.command_node", "")
	v.SetDefault("device.opcua.security_mode", "None")
	v.SetDefault("device.opcua.security_policy", "None")
	v.SetDefault("device.mqtt.broker", "")
	v.SetDefault("device.mqtt.client_id", "bench-monitor")
	v.SetDefault("device.mqtt.sample_topic", "bench/samples")
	v.SetDefault("device.mqtt.command_topic", "bench/command")
	v.SetDefault("device.mqtt.qos", 1)
}

// Validate checks invariants the rest of the program relies on.
func (c *Config) Validate() error {
	if c.Auth.SigningKey == "" {
		return errSigningKeyRequired
	}
	if !logger.ValidLevel(c.LogLevel) {
		return fmt.Errorf("log_level must be debug, info, warn or error (got %q)", c.LogLevel)
	}
	if !logger.ValidFormat(c.LogFormat) {
		return fmt.Errorf("log_format must be console or json (got %q)", c.LogFormat)
	}
	if c.Channels.Pressure <= 0 || c.Channels.Temperature <= 0 {
		return fmt.Errorf("channels: pressure and temperature counts must be > 0 (got %d, %d)",
			c.Channels.Pressure, c.Channels.Temperature)
	}
	if c.DB.Timeout <= 0 {
		return errors.New("db.timeout must be > 0")
	}
	if c.Device.Timeout <= 0 {
		return errors.New("device.timeout must be > 0")
	}
	if c.Logs.MaxLimit <= 0 || c.Logs.DefaultLimit <= 0 || c.Logs.DefaultLimit > c.Logs.MaxLimit {
		return fmt.Errorf("logs: need 0 < default_limit <= max_limit (got %d, %d)",
			c.Logs.DefaultLimit, c.Logs.MaxLimit)
	}
	if c.Broadcast.Buffer <= 0 {
		return errors.New("broadcast.buffer must be > 0")
	}

	if c.Device.SimSpikeEvery < 0 {
		return errors.New("device.sim_spike_every must be >= 0")
	}

	switch c.Device.Driver {
	case DriverNone, DriverSim:
	case DriverOPCUA:
		o := c.Device.OPCUA
		if o.Endpoint == "" {
			return errors.New("device.opcua.endpoint is required")
		}
		if len(o.PressureNodes) != c.Channels.Pressure || len(o.TemperatureNodes) != c.Channels.Temperature {
			return fmt.Errorf("device.opcua: expected %d pressure and %d temperature nodes",
				c.Channels.Pressure, c.Channels.Temperature)
		}
	case DriverMQTT:
		if c.Device.MQTT.Broker == "" {
			return errors.New("device.mqtt.broker is required")
		}
		if c.Device.MQTT.QoS > 2 {
			return fmt.Errorf("device.mqtt.qos must be 0, 1 or 2 (got %d)", c.Device.MQTT.QoS)
		}
	default:
		return fmt.Errorf("unknown device.driver %q", c.Device.Driver)
	}
	return nil
}
