package config

import (
	"strings"
	"time"
)

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// Environments the endpoint table is keyed by.
const (
	EnvProd = "PROD"
	EnvDev  = "DEV"
)

// Stream transports.
const (
	TransportSocketIO = "socketio"
	TransportMQTT     = "mqtt"
)

// Storage backends for the persisted range configuration.
const (
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Config represents the complete .vitals.yaml configuration file.
type Config struct {
	Version int `yaml:"version" mapstructure:"version"`

	// Environment picks the endpoint from Stream.Endpoints: "PROD" or "DEV".
	// Empty means the environment baked in at build time.
	Environment string `yaml:"environment,omitempty" mapstructure:"environment"`

	Stream  StreamConfig  `yaml:"stream" mapstructure:"stream"`
	Window  WindowConfig  `yaml:"window" mapstructure:"window"`
	Storage StorageConfig `yaml:"storage" mapstructure:"storage"`
	Export  ExportConfig  `yaml:"export" mapstructure:"export"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// StreamConfig controls the live data connection.
type StreamConfig struct {
	// Transport is "socketio" (default) or "mqtt".
	Transport string `yaml:"transport" mapstructure:"transport"`

	// URL overrides the environment endpoint table when set.
	URL string `yaml:"url,omitempty" mapstructure:"url"`

	// Endpoints maps environment name to base URL.
	Endpoints map[string]string `yaml:"endpoints" mapstructure:"endpoints"`

	// Event is the event name carrying readings.
	Event string `yaml:"event" mapstructure:"event"`

	// ReconnectAttempts is how many consecutive failed connects are tolerated.
	ReconnectAttempts int `yaml:"reconnect_attempts" mapstructure:"reconnect_attempts"`

	// Timeout bounds a single connection attempt.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// ReconnectDelay is the first backoff delay; it doubles up to ReconnectDelayMax.
	ReconnectDelay    time.Duration `yaml:"reconnect_delay" mapstructure:"reconnect_delay"`
	ReconnectDelayMax time.Duration `yaml:"reconnect_delay_max" mapstructure:"reconnect_delay_max"`

	MQTT MQTTConfig `yaml:"mqtt" mapstructure:"mqtt"`
}

// MQTTConfig is used when Transport is "mqtt".
type MQTTConfig struct {
	Broker   string `yaml:"broker,omitempty" mapstructure:"broker"`
	Topic    string `yaml:"topic" mapstructure:"topic"`
	ClientID string `yaml:"client_id,omitempty" mapstructure:"client_id"`
	Username string `yaml:"username,omitempty" mapstructure:"username"`
	Password string `yaml:"password,omitempty" mapstructure:"password"`
	QoS      byte   `yaml:"qos" mapstructure:"qos"`
}

// WindowConfig controls the rolling sample window.
type WindowConfig struct {
	// Size is the number of samples retained.
	Size int `yaml:"size" mapstructure:"size"`

	// TimeFormat is the Go time layout used for sample timestamps.
	TimeFormat string `yaml:"time_format" mapstructure:"time_format"`
}

// StorageConfig selects where the range configuration is persisted.
type StorageConfig struct {
	// Backend is "file" (default), "redis" or "postgres".
	Backend string `yaml:"backend" mapstructure:"backend"`

	// Key names the stored record.
	Key string `yaml:"key" mapstructure:"key"`

	// Path is the directory used by the file backend.
	Path string `yaml:"path" mapstructure:"path"`

	Redis    RedisConfig    `yaml:"redis" mapstructure:"redis"`
	Postgres PostgresConfig `yaml:"postgres" mapstructure:"postgres"`
}

// RedisConfig is used by the redis backend.
type RedisConfig struct {
	Addr     string `yaml:"addr" mapstructure:"addr"`
	Password string `yaml:"password,omitempty" mapstructure:"password"`
	DB       int    `yaml:"db" mapstructure:"db"`
}

// PostgresConfig is used by the postgres backend.
type PostgresConfig struct {
	DSN   string `yaml:"dsn,omitempty" mapstructure:"dsn"`
	Table string `yaml:"table" mapstructure:"table"`
}

// ExportConfig controls file exports.
type ExportConfig struct {
	// Dir receives exported files.
	Dir string `yaml:"dir" mapstructure:"dir"`

	// PDFChart appends a chart page to PDF exports.
	PDFChart bool `yaml:"pdf_chart" mapstructure:"pdf_chart"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	// Level is "debug", "info", "warn" or "error".
	Level string `yaml:"level" mapstructure:"level"`

	// Format is "console" or "json".
	Format string `yaml:"format" mapstructure:"format"`

	// File receives log output. The dashboard falls back to a file in the
	// config dir because the terminal is taken.
	File string `yaml:"file,omitempty" mapstructure:"file"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version: CurrentConfigVersion,
		Stream: StreamConfig{
			Transport: TransportSocketIO,
			Endpoints: map[string]string{
				"prod": "https://smartwach-cardiaco-backend-b7hsf9b8a4fwhadt.brazilsouth-01.azurewebsites.net/",
				"dev":  "http://localhost:6548",
			},
			Event:             "newData",
			ReconnectAttempts: 5,
			Timeout:           5 * time.Second,
			ReconnectDelay:    time.Second,
			ReconnectDelayMax: 5 * time.Second,
			MQTT: MQTTConfig{
				Topic: "vitals/newData",
				QoS:   1,
			},
		},
		Window: WindowConfig{
			Size:       20,
			TimeFormat: "3:04:05 PM",
		},
		Storage: StorageConfig{
			Backend: BackendFile,
			Key:     "rangos",
			Path:    "~/.config/vitals/data",
			Redis: RedisConfig{
				Addr: "localhost:6379",
			},
			Postgres: PostgresConfig{
				Table: "vitals_settings",
			},
		},
		Export: ExportConfig{
			Dir:      ".",
			PDFChart: true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// ResolveEnvironment returns the configured environment, falling back to
// buildEnv and then PROD.
func (c *Config) ResolveEnvironment(buildEnv string) string {
	env := strings.ToUpper(strings.TrimSpace(c.Environment))
	if env == "" {
		env = strings.ToUpper(strings.TrimSpace(buildEnv))
	}
	if env == "" {
		env = EnvProd
	}
	return env
}

// EndpointURL returns the stream endpoint for the resolved environment.
// Stream.URL wins when set. Endpoint keys match case-insensitively since
// viper lowercases map keys.
func (c *Config) EndpointURL(buildEnv string) (string, bool) {
	if c.Stream.URL != "" {
		return c.Stream.URL, true
	}
	env := c.ResolveEnvironment(buildEnv)
	for name, url := range c.Stream.Endpoints {
		if strings.EqualFold(name, env) {
			return url, url != ""
		}
	}
	return "", false
}
