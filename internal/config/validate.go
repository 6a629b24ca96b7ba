package config

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/rileyhilliard/vitals/internal/errors"
)

var (
	validLogLevels  = []string{"debug", "info", "warn", "error"}
	validLogFormats = []string{"console", "json"}
	validTransports = []string{TransportSocketIO, TransportMQTT}
	validBackends   = []string{BackendFile, BackendRedis, BackendPostgres}

	// tableNamePattern keeps the postgres table name safe to interpolate.
	tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)
)

// Validate checks the config for errors and returns structured error messages.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New(errors.ErrConfig,
			"Config is nil",
			"This is unexpected - try reloading the configuration.")
	}

	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("This config is from the future (version %d, but vitals only knows up to %d)", cfg.Version, CurrentConfigVersion),
			"Upgrade vitals or lower the 'version' field.")
	}

	if env := strings.ToUpper(strings.TrimSpace(cfg.Environment)); env != "" && env != EnvProd && env != EnvDev {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Unknown environment '%s'", cfg.Environment),
			"Use PROD or DEV, or leave it empty to use the build default.")
	}

	if err := validateStream(cfg.Stream); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'stream' section in your .vitals.yaml.")
	}

	if err := validateWindow(cfg.Window); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'window' section in your .vitals.yaml.")
	}

	if err := validateStorage(cfg.Storage); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'storage' section in your .vitals.yaml.")
	}

	if strings.TrimSpace(cfg.Export.Dir) == "" {
		return errors.New(errors.ErrConfig,
			"export.dir can't be empty",
			"Use '.' to export into the current directory.")
	}

	if err := validateLog(cfg.Log); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'log' section in your .vitals.yaml.")
	}

	return nil
}

func validateStream(s StreamConfig) error {
	if !contains(validTransports, s.Transport) {
		return fmt.Errorf("stream.transport '%s' isn't supported (use %s)", s.Transport, strings.Join(validTransports, " or "))
	}

	if s.URL != "" {
		if err := validateURL("stream.url", s.URL); err != nil {
			return err
		}
	}
	for env, u := range s.Endpoints {
		if u == "" {
			continue
		}
		if err := validateURL("stream.endpoints."+env, u); err != nil {
			return err
		}
	}

	if strings.TrimSpace(s.Event) == "" {
		return fmt.Errorf("stream.event can't be empty")
	}
	if s.ReconnectAttempts < 0 {
		return fmt.Errorf("stream.reconnect_attempts can't be negative (got %d)", s.ReconnectAttempts)
	}
	if s.Timeout <= 0 {
		return fmt.Errorf("stream.timeout must be positive (got %s)", s.Timeout)
	}
	if s.ReconnectDelay < 0 || s.ReconnectDelayMax < 0 {
		return fmt.Errorf("stream reconnect delays can't be negative")
	}
	if s.ReconnectDelayMax > 0 && s.ReconnectDelay > s.ReconnectDelayMax {
		return fmt.Errorf("stream.reconnect_delay (%s) is larger than stream.reconnect_delay_max (%s)", s.ReconnectDelay, s.ReconnectDelayMax)
	}

	if s.Transport == TransportMQTT {
		if s.MQTT.Broker == "" {
			return fmt.Errorf("stream.mqtt.broker is required when transport is mqtt")
		}
		if s.MQTT.Topic == "" {
			return fmt.Errorf("stream.mqtt.topic is required when transport is mqtt")
		}
		if s.MQTT.QoS > 2 {
			return fmt.Errorf("stream.mqtt.qos must be 0, 1 or 2 (got %d)", s.MQTT.QoS)
		}
	}

	return nil
}

func validateURL(field, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s isn't a valid URL: %v", field, err)
	}
	switch u.Scheme {
	case "http", "https", "ws", "wss":
	default:
		return fmt.Errorf("%s must use http, https, ws or wss (got '%s')", field, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("%s is missing a host", field)
	}
	return nil
}

func validateWindow(w WindowConfig) error {
	if w.Size < 1 {
		return fmt.Errorf("window.size must be at least 1 (got %d)", w.Size)
	}
	if strings.TrimSpace(w.TimeFormat) == "" {
		return fmt.Errorf("window.time_format can't be empty")
	}
	return nil
}

func validateStorage(s StorageConfig) error {
	if !contains(validBackends, s.Backend) {
		return fmt.Errorf("storage.backend '%s' isn't supported (use %s)", s.Backend, strings.Join(validBackends, ", "))
	}
	if strings.TrimSpace(s.Key) == "" {
		return fmt.Errorf("storage.key can't be empty")
	}
	if strings.ContainsAny(s.Key, `/\`) {
		return fmt.Errorf("storage.key '%s' can't contain path separators", s.Key)
	}

	switch s.Backend {
	case BackendFile:
		if s.Path == "" {
			return fmt.Errorf("storage.path is required for the file backend")
		}
		if strings.Contains(s.Path, "${") {
			return fmt.Errorf("storage.path has an unexpanded variable: %s", s.Path)
		}
	case BackendRedis:
		if s.Redis.Addr == "" {
			return fmt.Errorf("storage.redis.addr is required for the redis backend")
		}
		if s.Redis.DB < 0 {
			return fmt.Errorf("storage.redis.db can't be negative")
		}
	case BackendPostgres:
		if s.Postgres.DSN == "" {
			return fmt.Errorf("storage.postgres.dsn is required for the postgres backend")
		}
		if !tableNamePattern.MatchString(s.Postgres.Table) {
			return fmt.Errorf("storage.postgres.table '%s' isn't a valid table name", s.Postgres.Table)
		}
	}

	return nil
}

func validateLog(l LogConfig) error {
	if !contains(validLogLevels, strings.ToLower(l.Level)) {
		return fmt.Errorf("log.level '%s' isn't valid (use %s)", l.Level, strings.Join(validLogLevels, ", "))
	}
	if !contains(validLogFormats, l.Format) {
		return fmt.Errorf("log.format '%s' isn't valid (use %s)", l.Format, strings.Join(validLogFormats, " or "))
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
