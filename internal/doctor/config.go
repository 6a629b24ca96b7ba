package doctor

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rileyhilliard/vitals/internal/config"
	vitalserrors "github.com/rileyhilliard/vitals/internal/errors"
)

// ConfigFileCheck verifies that a config file exists. Running without one
// is allowed (defaults apply), so a missing file is only a warning.
type ConfigFileCheck struct {
	ConfigPath string // Explicit path, or empty to search

	// FixPath is where Fix writes a default config. Empty means
	// ./.vitals.yaml.
	FixPath string
}

func (c *ConfigFileCheck) Name() string     { return "config_file" }
func (c *ConfigFileCheck) Category() string { return "CONFIG" }

func (c *ConfigFileCheck) Run(_ context.Context) CheckResult {
	path, err := config.Find(c.ConfigPath)
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    vitalserrors.Short(err),
			Suggestion: "Check the --config path, or run 'vitals init' to create a config",
		}
	}

	if path == "" {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    "No config file found, using built-in defaults",
			Suggestion: "Run 'vitals init' to create a .vitals.yaml config file",
			Fixable:    true,
		}
	}

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("Config file: %s", filepath.Base(path)),
	}
}

// Fix writes a default config file. It never overwrites an existing one.
func (c *ConfigFileCheck) Fix() error {
	path := c.FixPath
	if path == "" {
		path = config.ConfigFileName
	}
	return config.Write(path, config.DefaultConfig(), false)
}

// ConfigSchemaCheck verifies that the config file loads and validates.
type ConfigSchemaCheck struct {
	ConfigPath string
}

func (c *ConfigSchemaCheck) Name() string     { return "config_schema" }
func (c *ConfigSchemaCheck) Category() string { return "CONFIG" }

func (c *ConfigSchemaCheck) Run(_ context.Context) CheckResult {
	cfg, path, err := config.LoadOrDefault(c.ConfigPath)
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("Failed to load config: %s", vitalserrors.Short(err)),
			Suggestion: "Check the YAML syntax in your config file",
		}
	}

	if err := config.Validate(cfg); err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("Schema error: %s", vitalserrors.Short(err)),
			Suggestion: "Fix the configuration errors in your .vitals.yaml",
		}
	}

	msg := "Schema valid"
	if path == "" {
		msg = "Defaults valid"
	}
	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: msg,
	}
}

func (c *ConfigSchemaCheck) Fix() error {
	return nil // Schema issues require manual intervention
}

// ConfigEndpointCheck verifies that the stream source resolves for the
// active environment.
type ConfigEndpointCheck struct {
	Config   *config.Config
	BuildEnv string
}

func (c *ConfigEndpointCheck) Name() string     { return "config_endpoint" }
func (c *ConfigEndpointCheck) Category() string { return "CONFIG" }

func (c *ConfigEndpointCheck) Run(_ context.Context) CheckResult {
	if c.Config == nil {
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusFail,
			Message: "Cannot resolve endpoint: config load error",
		}
	}

	if c.Config.Stream.Transport == config.TransportMQTT {
		mqtt := c.Config.Stream.MQTT
		if mqtt.Broker == "" || mqtt.Topic == "" {
			return CheckResult{
				Name:       c.Name(),
				Status:     StatusFail,
				Message:    "MQTT transport needs a broker and a topic",
				Suggestion: "Set stream.mqtt.broker and stream.mqtt.topic in your .vitals.yaml",
			}
		}
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusPass,
			Message: fmt.Sprintf("MQTT %s topic %s", mqtt.Broker, mqtt.Topic),
		}
	}

	env := c.Config.ResolveEnvironment(c.BuildEnv)
	url, ok := c.Config.EndpointURL(c.BuildEnv)
	if !ok {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("No endpoint for environment %s", env),
			Suggestion: "Set stream.url or stream.endpoints." + strings.ToLower(env) + " in your .vitals.yaml",
		}
	}

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("%s endpoint: %s", env, url),
	}
}

func (c *ConfigEndpointCheck) Fix() error {
	return nil
}

// NewConfigChecks creates all config-related checks. cfg may be nil when
// the config failed to load.
func NewConfigChecks(configPath string, cfg *config.Config, buildEnv string) []Check {
	return []Check{
		&ConfigFileCheck{ConfigPath: configPath},
		&ConfigSchemaCheck{ConfigPath: configPath},
		&ConfigEndpointCheck{Config: cfg, BuildEnv: buildEnv},
	}
}
