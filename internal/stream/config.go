package stream

import (
	"fmt"
	"strings"

	"github.com/rileyhilliard/vitals/internal/config"
	vitalserrors "github.com/rileyhilliard/vitals/internal/errors"
	"github.com/rileyhilliard/vitals/internal/logger"
)

// NewTransport builds the transport selected by cfg. buildEnv is the
// environment baked in at build time, used when the config leaves it unset.
func NewTransport(cfg *config.Config, buildEnv string) (Transport, error) {
	switch cfg.Stream.Transport {
	case config.TransportMQTT:
		return NewMQTT(cfg.Stream.MQTT, cfg.Stream.Event), nil
	case config.TransportSocketIO, "":
		endpoint, ok := cfg.EndpointURL(buildEnv)
		if !ok {
			env := cfg.ResolveEnvironment(buildEnv)
			return nil, vitalserrors.New(vitalserrors.ErrConfig,
				fmt.Sprintf("No stream endpoint configured for environment %s", env),
				"Set stream.url or stream.endpoints."+strings.ToLower(env)+" in your .vitals.yaml.")
		}
		return NewSocketIO(endpoint), nil
	default:
		return nil, vitalserrors.New(vitalserrors.ErrConfig,
			fmt.Sprintf("Unknown stream transport '%s'", cfg.Stream.Transport),
			"Use 'socketio' or 'mqtt'.")
	}
}

// NewClientFromConfig wires a Client with the transport, event name,
// reconnect attempts and timeout from cfg.
func NewClientFromConfig(cfg *config.Config, buildEnv string, log logger.Logger, opts ...Option) (*Client, error) {
	t, err := NewTransport(cfg, buildEnv)
	if err != nil {
		return nil, err
	}
	base := []Option{
		WithEvent(cfg.Stream.Event),
		WithReconnect(cfg.Stream.ReconnectAttempts, cfg.Stream.ReconnectDelay, cfg.Stream.ReconnectDelayMax),
		WithTimeout(cfg.Stream.Timeout),
		WithLogger(log),
	}
	return NewClient(t, append(base, opts...)...), nil
}
