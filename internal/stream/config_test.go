package stream

import (
	"testing"

	"github.com/rileyhilliard/vitals/internal/config"
	vitalserrors "github.com/rileyhilliard/vitals/internal/errors"
	"github.com/rileyhilliard/vitals/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTransport(t *testing.T) {
	cfg := config.DefaultConfig()

	tr, err := NewTransport(cfg, "DEV")
	require.NoError(t, err)
	require.IsType(t, &SocketIO{}, tr)
	assert.Equal(t, "http://localhost:6548", tr.String())

	cfg.Stream.Transport = config.TransportMQTT
	cfg.Stream.MQTT.Broker = "tcp://broker:1883"
	tr, err = NewTransport(cfg, "DEV")
	require.NoError(t, err)
	assert.IsType(t, &MQTT{}, tr)

	cfg.Stream.Transport = "carrier-pigeon"
	_, err = NewTransport(cfg, "DEV")
	require.Error(t, err)
	assert.True(t, vitalserrors.IsCode(err, vitalserrors.ErrConfig))
}

func TestNewTransport_MissingEndpoint(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Stream.Endpoints = map[string]string{"prod": "https://example.net"}

	_, err := NewTransport(cfg, "DEV")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DEV")
}

func TestNewClientFromConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Stream.Event = "vitals"
	cfg.Stream.ReconnectAttempts = 2

	c, err := NewClientFromConfig(cfg, "DEV", logger.Noop())
	require.NoError(t, err)
	assert.Equal(t, "vitals", c.event)
	assert.Equal(t, 2, c.attempts)
	assert.Equal(t, cfg.Stream.Timeout, c.timeout)
	assert.Equal(t, StateIdle, c.State())
	assert.Equal(t, "http://localhost:6548", c.Source())
}
