package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, CurrentConfigVersion, cfg.Version)
	assert.Empty(t, cfg.Environment)
	assert.Equal(t, TransportSocketIO, cfg.Stream.Transport)
	assert.Equal(t, "newData", cfg.Stream.Event)
	assert.Equal(t, 5, cfg.Stream.ReconnectAttempts)
	assert.Equal(t, 5*time.Second, cfg.Stream.Timeout)
	assert.Equal(t, time.Second, cfg.Stream.ReconnectDelay)
	assert.Equal(t, 5*time.Second, cfg.Stream.ReconnectDelayMax)
	assert.Equal(t, "http://localhost:6548", cfg.Stream.Endpoints["dev"])
	assert.Equal(t, 20, cfg.Window.Size)
	assert.Equal(t, "3:04:05 PM", cfg.Window.TimeFormat)
	assert.Equal(t, BackendFile, cfg.Storage.Backend)
	assert.Equal(t, "rangos", cfg.Storage.Key)
	assert.Equal(t, "vitals_settings", cfg.Storage.Postgres.Table)
	assert.Equal(t, ".", cfg.Export.Dir)
	assert.True(t, cfg.Export.PDFChart)
	assert.Equal(t, "info", cfg.Log.Level)

	require.NoError(t, Validate(cfg))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, ConfigFileName)

	content := `
version: 1
environment: DEV
stream:
  transport: mqtt
  endpoints:
    DEV: http://10.0.0.5:6548
  timeout: 3s
  mqtt:
    broker: tcp://localhost:1883
window:
  size: 50
storage:
  backend: redis
  redis:
    addr: redis:6379
    db: 2
export:
  dir: /tmp/exports
  pdf_chart: false
log:
  level: debug
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, "DEV", cfg.Environment)
	assert.Equal(t, TransportMQTT, cfg.Stream.Transport)
	assert.Equal(t, 3*time.Second, cfg.Stream.Timeout)
	assert.Equal(t, "tcp://localhost:1883", cfg.Stream.MQTT.Broker)
	assert.Equal(t, 50, cfg.Window.Size)
	assert.Equal(t, BackendRedis, cfg.Storage.Backend)
	assert.Equal(t, "redis:6379", cfg.Storage.Redis.Addr)
	assert.Equal(t, 2, cfg.Storage.Redis.DB)
	assert.Equal(t, "/tmp/exports", cfg.Export.Dir)
	assert.False(t, cfg.Export.PDFChart)
	assert.Equal(t, "debug", cfg.Log.Level)

	// Defaults survive for fields the file leaves out.
	assert.Equal(t, "newData", cfg.Stream.Event)
	assert.Equal(t, 5, cfg.Stream.ReconnectAttempts)
	assert.Equal(t, "vitals/newData", cfg.Stream.MQTT.Topic)
	assert.Equal(t, "3:04:05 PM", cfg.Window.TimeFormat)
	assert.Equal(t, "rangos", cfg.Storage.Key)

	url, ok := cfg.EndpointURL("")
	require.True(t, ok)
	assert.Equal(t, "http://10.0.0.5:6548", url)
}

func TestLoad_ExpandsPaths(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	dir := t.TempDir()
	configPath := filepath.Join(dir, ConfigFileName)
	content := `
storage:
  path: ~/vitals-data
export:
  dir: ${HOME}/exports
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

	cfg, err := Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "vitals-data"), cfg.Storage.Path)
	assert.Equal(t, home+"/exports", cfg.Export.Dir)
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Config file not found")
}

func TestLoad_InvalidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), ConfigFileName)
	require.NoError(t, os.WriteFile(configPath, []byte("stream: [unclosed"), 0644))

	_, err := Load(configPath)
	require.Error(t, err)
}

func TestFind_Explicit(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("version: 1\n"), 0644))

	found, err := Find(configPath)
	require.NoError(t, err)
	assert.Equal(t, configPath, found)

	_, err = Find(configPath + ".missing")
	require.Error(t, err)
}

func TestFind_WalksUpToGitRoot(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, ConfigFileName), []byte("version: 1\n"), 0644))

	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0755))

	assert.Equal(t, filepath.Join(root, ConfigFileName), findUpward(nested))
}

func TestFind_StopsAtGitRoot(t *testing.T) {
	outer := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(outer, ConfigFileName), []byte("version: 1\n"), 0644))

	repo := filepath.Join(outer, "repo")
	require.NoError(t, os.MkdirAll(filepath.Join(repo, ".git"), 0755))

	assert.Empty(t, findUpward(repo))
}

func TestResolveEnvironment(t *testing.T) {
	tests := []struct {
		name     string
		cfgEnv   string
		buildEnv string
		expected string
	}{
		{"config wins", "dev", "PROD", EnvDev},
		{"build flag fallback", "", "DEV", EnvDev},
		{"prod default", "", "", EnvProd},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Environment = tt.cfgEnv
			assert.Equal(t, tt.expected, cfg.ResolveEnvironment(tt.buildEnv))
		})
	}
}

func TestEndpointURL(t *testing.T) {
	cfg := DefaultConfig()

	url, ok := cfg.EndpointURL("DEV")
	require.True(t, ok)
	assert.Equal(t, "http://localhost:6548", url)

	url, ok = cfg.EndpointURL("")
	require.True(t, ok)
	assert.Contains(t, url, "azurewebsites.net")

	cfg.Stream.URL = "ws://override:1234"
	url, ok = cfg.EndpointURL("DEV")
	require.True(t, ok)
	assert.Equal(t, "ws://override:1234", url)

	cfg.Stream.URL = ""
	cfg.Stream.Endpoints = map[string]string{}
	_, ok = cfg.EndpointURL("PROD")
	assert.False(t, ok)
}
