package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rileyhilliard/vitals/internal/config"
	"github.com/rileyhilliard/vitals/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubConfirm replaces the overwrite prompt for one test.
func stubConfirm(t *testing.T, answer bool) *int {
	t.Helper()
	calls := 0
	orig := confirmOverwrite
	confirmOverwrite = func(string) (bool, error) {
		calls++
		return answer, nil
	}
	t.Cleanup(func() { confirmOverwrite = orig })
	return &calls
}

func TestInitConfig_Defaults(t *testing.T) {
	cfg, err := initConfig(InitOptions{})
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig(), cfg)
}

func TestInitConfig_Overrides(t *testing.T) {
	cfg, err := initConfig(InitOptions{
		Env:     "dev",
		URL:     "http://localhost:7000",
		Backend: "Redis",
	})
	require.NoError(t, err)

	assert.Equal(t, config.EnvDev, cfg.Environment)
	assert.Equal(t, "http://localhost:7000", cfg.Stream.URL)
	assert.Equal(t, config.TransportSocketIO, cfg.Stream.Transport)
	assert.Equal(t, config.BackendRedis, cfg.Storage.Backend)
}

func TestInitConfig_PostgresGetsPlaceholderDSN(t *testing.T) {
	cfg, err := initConfig(InitOptions{Backend: "postgres"})
	require.NoError(t, err)
	assert.Equal(t, defaultPostgresDSN, cfg.Storage.Postgres.DSN)
}

func TestInitConfig_RejectsBadValues(t *testing.T) {
	_, err := initConfig(InitOptions{Env: "staging"})
	assert.True(t, errors.IsCode(err, errors.ErrConfig))

	_, err = initConfig(InitOptions{Backend: "floppy"})
	assert.Error(t, err)
}

func TestInit_WritesConfig(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	var buf bytes.Buffer
	require.NoError(t, Init(&buf, InitOptions{Env: "dev"}))

	path := filepath.Join(dir, config.ConfigFileName)
	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.EnvDev, cfg.Environment)

	out := buf.String()
	assert.Contains(t, out, "Created")
	assert.Contains(t, out, "vitals doctor")
}

func TestInit_Global(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(t.TempDir())

	var buf bytes.Buffer
	require.NoError(t, Init(&buf, InitOptions{Global: true}))

	_, err := os.Stat(filepath.Join(home, config.GlobalConfigDir, config.GlobalConfigFile))
	assert.NoError(t, err)
	_, err = os.Stat(config.ConfigFileName)
	assert.True(t, os.IsNotExist(err))
}

func TestInit_ExistingConfig(t *testing.T) {
	t.Run("declined", func(t *testing.T) {
		t.Chdir(t.TempDir())
		require.NoError(t, os.WriteFile(config.ConfigFileName, []byte("version: 1\n"), 0644))
		calls := stubConfirm(t, false)

		var buf bytes.Buffer
		require.NoError(t, Init(&buf, InitOptions{Env: "dev"}))

		assert.Equal(t, 1, *calls)
		assert.Contains(t, buf.String(), "Cancelled.")
		data, err := os.ReadFile(config.ConfigFileName)
		require.NoError(t, err)
		assert.Equal(t, "version: 1\n", string(data))
	})

	t.Run("accepted", func(t *testing.T) {
		t.Chdir(t.TempDir())
		require.NoError(t, os.WriteFile(config.ConfigFileName, []byte("version: 1\n"), 0644))
		stubConfirm(t, true)

		var buf bytes.Buffer
		require.NoError(t, Init(&buf, InitOptions{Env: "dev"}))

		cfg, err := config.Load(config.ConfigFileName)
		require.NoError(t, err)
		assert.Equal(t, config.EnvDev, cfg.Environment)
	})

	t.Run("force skips prompt", func(t *testing.T) {
		t.Chdir(t.TempDir())
		require.NoError(t, os.WriteFile(config.ConfigFileName, []byte("version: 1\n"), 0644))
		calls := stubConfirm(t, false)

		var buf bytes.Buffer
		require.NoError(t, Init(&buf, InitOptions{Overwrite: true}))

		assert.Equal(t, 0, *calls)
		assert.Contains(t, buf.String(), "Created")
	})
}

func TestInit_InvalidOptionsWriteNothing(t *testing.T) {
	t.Chdir(t.TempDir())

	var buf bytes.Buffer
	err := Init(&buf, InitOptions{Env: "staging"})
	require.Error(t, err)

	_, statErr := os.Stat(config.ConfigFileName)
	assert.True(t, os.IsNotExist(statErr))
}
