package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/rileyhilliard/vitals/internal/errors"
	"github.com/rileyhilliard/vitals/internal/ranges"
	"github.com/rileyhilliard/vitals/internal/vitals"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// useFileStorageConfig points --config at a file-backed config in a temp
// dir and returns the storage directory.
func useFileStorageConfig(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	dataDir := filepath.Join(dir, "data")
	path := filepath.Join(dir, ".vitals.yaml")
	content := fmt.Sprintf("version: 1\nstorage:\n  backend: file\n  path: %s\n", dataDir)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	orig := cfgFile
	cfgFile = path
	t.Cleanup(func() { cfgFile = orig })
	return dataDir
}

func TestRangeRows(t *testing.T) {
	cfg := vitals.DefaultRanges().With(vitals.MetricBPM, vitals.BoundMax, math.NaN())

	rows := rangeRows(cfg)

	require.Len(t, rows, len(vitals.Metrics))
	assert.Equal(t, "Ritmo Cardíaco", rows[0].Metric)
	assert.Equal(t, "60", rows[0].Min)
	assert.Equal(t, "NaN", rows[0].Max)
	assert.Equal(t, "37.5", rows[4].Max)
}

func TestRangesShow(t *testing.T) {
	useFileStorageConfig(t)

	var buf bytes.Buffer
	require.NoError(t, rangesShowCommand(context.Background(), &buf, false))

	out := buf.String()
	assert.Contains(t, out, "Metric")
	assert.Contains(t, out, "Temperatura")
	assert.Contains(t, out, "37.5")
}

func TestRangesShow_JSON(t *testing.T) {
	useFileStorageConfig(t)

	var buf bytes.Buffer
	require.NoError(t, rangesShowCommand(context.Background(), &buf, true))

	var env struct {
		Success bool                          `json:"success"`
		Data    map[string]map[string]float64 `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &env))
	assert.True(t, env.Success)
	assert.Equal(t, 60.0, env.Data["bpm"]["min"])
	assert.Equal(t, 100.0, env.Data["o2InBlood"]["max"])
}

func TestRangesSet_Persists(t *testing.T) {
	dataDir := useFileStorageConfig(t)

	var buf bytes.Buffer
	require.NoError(t, rangesSetCommand(context.Background(), &buf, "bpm", "max", "110"))
	assert.Contains(t, buf.String(), "bpm max set to 110")

	data, err := os.ReadFile(ranges.NewFileBackend(dataDir).Path(ranges.DefaultKey))
	require.NoError(t, err)
	saved, err := vitals.ParseRanges(data)
	require.NoError(t, err)
	assert.Equal(t, vitals.Bound{Min: 60, Max: 110}, saved[vitals.MetricBPM])

	// A second process sees the change
	buf.Reset()
	require.NoError(t, rangesShowCommand(context.Background(), &buf, false))
	assert.Contains(t, buf.String(), "110")
}

func TestRangesSet_NonNumberStoresNaN(t *testing.T) {
	useFileStorageConfig(t)

	var buf bytes.Buffer
	require.NoError(t, rangesSetCommand(context.Background(), &buf, "temperature", "min", "abc"))
	assert.Contains(t, buf.String(), "temperature min set to NaN")
}

func TestRangesSet_UnknownMetric(t *testing.T) {
	useFileStorageConfig(t)

	var buf bytes.Buffer
	err := rangesSetCommand(context.Background(), &buf, "glucose", "max", "5")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
	assert.Empty(t, buf.String())
}

func TestRangesReset(t *testing.T) {
	useFileStorageConfig(t)

	var buf bytes.Buffer
	require.NoError(t, rangesSetCommand(context.Background(), &buf, "bpm", "min", "40"))

	buf.Reset()
	require.NoError(t, rangesResetCommand(context.Background(), &buf))
	assert.Contains(t, buf.String(), "Ranges restored to defaults")

	store, err := openRangesStore(context.Background())
	require.NoError(t, err)
	defer store.Close()
	assert.Equal(t, vitals.DefaultRanges(), store.Current())
}

func TestRangeFields(t *testing.T) {
	fields := rangeFields(vitals.DefaultRanges())

	require.Len(t, fields, 2*len(vitals.Metrics))
	assert.Equal(t, vitals.MetricBPM, fields[0].metric)
	assert.Equal(t, vitals.BoundMin, fields[0].kind)
	assert.Equal(t, "60", fields[0].value)
	assert.Equal(t, vitals.BoundMax, fields[1].kind)
	assert.Equal(t, "100", fields[1].value)
}

func TestApplyRangeFields(t *testing.T) {
	ctx := context.Background()
	store := ranges.NewStore(ranges.NewFileBackend(t.TempDir()))
	cfg := store.Load(ctx)

	fields := rangeFields(cfg)
	fields[1].value = " 120 " // bpm max
	fields[9].value = "38"    // temperature max

	changed, err := applyRangeFields(ctx, store, cfg, fields)
	require.NoError(t, err)
	assert.Equal(t, 2, changed)

	got := store.Current()
	assert.Equal(t, vitals.Bound{Min: 60, Max: 120}, got[vitals.MetricBPM])
	assert.Equal(t, vitals.Bound{Min: 36, Max: 38}, got[vitals.MetricTemperature])

	// Nothing left to change
	changed, err = applyRangeFields(ctx, store, got, rangeFields(got))
	require.NoError(t, err)
	assert.Zero(t, changed)
}

func TestValidateNumber(t *testing.T) {
	assert.NoError(t, validateNumber(""))
	assert.NoError(t, validateNumber("36.5"))
	assert.Error(t, validateNumber("abc"))
}
