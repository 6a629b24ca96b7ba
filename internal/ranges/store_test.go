package ranges

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	vitalserrors "github.com/rileyhilliard/vitals/internal/errors"
	"github.com/rileyhilliard/vitals/internal/logger"
	"github.com/rileyhilliard/vitals/internal/vitals"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memBackend is an in-memory Backend with injectable failures.
type memBackend struct {
	mu     sync.Mutex
	data   map[string][]byte
	getErr error
	putErr error
	puts   int
	closed bool
}

func newMemBackend() *memBackend {
	return &memBackend{data: make(map[string][]byte)}
}

func (b *memBackend) Get(_ context.Context, key string) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.getErr != nil {
		return nil, b.getErr
	}
	v, ok := b.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return v, nil
}

func (b *memBackend) Put(_ context.Context, key string, value []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.putErr != nil {
		return b.putErr
	}
	b.puts++
	b.data[key] = append([]byte(nil), value...)
	return nil
}

func (b *memBackend) Close() error {
	b.closed = true
	return nil
}

func TestStore_LoadDefaults(t *testing.T) {
	tests := []struct {
		name   string
		stored string
		getErr error
	}{
		{name: "absent"},
		{name: "read error", getErr: errors.New("disk on fire")},
		{name: "malformed", stored: "{not json"},
		{name: "partial", stored: `{"bpm":{"min":50,"max":90}}`},
		{name: "wrong shape", stored: `[1,2,3]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newMemBackend()
			b.getErr = tt.getErr
			if tt.stored != "" {
				b.data[DefaultKey] = []byte(tt.stored)
			}

			s := NewStore(b)
			assert.Equal(t, vitals.DefaultRanges(), s.Load(context.Background()))
			assert.Equal(t, vitals.DefaultRanges(), s.Current())
		})
	}
}

func TestStore_LoadLogsWarning(t *testing.T) {
	b := newMemBackend()
	b.data[DefaultKey] = []byte("garbage")
	log := logger.NewBufferLogger()

	NewStore(b, WithLogger(log)).Load(context.Background())
	assert.True(t, log.HasLevel("warn"))
}

func TestStore_LoadStored(t *testing.T) {
	b := newMemBackend()
	s := NewStore(b)
	ctx := context.Background()

	_, err := s.SetField(ctx, "bpm", "max", "120")
	require.NoError(t, err)

	reloaded := NewStore(b).Load(ctx)
	assert.Equal(t, 120.0, reloaded[vitals.MetricBPM].Max)
	assert.Equal(t, 60.0, reloaded[vitals.MetricBPM].Min)
	assert.Equal(t, vitals.DefaultRanges()[vitals.MetricTemperature], reloaded[vitals.MetricTemperature])
}

func TestStore_SetField(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect float64
		isNaN  bool
	}{
		{name: "number", input: "42", expect: 42},
		{name: "decimal", input: "37.8", expect: 37.8},
		{name: "padded", input: "  55 ", expect: 55},
		{name: "blank is zero", input: "", expect: 0},
		{name: "whitespace is zero", input: "   ", expect: 0},
		{name: "junk is NaN", input: "abc", isNaN: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newMemBackend()
			s := NewStore(b)

			cfg, err := s.SetField(context.Background(), "diastolica", "min", tt.input)
			require.NoError(t, err)

			got := cfg[vitals.MetricDiastolica].Min
			if tt.isNaN {
				assert.True(t, math.IsNaN(got))
			} else {
				assert.Equal(t, tt.expect, got)
			}
			assert.Equal(t, 80.0, cfg[vitals.MetricDiastolica].Max)

			// Only the one pair changed.
			defaults := vitals.DefaultRanges()
			for _, m := range vitals.Metrics {
				if m != vitals.MetricDiastolica {
					assert.Equal(t, defaults[m], cfg[m], m)
				}
			}
			assert.Equal(t, 1, b.puts)
		})
	}
}

func TestStore_NaNSurvivesReload(t *testing.T) {
	b := newMemBackend()
	ctx := context.Background()

	_, err := NewStore(b).SetField(ctx, "bpm", "min", "abc")
	require.NoError(t, err)
	assert.Contains(t, string(b.data[DefaultKey]), `"min":null`)

	cfg := NewStore(b).Load(ctx)
	assert.True(t, math.IsNaN(cfg[vitals.MetricBPM].Min))
	assert.Equal(t, 100.0, cfg[vitals.MetricBPM].Max)
}

func TestStore_SetFieldUnknown(t *testing.T) {
	b := newMemBackend()
	s := NewStore(b)
	ctx := context.Background()

	_, err := s.SetField(ctx, "glucose", "min", "1")
	require.Error(t, err)
	assert.True(t, vitalserrors.IsCode(err, vitalserrors.ErrConfig))

	_, err = s.SetField(ctx, "bpm", "avg", "1")
	require.Error(t, err)
	assert.True(t, vitalserrors.IsCode(err, vitalserrors.ErrConfig))

	assert.Equal(t, 0, b.puts)
	assert.Equal(t, vitals.DefaultRanges(), s.Current())
}

func TestStore_PersistFailureKeepsMemory(t *testing.T) {
	b := newMemBackend()
	b.putErr = errors.New("read-only filesystem")
	s := NewStore(b)

	cfg, err := s.SetField(context.Background(), "bpm", "max", "150")
	require.Error(t, err)
	assert.True(t, vitalserrors.IsCode(err, vitalserrors.ErrStorage))
	assert.Equal(t, 100.0, cfg[vitals.MetricBPM].Max)
	assert.Equal(t, 100.0, s.Current()[vitals.MetricBPM].Max)

	_, err = s.Reset(context.Background())
	require.Error(t, err)
}

func TestStore_Reset(t *testing.T) {
	b := newMemBackend()
	s := NewStore(b)
	ctx := context.Background()

	_, err := s.SetValue(ctx, vitals.MetricTemperature, vitals.BoundMax, 39)
	require.NoError(t, err)

	cfg, err := s.Reset(ctx)
	require.NoError(t, err)
	assert.Equal(t, vitals.DefaultRanges(), cfg)
	assert.Equal(t, vitals.DefaultRanges(), NewStore(b).Load(ctx))
}

func TestStore_CurrentIsCopy(t *testing.T) {
	s := NewStore(newMemBackend())
	cfg := s.Current()
	cfg[vitals.MetricBPM] = vitals.Bound{Min: 1, Max: 2}
	assert.Equal(t, 60.0, s.Current()[vitals.MetricBPM].Min)
}

func TestStore_WithKey(t *testing.T) {
	b := newMemBackend()
	s := NewStore(b, WithKey("ward-3"))

	_, err := s.Reset(context.Background())
	require.NoError(t, err)
	assert.Contains(t, b.data, "ward-3")
	assert.NotContains(t, b.data, DefaultKey)
}

func TestStore_ConcurrentEdits(t *testing.T) {
	b := newMemBackend()
	s := NewStore(b)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _ = s.SetValue(ctx, vitals.MetricBPM, vitals.BoundMax, float64(100+i))
		}(i)
	}
	wg.Wait()

	stored, err := vitals.ParseRanges(b.data[DefaultKey])
	require.NoError(t, err)
	assert.Equal(t, s.Current(), stored)
}

func TestStore_Close(t *testing.T) {
	b := newMemBackend()
	require.NoError(t, NewStore(b).Close())
	assert.True(t, b.closed)
}
