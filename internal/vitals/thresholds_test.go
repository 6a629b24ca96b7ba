package vitals

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsOutOfRange(t *testing.T) {
	b := Bound{Min: 60, Max: 100}

	tests := []struct {
		name   string
		value  *float64
		expect bool
	}{
		{"missing value", nil, false},
		{"below min", Float(55), true},
		{"at min", Float(60), false},
		{"inside", Float(80), false},
		{"at max", Float(100), false},
		{"above max", Float(101), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, IsOutOfRange(tt.value, b))
		})
	}
}

func TestIsOutOfRange_NaNBound(t *testing.T) {
	b := Bound{Min: math.NaN(), Max: math.NaN()}
	assert.False(t, IsOutOfRange(Float(0), b))
	assert.False(t, IsOutOfRange(Float(1000), b))
}

func TestStatus_String(t *testing.T) {
	tests := []struct {
		status Status
		expect string
	}{
		{StatusLoading, "loading"},
		{StatusNormal, "normal"},
		{StatusAlert, "alert"},
		{Status(42), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expect, func(t *testing.T) {
			assert.Equal(t, tt.expect, tt.status.String())
		})
	}
}

func TestGroupStatus_Presion(t *testing.T) {
	cfg := DefaultRanges()

	tests := []struct {
		name     string
		pressure Pressure
		expect   Status
	}{
		{"both missing", Pressure{}, StatusLoading},
		{"only systolic", Pressure{Sistolica: Float(200)}, StatusLoading},
		{"only diastolic", Pressure{Diastolica: Float(10)}, StatusLoading},
		{"both normal", Pressure{Sistolica: Float(110), Diastolica: Float(70)}, StatusNormal},
		{"systolic high", Pressure{Sistolica: Float(130), Diastolica: Float(70)}, StatusAlert},
		{"diastolic low", Pressure{Sistolica: Float(110), Diastolica: Float(50)}, StatusAlert},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Reading{Presion: tt.pressure}
			assert.Equal(t, tt.expect, GroupStatus(GroupPresion, r, cfg))
		})
	}
}

func TestEvaluate_SequenceWithDefaults(t *testing.T) {
	w := NewWindow(DefaultWindowSize)
	cfg := DefaultRanges()

	for _, v := range []float64{110, 90, 50} {
		w.Append(bpmReading(v))
	}

	samples := w.Samples()
	require.Len(t, samples, 3)
	assert.Equal(t, 110.0, *samples[0].BPM)
	assert.Equal(t, 90.0, *samples[1].BPM)
	assert.Equal(t, 50.0, *samples[2].BPM)

	assert.Equal(t, StatusAlert, Evaluate(samples[0].Reading, cfg)[GroupRitmoCardiaco])
	assert.Equal(t, StatusNormal, Evaluate(samples[1].Reading, cfg)[GroupRitmoCardiaco])
	assert.Equal(t, StatusAlert, Evaluate(samples[2].Reading, cfg)[GroupRitmoCardiaco])

	// Groups with no values stay loading.
	assert.Equal(t, StatusLoading, Evaluate(samples[0].Reading, cfg)[GroupTemperatura])
}

func TestGroupStatus_UnknownGroup(t *testing.T) {
	assert.Equal(t, StatusLoading, GroupStatus(Group("nope"), Reading{}, DefaultRanges()))
}
