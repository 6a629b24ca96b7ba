package monitor

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rileyhilliard/vitals/internal/vitals"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChartSeries(t *testing.T) {
	samples := []vitals.Sample{
		{Reading: vitals.Reading{O2InBlood: vitals.Float(97)}},
		{Reading: vitals.Reading{BPM: vitals.Float(70), O2InBlood: vitals.Float(98)}},
		{Reading: vitals.Reading{O2InBlood: vitals.Float(99)}},
		{Reading: vitals.Reading{BPM: vitals.Float(90)}},
	}

	metrics, data := chartSeries(samples, []vitals.Metric{
		vitals.MetricBPM, vitals.MetricO2InBlood, vitals.MetricTemperature,
	})

	require.Equal(t, []vitals.Metric{vitals.MetricBPM, vitals.MetricO2InBlood}, metrics)
	assert.Equal(t, []float64{70, 70, 70, 90}, data[0])
	assert.Equal(t, []float64{97, 98, 99, 99}, data[1])
}

func TestRenderChart_NeedsTwoSamples(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = send(t, m, readingMsg{reading: vitals.Reading{BPM: vitals.Float(72)}})

	out := m.renderChart(80, chartHeight)
	assert.Contains(t, out, "Esperando datos")
}

func TestRenderChart_TooSmall(t *testing.T) {
	m, _ := newTestModel(t)
	assert.Empty(t, m.renderChart(chartMinWidth-1, chartHeight))
	assert.Empty(t, m.renderChart(80, chartMinHeight-1))
}

func TestRenderChart_NoVisibleSeries(t *testing.T) {
	m, _ := newTestModel(t)
	for _, v := range []float64{70, 80} {
		m, _ = send(t, m, readingMsg{reading: vitals.Reading{BPM: vitals.Float(v)}})
	}
	m, _ = send(t, m, keyRunes("1"))

	assert.Contains(t, m.renderChart(80, chartHeight), "Sin series visibles")
}

func TestRenderTimeAxis(t *testing.T) {
	samples := []vitals.Sample{{Timestamp: "1:00:00 PM"}, {Timestamp: "1:00:05 PM"}}

	out := renderTimeAxis(samples, 30)
	assert.Equal(t, "1:00:00 PM"+strings.Repeat(" ", 10)+"1:00:05 PM", out)

	// Too narrow for both labels
	assert.Equal(t, "1:00:05 PM", renderTimeAxis(samples, 12))
}

func TestRenderLegend(t *testing.T) {
	out := renderLegend([]vitals.Metric{vitals.MetricBPM, vitals.MetricTemperature})
	assert.Contains(t, out, "Ritmo Cardíaco")
	assert.Contains(t, out, "Temperatura")
	assert.NotContains(t, out, "Oxígeno")
}

func TestView_ShowsChartLegend(t *testing.T) {
	start := time.Date(2024, 1, 1, 13, 0, 0, 0, time.UTC)
	clock := start
	window := vitals.NewWindow(vitals.DefaultWindowSize, vitals.WithClock(func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}))
	m := NewModel(Options{Window: window, ExportDir: t.TempDir()})
	m, _ = send(t, m, tea.WindowSizeMsg{Width: 140, Height: 50})

	for _, v := range []float64{70, 75, 80} {
		m, _ = send(t, m, readingMsg{reading: vitals.Reading{BPM: vitals.Float(v), Temperature: vitals.Float(36.6)}})
	}

	view := m.View()
	assert.Contains(t, view, "Historial")
	assert.Contains(t, view, "1:00:01 PM")
	assert.Contains(t, view, "1:00:03 PM")
	assert.Contains(t, view, "3/20 muestras")
}
