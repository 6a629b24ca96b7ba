package monitor

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	plot "github.com/chriskim06/drawille-go"
	"github.com/rileyhilliard/vitals/internal/vitals"
)

// Chart sizing
const (
	chartMinWidth  = 20
	chartMinHeight = 4
	chartHeight    = 10
)

// chartLineColors gives each metric a stable line color on the canvas.
var chartLineColors = map[vitals.Metric]plot.Color{
	vitals.MetricBPM:         plot.Red,
	vitals.MetricO2InBlood:   plot.Blue,
	vitals.MetricSistolica:   plot.Yellow,
	vitals.MetricDiastolica:  plot.LightGray,
	vitals.MetricTemperature: plot.Green,
}

// chartSeries returns one row per metric, aligned to the samples. A missing
// value repeats the previous one so each line stays continuous; leading
// gaps take the first known value. Metrics with no values are skipped.
func chartSeries(samples []vitals.Sample, metrics []vitals.Metric) ([]vitals.Metric, [][]float64) {
	var (
		kept []vitals.Metric
		data [][]float64
	)
	for _, m := range metrics {
		row := make([]float64, len(samples))
		first := -1
		for i, s := range samples {
			v := s.Value(m)
			switch {
			case v != nil:
				row[i] = *v
				if first < 0 {
					first = i
				}
			case i > 0:
				row[i] = row[i-1]
			}
		}
		if first < 0 {
			continue
		}
		for i := 0; i < first; i++ {
			row[i] = row[first]
		}
		kept = append(kept, m)
		data = append(data, row)
	}
	return kept, data
}

// renderChart draws the visible series of the window as a braille line chart
// with a legend and the first and last timestamps underneath.
func (m Model) renderChart(width, height int) string {
	if width < chartMinWidth || height < chartMinHeight {
		return ""
	}
	samples := m.window.Samples()
	if len(samples) < 2 {
		return ChartStyle.Width(width).Render(LoadingStyle.Render("Esperando datos para el historial..."))
	}

	metrics, data := chartSeries(samples, m.visible.VisibleMetrics())
	if len(metrics) == 0 {
		return ChartStyle.Width(width).Render(MutedStyle.Render("Sin series visibles"))
	}

	innerWidth := width - 4
	canvas := plot.NewCanvas(innerWidth, height)
	canvas.NumDataPoints = len(samples)
	canvas.ShowAxis = false
	canvas.LineColors = make([]plot.Color, len(metrics))
	for i, metric := range metrics {
		canvas.LineColors[i] = chartLineColors[metric]
	}
	canvas.Fill(data)

	body := canvas.String()
	if body == "" {
		return ""
	}

	lines := []string{
		TitleStyle.Render("Historial"),
		body,
		renderTimeAxis(samples, innerWidth),
		renderLegend(metrics),
	}
	return ChartStyle.Width(width).Render(strings.Join(lines, "\n"))
}

// renderTimeAxis puts the oldest timestamp on the left and the newest on
// the right.
func renderTimeAxis(samples []vitals.Sample, width int) string {
	if len(samples) == 0 {
		return ""
	}
	first := samples[0].Timestamp
	last := samples[len(samples)-1].Timestamp
	gap := width - lipgloss.Width(first) - lipgloss.Width(last)
	if gap < 1 {
		return MutedStyle.Render(last)
	}
	return MutedStyle.Render(first + strings.Repeat(" ", gap) + last)
}

// renderLegend lists the plotted metrics in their series colors.
func renderLegend(metrics []vitals.Metric) string {
	parts := make([]string, 0, len(metrics))
	for _, metric := range metrics {
		swatch := lipgloss.NewStyle().Foreground(SeriesColors[metric]).Render("━━")
		parts = append(parts, swatch+" "+LabelStyle.Render(metric.Label()))
	}
	return strings.Join(parts, "  ")
}
