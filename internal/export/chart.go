package export

import (
	"io"
	"math"

	"github.com/rileyhilliard/vitals/internal/vitals"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// SeriesColors are the hex colors used for each metric's line.
var SeriesColors = map[vitals.Metric]string{
	vitals.MetricBPM:         "ff7300",
	vitals.MetricO2InBlood:   "007bff",
	vitals.MetricSistolica:   "ff0000",
	vitals.MetricDiastolica:  "00ff00",
	vitals.MetricTemperature: "6a0dad",
}

func lineStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: 3,
		StrokeColor: col,
		DotWidth:    4,
		DotColor:    col,
	}
}

// RenderChart draws every metric with at least two values as a line over
// sample index and writes a PNG to w. It reports false, writing nothing,
// when no metric has enough data to draw.
func RenderChart(w io.Writer, samples []vitals.Sample, width, height int) (bool, error) {
	var series []chart.Series
	lo, hi := math.Inf(1), math.Inf(-1)

	for _, m := range vitals.Metrics {
		var xs, ys []float64
		for i, s := range samples {
			v := s.Value(m)
			if v == nil {
				continue
			}
			xs = append(xs, float64(i+1))
			ys = append(ys, *v)
			lo = math.Min(lo, *v)
			hi = math.Max(hi, *v)
		}
		if len(xs) < 2 {
			continue
		}
		series = append(series, chart.ContinuousSeries{
			Name:    m.Label(),
			XValues: xs,
			YValues: ys,
			Style:   lineStyle(drawing.ColorFromHex(SeriesColors[m])),
		})
	}
	if len(series) == 0 {
		return false, nil
	}

	if hi-lo < 1 {
		lo, hi = lo-1, hi+1
	}

	ticks := make([]chart.Tick, 0, len(samples))
	for i, s := range samples {
		ticks = append(ticks, chart.Tick{Value: float64(i + 1), Label: s.Timestamp})
	}

	ch := chart.Chart{
		Title:      pdfTitle,
		Width:      width,
		Height:     height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 60}},
		XAxis: chart.XAxis{
			Ticks: ticks,
			TickStyle: chart.Style{
				TextRotationDegrees: 45,
			},
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: math.Floor(lo - 5), Max: math.Ceil(hi + 5)},
		},
		Series: series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	if err := ch.Render(chart.PNG, w); err != nil {
		return false, err
	}
	return true, nil
}
