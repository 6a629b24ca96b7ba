package monitor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/vitals/internal/util"
	"github.com/rileyhilliard/vitals/internal/vitals"
)

// Card layout constants
const (
	cardGraphHeight = 2  // braille graph rows
	cardMinBarWidth = 10 // minimum graph width
	cardMinWidth    = 26
	cardMaxWidth    = 38
)

// LoadingText is shown on a card until its first complete value arrives.
const LoadingText = "Cargando..."

// cardDividerStyle creates a subtle divider line with matching background
var cardDividerStyle = lipgloss.NewStyle().
	Foreground(ColorBorder).
	Background(ColorSurfaceBg)

// renderCardDivider creates a subtle thin divider line
func renderCardDivider(width int) string {
	divider := strings.Repeat("─", width)
	return cardDividerStyle.Render(divider)
}

// renderCardLine renders a text line with proper background fill.
// Applies background to the entire line including content and padding.
func renderCardLine(content string, width int) string {
	contentWidth := lipgloss.Width(content)
	padding := ""
	if width > contentWidth {
		padding = strings.Repeat(" ", width-contentWidth)
	}
	lineStyle := lipgloss.NewStyle().Background(ColorSurfaceBg)
	return lineStyle.Render(content + padding)
}

// toggleKey returns the number key that toggles a group.
func toggleKey(g vitals.Group) string {
	for i, known := range vitals.Groups {
		if known == g {
			return fmt.Sprintf("%d", i+1)
		}
	}
	return "?"
}

// formatValue renders the current value of a group, or "" when loading.
func formatValue(g vitals.Group, r vitals.Reading) string {
	metrics := g.Metrics()
	parts := make([]string, 0, len(metrics))
	for _, m := range metrics {
		v := r.Value(m)
		if v == nil {
			return ""
		}
		parts = append(parts, vitals.FormatNumber(*v))
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, "/") + " " + metrics[0].Unit()
}

// formatBound renders a range as "min - max". NaN sides read "NaN".
func formatBound(b vitals.Bound) string {
	return vitals.FormatNumber(b.Min) + " - " + vitals.FormatNumber(b.Max)
}

// rangeLines describes the configured ranges of a group.
func rangeLines(g vitals.Group, cfg vitals.RangeConfig) []string {
	metrics := g.Metrics()
	if len(metrics) == 1 {
		return []string{"Rango: " + formatBound(cfg[metrics[0]])}
	}
	lines := make([]string, 0, len(metrics))
	for _, m := range metrics {
		lines = append(lines, m.Label()+": "+formatBound(cfg[m]))
	}
	return lines
}

// alertColorFunc colors values outside the bound in the critical color and
// the rest in the metric's series color.
func alertColorFunc(m vitals.Metric, b vitals.Bound) ColorFunc {
	base, ok := SeriesColors[m]
	if !ok {
		base = ColorGraph
	}
	return func(v float64) lipgloss.Color {
		if vitals.IsOutOfRange(&v, b) {
			return ColorCritical
		}
		return base
	}
}

// renderCard renders a single vital-sign card.
func (m Model) renderCard(g vitals.Group, last vitals.Reading, width int, selected bool) string {
	status := vitals.GroupStatus(g, last, m.ranges)

	style := CardStyle.Width(width)
	switch {
	case selected:
		style = CardSelectedStyle.Width(width)
	case status == vitals.StatusAlert:
		style = CardAlertStyle.Width(width)
	}

	// Inner width for content (account for card padding)
	innerWidth := width - 4

	var lines []string

	dot := lipgloss.NewStyle().Foreground(StatusColor(status)).Render("●")
	title := TitleStyle.Render(util.TruncateWithEllipsis(g.Label(), innerWidth-6))
	key := MutedStyle.Render("[" + toggleKey(g) + "]")
	lines = append(lines, renderCardLine(dot+" "+title+" "+key, innerWidth))
	lines = append(lines, renderCardDivider(innerWidth))

	switch status {
	case vitals.StatusLoading:
		lines = append(lines, renderCardLine(LoadingStyle.Render(LoadingText), innerWidth))
	case vitals.StatusAlert:
		lines = append(lines, renderCardLine(AlertValueStyle.Render(formatValue(g, last))+" "+StatusErrorStyle.Render("fuera de rango"), innerWidth))
	default:
		lines = append(lines, renderCardLine(ValueStyle.Render(formatValue(g, last)), innerWidth))
	}

	for _, line := range rangeLines(g, m.ranges) {
		lines = append(lines, renderCardLine(LabelStyle.Render(util.TruncateWithEllipsis(line, innerWidth)), innerWidth))
	}

	if graph := m.renderCardGraph(g, innerWidth); graph != "" {
		lines = append(lines, graph)
	}

	return style.Render(strings.Join(lines, "\n"))
}

// renderCardGraph draws the history of the group's first metric.
func (m Model) renderCardGraph(g vitals.Group, innerWidth int) string {
	metrics := g.Metrics()
	if len(metrics) == 0 || innerWidth < cardMinBarWidth {
		return ""
	}
	metric := metrics[0]
	data := m.window.Series(metric)
	if len(data) == 0 {
		return ""
	}
	colorFor := alertColorFunc(metric, m.ranges[metric])

	if m.Layout() == LayoutMinimal {
		return renderCardLine(RenderColoredMiniSparkline(data, innerWidth, colorFor), innerWidth)
	}
	graph := RenderBrailleSparkline(data, innerWidth, cardGraphHeight, colorFor)
	rows := strings.Split(graph, "\n")
	for i, row := range rows {
		rows[i] = renderCardLine(row, innerWidth)
	}
	return strings.Join(rows, "\n")
}
