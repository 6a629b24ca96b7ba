package monitor

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/vitals/internal/stream"
	"github.com/rileyhilliard/vitals/internal/vitals"
)

// Dashboard color palette - Gen Z Electric Synthwave
const (
	// Background colors (glassmorphism-inspired)
	ColorDarkBg    = lipgloss.Color("#0A0A0F") // Deep void
	ColorSurfaceBg = lipgloss.Color("#12121A") // Dark surface
	ColorBorder    = lipgloss.Color("#2A2A4A") // Glass border (purple tint)

	// Semantic colors - neon style
	ColorHealthy  = lipgloss.Color("#39FF14") // Neon green
	ColorWarning  = lipgloss.Color("#FFAA00") // Electric amber
	ColorCritical = lipgloss.Color("#FF0055") // Hot red-pink

	// Text colors
	ColorTextPrimary   = lipgloss.Color("#FFFFFF") // Pure white
	ColorTextSecondary = lipgloss.Color("#B4B4D0") // Lavender gray
	ColorTextMuted     = lipgloss.Color("#6B6B8D") // Purple-gray

	// Accent colors - neon pink primary, purple secondary
	ColorAccent    = lipgloss.Color("#FF2E97") // Neon pink
	ColorAccentDim = lipgloss.Color("#BF40FF") // Neon purple

	// Graph colors
	ColorGraph = lipgloss.Color("#00FFFF") // Neon cyan
)

// SeriesColors gives each metric a stable color across cards, chart legend
// and sparklines.
var SeriesColors = map[vitals.Metric]lipgloss.Color{
	vitals.MetricBPM:         lipgloss.Color("#FF0055"),
	vitals.MetricO2InBlood:   lipgloss.Color("#00AAFF"),
	vitals.MetricSistolica:   lipgloss.Color("#FFAA00"),
	vitals.MetricDiastolica:  lipgloss.Color("#B4B4D0"),
	vitals.MetricTemperature: lipgloss.Color("#39FF14"),
}

// Base styles for the dashboard
var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Background(ColorSurfaceBg).
			Bold(true).
			Padding(0, 1)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Padding(0, 1)

	// Card styles - no background set here, each line handles its own
	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1).
			MarginRight(1).
			MarginBottom(1)

	CardSelectedStyle = CardStyle.
				BorderForeground(ColorAccent)

	CardAlertStyle = CardStyle.
			BorderForeground(ColorCritical)

	ChartStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	// Text styles
	TitleStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Bold(true)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	ValueStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Bold(true)

	AlertValueStyle = lipgloss.NewStyle().
			Foreground(ColorCritical).
			Bold(true)

	LoadingStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Italic(true)

	// Status line styles
	StatusOKStyle = lipgloss.NewStyle().
			Foreground(ColorHealthy)

	StatusWarnStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	StatusErrorStyle = lipgloss.NewStyle().
				Foreground(ColorCritical)
)

// Connection indicator characters - cyber glyphs
const (
	IndicatorConnecting   = "◐"
	IndicatorConnected    = "◉"
	IndicatorDisconnected = "◌"
	IndicatorIdle         = "○"
)

// ConnectingSpinnerFrames are the animation frames for the connecting state.
var ConnectingSpinnerFrames = []string{"◐", "◓", "◑", "◒"}

// SpinnerColorFrames defines the color cycling for the connecting spinner.
var SpinnerColorFrames = []lipgloss.Color{
	lipgloss.Color("#FFAA00"), // Electric amber
	lipgloss.Color("#FF8800"), // Orange
	lipgloss.Color("#FFCC00"), // Gold
	lipgloss.Color("#FFAA00"), // Electric amber
	lipgloss.Color("#FF9900"), // Amber-orange
	lipgloss.Color("#FFBB00"), // Yellow-amber
	lipgloss.Color("#FFAA00"), // Electric amber
	lipgloss.Color("#FF7700"), // Deep amber
}

// GetSpinnerColor returns the color for the current spinner frame index.
func GetSpinnerColor(frameIndex int) lipgloss.Color {
	return SpinnerColorFrames[frameIndex%len(SpinnerColorFrames)]
}

// StatusColor returns the card color for an evaluated status.
func StatusColor(s vitals.Status) lipgloss.Color {
	switch s {
	case vitals.StatusAlert:
		return ColorCritical
	case vitals.StatusNormal:
		return ColorHealthy
	default:
		return ColorTextMuted
	}
}

// ConnectionIndicator returns the glyph and style for a stream state. The
// frame index animates the transitional states.
func ConnectionIndicator(s stream.State, frame int) (string, lipgloss.Style) {
	switch s {
	case stream.StateConnected:
		return IndicatorConnected, StatusOKStyle
	case stream.StateConnecting, stream.StateReconnecting:
		char := ConnectingSpinnerFrames[frame%len(ConnectingSpinnerFrames)]
		return char, lipgloss.NewStyle().Foreground(GetSpinnerColor(frame))
	case stream.StateDisconnected:
		return IndicatorDisconnected, StatusErrorStyle
	default:
		return IndicatorIdle, MutedStyle
	}
}

// ConnectionLabel returns the status-line text for a stream state.
func ConnectionLabel(s stream.State) string {
	switch s {
	case stream.StateConnecting:
		return "conectando"
	case stream.StateConnected:
		return "conectado"
	case stream.StateReconnecting:
		return "reconectando"
	case stream.StateDisconnected:
		return "desconectado"
	default:
		return "inactivo"
	}
}
