package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// DividerWidth is the default width for divider lines.
const DividerWidth = 64

// PhaseDisplay renders the steps of a headless command (connect, collect,
// export) one line per step.
type PhaseDisplay struct {
	w       io.Writer
	pending bool // a progress line is waiting to be overwritten
}

// NewPhaseDisplay creates a new phase display writing to w.
func NewPhaseDisplay(w io.Writer) *PhaseDisplay {
	return &PhaseDisplay{w: w}
}

// RenderProgress renders a step in progress.
// Shows: ◆ Connecting...
func (pd *PhaseDisplay) RenderProgress(name string) {
	pd.clearLine()
	fmt.Fprintf(pd.w, "\r%s %s...", lipgloss.NewStyle().Foreground(ColorNeonPurple).Render(SymbolProgress), name)
	pd.pending = true
}

// RenderSuccess renders a completed step.
// Shows: ● Connected 0.3s
func (pd *PhaseDisplay) RenderSuccess(name string, duration time.Duration) {
	pd.clearLine()
	fmt.Fprintln(pd.w, FormatPhase(SymbolComplete, ColorSuccess, name, formatDuration(duration)))
}

// RenderFailed renders a failed step, with the error on an indented line.
func (pd *PhaseDisplay) RenderFailed(name string, duration time.Duration, err error) {
	pd.clearLine()
	fmt.Fprintln(pd.w, FormatPhase(SymbolFail, ColorError, name, formatDuration(duration)))
	if err != nil {
		fmt.Fprintf(pd.w, "  %s\n", ErrorStyle().Render(err.Error()))
	}
}

// RenderSkipped renders a skipped step.
// Shows: ⊖ Chart (fewer than 2 samples)
func (pd *PhaseDisplay) RenderSkipped(name, reason string) {
	pd.clearLine()
	if reason != "" {
		name += " " + MutedStyle().Render("("+reason+")")
	}
	fmt.Fprintln(pd.w, FormatPhase(SymbolSkipped, ColorWarning, name, ""))
}

// RenderDetail renders an indented line under the previous step.
// Shows:   ◇ ./signos_vitales.csv text/csv
func (pd *PhaseDisplay) RenderDetail(symbol, name, detail string) {
	pd.clearLine()
	muted := MutedStyle()
	fmt.Fprintf(pd.w, "  %s %s %s\n", muted.Render(symbol), name, muted.Render(detail))
}

// Divider renders a horizontal line.
func (pd *PhaseDisplay) Divider() {
	pd.clearLine()
	fmt.Fprintf(pd.w, "\n%s\n\n", FormatDivider(DividerWidth))
}

func (pd *PhaseDisplay) clearLine() {
	if !pd.pending {
		return
	}
	fmt.Fprint(pd.w, "\r"+strings.Repeat(" ", DividerWidth+16)+"\r")
	pd.pending = false
}

// FormatPhase returns a formatted step line.
func FormatPhase(symbol string, symbolColor lipgloss.Color, name string, timing string) string {
	symbolStyle := lipgloss.NewStyle().Foreground(symbolColor)
	if timing == "" {
		return fmt.Sprintf("%s %s", symbolStyle.Render(symbol), name)
	}
	return fmt.Sprintf("%s %s %s", symbolStyle.Render(symbol), name, MutedStyle().Render(timing))
}

// FormatDivider returns a divider line as a string.
func FormatDivider(width int) string {
	return lipgloss.NewStyle().Foreground(ColorGlassBorder).Render(strings.Repeat("━", width))
}

// formatDuration formats a duration for display (e.g., "0.3s", "1.2s").
func formatDuration(d time.Duration) string {
	secs := d.Seconds()
	if secs < 0.1 {
		return fmt.Sprintf("%.2fs", secs)
	}
	return fmt.Sprintf("%.1fs", secs)
}
