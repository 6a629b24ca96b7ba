package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// HeaderWidth is the default width of the header divider.
const HeaderWidth = 50

// HeaderInfo contains information to display in the header.
type HeaderInfo struct {
	Version string
	Tagline string

	// Details are label/value pairs shown under the tagline, in order.
	Details [][2]string
}

// RenderHeader renders the "vitals vX" banner with optional details.
func RenderHeader(info HeaderInfo) string {
	titleStyle := lipgloss.NewStyle().Foreground(ColorNeonPink).Bold(true)
	versionStyle := lipgloss.NewStyle().Foreground(ColorNeonCyan)

	var out strings.Builder
	out.WriteString(titleStyle.Render("vitals"))
	if info.Version != "" {
		out.WriteString(" " + versionStyle.Render(info.Version))
	}
	out.WriteString("\n")

	if info.Tagline != "" {
		out.WriteString(lipgloss.NewStyle().Foreground(ColorSecondary).Render(info.Tagline) + "\n")
	}

	labelWidth := 0
	for _, d := range info.Details {
		if w := lipgloss.Width(d[0]); w > labelWidth {
			labelWidth = w
		}
	}
	muted := MutedStyle()
	for _, d := range info.Details {
		out.WriteString(muted.Render(padRight(d[0], labelWidth)) + "  " + d[1] + "\n")
	}

	out.WriteString(FormatDivider(HeaderWidth) + "\n")
	return out.String()
}

// PrintHeader writes the header to w.
func PrintHeader(w io.Writer, info HeaderInfo) {
	fmt.Fprint(w, RenderHeader(info))
}
