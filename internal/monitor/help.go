package monitor

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// HelpBinding represents a single keyboard shortcut entry.
type HelpBinding struct {
	Key  string
	Desc string
}

// helpBindings defines all keyboard shortcuts shown in the help overlay.
var helpBindings = []HelpBinding{
	{Key: "q / Ctrl+C", Desc: "Salir"},
	{Key: "1 2 3 4", Desc: "Mostrar u ocultar tarjeta"},
	{Key: "tab / flechas", Desc: "Seleccionar tarjeta"},
	{Key: "e", Desc: "Editar rango de la tarjeta"},
	{Key: "R", Desc: "Restablecer rangos"},
	{Key: "c", Desc: "Exportar CSV"},
	{Key: "p", Desc: "Exportar PDF"},
	{Key: "x", Desc: "Exportar XLSX"},
	{Key: "Esc", Desc: "Cerrar / cancelar"},
	{Key: "?", Desc: "Mostrar esta ayuda"},
}

// Help overlay styles
var (
	helpBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorAccent).
			Background(ColorSurfaceBg).
			Padding(1, 2)

	helpTitleStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true).
			MarginBottom(1)

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Bold(true).
			Width(16)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary)
)

// renderHelpOverlay renders a centered help box with keyboard shortcuts.
func (m Model) renderHelpOverlay(_ string) string {
	var lines []string
	lines = append(lines, helpTitleStyle.Render("Atajos de teclado"))
	lines = append(lines, "")

	for _, binding := range helpBindings {
		line := helpKeyStyle.Render(binding.Key) + helpDescStyle.Render(binding.Desc)
		lines = append(lines, line)
	}

	lines = append(lines, "")
	lines = append(lines, LabelStyle.Render("Pulsa ? para cerrar"))

	helpBox := helpBoxStyle.Render(strings.Join(lines, "\n"))

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		helpBox,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(ColorDarkBg),
	)
}
