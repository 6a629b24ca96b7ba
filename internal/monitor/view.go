package monitor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	vitalserrors "github.com/rileyhilliard/vitals/internal/errors"
	"github.com/rileyhilliard/vitals/internal/util"
	"github.com/rileyhilliard/vitals/internal/vitals"
)

// renderDashboard renders the complete dashboard view.
func (m Model) renderDashboard() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	b.WriteString(m.renderCards())

	if m.editor != nil {
		b.WriteString("\n")
		b.WriteString(m.editor.view())
	}

	if m.Layout() != LayoutMinimal {
		if chart := m.renderChart(m.chartWidth(), chartHeight); chart != "" {
			b.WriteString("\n")
			b.WriteString(chart)
		}
	}

	b.WriteString("\n")
	b.WriteString(m.renderStatusLine())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	return b.String()
}

// renderHeader renders the dashboard header with the source and sample count.
func (m Model) renderHeader() string {
	title := lipgloss.NewStyle().
		Foreground(ColorAccent).
		Bold(true).
		Render("vitals monitor")

	info := fmt.Sprintf(" | %d/%d muestras", m.window.Len(), m.window.Cap())
	if m.source != "" {
		info += " | " + m.source
	}
	if last, ok := m.window.Last(); ok {
		info += " | última " + last.Timestamp
	}
	stats := lipgloss.NewStyle().
		Foreground(ColorTextSecondary).
		Render(info)

	return HeaderStyle.Render(title + stats)
}

// renderCards renders the visible cards in rows.
func (m Model) renderCards() string {
	groups := m.visible.VisibleGroups()
	if len(groups) == 0 {
		return LabelStyle.Render("Todas las métricas están ocultas (1-4 para mostrar)")
	}

	var last vitals.Reading
	if s, ok := m.window.Last(); ok {
		last = s.Reading
	}

	cardWidth := m.calculateCardWidth(len(groups))
	cards := make([]string, 0, len(groups))
	for i, g := range groups {
		cards = append(cards, m.renderCard(g, last, cardWidth, i == m.selected))
	}

	return m.layoutCards(cards, cardWidth)
}

// calculateCardWidth fits the cards to the terminal width.
func (m Model) calculateCardWidth(count int) int {
	if m.width == 0 || count == 0 {
		return cardMaxWidth
	}

	perRow := count
	switch m.Layout() {
	case LayoutMinimal:
		perRow = 1
	case LayoutCompact:
		if perRow > 2 {
			perRow = 2
		}
	}

	// margin + border per card
	width := m.width/perRow - 3
	if width > cardMaxWidth {
		width = cardMaxWidth
	}
	if width < cardMinWidth {
		width = cardMinWidth
	}
	if m.Layout() == LayoutMinimal && m.width-4 < width {
		width = m.width - 4
	}
	return width
}

// layoutCards arranges cards in rows based on terminal width.
func (m Model) layoutCards(cards []string, cardWidth int) string {
	if len(cards) == 0 {
		return ""
	}

	cardsPerRow := len(cards)
	if m.width > 0 {
		effectiveCardWidth := cardWidth + 3
		cardsPerRow = m.width / effectiveCardWidth
		if cardsPerRow < 1 {
			cardsPerRow = 1
		}
	}

	var rows []string
	for i := 0; i < len(cards); i += cardsPerRow {
		end := i + cardsPerRow
		if end > len(cards) {
			end = len(cards)
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards[i:end]...))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// chartWidth spans the terminal, leaving room for the border.
func (m Model) chartWidth() int {
	if m.width == 0 {
		return 4 * (cardMaxWidth + 3)
	}
	return m.width - 2
}

// renderStatusLine shows the connection state and the last notice.
func (m Model) renderStatusLine() string {
	glyph, style := ConnectionIndicator(m.conn, m.spinnerFrame)
	parts := []string{style.Render(glyph + " " + ConnectionLabel(m.conn))}
	if m.connErr != nil {
		parts[0] += MutedStyle.Render(" (" + util.TruncateWithEllipsis(vitalserrors.Short(m.connErr), 60) + ")")
	}

	if m.notice.text != "" {
		if m.notice.isErr {
			parts = append(parts, StatusErrorStyle.Render("✗ "+m.notice.text))
		} else {
			parts = append(parts, StatusOKStyle.Render("✓ "+m.notice.text))
		}
	}

	return FooterStyle.Render(strings.Join(parts, MutedStyle.Render(" | ")))
}

// renderFooter renders the keyboard help footer.
func (m Model) renderFooter() string {
	hints := []string{
		"q salir",
		"1-4 mostrar/ocultar",
		"tab seleccionar",
		"e editar rango",
		"R restablecer",
		"c/p/x exportar",
		"? ayuda",
	}

	return FooterStyle.Render(strings.Join(hints, " | "))
}
