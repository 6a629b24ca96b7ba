package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// TableColumn defines a table column with name and width.
type TableColumn struct {
	Title string
	Width int
}

// NewTable creates a non-focused Bubbles table with the CLI palette.
func NewTable(columns []TableColumn, rows []table.Row) table.Model {
	cols := make([]table.Column, len(columns))
	for i, c := range columns {
		cols[i] = table.Column{Title: c.Title, Width: c.Width}
	}

	t := table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithFocused(false),
		table.WithHeight(len(rows)+1), // +1 for header
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ColorGlassBorder).
		BorderBottom(true).
		Bold(true).
		Foreground(ColorNeonPink)
	s.Cell = s.Cell.Foreground(ColorPrimary)
	// Nothing is selectable in CLI output
	s.Selected = s.Cell

	t.SetStyles(s)
	return t
}

// RenderSimpleTable renders a non-interactive table string.
func RenderSimpleTable(columns []TableColumn, rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	tableRows := make([]table.Row, len(rows))
	for i, row := range rows {
		tableRows[i] = table.Row(row)
	}
	return NewTable(columns, tableRows).View()
}

// RangeRow is one metric line of the range table.
type RangeRow struct {
	Metric string
	Min    string
	Max    string
	Unit   string
}

// RenderRangesTable renders the alert ranges, one metric per row.
func RenderRangesTable(rows []RangeRow) string {
	if len(rows) == 0 {
		return "No ranges configured"
	}

	metricWidth := len("Metric")
	for _, r := range rows {
		if w := lipgloss.Width(r.Metric); w > metricWidth {
			metricWidth = w
		}
	}

	columns := []TableColumn{
		{Title: "Metric", Width: metricWidth + 2},
		{Title: "Min", Width: 8},
		{Title: "Max", Width: 8},
		{Title: "Unit", Width: 6},
	}
	cells := make([][]string, len(rows))
	for i, r := range rows {
		cells[i] = []string{r.Metric, r.Min, r.Max, r.Unit}
	}
	return RenderSimpleTable(columns, cells)
}

// DoctorCheckRow represents a row in the doctor diagnostic table.
type DoctorCheckRow struct {
	Status     string // "pass", "warn", "fail"
	Category   string
	Message    string
	Suggestion string
}

// RenderDoctorTable renders doctor check results grouped by category, in
// the order categories first appear.
func RenderDoctorTable(rows []DoctorCheckRow) string {
	if len(rows) == 0 {
		return "No checks to display"
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(ColorNeonPink)
	muted := MutedStyle()

	categories := make(map[string][]DoctorCheckRow)
	var order []string
	for _, row := range rows {
		if _, exists := categories[row.Category]; !exists {
			order = append(order, row.Category)
		}
		categories[row.Category] = append(categories[row.Category], row)
	}

	var sb strings.Builder
	for _, cat := range order {
		sb.WriteString(headerStyle.Render(cat) + "\n")

		for _, row := range categories[cat] {
			sb.WriteString("  " + statusIcon(row.Status) + " " + row.Message + "\n")
			if row.Suggestion != "" && row.Status != "pass" {
				sb.WriteString("    " + muted.Render(row.Suggestion) + "\n")
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func statusIcon(status string) string {
	switch status {
	case "pass":
		return SuccessStyle().Render(SymbolSuccess)
	case "warn":
		return WarningStyle().Render(SymbolWarning)
	case "fail":
		return ErrorStyle().Render(SymbolFail)
	default:
		return MutedStyle().Render(SymbolPending)
	}
}

// padRight pads s with spaces to width visible cells.
func padRight(s string, width int) string {
	visible := lipgloss.Width(s)
	if visible >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visible)
}
