package monitor

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/vitals/internal/vitals"
)

// fieldEdit is one bound the user changed in the editor.
type fieldEdit struct {
	metric vitals.Metric
	bound  vitals.BoundKind
	input  string
}

type editorField struct {
	metric   vitals.Metric
	bound    vitals.BoundKind
	original string
	input    textinput.Model
}

// rangeEditor edits the bounds of one card. Each metric of the group gets a
// min and a max field.
type rangeEditor struct {
	group  vitals.Group
	fields []editorField
	focus  int
}

var (
	editorBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorAccent).
			Padding(0, 1)

	editorLabelStyle = lipgloss.NewStyle().
				Foreground(ColorTextSecondary).
				Width(18)

	editorFocusLabelStyle = editorLabelStyle.
				Foreground(ColorAccent).
				Bold(true)
)

func newRangeEditor(g vitals.Group, cfg vitals.RangeConfig) *rangeEditor {
	e := &rangeEditor{group: g}
	for _, m := range g.Metrics() {
		for _, kind := range []vitals.BoundKind{vitals.BoundMin, vitals.BoundMax} {
			original := vitals.FormatNumber(cfg[m].Get(kind))
			ti := textinput.New()
			ti.Prompt = ""
			ti.CharLimit = 16
			ti.Width = 10
			ti.SetValue(original)
			e.fields = append(e.fields, editorField{
				metric:   m,
				bound:    kind,
				original: original,
				input:    ti,
			})
		}
	}
	if len(e.fields) > 0 {
		e.fields[0].input.Focus()
	}
	return e
}

// next moves focus to the following field, wrapping around.
func (e *rangeEditor) next() {
	e.move(1)
}

// prev moves focus to the preceding field, wrapping around.
func (e *rangeEditor) prev() {
	e.move(-1)
}

func (e *rangeEditor) move(delta int) {
	if len(e.fields) == 0 {
		return
	}
	e.fields[e.focus].input.Blur()
	e.focus = (e.focus + delta + len(e.fields)) % len(e.fields)
	e.fields[e.focus].input.Focus()
}

// update forwards a message to the focused input.
func (e *rangeEditor) update(msg tea.Msg) tea.Cmd {
	if len(e.fields) == 0 {
		return nil
	}
	var cmd tea.Cmd
	e.fields[e.focus].input, cmd = e.fields[e.focus].input.Update(msg)
	return cmd
}

// edits returns the fields whose text differs from what was loaded.
func (e *rangeEditor) edits() []fieldEdit {
	var out []fieldEdit
	for _, f := range e.fields {
		if v := f.input.Value(); v != f.original {
			out = append(out, fieldEdit{metric: f.metric, bound: f.bound, input: v})
		}
	}
	return out
}

func (e *rangeEditor) view() string {
	var lines []string
	lines = append(lines, TitleStyle.Render("Editar rango: "+e.group.Label()))
	for i, f := range e.fields {
		label := f.metric.Label() + " " + string(f.bound)
		style := editorLabelStyle
		if i == e.focus {
			style = editorFocusLabelStyle
		}
		lines = append(lines, style.Render(label)+f.input.View())
	}
	lines = append(lines, MutedStyle.Render("tab siguiente | enter guardar | esc cancelar"))
	return editorBoxStyle.Render(strings.Join(lines, "\n"))
}
