package monitor

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rileyhilliard/vitals/internal/export"
	"github.com/rileyhilliard/vitals/internal/vitals"
)

// Key bindings as constants for consistency.
const (
	KeyQuit         = "q"
	KeyQuitAlt      = "ctrl+c"
	KeyToggle1      = "1"
	KeyToggle2      = "2"
	KeyToggle3      = "3"
	KeyToggle4      = "4"
	KeySelectNext   = "tab"
	KeySelectPrev   = "shift+tab"
	KeySelectRight  = "right"
	KeySelectLeft   = "left"
	KeySelectDown   = "down"
	KeySelectUp     = "up"
	KeyEdit         = "e"
	KeyReset        = "R"
	KeyExportCSV    = "c"
	KeyExportPDF    = "p"
	KeyExportXLSX   = "x"
	KeyCommit       = "enter"
	KeyCancel       = "esc"
	KeyToggleHelp   = "?"
	KeyEditNext     = "tab"
	KeyEditPrev     = "shift+tab"
	KeyEditNextDown = "down"
	KeyEditPrevUp   = "up"
)

// toggleKeys maps the number keys to display groups in toggle order.
var toggleKeys = map[string]vitals.Group{
	KeyToggle1: vitals.GroupRitmoCardiaco,
	KeyToggle2: vitals.GroupOxigeno,
	KeyToggle3: vitals.GroupPresion,
	KeyToggle4: vitals.GroupTemperatura,
}

// exportKeys maps export shortcuts to formats.
var exportKeys = map[string]export.Format{
	KeyExportCSV:  export.FormatCSV,
	KeyExportPDF:  export.FormatPDF,
	KeyExportXLSX: export.FormatXLSX,
}

// HandleKeyMsg processes keyboard input and returns updated model state and command.
// Returns true if the key was handled, false otherwise.
func (m *Model) HandleKeyMsg(msg tea.KeyMsg) (bool, tea.Cmd) {
	key := msg.String()

	if key == KeyQuitAlt {
		return true, m.quit()
	}

	// The open editor owns the keyboard
	if m.editor != nil {
		return m.handleEditorKey(msg)
	}

	// Help toggle takes priority
	if key == KeyToggleHelp {
		m.showHelp = !m.showHelp
		return true, nil
	}

	// If help is showing, Esc closes it
	if m.showHelp && key == KeyCancel {
		m.showHelp = false
		return true, nil
	}

	if g, ok := toggleKeys[key]; ok {
		m.visible.Toggle(g)
		m.clampSelection()
		return true, nil
	}

	if f, ok := exportKeys[key]; ok {
		m.notice = notice{text: "Exportando " + string(f) + "..."}
		return true, m.exportCmd(f)
	}

	switch key {
	case KeyQuit:
		return true, m.quit()

	case KeySelectNext, KeySelectRight, KeySelectDown:
		m.moveSelection(1)
		return true, nil

	case KeySelectPrev, KeySelectLeft, KeySelectUp:
		m.moveSelection(-1)
		return true, nil

	case KeyEdit:
		g, ok := m.selectedGroup()
		if !ok {
			return true, nil
		}
		m.editor = newRangeEditor(g, m.ranges)
		return true, nil

	case KeyReset:
		return true, m.resetCmd()
	}

	return false, nil
}

// handleEditorKey routes a key to the open range editor.
func (m *Model) handleEditorKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch msg.String() {
	case KeyCancel:
		m.editor = nil
		return true, nil

	case KeyCommit:
		edits := m.editor.edits()
		m.editor = nil
		return true, m.saveCmd(edits)

	case KeyEditNext, KeyEditNextDown:
		m.editor.next()
		return true, nil

	case KeyEditPrev, KeyEditPrevUp:
		m.editor.prev()
		return true, nil
	}

	return true, m.editor.update(msg)
}

// moveSelection moves the card selection, wrapping around the visible cards.
func (m *Model) moveSelection(delta int) {
	n := len(m.visible.VisibleGroups())
	if n == 0 {
		return
	}
	m.selected = (m.selected + delta + n) % n
}
