package monitor

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	vitalserrors "github.com/rileyhilliard/vitals/internal/errors"
	"github.com/rileyhilliard/vitals/internal/export"
	"github.com/rileyhilliard/vitals/internal/logger"
	"github.com/rileyhilliard/vitals/internal/stream"
	"github.com/rileyhilliard/vitals/internal/vitals"
)

// LayoutMode represents the responsive layout mode based on terminal size.
type LayoutMode int

const (
	// LayoutMinimal is for terminals < 80 columns: single column, mini sparklines, no chart
	LayoutMinimal LayoutMode = iota
	// LayoutCompact is for terminals 80-120 columns: two cards per row
	LayoutCompact
	// LayoutStandard is for terminals 120+ columns: all cards in one row
	LayoutStandard
)

// Width breakpoints for layout modes
const (
	BreakpointCompact  = 80
	BreakpointStandard = 120
)

// storeTimeout bounds a single range store write.
const storeTimeout = 5 * time.Second

// spinnerInterval is the animation frame rate for the connection spinner
const spinnerInterval = 150 * time.Millisecond

// RangeStore is the part of the range store the dashboard edits through.
type RangeStore interface {
	Current() vitals.RangeConfig
	SetField(ctx context.Context, metric, bound, input string) (vitals.RangeConfig, error)
	Reset(ctx context.Context) (vitals.RangeConfig, error)
}

// Options wires a dashboard to its collaborators.
type Options struct {
	Window *vitals.Window
	Store  RangeStore
	Feed   *Feed

	// Source names the stream endpoint in the header.
	Source    string
	ExportDir string
	PDFChart  bool
	Logger    logger.Logger
}

// Model is the Bubble Tea model for the vitals dashboard.
type Model struct {
	window    *vitals.Window
	store     RangeStore
	feed      *Feed
	source    string
	exportDir string
	pdfChart  bool
	log       logger.Logger

	ranges   vitals.RangeConfig
	visible  vitals.Visibility
	selected int

	conn    stream.State
	connErr error
	notice  notice

	editor   *rangeEditor
	width    int
	height   int
	showHelp bool
	quitting bool

	lastUpdate   time.Time
	spinnerFrame int
}

// notice is the transient message shown on the status line.
type notice struct {
	text  string
	isErr bool
}

// readingMsg carries one reading from the stream.
type readingMsg struct {
	reading vitals.Reading
}

// stateMsg carries a connection state change.
type stateMsg struct {
	state stream.State
	err   error
}

// feedClosedMsg signals the feed will deliver nothing more.
type feedClosedMsg struct{}

// spinnerTickMsg signals a spinner animation frame update.
type spinnerTickMsg time.Time

// exportDoneMsg reports the outcome of an export.
type exportDoneMsg struct {
	format export.Format
	path   string
	err    error
}

// rangesSavedMsg reports the outcome of a range edit or reset.
type rangesSavedMsg struct {
	ranges vitals.RangeConfig
	reset  bool
	err    error
}

// NewModel creates a dashboard model. Every group starts visible and the
// ranges start from the store's current config.
func NewModel(opts Options) Model {
	log := opts.Logger
	if log == nil {
		log = logger.Noop()
	}
	window := opts.Window
	if window == nil {
		window = vitals.NewWindow(vitals.DefaultWindowSize)
	}
	exportDir := opts.ExportDir
	if exportDir == "" {
		exportDir = "."
	}

	m := Model{
		window:    window,
		store:     opts.Store,
		feed:      opts.Feed,
		source:    opts.Source,
		exportDir: exportDir,
		pdfChart:  opts.PDFChart,
		log:       log,
		visible:   vitals.NewVisibility(),
		conn:      stream.StateIdle,
	}
	if m.store != nil {
		m.ranges = m.store.Current()
	} else {
		m.ranges = vitals.DefaultRanges()
	}
	return m
}

// Init starts listening to the feed and the spinner animation.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.waitForFeed(),
		m.spinnerTickCmd(),
	)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		handled, cmd := m.HandleKeyMsg(msg)
		if handled {
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case readingMsg:
		m.window.Append(msg.reading)
		m.lastUpdate = time.Now()
		return m, m.waitForFeed()

	case stateMsg:
		m.conn = msg.state
		m.connErr = msg.err
		return m, m.waitForFeed()

	case feedClosedMsg:
		return m, nil

	case spinnerTickMsg:
		m.spinnerFrame = (m.spinnerFrame + 1) % 10000
		return m, m.spinnerTickCmd()

	case exportDoneMsg:
		if msg.err != nil {
			m.log.Warn("export %s failed: %v", msg.format, msg.err)
			m.notice = notice{text: "Error al exportar " + string(msg.format) + ": " + vitalserrors.Short(msg.err), isErr: true}
		} else {
			m.log.Info("exported %s to %s", msg.format, msg.path)
			m.notice = notice{text: "Exportado: " + msg.path}
		}

	case rangesSavedMsg:
		if msg.err != nil {
			m.log.Warn("saving ranges failed: %v", msg.err)
			m.notice = notice{text: "Error al guardar rangos: " + vitalserrors.Short(msg.err), isErr: true}
			if msg.ranges != nil {
				m.ranges = msg.ranges
			}
			return m, nil
		}
		m.ranges = msg.ranges
		if msg.reset {
			m.notice = notice{text: "Rangos restablecidos"}
		} else {
			m.notice = notice{text: "Rangos guardados"}
		}
	}

	if m.editor != nil {
		return m, m.editor.update(msg)
	}
	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	base := m.renderDashboard()
	if m.showHelp {
		return m.renderHelpOverlay(base)
	}
	return base
}

// Ranges returns the range config the cards are evaluated against.
func (m Model) Ranges() vitals.RangeConfig {
	return m.ranges
}

// Visibility returns the current group visibility.
func (m Model) Visibility() vitals.Visibility {
	return m.visible
}

// Layout returns the layout mode for the current terminal width.
func (m Model) Layout() LayoutMode {
	switch {
	case m.width >= BreakpointStandard:
		return LayoutStandard
	case m.width >= BreakpointCompact:
		return LayoutCompact
	case m.width == 0:
		return LayoutStandard
	default:
		return LayoutMinimal
	}
}

// quit tears the subscription down and stops the program.
func (m *Model) quit() tea.Cmd {
	m.quitting = true
	if m.feed != nil {
		m.feed.Close()
	}
	return tea.Quit
}

// waitForFeed returns a command that blocks for the next feed event.
func (m Model) waitForFeed() tea.Cmd {
	feed := m.feed
	if feed == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case r := <-feed.readings:
			return readingMsg{reading: r}
		case s := <-feed.states:
			return stateMsg{state: s.state, err: s.err}
		case <-feed.done:
			return feedClosedMsg{}
		}
	}
}

// spinnerTickCmd returns a command that sends a spinner tick for animation.
func (m Model) spinnerTickCmd() tea.Cmd {
	return tea.Tick(spinnerInterval, func(t time.Time) tea.Msg {
		return spinnerTickMsg(t)
	})
}

// exportCmd writes the current window in the given format.
func (m Model) exportCmd(f export.Format) tea.Cmd {
	samples := m.window.Samples()
	dir := m.exportDir
	chart := m.pdfChart
	return func() tea.Msg {
		path, err := export.Export(f, samples, dir, export.WithChart(chart))
		return exportDoneMsg{format: f, path: path, err: err}
	}
}

// resetCmd restores the default ranges.
func (m Model) resetCmd() tea.Cmd {
	store := m.store
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		cfg, err := store.Reset(ctx)
		return rangesSavedMsg{ranges: cfg, reset: true, err: err}
	}
}

// saveCmd applies edited fields one at a time, in field order. The first
// failure stops the batch; fields already written stay written.
func (m Model) saveCmd(edits []fieldEdit) tea.Cmd {
	store := m.store
	if store == nil || len(edits) == 0 {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		var (
			cfg vitals.RangeConfig
			err error
		)
		for _, e := range edits {
			cfg, err = store.SetField(ctx, string(e.metric), string(e.bound), e.input)
			if err != nil {
				return rangesSavedMsg{ranges: store.Current(), err: err}
			}
		}
		return rangesSavedMsg{ranges: cfg}
	}
}

// selectedGroup returns the group of the selected card.
func (m Model) selectedGroup() (vitals.Group, bool) {
	groups := m.visible.VisibleGroups()
	if len(groups) == 0 {
		return "", false
	}
	return groups[clampInt(m.selected, len(groups)-1)], true
}

// clampSelection keeps the selection on a visible card.
func (m *Model) clampSelection() {
	n := len(m.visible.VisibleGroups())
	if n == 0 {
		m.selected = 0
		return
	}
	m.selected = clampInt(m.selected, n-1)
}
