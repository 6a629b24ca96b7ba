package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// SpinnerState represents the current state of a spinner.
type SpinnerState int

const (
	SpinnerPending SpinnerState = iota
	SpinnerInProgress
	SpinnerSuccess
	SpinnerFailed
)

// Braille scan frames
var spinnerFrames = []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}

const spinnerInterval = 80 * time.Millisecond

// Spinner displays an animated status indicator with a label. The label can
// change while it spins, e.g. to show a running sample count.
type Spinner struct {
	mu           sync.Mutex
	w            io.Writer
	label        string
	state        SpinnerState
	frame        int
	startTime    time.Time
	stopChan     chan struct{}
	doneChan     chan struct{}
	running      bool
	lastRendered string
}

// NewSpinner creates a spinner writing to stderr.
func NewSpinner(label string) *Spinner {
	return &Spinner{label: label, w: os.Stderr}
}

// SetOutput redirects spinner output.
func (s *Spinner) SetOutput(w io.Writer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.w = w
}

// Start begins the spinner animation.
func (s *Spinner) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.state = SpinnerInProgress
	s.startTime = time.Now()
	s.stopChan = make(chan struct{})
	s.doneChan = make(chan struct{})
	s.mu.Unlock()

	s.render()
	go s.animate()
}

// Stop halts the animation without changing state.
func (s *Spinner) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stopChan)
	s.mu.Unlock()

	<-s.doneChan
}

// Success stops the spinner and prints the final label with a success mark.
func (s *Spinner) Success() { s.finish(SpinnerSuccess) }

// Fail stops the spinner and prints the final label with a failure mark.
func (s *Spinner) Fail() { s.finish(SpinnerFailed) }

func (s *Spinner) finish(state SpinnerState) {
	s.Stop()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state

	symbol, color := SymbolComplete, ColorSuccess
	if state == SpinnerFailed {
		symbol, color = SymbolFail, ColorError
	}
	s.clear()
	fmt.Fprintln(s.w, FormatPhase(symbol, color, s.label, formatDuration(time.Since(s.startTime))))
}

// State returns the current spinner state.
func (s *Spinner) State() SpinnerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Elapsed returns the time since the spinner started.
func (s *Spinner) Elapsed() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.startTime.IsZero() {
		return 0
	}
	return time.Since(s.startTime)
}

// Label returns the spinner's label.
func (s *Spinner) Label() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.label
}

// SetLabel updates the label; the next frame shows it.
func (s *Spinner) SetLabel(label string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.label = label
}

func (s *Spinner) animate() {
	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()
	defer close(s.doneChan)

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.mu.Lock()
			s.frame = (s.frame + 1) % len(spinnerFrames)
			s.mu.Unlock()
			s.render()
		}
	}
}

func (s *Spinner) render() {
	s.mu.Lock()
	defer s.mu.Unlock()

	style := lipgloss.NewStyle().Foreground(GradientColors[(s.frame/2)%len(GradientColors)])
	line := fmt.Sprintf("\r%s %s...", style.Render(spinnerFrames[s.frame]), s.label)

	s.clear()
	fmt.Fprint(s.w, line)
	s.lastRendered = line
}

// clear blanks the previously rendered frame. Callers hold mu.
func (s *Spinner) clear() {
	if s.lastRendered == "" {
		return
	}
	fmt.Fprint(s.w, "\r"+strings.Repeat(" ", lipgloss.Width(s.lastRendered))+"\r")
	s.lastRendered = ""
}
