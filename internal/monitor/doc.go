// Package monitor implements the real-time TUI dashboard for vital signs.
//
// The dashboard shows one card per display group (heart rate, blood oxygen,
// blood pressure, temperature) with the latest value, its configured range
// and a sparkline, plus a braille history chart of the visible series.
// Values outside their range are drawn in the alert color.
//
// # Architecture
//
// The package uses the Bubble Tea framework, which follows The Elm Architecture
// (Model-Update-View pattern):
//
//   - Model: Holds dashboard state (visibility, selection, ranges, editor)
//   - Update: Processes messages (keystrokes, readings, state changes)
//   - View: Renders the current state to a string for display
//
// # Message Flow
//
// The stream client runs on its own goroutine and never touches the model:
//
//  1. Feed.OnReading queues each reading on a buffered channel
//  2. waitForFeed() receives it and returns a readingMsg
//  3. Update appends the reading to the window and waits for the next one
//  4. View() re-renders the dashboard
//
// Connection state changes travel the same way as stateMsg. Quitting closes
// the feed, which unsubscribes from the client exactly once.
//
// # Keyboard Shortcuts
//
//	q, Ctrl+C   - Quit
//	1-4         - Toggle a card and its chart series
//	Tab, arrows - Select a card
//	e           - Edit the selected card's range (Tab cycles, Enter saves, Esc cancels)
//	R           - Reset ranges to defaults
//	c / p / x   - Export the window as CSV / PDF / XLSX
//	?           - Toggle help overlay
package monitor
