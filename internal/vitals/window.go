package vitals

import (
	"sync"
	"time"
)

// DefaultWindowSize is the number of samples kept for charting and export.
const DefaultWindowSize = 20

// DefaultTimeLayout renders sample timestamps as a local wall-clock time.
const DefaultTimeLayout = "3:04:05 PM"

// Sample is a Reading annotated with the moment it arrived.
type Sample struct {
	Reading

	// Timestamp is the display label of Time.
	Timestamp string
	Time      time.Time
}

// Window is a bounded FIFO of samples. Appending past capacity evicts the
// oldest sample. It is safe for concurrent use.
type Window struct {
	mu     sync.RWMutex
	data   []Sample
	head   int
	count  int
	size   int
	layout string
	now    func() time.Time
}

// WindowOption configures a Window.
type WindowOption func(*Window)

// WithTimeLayout sets the layout used for sample timestamps.
func WithTimeLayout(layout string) WindowOption {
	return func(w *Window) {
		if layout != "" {
			w.layout = layout
		}
	}
}

// WithClock replaces the clock used to stamp samples.
func WithClock(now func() time.Time) WindowOption {
	return func(w *Window) {
		if now != nil {
			w.now = now
		}
	}
}

// NewWindow creates a window holding at most size samples.
func NewWindow(size int, opts ...WindowOption) *Window {
	if size <= 0 {
		size = DefaultWindowSize
	}
	w := &Window{
		data:   make([]Sample, size),
		size:   size,
		layout: DefaultTimeLayout,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Append stamps the reading with the current time and adds it as the newest
// sample, evicting the oldest one when the window is full.
func (w *Window) Append(r Reading) Sample {
	now := w.now()
	s := Sample{
		Reading:   r,
		Timestamp: now.Format(w.layout),
		Time:      now,
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.data[w.head] = s
	w.head = (w.head + 1) % w.size
	if w.count < w.size {
		w.count++
	}
	return s
}

// Samples returns the stored samples in arrival order (oldest first).
// The returned slice is a copy.
func (w *Window) Samples() []Sample {
	w.mu.RLock()
	defer w.mu.RUnlock()

	out := make([]Sample, w.count)
	// head points to the next write position, so the oldest sample sits
	// count positions behind it.
	start := (w.head - w.count + w.size) % w.size
	for i := 0; i < w.count; i++ {
		out[i] = w.data[(start+i)%w.size]
	}
	return out
}

// Last returns the newest sample.
func (w *Window) Last() (Sample, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.count == 0 {
		return Sample{}, false
	}
	return w.data[(w.head-1+w.size)%w.size], true
}

// Len returns the number of stored samples.
func (w *Window) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.count
}

// Cap returns the maximum number of samples.
func (w *Window) Cap() int {
	return w.size
}

// Series returns the values of one metric in arrival order. Samples where
// the metric is missing are skipped.
func (w *Window) Series(m Metric) []float64 {
	samples := w.Samples()
	out := make([]float64, 0, len(samples))
	for _, s := range samples {
		if v := s.Value(m); v != nil {
			out = append(out, *v)
		}
	}
	return out
}
