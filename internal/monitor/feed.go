package monitor

import (
	"sync"

	"github.com/rileyhilliard/vitals/internal/stream"
	"github.com/rileyhilliard/vitals/internal/vitals"
)

// DefaultFeedBuffer is how many readings may queue between the stream
// goroutine and the UI loop.
const DefaultFeedBuffer = 64

// Subscriber is the part of a stream client the dashboard depends on.
type Subscriber interface {
	Subscribe(h stream.Handler) func()
}

type stateChange struct {
	state stream.State
	err   error
}

// Feed carries readings and connection state from the stream goroutine into
// the Bubble Tea update loop. Close unsubscribes exactly once.
type Feed struct {
	readings chan vitals.Reading
	states   chan stateChange
	done     chan struct{}

	unsubscribe func()
	closeOnce   sync.Once
}

// NewFeed creates an unattached feed. Pass OnState to the stream client as
// its state handler, then Attach the client.
func NewFeed(buffer int) *Feed {
	if buffer <= 0 {
		buffer = DefaultFeedBuffer
	}
	return &Feed{
		readings: make(chan vitals.Reading, buffer),
		states:   make(chan stateChange, 16),
		done:     make(chan struct{}),
	}
}

// Attach subscribes the feed to a reading source.
func (f *Feed) Attach(s Subscriber) {
	f.unsubscribe = s.Subscribe(f.OnReading)
}

// OnReading queues a reading for the UI. It blocks while the buffer is full
// and returns without delivering once the feed is closed.
func (f *Feed) OnReading(r vitals.Reading) {
	select {
	case <-f.done:
		return
	default:
	}
	select {
	case f.readings <- r:
	case <-f.done:
	}
}

// OnState queues a connection state change without blocking. When the UI
// falls behind, the oldest queued change is dropped so the latest one wins.
func (f *Feed) OnState(s stream.State, err error) {
	change := stateChange{state: s, err: err}
	for {
		select {
		case <-f.done:
			return
		case f.states <- change:
			return
		default:
		}
		select {
		case <-f.states:
		default:
		}
	}
}

// Close detaches the feed from its source and releases any blocked sender.
func (f *Feed) Close() {
	f.closeOnce.Do(func() {
		if f.unsubscribe != nil {
			f.unsubscribe()
		}
		close(f.done)
	})
}

// Done is closed once the feed is closed.
func (f *Feed) Done() <-chan struct{} {
	return f.done
}
