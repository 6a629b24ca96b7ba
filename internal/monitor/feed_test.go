package monitor

import (
	"errors"
	"testing"
	"time"

	"github.com/rileyhilliard/vitals/internal/stream"
	"github.com/rileyhilliard/vitals/internal/vitals"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeed_DeliversInOrder(t *testing.T) {
	sub := &countingSubscriber{}
	feed := NewFeed(8)
	feed.Attach(sub)
	require.Len(t, sub.handlers, 1)

	for _, v := range []float64{1, 2, 3} {
		sub.handlers[0](vitals.Reading{BPM: vitals.Float(v)})
	}

	for _, want := range []float64{1, 2, 3} {
		r := <-feed.readings
		assert.Equal(t, want, *r.BPM)
	}
}

func TestFeed_DefaultBuffer(t *testing.T) {
	feed := NewFeed(0)
	assert.Equal(t, DefaultFeedBuffer, cap(feed.readings))
}

func TestFeed_CloseReleasesBlockedSender(t *testing.T) {
	feed := NewFeed(1)
	feed.OnReading(vitals.Reading{})

	done := make(chan struct{})
	go func() {
		feed.OnReading(vitals.Reading{})
		close(done)
	}()

	feed.Close()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("OnReading still blocked after Close")
	}
}

func TestFeed_OnReadingAfterClose(t *testing.T) {
	feed := NewFeed(1)
	feed.Close()

	feed.OnReading(vitals.Reading{BPM: vitals.Float(1)})
	assert.Empty(t, feed.readings)
}

func TestFeed_CloseIsIdempotent(t *testing.T) {
	sub := &countingSubscriber{}
	feed := NewFeed(1)
	feed.Attach(sub)

	feed.Close()
	feed.Close()

	assert.Equal(t, 1, sub.unsubscribed)
	select {
	case <-feed.Done():
	default:
		t.Fatal("Done not closed")
	}
}

func TestFeed_OnStateKeepsLatest(t *testing.T) {
	feed := NewFeed(1)
	cause := errors.New("boom")

	// Far more changes than the queue holds; none of them may block
	for i := 0; i < 40; i++ {
		feed.OnState(stream.StateReconnecting, nil)
	}
	feed.OnState(stream.StateDisconnected, cause)

	var last stateChange
	for len(feed.states) > 0 {
		last = <-feed.states
	}
	assert.Equal(t, stream.StateDisconnected, last.state)
	assert.Equal(t, cause, last.err)
}
