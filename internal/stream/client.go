// Package stream receives vital-sign readings pushed by a remote source.
//
// A Client owns one Transport, keeps it connected with bounded retries and
// fans decoded readings out to subscribers in arrival order. Transports only
// surface named events; decoding and filtering happen in the Client.
package stream

import (
	"context"
	"fmt"
	"sync"
	"time"

	vitalserrors "github.com/rileyhilliard/vitals/internal/errors"
	"github.com/rileyhilliard/vitals/internal/logger"
	"github.com/rileyhilliard/vitals/internal/vitals"
)

// DefaultEvent is the event name that carries readings.
const DefaultEvent = "newData"

// Event is one named message surfaced by a transport.
type Event struct {
	Name    string
	Payload []byte
}

// Conn is an established transport connection.
type Conn interface {
	// Next blocks until an event arrives, the connection fails or ctx ends.
	Next(ctx context.Context) (Event, error)
	Close() error
}

// Transport opens connections to the reading source.
type Transport interface {
	Dial(ctx context.Context) (Conn, error)
	String() string
}

// Handler receives each decoded reading.
type Handler func(vitals.Reading)

// State describes the connection lifecycle.
type State int

const (
	StateIdle State = iota
	StateConnecting
	StateConnected
	StateReconnecting
	StateDisconnected
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateReconnecting:
		return "reconnecting"
	case StateDisconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}

type subscription struct {
	id      uint64
	handler Handler
}

// Client keeps a transport connected and delivers readings to subscribers.
type Client struct {
	transport Transport
	event     string
	attempts  int
	timeout   time.Duration
	delay     time.Duration
	maxDelay  time.Duration
	log       logger.Logger
	onState   func(State, error)

	mu     sync.RWMutex
	subs   []subscription
	nextID uint64
	state  State
}

// Option configures a Client.
type Option func(*Client)

// WithEvent sets the event name readings arrive under.
func WithEvent(name string) Option {
	return func(c *Client) {
		if name != "" {
			c.event = name
		}
	}
}

// WithReconnect sets how many consecutive reconnects are tried after a
// failure and the backoff, which doubles from delay up to maxDelay.
func WithReconnect(attempts int, delay, maxDelay time.Duration) Option {
	return func(c *Client) {
		c.attempts = attempts
		c.delay = delay
		c.maxDelay = maxDelay
	}
}

// WithTimeout bounds each connection attempt.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger sets the client logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

// WithStateHandler registers a callback for connection state changes. It
// runs on the client goroutine and must not block.
func WithStateHandler(fn func(State, error)) Option {
	return func(c *Client) {
		c.onState = fn
	}
}

// NewClient creates a client for the given transport.
func NewClient(t Transport, opts ...Option) *Client {
	c := &Client{
		transport: t,
		event:     DefaultEvent,
		attempts:  5,
		timeout:   5 * time.Second,
		delay:     time.Second,
		maxDelay:  5 * time.Second,
		log:       logger.Noop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Subscribe registers a handler and returns a function that removes it.
// The returned function is safe to call more than once.
func (c *Client) Subscribe(h Handler) func() {
	c.mu.Lock()
	c.nextID++
	id := c.nextID
	c.subs = append(c.subs, subscription{id: id, handler: h})
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			for i, s := range c.subs {
				if s.id == id {
					c.subs = append(c.subs[:i:i], c.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// Subscribers returns the number of registered handlers.
func (c *Client) Subscribers() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.subs)
}

// Source describes the transport target, e.g. the endpoint URL.
func (c *Client) Source() string {
	return c.transport.String()
}

// State returns the current connection state.
func (c *Client) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Run connects and delivers readings until ctx is cancelled or reconnect
// attempts run out. A successful connection resets the attempt count.
// Cancellation returns nil.
func (c *Client) Run(ctx context.Context) error {
	failures := 0
	delay := c.delay

	for {
		c.setState(StateConnecting, nil)

		dialCtx, cancel := context.WithTimeout(ctx, c.timeout)
		conn, err := c.transport.Dial(dialCtx)
		cancel()

		if err != nil {
			if ctx.Err() != nil {
				c.setState(StateDisconnected, nil)
				return nil
			}
			failures++
			c.log.Warn("connect to %s failed (%d/%d): %v", c.transport, failures, c.attempts+1, err)
			if failures > c.attempts {
				c.setState(StateDisconnected, err)
				return vitalserrors.WrapWithCode(err, vitalserrors.ErrStream,
					fmt.Sprintf("Couldn't connect to %s after %d attempts", c.transport, failures),
					"Check the stream endpoint with 'vitals doctor'.")
			}
			c.setState(StateReconnecting, err)
			if !sleep(ctx, delay) {
				c.setState(StateDisconnected, nil)
				return nil
			}
			delay = nextDelay(delay, c.maxDelay)
			continue
		}

		failures = 0
		delay = c.delay
		c.log.Info("connected to %s", c.transport)
		c.setState(StateConnected, nil)

		err = c.consume(ctx, conn)
		conn.Close()

		if ctx.Err() != nil {
			c.setState(StateDisconnected, nil)
			return nil
		}
		c.log.Warn("connection to %s lost: %v", c.transport, err)
		c.setState(StateReconnecting, err)
		if !sleep(ctx, delay) {
			c.setState(StateDisconnected, nil)
			return nil
		}
	}
}

// consume reads events until the connection fails.
func (c *Client) consume(ctx context.Context, conn Conn) error {
	for {
		ev, err := conn.Next(ctx)
		if err != nil {
			return err
		}
		if ev.Name != c.event {
			c.log.Debug("ignoring event %q", ev.Name)
			continue
		}
		r, err := vitals.DecodeReading(ev.Payload)
		if err != nil {
			c.log.Warn("dropping malformed %s event: %v", ev.Name, err)
			continue
		}
		c.dispatch(r)
	}
}

func (c *Client) dispatch(r vitals.Reading) {
	c.mu.RLock()
	handlers := make([]Handler, len(c.subs))
	for i, s := range c.subs {
		handlers[i] = s.handler
	}
	c.mu.RUnlock()

	for _, h := range handlers {
		h(r)
	}
}

func (c *Client) setState(s State, err error) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
	if c.onState != nil {
		c.onState(s, err)
	}
}

func nextDelay(d, max time.Duration) time.Duration {
	d *= 2
	if max > 0 && d > max {
		return max
	}
	return d
}

// sleep waits for d or until ctx ends. It reports whether the full
// duration elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
