package stream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Engine.IO packet types, as the first byte of a text frame.
const (
	eioOpen    = '0'
	eioClose   = '1'
	eioPing    = '2'
	eioPong    = '3'
	eioMessage = '4'
	eioNoop    = '6'
)

// Socket.IO packet types, as the byte after an Engine.IO message.
const (
	sioConnect      = '0'
	sioDisconnect   = '1'
	sioEvent        = '2'
	sioConnectError = '4'
)

// ErrServerClosed is returned by Next when the server ends the session.
var ErrServerClosed = errors.New("server closed the session")

// OpenPacket is the Engine.IO handshake payload.
type OpenPacket struct {
	SID          string   `json:"sid"`
	Upgrades     []string `json:"upgrades"`
	PingInterval int      `json:"pingInterval"`
	PingTimeout  int      `json:"pingTimeout"`
	MaxPayload   int      `json:"maxPayload"`
}

// ReadTimeout is how long the client waits for any frame before treating
// the connection as dead.
func (p OpenPacket) ReadTimeout() time.Duration {
	return time.Duration(p.PingInterval+p.PingTimeout) * time.Millisecond
}

// SocketIO speaks Socket.IO v5 (Engine.IO v4) over a websocket. It only
// sends protocol packets: namespace connect, pong and disconnect.
type SocketIO struct {
	endpoint string
	dialer   *websocket.Dialer
}

// NewSocketIO returns a transport for the server at endpoint, an http(s)
// or ws(s) base URL.
func NewSocketIO(endpoint string) *SocketIO {
	return &SocketIO{
		endpoint: endpoint,
		dialer: &websocket.Dialer{
			HandshakeTimeout: 5 * time.Second,
			Proxy:            websocket.DefaultDialer.Proxy,
		},
	}
}

func (s *SocketIO) String() string {
	return s.endpoint
}

// SocketIOURL builds the websocket URL for endpoint, mapping http to ws
// and https to wss.
func SocketIOURL(endpoint, transport string) (string, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("parse endpoint: %w", err)
	}
	scheme := u.Scheme
	if transport == "websocket" {
		switch scheme {
		case "http":
			scheme = "ws"
		case "https":
			scheme = "wss"
		}
	} else {
		switch scheme {
		case "ws":
			scheme = "http"
		case "wss":
			scheme = "https"
		}
	}
	switch scheme {
	case "ws", "wss", "http", "https":
	default:
		return "", fmt.Errorf("unsupported endpoint scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("endpoint %q has no host", endpoint)
	}

	u.Scheme = scheme
	u.Path = strings.TrimRight(u.Path, "/") + "/socket.io/"
	q := u.Query()
	q.Set("EIO", "4")
	q.Set("transport", transport)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Dial opens the websocket, reads the handshake and joins the default
// namespace.
func (s *SocketIO) Dial(ctx context.Context) (Conn, error) {
	wsURL, err := SocketIOURL(s.endpoint, "websocket")
	if err != nil {
		return nil, err
	}

	ws, _, err := s.dialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", wsURL, err)
	}

	c := &socketConn{ws: ws}
	if err := c.handshake(ctx); err != nil {
		ws.Close()
		return nil, err
	}
	return c, nil
}

type socketConn struct {
	ws      *websocket.Conn
	open    OpenPacket
	writeMu sync.Mutex
	closed  sync.Once
}

func (c *socketConn) handshake(ctx context.Context) error {
	if deadline, ok := ctx.Deadline(); ok {
		c.ws.SetReadDeadline(deadline)
	}
	stop := context.AfterFunc(ctx, func() { c.ws.Close() })
	defer stop()

	msg, err := c.read()
	if err != nil {
		return fmt.Errorf("read open packet: %w", err)
	}
	if len(msg) == 0 || msg[0] != eioOpen {
		return fmt.Errorf("expected open packet, got %q", truncate(msg))
	}
	if err := json.Unmarshal(msg[1:], &c.open); err != nil {
		return fmt.Errorf("decode open packet: %w", err)
	}

	if err := c.write(string([]byte{eioMessage, sioConnect})); err != nil {
		return fmt.Errorf("join namespace: %w", err)
	}

	for {
		msg, err := c.read()
		if err != nil {
			return fmt.Errorf("await namespace ack: %w", err)
		}
		switch {
		case len(msg) == 1 && msg[0] == eioPing:
			if err := c.write(string(eioPong)); err != nil {
				return err
			}
		case len(msg) >= 2 && msg[0] == eioMessage && msg[1] == sioConnect:
			c.ws.SetReadDeadline(time.Time{})
			return nil
		case len(msg) >= 2 && msg[0] == eioMessage && msg[1] == sioConnectError:
			return fmt.Errorf("namespace rejected: %s", msg[2:])
		}
	}
}

// Next returns the next Socket.IO event, answering pings along the way.
func (c *socketConn) Next(ctx context.Context) (Event, error) {
	stop := context.AfterFunc(ctx, func() { c.ws.Close() })
	defer stop()

	for {
		if t := c.open.ReadTimeout(); t > 0 {
			c.ws.SetReadDeadline(time.Now().Add(t))
		}
		msg, err := c.read()
		if err != nil {
			if ctx.Err() != nil {
				return Event{}, ctx.Err()
			}
			return Event{}, err
		}
		if len(msg) == 0 {
			continue
		}

		switch msg[0] {
		case eioPing:
			if err := c.write(string(eioPong)); err != nil {
				return Event{}, err
			}
		case eioClose:
			return Event{}, ErrServerClosed
		case eioMessage:
			if len(msg) < 2 {
				continue
			}
			switch msg[1] {
			case sioEvent:
				ev, err := parseEvent(msg[2:])
				if err != nil {
					continue
				}
				return ev, nil
			case sioDisconnect:
				return Event{}, ErrServerClosed
			}
		case eioPong, eioNoop:
		}
	}
}

func (c *socketConn) Close() error {
	var err error
	c.closed.Do(func() {
		_ = c.write(string([]byte{eioMessage, sioDisconnect}))
		c.writeMu.Lock()
		_ = c.ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		c.writeMu.Unlock()
		err = c.ws.Close()
	})
	return err
}

func (c *socketConn) read() ([]byte, error) {
	for {
		kind, data, err := c.ws.ReadMessage()
		if err != nil {
			return nil, err
		}
		if kind == websocket.TextMessage {
			return data, nil
		}
	}
}

func (c *socketConn) write(packet string) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.ws.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return c.ws.WriteMessage(websocket.TextMessage, []byte(packet))
}

// parseEvent decodes the body of a Socket.IO EVENT packet:
// an optional "/namespace," prefix, an optional ack id, then a JSON array
// whose first element is the event name.
func parseEvent(body []byte) (Event, error) {
	if len(body) > 0 && body[0] == '/' {
		i := strings.IndexByte(string(body), ',')
		if i < 0 {
			return Event{}, fmt.Errorf("malformed namespace in %q", truncate(body))
		}
		body = body[i+1:]
	}
	for len(body) > 0 && body[0] >= '0' && body[0] <= '9' {
		body = body[1:]
	}

	var parts []json.RawMessage
	if err := json.Unmarshal(body, &parts); err != nil {
		return Event{}, fmt.Errorf("decode event: %w", err)
	}
	if len(parts) == 0 {
		return Event{}, fmt.Errorf("empty event")
	}
	var name string
	if err := json.Unmarshal(parts[0], &name); err != nil {
		return Event{}, fmt.Errorf("decode event name: %w", err)
	}
	ev := Event{Name: name}
	if len(parts) > 1 {
		ev.Payload = parts[1]
	}
	return ev, nil
}

func truncate(b []byte) string {
	const max = 64
	if len(b) > max {
		return string(b[:max]) + "..."
	}
	return string(b)
}
