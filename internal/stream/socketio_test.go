package stream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rileyhilliard/vitals/internal/vitals"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testOpenPacket = `0{"sid":"abc123","upgrades":[],"pingInterval":25000,"pingTimeout":20000,"maxPayload":1000000}`

// fakeSocketIOServer accepts one websocket session, runs the Engine.IO and
// Socket.IO handshakes and then plays script. Frames the client sends after
// the handshake are pushed to received. Later sessions are refused.
func fakeSocketIOServer(t *testing.T, script []string) (*httptest.Server, chan string) {
	t.Helper()
	received := make(chan string, 16)
	upgrader := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	var sessions atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if sessions.Add(1) > 1 {
			http.Error(w, "session already used", http.StatusServiceUnavailable)
			return
		}
		if r.URL.Path != "/socket.io/" || r.URL.Query().Get("EIO") != "4" || r.URL.Query().Get("transport") != "websocket" {
			http.Error(w, "bad handshake url", http.StatusBadRequest)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		if err := conn.WriteMessage(websocket.TextMessage, []byte(testOpenPacket)); err != nil {
			return
		}
		_, msg, err := conn.ReadMessage()
		if err != nil || string(msg) != "40" {
			return
		}
		if err := conn.WriteMessage(websocket.TextMessage, []byte(`40{"sid":"ns1"}`)); err != nil {
			return
		}

		go func() {
			for {
				_, msg, err := conn.ReadMessage()
				if err != nil {
					close(received)
					return
				}
				received <- string(msg)
			}
		}()

		for _, frame := range script {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
				return
			}
		}
		time.Sleep(200 * time.Millisecond)
	}))
	t.Cleanup(srv.Close)
	return srv, received
}

func TestSocketIO_ReceivesEvents(t *testing.T) {
	srv, received := fakeSocketIOServer(t, []string{
		"2",
		`42["newData",{"bpm":72,"o2InBlood":97,"presion":{"sistolica":118,"diastolica":79},"temperature":36.8}]`,
		`42["other",{"bpm":1}]`,
		`42/admin,["newData",{"bpm":88}]`,
		"1",
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, err := NewSocketIO(srv.URL).Dial(ctx)
	require.NoError(t, err)
	defer conn.Close()

	ev, err := conn.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, "newData", ev.Name)
	r, err := vitals.DecodeReading(ev.Payload)
	require.NoError(t, err)
	assert.Equal(t, 72.0, *r.BPM)
	assert.Equal(t, 79.0, *r.Presion.Diastolica)

	ev, err = conn.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, "other", ev.Name)

	ev, err = conn.Next(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"bpm":88}`, string(ev.Payload))

	_, err = conn.Next(ctx)
	assert.ErrorIs(t, err, ErrServerClosed)

	// The ping was answered before the first event was returned.
	select {
	case msg := <-received:
		assert.Equal(t, "3", msg)
	case <-time.After(time.Second):
		t.Fatal("no pong received")
	}
}

func TestSocketIO_ClientEndToEnd(t *testing.T) {
	srv, _ := fakeSocketIOServer(t, []string{
		`42["newData",{"bpm":65}]`,
		`42["newData",{"bpm":"66"}]`,
		`41`,
	})

	c := NewClient(NewSocketIO(srv.URL), WithReconnect(0, 0, 0), WithTimeout(2*time.Second))
	var got []float64
	c.Subscribe(func(r vitals.Reading) { got = append(got, *r.BPM) })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = c.Run(ctx)

	assert.Equal(t, []float64{65, 66}, got)
}

func TestSocketIO_DialFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := NewSocketIO(srv.URL).Dial(ctx)
	require.Error(t, err)
}

func TestSocketIO_NextHonorsContext(t *testing.T) {
	srv, _ := fakeSocketIOServer(t, nil)

	conn, err := NewSocketIO(srv.URL).Dial(context.Background())
	require.NoError(t, err)
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = conn.Next(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSocketIOURL(t *testing.T) {
	tests := []struct {
		endpoint  string
		transport string
		want      string
		wantErr   bool
	}{
		{"http://localhost:6548", "websocket", "ws://localhost:6548/socket.io/?EIO=4&transport=websocket", false},
		{"https://example.net/", "websocket", "wss://example.net/socket.io/?EIO=4&transport=websocket", false},
		{"https://example.net/api", "websocket", "wss://example.net/api/socket.io/?EIO=4&transport=websocket", false},
		{"wss://example.net", "polling", "https://example.net/socket.io/?EIO=4&transport=polling", false},
		{"http://localhost:6548", "polling", "http://localhost:6548/socket.io/?EIO=4&transport=polling", false},
		{"ftp://example.net", "websocket", "", true},
		{"http://", "websocket", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.endpoint+"/"+tt.transport, func(t *testing.T) {
			got, err := SocketIOURL(tt.endpoint, tt.transport)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseEvent(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantName    string
		wantPayload string
		wantErr     bool
	}{
		{"plain", `["newData",{"bpm":1}]`, "newData", `{"bpm":1}`, false},
		{"namespace", `/vitals,["newData",{"bpm":2}]`, "newData", `{"bpm":2}`, false},
		{"ack id", `12["newData",{"bpm":3}]`, "newData", `{"bpm":3}`, false},
		{"no payload", `["ping"]`, "ping", ``, false},
		{"empty array", `[]`, "", "", true},
		{"name not string", `[1,{}]`, "", "", true},
		{"not json", `newData`, "", "", true},
		{"bad namespace", `/vitals["x"]`, "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := parseEvent([]byte(tt.body))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, ev.Name)
			assert.Equal(t, tt.wantPayload, strings.TrimSpace(string(ev.Payload)))
		})
	}
}

func TestOpenPacket_ReadTimeout(t *testing.T) {
	p := OpenPacket{PingInterval: 25000, PingTimeout: 20000}
	assert.Equal(t, 45*time.Second, p.ReadTimeout())
}
