package stream

import (
	"context"
	"errors"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"github.com/rileyhilliard/vitals/internal/config"
)

// MQTT subscribes to a broker topic and surfaces every message on it as an
// event with the configured name. Reconnection is left to the Client.
type MQTT struct {
	cfg       config.MQTTConfig
	event     string
	newClient func(*mqtt.ClientOptions) mqtt.Client
}

// NewMQTT returns a transport for the configured broker.
func NewMQTT(cfg config.MQTTConfig, event string) *MQTT {
	if event == "" {
		event = DefaultEvent
	}
	return &MQTT{cfg: cfg, event: event, newClient: mqtt.NewClient}
}

func (m *MQTT) String() string {
	return m.cfg.Broker + "/" + m.cfg.Topic
}

// Dial connects to the broker and subscribes to the topic.
func (m *MQTT) Dial(ctx context.Context) (Conn, error) {
	conn := newMQTTConn(m.event)

	clientID := m.cfg.ClientID
	if clientID == "" {
		clientID = "vitals-" + uuid.NewString()
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(m.cfg.Broker)
	opts.SetClientID(clientID)
	if m.cfg.Username != "" {
		opts.SetUsername(m.cfg.Username)
	}
	if m.cfg.Password != "" {
		opts.SetPassword(m.cfg.Password)
	}
	opts.SetAutoReconnect(false)
	opts.SetCleanSession(true)
	if deadline, ok := ctx.Deadline(); ok {
		opts.SetConnectTimeout(time.Until(deadline))
	}
	opts.SetConnectionLostHandler(conn.onLost)

	client := m.newClient(opts)
	if err := waitToken(ctx, client.Connect()); err != nil {
		// The handshake may still complete after ctx expires.
		client.Disconnect(0)
		return nil, fmt.Errorf("connect to MQTT broker %s: %w", m.cfg.Broker, err)
	}

	if err := waitToken(ctx, client.Subscribe(m.cfg.Topic, m.cfg.QoS, conn.onMessage)); err != nil {
		client.Disconnect(250)
		return nil, fmt.Errorf("subscribe to topic %s: %w", m.cfg.Topic, err)
	}

	conn.client = client
	return conn, nil
}

func waitToken(ctx context.Context, token mqtt.Token) error {
	select {
	case <-token.Done():
		return token.Error()
	case <-ctx.Done():
		return ctx.Err()
	}
}

type mqttConn struct {
	client mqtt.Client
	event  string
	msgs   chan Event
	lost   chan error
	done   chan struct{}
}

func newMQTTConn(event string) *mqttConn {
	return &mqttConn{
		event: event,
		msgs:  make(chan Event, 64),
		lost:  make(chan error, 1),
		done:  make(chan struct{}),
	}
}

func (c *mqttConn) onMessage(_ mqtt.Client, msg mqtt.Message) {
	ev := Event{Name: c.event, Payload: append([]byte(nil), msg.Payload()...)}
	select {
	case c.msgs <- ev:
	case <-c.done:
	}
}

func (c *mqttConn) onLost(_ mqtt.Client, err error) {
	if err == nil {
		err = errors.New("connection lost")
	}
	select {
	case c.lost <- err:
	default:
	}
}

// Next returns the next message. Messages already queued are delivered
// before a connection loss is reported.
func (c *mqttConn) Next(ctx context.Context) (Event, error) {
	select {
	case ev := <-c.msgs:
		return ev, nil
	default:
	}

	select {
	case ev := <-c.msgs:
		return ev, nil
	case err := <-c.lost:
		return Event{}, err
	case <-c.done:
		return Event{}, ErrServerClosed
	case <-ctx.Done():
		return Event{}, ctx.Err()
	}
}

func (c *mqttConn) Close() error {
	select {
	case <-c.done:
		return nil
	default:
		close(c.done)
	}
	if c.client != nil {
		c.client.Disconnect(250)
	}
	return nil
}
