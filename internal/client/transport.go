package client

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"txDashApp/internal/domain/model"
)

// DefaultReconnectDelay is the fixed wait between a connection closing and
// the next connection attempt.
const DefaultReconnectDelay = 5000 * time.Millisecond

// ConnState is the transport's connection lifecycle state.
type ConnState int32

const (
	StateDisconnected ConnState = iota
	StateConnecting
	StateConnected
	StateReconnectPending
)

func (s ConnState) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateReconnectPending:
		return "reconnect-pending"
	}
	return "unknown"
}

// Transport maintains one streaming connection to the server's transaction
// feed and republishes inbound events on a channel. On close or error it
// waits a fixed delay and reconnects with the same token, forever.
//
// The whole lifecycle runs on the single goroutine inside Run, so at most one
// connection and at most one pending reconnect can exist at a time.
type Transport struct {
	session *Session
	dialer  *websocket.Dialer
	delay   time.Duration
	events  chan *model.Transaction
	state   atomic.Int32
}

// TransportOption customizes a Transport.
type TransportOption func(*Transport)

// WithReconnectDelay overrides the fixed reconnect delay. Mainly for tests.
func WithReconnectDelay(d time.Duration) TransportOption {
	return func(t *Transport) { t.delay = d }
}

// WithDialer overrides the websocket dialer.
func WithDialer(d *websocket.Dialer) TransportOption {
	return func(t *Transport) { t.dialer = d }
}

// NewTransport creates a transport for the given session.
func NewTransport(session *Session, opts ...TransportOption) *Transport {
	t := &Transport{
		session: session,
		dialer:  websocket.DefaultDialer,
		delay:   DefaultReconnectDelay,
		events:  make(chan *model.Transaction, 64),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Events returns the channel of inbound transaction events. The channel is
// closed when Run returns.
func (t *Transport) Events() <-chan *model.Transaction {
	return t.events
}

// State returns the current connection state.
func (t *Transport) State() ConnState {
	return ConnState(t.state.Load())
}

func (t *Transport) setState(s ConnState) {
	t.state.Store(int32(s))
}

// feedURL derives the websocket endpoint from the session's base URL:
// https becomes wss, http becomes ws, and the token rides in the query.
func (t *Transport) feedURL() (string, error) {
	u, err := url.Parse(t.session.BaseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}
	switch u.Scheme {
	case "https", "wss":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = "/ws/transactions"
	u.RawQuery = url.Values{"token": {t.session.Token}}.Encode()
	return u.String(), nil
}

// Run drives the connect/read/reconnect loop until the context is cancelled.
// It closes the events channel on return.
func (t *Transport) Run(ctx context.Context) error {
	defer close(t.events)
	defer t.setState(StateDisconnected)

	if t.session == nil || t.session.Token == "" {
		return fmt.Errorf("cannot connect without a session token")
	}

	feedURL, err := t.feedURL()
	if err != nil {
		return err
	}

	for {
		t.setState(StateConnecting)
		conn, _, err := t.dialer.DialContext(ctx, feedURL, nil)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Printf("connection attempt failed: %v", err)
		} else {
			t.setState(StateConnected)
			log.Printf("connected to transaction feed")

			// Closing the connection on cancellation unblocks ReadMessage
			done := make(chan struct{})
			go func() {
				select {
				case <-ctx.Done():
					conn.Close()
				case <-done:
				}
			}()
			t.readLoop(ctx, conn)
			close(done)
			conn.Close()
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Printf("connection closed, reconnecting in %v", t.delay)
		}

		// One pending reconnect at a time: the loop only reaches this point
		// after the previous connection is fully torn down
		t.setState(StateReconnectPending)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(t.delay):
		}
	}
}

// readLoop consumes messages until the connection drops or the context is
// cancelled. Malformed payloads are logged and dropped; they never terminate
// the connection.
func (t *Transport) readLoop(ctx context.Context, conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil {
				log.Printf("websocket read error: %v", err)
			}
			return
		}

		var tx model.Transaction
		if err := json.Unmarshal(data, &tx); err != nil {
			log.Printf("dropping malformed message: %v", err)
			continue
		}

		select {
		case <-ctx.Done():
			return
		case t.events <- &tx:
		}
	}
}
