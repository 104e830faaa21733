package client_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"txDashApp/internal/client"
)

var testUpgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// feedServer is a websocket test server that records every connection attempt.
type feedServer struct {
	*httptest.Server
	mu       sync.Mutex
	attempts []time.Time
	tokens   []string
}

func newFeedServer(t *testing.T, handle func(conn *websocket.Conn)) *feedServer {
	t.Helper()
	fs := &feedServer{}
	fs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ws/transactions" {
			t.Errorf("expected path /ws/transactions, got %s", r.URL.Path)
		}
		fs.mu.Lock()
		fs.attempts = append(fs.attempts, time.Now())
		fs.tokens = append(fs.tokens, r.URL.Query().Get("token"))
		fs.mu.Unlock()

		conn, err := testUpgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		handle(conn)
	}))
	t.Cleanup(fs.Close)
	return fs
}

func (fs *feedServer) attemptTimes() []time.Time {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	out := make([]time.Time, len(fs.attempts))
	copy(out, fs.attempts)
	return out
}

func TestTransportReceivesEventsInOrder(t *testing.T) {
	fs := newFeedServer(t, func(conn *websocket.Conn) {
		conn.WriteMessage(websocket.TextMessage, []byte(`{"transaction_id":"abcdef1234567890","transaction_details":{"amount":42.5}}`))
		conn.WriteMessage(websocket.TextMessage, []byte(`{"transaction_id":"0123456789abcdef","transaction_details":{"amount":7}}`))
		// Hold the connection open until the client goes away
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	transport := client.NewTransport(&client.Session{BaseURL: fs.URL, Token: "tok"},
		client.WithReconnectDelay(50*time.Millisecond))
	go transport.Run(ctx)

	first := <-transport.Events()
	if first.TransactionID != "abcdef1234567890" {
		t.Errorf("expected first event abcdef1234567890, got %s", first.TransactionID)
	}
	if first.Details.Amount != 42.5 {
		t.Errorf("expected amount 42.5, got %f", first.Details.Amount)
	}

	second := <-transport.Events()
	if second.TransactionID != "0123456789abcdef" {
		t.Errorf("expected second event 0123456789abcdef, got %s", second.TransactionID)
	}
}

func TestTransportDropsMalformedMessages(t *testing.T) {
	fs := newFeedServer(t, func(conn *websocket.Conn) {
		conn.WriteMessage(websocket.TextMessage, []byte(`{not json`))
		conn.WriteMessage(websocket.TextMessage, []byte(`{"transaction_id":"good1","transaction_details":{"amount":1}}`))
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	transport := client.NewTransport(&client.Session{BaseURL: fs.URL, Token: "tok"},
		client.WithReconnectDelay(50*time.Millisecond))
	go transport.Run(ctx)

	// The malformed message must be skipped, not break the connection
	ev := <-transport.Events()
	if ev.TransactionID != "good1" {
		t.Errorf("expected good1 after dropping malformed message, got %s", ev.TransactionID)
	}
}

func TestTransportReconnectsAfterDelay(t *testing.T) {
	const delay = 100 * time.Millisecond

	fs := newFeedServer(t, func(conn *websocket.Conn) {
		// Close immediately to force the reconnect path
		conn.Close()
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	transport := client.NewTransport(&client.Session{BaseURL: fs.URL, Token: "tok"},
		client.WithReconnectDelay(delay))
	go transport.Run(ctx)

	time.Sleep(3*delay + delay/2)
	cancel()

	attempts := fs.attemptTimes()
	if len(attempts) < 2 {
		t.Fatalf("expected at least 2 connection attempts, got %d", len(attempts))
	}

	// No reconnect may fire earlier than the fixed delay after the close,
	// and closes must not stack extra timers
	for i := 1; i < len(attempts); i++ {
		gap := attempts[i].Sub(attempts[i-1])
		if gap < delay {
			t.Errorf("attempt %d came %v after the previous one, want at least %v", i, gap, delay)
		}
	}
	if max := 5; len(attempts) > max {
		t.Errorf("expected at most %d attempts in the window, got %d", max, len(attempts))
	}
}

func TestTransportSendsTokenInURL(t *testing.T) {
	fs := newFeedServer(t, func(conn *websocket.Conn) {
		conn.Close()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	transport := client.NewTransport(&client.Session{BaseURL: fs.URL, Token: "abc123"},
		client.WithReconnectDelay(time.Second))
	transport.Run(ctx)

	fs.mu.Lock()
	defer fs.mu.Unlock()
	if len(fs.tokens) == 0 {
		t.Fatal("expected at least one connection attempt")
	}
	if fs.tokens[0] != "abc123" {
		t.Errorf("expected token abc123 in query, got %s", fs.tokens[0])
	}
}

func TestTransportRequiresToken(t *testing.T) {
	transport := client.NewTransport(&client.Session{BaseURL: "http://localhost:0", Token: ""})
	if err := transport.Run(context.Background()); err == nil {
		t.Error("expected error when running without a token")
	}
}

func TestTransportStateAfterStop(t *testing.T) {
	fs := newFeedServer(t, func(conn *websocket.Conn) {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	transport := client.NewTransport(&client.Session{BaseURL: fs.URL, Token: "tok"},
		client.WithReconnectDelay(50*time.Millisecond))

	done := make(chan struct{})
	go func() {
		transport.Run(ctx)
		close(done)
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()
	<-done

	if transport.State() != client.StateDisconnected {
		t.Errorf("expected disconnected state after stop, got %v", transport.State())
	}
}
