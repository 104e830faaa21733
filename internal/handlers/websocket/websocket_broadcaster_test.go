package websocket_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gws "github.com/gorilla/websocket"

	"txDashApp/internal/domain/model"
	ws "txDashApp/internal/handlers/websocket"
)

func verifyTestToken(token string) (string, error) {
	if token == "good" {
		return "user@example.com", nil
	}
	return "", errors.New("invalid token")
}

func dialFeed(t *testing.T, ts *httptest.Server, token string) *gws.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/transactions?token=" + token
	conn, _, err := gws.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("failed to dial feed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForClients(t *testing.T, b *ws.WebSocketBroadcaster, want int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for b.ClientCount() != want {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %d clients, have %d", want, b.ClientCount())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestBroadcastReachesClient(t *testing.T) {
	b := ws.NewWebSocketBroadcaster(verifyTestToken)
	mux := http.NewServeMux()
	mux.HandleFunc("/ws/transactions", b.Handler())
	ts := httptest.NewServer(mux)
	defer ts.Close()

	conn := dialFeed(t, ts, "good")
	waitForClients(t, b, 1)

	tx := &model.Transaction{
		TransactionID: "abcdef1234567890",
		Details:       model.TransactionDetails{Amount: 42.5, Currency: "USD"},
	}
	b.BroadcastTransaction(tx)

	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("failed to read broadcast: %v", err)
	}

	var got model.Transaction
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("failed to decode broadcast: %v", err)
	}
	if got.TransactionID != tx.TransactionID {
		t.Errorf("expected transaction %s, got %s", tx.TransactionID, got.TransactionID)
	}
	if got.Details.Amount != 42.5 {
		t.Errorf("expected amount 42.5, got %f", got.Details.Amount)
	}
}

func TestInvalidTokenRejectedBeforeUpgrade(t *testing.T) {
	b := ws.NewWebSocketBroadcaster(verifyTestToken)
	mux := http.NewServeMux()
	mux.HandleFunc("/ws/transactions", b.Handler())
	ts := httptest.NewServer(mux)
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/transactions?token=bad"
	conn, resp, err := gws.DefaultDialer.Dial(url, nil)
	if err == nil {
		conn.Close()
		t.Fatal("expected handshake to fail for an invalid token")
	}
	if !errors.Is(err, gws.ErrBadHandshake) {
		t.Fatalf("expected bad handshake error, got %v", err)
	}
	if resp == nil {
		t.Fatal("expected a handshake response")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("expected status %d, got %d", http.StatusForbidden, resp.StatusCode)
	}

	if b.ClientCount() != 0 {
		t.Errorf("expected no registered clients, got %d", b.ClientCount())
	}
}

func TestBroadcastPrunesDisconnectedClients(t *testing.T) {
	b := ws.NewWebSocketBroadcaster(verifyTestToken)
	mux := http.NewServeMux()
	mux.HandleFunc("/ws/transactions", b.Handler())
	ts := httptest.NewServer(mux)
	defer ts.Close()

	conn := dialFeed(t, ts, "good")
	waitForClients(t, b, 1)

	conn.Close()
	waitForClients(t, b, 0)
}
