package websocket

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"txDashApp/internal/domain/model"
	"txDashApp/internal/domain/useCases"
	"txDashApp/internal/metrics"
)

// Ensure the broadcaster satisfies the domain interface
var _ useCases.Broadcaster = (*WebSocketBroadcaster)(nil)

// TokenVerifier validates the token query parameter of an incoming
// connection and returns the authenticated subject.
type TokenVerifier func(token string) (string, error)

// WebSocketBroadcaster implements the Broadcaster interface for live
// transaction updates. Connections must present a valid token; invalid ones
// are rejected before the upgrade completes.
type WebSocketBroadcaster struct {
	clients  map[*websocket.Conn]struct{}
	mu       sync.Mutex
	upgrader websocket.Upgrader
	verify   TokenVerifier
}

func NewWebSocketBroadcaster(verify TokenVerifier) *WebSocketBroadcaster {
	return &WebSocketBroadcaster{
		clients:  make(map[*websocket.Conn]struct{}),
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		verify:   verify,
	}
}

func (b *WebSocketBroadcaster) BroadcastTransaction(tx *model.Transaction) {
	b.mu.Lock()
	defer b.mu.Unlock()
	msg, err := json.Marshal(tx)
	if err != nil {
		log.Printf("failed to marshal transaction: %v", err)
		return
	}
	for c := range b.clients {
		if err := c.WriteMessage(websocket.TextMessage, msg); err != nil {
			log.Printf("websocket write error: %v", err)
			// Closing wakes the client's read loop, which handles the
			// map cleanup and gauge decrement exactly once
			c.Close()
			delete(b.clients, c)
			continue
		}
		metrics.TransactionsBroadcast.Inc()
	}
}

// ClientCount returns the number of currently connected clients.
func (b *WebSocketBroadcaster) ClientCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.clients)
}

// Handler returns the HTTP handler accepting websocket connections.
func (b *WebSocketBroadcaster) Handler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		// Authenticate before upgrading so unauthorized callers never get a
		// websocket connection, only a plain 403
		if b.verify != nil {
			token := r.URL.Query().Get("token")
			if _, err := b.verify(token); err != nil {
				log.Printf("websocket auth failed: %v", err)
				http.Error(w, "invalid token", http.StatusForbidden)
				return
			}
		}

		conn, err := b.upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("websocket upgrade error: %v", err)
			return
		}

		b.mu.Lock()
		b.clients[conn] = struct{}{}
		b.mu.Unlock()
		metrics.WebSocketClients.Inc()
		log.Printf("websocket connected: %s", conn.RemoteAddr())

		// Read loop keeps the connection alive and detects disconnects;
		// the feed is push-only so inbound payloads are discarded
		go func() {
			defer func() {
				b.mu.Lock()
				delete(b.clients, conn)
				b.mu.Unlock()
				conn.Close()
				metrics.WebSocketClients.Dec()
				log.Printf("websocket disconnected: %s", conn.RemoteAddr())
			}()
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					break
				}
			}
		}()
	}
}
