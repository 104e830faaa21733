package http

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"txDashApp/internal/auth"
	"txDashApp/internal/domain/useCases"
	"txDashApp/internal/metrics"
)

// tokenResponse is the success body of POST /token.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// errorResponse carries a human-readable error detail, matching the error
// shape the dashboard client surfaces to the user.
type errorResponse struct {
	Detail string `json:"detail"`
}

// Server represents an HTTP server with all routes configured
type Server struct {
	authenticator *auth.Authenticator
	txService     useCases.TransactionService
	broadcaster   useCases.Broadcaster
	mux           *http.ServeMux
	server        *http.Server
}

// NewServer creates a new HTTP server with configured routes
func NewServer(addr string, authenticator *auth.Authenticator, txService useCases.TransactionService, broadcaster useCases.Broadcaster) *Server {
	mux := http.NewServeMux()

	server := &Server{
		authenticator: authenticator,
		txService:     txService,
		broadcaster:   broadcaster,
		mux:           mux,
		server: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}

	// Register routes
	server.registerRoutes()

	return server
}

// registerRoutes configures all HTTP routes
func (s *Server) registerRoutes() {
	// Login endpoint
	s.mux.HandleFunc("/token", s.handleToken)

	// Transaction history endpoint
	s.mux.HandleFunc("/transactions", s.handleTransactions)

	// Health check endpoint
	s.mux.HandleFunc("/health", s.handleHealth)

	// Prometheus metrics
	s.mux.Handle("/metrics", promhttp.Handler())

	// WebSocket endpoint
	s.mux.HandleFunc("/ws/transactions", s.broadcaster.Handler())
}

// Handler exposes the route mux, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// handleToken authenticates form-encoded credentials and issues an access token
func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Detail: "method not allowed"})
		return
	}

	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "malformed form body"})
		return
	}

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	user, err := s.authenticator.Authenticate(username, password)
	if err != nil {
		log.Printf("failed login attempt for user: %s", username)
		metrics.LoginAttempts.WithLabelValues("failure").Inc()
		w.Header().Set("WWW-Authenticate", "Bearer")
		writeJSON(w, http.StatusUnauthorized, errorResponse{Detail: "Incorrect email or password"})
		return
	}

	token, err := s.authenticator.IssueToken(user.Username)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: "failed to issue token"})
		return
	}

	metrics.LoginAttempts.WithLabelValues("success").Inc()
	writeJSON(w, http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
}

// handleTransactions serves paginated transaction history to authenticated users
func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	if _, err := s.authenticator.VerifyToken(bearerToken(r)); err != nil {
		w.Header().Set("WWW-Authenticate", "Bearer")
		writeJSON(w, http.StatusUnauthorized, errorResponse{Detail: "Could not validate credentials"})
		return
	}

	limit := queryInt(r, "limit", 100)
	skip := queryInt(r, "skip", 0)

	txs, err := s.txService.GetRecentTransactions(r.Context(), limit, skip)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: "failed to get transactions"})
		return
	}

	writeJSON(w, http.StatusOK, txs)
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

// bearerToken extracts the token from an Authorization: Bearer header.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

func queryInt(r *http.Request, key string, defaultVal int) int {
	valStr := r.URL.Query().Get(key)
	if valStr == "" {
		return defaultVal
	}
	if val, err := strconv.Atoi(valStr); err == nil {
		return val
	}
	return defaultVal
}

// Start begins listening for HTTP requests
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
