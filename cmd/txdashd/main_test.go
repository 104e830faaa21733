package main

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"testing"
	"time"

	"txDashApp/config"
	"txDashApp/pkg/utils"
)

func TestMain(m *testing.M) {
	log.Println("Running integration tests...")

	code := m.Run()

	log.Println("Integration tests completed.")
	if code != 0 {
		log.Println("Tests failed.")
	}
	os.Exit(code)
}

// TestHealthEndpoint tests the /health endpoint of a running server
func TestHealthEndpoint(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	client := &http.Client{
		Timeout: 5 * time.Second,
	}

	resp, err := client.Get("http://localhost:8000/health")
	if err != nil {
		t.Fatalf("Failed to make request to health endpoint: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status code %d, got %d", http.StatusOK, resp.StatusCode)
	}

	var healthResponse map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&healthResponse); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if status, ok := healthResponse["status"]; !ok || status != "ok" {
		t.Errorf("Expected status 'ok', got '%s'", status)
	}
}

// TestTransactionsEndpointRejectsAnonymous verifies the history endpoint
// requires a token on a running server
func TestTransactionsEndpointRejectsAnonymous(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	client := &http.Client{
		Timeout: 5 * time.Second,
	}

	resp, err := client.Get("http://localhost:8000/transactions")
	if err != nil {
		t.Fatalf("Failed to make request to transactions endpoint: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("Expected status code %d, got %d", http.StatusUnauthorized, resp.StatusCode)
	}
}

// TestGenerateTransactions verifies the transaction generator
func TestGenerateTransactions(t *testing.T) {
	generator := utils.NewTransactionGenerator()
	txs := generator.GenerateTransactions(100)

	if len(txs) != 100 {
		t.Errorf("Expected 100 transactions, got %d", len(txs))
	}

	for i, tx := range txs {
		if tx.TransactionID == "" {
			t.Errorf("Transaction at index %d has empty ID", i)
		}
		if tx.Details.Amount < 5 || tx.Details.Amount > 10000 {
			t.Errorf("Transaction at index %d has out-of-range amount: %f", i, tx.Details.Amount)
		}
		if tx.Details.Currency == "" {
			t.Errorf("Transaction at index %d has empty currency", i)
		}
		if tx.Details.Timestamp == 0 {
			t.Errorf("Transaction at index %d has zero timestamp", i)
		}
		if tx.Details.Amount > 8000 && !tx.Fraud.Flagged {
			t.Errorf("Transaction at index %d above 8000 should be flagged", i)
		}
	}
}

// TestConfigDefaults ensures configuration loads with sane defaults
func TestConfigDefaults(t *testing.T) {
	cfg := config.LoadConfig()

	if cfg == nil {
		t.Fatal("Failed to load configuration")
	}

	if cfg.HTTPPort == "" {
		t.Error("HTTPPort not set in configuration")
	}
	if cfg.RedisAddr == "" {
		t.Error("RedisAddr not set in configuration")
	}
	if cfg.ReconnectDelay != 5*time.Second {
		t.Errorf("Expected default reconnect delay of 5s, got %v", cfg.ReconnectDelay)
	}
}
