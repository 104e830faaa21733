package cache_test

import (
	"context"
	"testing"
	"time"

	"txDashApp/config"
	"txDashApp/internal/domain/model"
	"txDashApp/internal/infrastructure/cache"
)

func TestRedisRepository(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping Redis test in short mode - requires live Redis instance")
	}

	// Load test config
	cfg := config.LoadConfig()

	// Initialize repository
	repo := cache.NewRedisRepository(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)

	// Create test transaction
	ctx := context.Background()
	tx := &model.Transaction{
		TransactionID: "test-tx-1",
		User: model.User{
			Name:  "Test User",
			Email: "test@example.com",
		},
		Details: model.TransactionDetails{
			Amount:    1234.56,
			Currency:  "USD",
			Timestamp: float64(time.Now().Unix()),
			Merchant:  "Test Merchant",
			Location:  model.Location{Country: "United States"},
		},
	}

	// Test SaveTransaction
	if err := repo.SaveTransaction(ctx, tx); err != nil {
		t.Fatalf("Failed to save transaction: %v", err)
	}

	// Test GetRecentTransactions
	recent, err := repo.GetRecentTransactions(ctx, 10)
	if err != nil {
		t.Fatalf("Failed to get recent transactions: %v", err)
	}

	if len(recent) < 1 {
		t.Fatal("Expected at least one cached transaction")
	}

	// Newest first: the transaction just saved should lead the list
	if recent[0].TransactionID != tx.TransactionID {
		t.Errorf("Expected transaction %s first, got %s", tx.TransactionID, recent[0].TransactionID)
	}

	if recent[0].Details.Amount != tx.Details.Amount {
		t.Errorf("Expected amount %f, got %f", tx.Details.Amount, recent[0].Details.Amount)
	}
}
