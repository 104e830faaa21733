// Package repository defines all the repository interfaces used by domain services
// Following the dependency inversion principle, domain logic depends on these interfaces,
// and infrastructure implementations provide concrete implementations
package repository

import (
	"context"

	"txDashApp/internal/domain/model"
)

// TransactionCache defines the interface for caching recent transactions
// This is used for high-performance, in-memory or near-memory storage
// Implementations should prioritize speed over durability
type TransactionCache interface {
	// SaveTransaction stores a transaction in the cache
	// This should be optimized for quick writes and should not block
	SaveTransaction(ctx context.Context, tx *model.Transaction) error

	// GetRecentTransactions returns up to limit cached transactions,
	// newest first. This backs the history endpoint's fast path.
	GetRecentTransactions(ctx context.Context, limit int) ([]*model.Transaction, error)
}

// TransactionPersistence defines the interface for durable transaction storage
// This is used for historical analysis and audit purposes
// Implementations should prioritize durability and consistency over speed
type TransactionPersistence interface {
	// SaveTransaction persists a transaction to durable storage
	SaveTransaction(ctx context.Context, tx *model.Transaction) error

	// GetTransactions retrieves stored transactions, newest first,
	// with offset-based pagination
	GetTransactions(ctx context.Context, limit, skip int) ([]*model.Transaction, error)

	// GetTransactionsSince retrieves transactions since the given unix timestamp
	// This is useful for rebuilding state or analyzing historical data
	GetTransactionsSince(ctx context.Context, since int64) ([]*model.Transaction, error)
}
