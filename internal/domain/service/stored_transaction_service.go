// Package service provides implementations of domain services that implement core business logic
// This package depends only on domain models and repository interfaces (not implementations)
package service

import (
	"context"
	"fmt"
	"sync"

	"txDashApp/internal/domain/model"
	"txDashApp/internal/domain/repository"
	"txDashApp/internal/domain/useCases"
)

// maxInMemoryTransactions bounds the in-process recent list. Older entries
// are only reachable through the cache and persistent storage.
const maxInMemoryTransactions = 1000

// StoredTransactionService is an implementation of TransactionService backed
// by a cache for recent reads and optional persistent storage for history.
// It follows the dependency inversion principle by depending only on
// repository interfaces.
type StoredTransactionService struct {
	mu      sync.RWMutex
	recent  []*model.Transaction
	seen    map[string]struct{}
	cache   repository.TransactionCache       // Interface for fast cache operations
	storage repository.TransactionPersistence // Interface for persistent storage (optional)
}

// NewStoredTransactionService creates a new StoredTransactionService with the
// provided cache and storage implementations. This constructor follows the
// dependency injection pattern, allowing the service to use any implementation
// that satisfies the required interfaces.
//
// Parameters:
//   - cache: Implementation of TransactionCache for fast data access (can be nil)
//   - storage: Implementation of TransactionPersistence for durable storage (can be nil)
func NewStoredTransactionService(cache repository.TransactionCache, storage repository.TransactionPersistence) *StoredTransactionService {
	return &StoredTransactionService{
		seen:    make(map[string]struct{}),
		cache:   cache,
		storage: storage,
	}
}

func (s *StoredTransactionService) ProcessTransaction(ctx context.Context, tx *model.Transaction) error {
	if tx == nil {
		return nil // Ignore nil transactions
	}
	if tx.TransactionID == "" {
		return fmt.Errorf("transaction has empty id")
	}

	s.mu.Lock()
	if _, exists := s.seen[tx.TransactionID]; exists {
		s.mu.Unlock()
		return nil
	}
	s.seen[tx.TransactionID] = struct{}{}

	txCopy := *tx
	s.recent = append(s.recent, &txCopy)
	if len(s.recent) > maxInMemoryTransactions {
		dropped := s.recent[0]
		delete(s.seen, dropped.TransactionID)
		s.recent = s.recent[1:]
	}
	s.mu.Unlock()

	// Save to cache and storage if available
	var err error
	if s.cache != nil {
		err = s.cache.SaveTransaction(ctx, tx)
	}
	if s.storage != nil {
		if storageErr := s.storage.SaveTransaction(ctx, tx); storageErr != nil && err == nil {
			err = storageErr
		}
	}
	return err
}

func (s *StoredTransactionService) GetRecentTransactions(ctx context.Context, limit, skip int) ([]*model.Transaction, error) {
	if limit <= 0 {
		limit = 100
	}
	if skip < 0 {
		skip = 0
	}

	// First priority: in-memory list
	s.mu.RLock()
	if len(s.recent) > skip {
		result := make([]*model.Transaction, 0, limit)
		for i := len(s.recent) - 1 - skip; i >= 0 && len(result) < limit; i-- {
			txCopy := *s.recent[i]
			result = append(result, &txCopy)
		}
		s.mu.RUnlock()
		return result, nil
	}
	s.mu.RUnlock()

	// Second priority: cache (no pagination offset, so only usable for the first page)
	if s.cache != nil && skip == 0 {
		cached, err := s.cache.GetRecentTransactions(ctx, limit)
		if err == nil && len(cached) > 0 {
			return cached, nil
		}
	}

	// Third priority: persistent storage
	if s.storage != nil {
		stored, err := s.storage.GetTransactions(ctx, limit, skip)
		if err != nil {
			return nil, err
		}
		return stored, nil
	}

	return []*model.Transaction{}, nil
}

// Ensure interface compliance
var _ useCases.TransactionService = (*StoredTransactionService)(nil)
var _ useCases.TransactionService = (*InMemoryTransactionService)(nil)
