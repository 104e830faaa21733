package service

import (
	"context"
	"fmt"
	"sync"

	"txDashApp/internal/domain/model"
)

// InMemoryTransactionService is a simple in-memory implementation of
// TransactionService for demo/testing. It keeps every processed transaction
// in arrival order and serves paginated reads newest first. For production
// use, prefer StoredTransactionService.
type InMemoryTransactionService struct {
	mutex sync.RWMutex
	txs   []*model.Transaction
	seen  map[string]struct{}
}

func NewInMemoryTransactionService() *InMemoryTransactionService {
	return &InMemoryTransactionService{
		seen: make(map[string]struct{}),
	}
}

func (s *InMemoryTransactionService) ProcessTransaction(ctx context.Context, tx *model.Transaction) error {
	if tx == nil {
		return fmt.Errorf("cannot process nil transaction")
	}
	if tx.TransactionID == "" {
		return fmt.Errorf("cannot process transaction with empty id")
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, exists := s.seen[tx.TransactionID]; exists {
		return nil
	}
	s.seen[tx.TransactionID] = struct{}{}

	txCopy := *tx
	s.txs = append(s.txs, &txCopy)
	return nil
}

func (s *InMemoryTransactionService) GetRecentTransactions(ctx context.Context, limit, skip int) ([]*model.Transaction, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if limit <= 0 {
		limit = 100
	}
	if skip < 0 {
		skip = 0
	}

	result := make([]*model.Transaction, 0, limit)
	// Walk backwards so the newest transaction comes first
	for i := len(s.txs) - 1 - skip; i >= 0 && len(result) < limit; i-- {
		txCopy := *s.txs[i]
		result = append(result, &txCopy)
	}
	return result, nil
}
