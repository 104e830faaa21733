package useCases

import (
	"context"
	"net/http"

	"txDashApp/internal/domain/model"
)

// TransactionService defines the interface for recording and querying transactions.
type TransactionService interface {
	ProcessTransaction(ctx context.Context, tx *model.Transaction) error
	GetRecentTransactions(ctx context.Context, limit, skip int) ([]*model.Transaction, error)
}

// Broadcaster defines an interface for pushing live transactions to WebSocket clients.
type Broadcaster interface {
	BroadcastTransaction(tx *model.Transaction)
	Handler() func(http.ResponseWriter, *http.Request)
}
