package app

import (
	"context"
	"errors"
	"log"

	"txDashApp/internal/app/dto"
	"txDashApp/internal/domain/useCases"
	"txDashApp/internal/infrastructure/queue"
	"txDashApp/internal/metrics"
)

// ErrContextCancelled is returned when the context is cancelled during processing
var ErrContextCancelled = errors.New("context cancelled during processing")

// EventProcessor processes transaction events from a channel, records them,
// and broadcasts each one to connected WebSocket clients.
type EventProcessor struct {
	TxCh        chan *dto.TransactionDTO
	TxService   useCases.TransactionService
	Broadcaster useCases.Broadcaster
	Consumer    queue.TransactionConsumer // nil when events arrive over a direct channel
	DedupCache  map[string]struct{}       // simple in-memory deduplication, replace with Redis for HA
}

func NewEventProcessor(txCh chan *dto.TransactionDTO, txService useCases.TransactionService, broadcaster useCases.Broadcaster, consumer queue.TransactionConsumer) *EventProcessor {
	return &EventProcessor{
		TxCh:        txCh,
		TxService:   txService,
		Broadcaster: broadcaster,
		Consumer:    consumer,
		DedupCache:  make(map[string]struct{}),
	}
}

func (p *EventProcessor) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case txDto := <-p.TxCh:
			if err := p.processTransaction(ctx, txDto); err != nil {
				if errors.Is(err, ErrContextCancelled) {
					log.Println("Context cancelled, stopping event processor")
					return ctx.Err()
				}
				// Other errors are just logged but processing continues
				log.Printf("Error processing transaction: %v", err)
			}
		}
	}
}

// processTransaction handles a single event with proper context cancellation checks
func (p *EventProcessor) processTransaction(ctx context.Context, txDto *dto.TransactionDTO) error {
	// Check context before starting
	if ctx.Err() != nil {
		return ErrContextCancelled
	}

	if txDto == nil {
		return nil
	}

	// Deduplication (replace with Redis for distributed setup)
	if _, exists := p.DedupCache[txDto.TransactionID]; exists {
		metrics.TransactionsDropped.Inc()
		return nil
	}
	p.DedupCache[txDto.TransactionID] = struct{}{}

	// Convert DTO to domain model
	tx := txDto.ToModel()

	// Check context before recording
	if ctx.Err() != nil {
		return ErrContextCancelled
	}

	// Record the transaction
	if err := p.TxService.ProcessTransaction(ctx, tx); err != nil {
		return err
	}

	metrics.TransactionsProcessed.Inc()
	if tx.Fraud.Flagged {
		metrics.TransactionsFlagged.WithLabelValues(tx.Fraud.Reason).Inc()
	}

	// Check context before broadcasting
	if ctx.Err() != nil {
		return ErrContextCancelled
	}

	// Broadcast the raw event to dashboard clients
	p.Broadcaster.BroadcastTransaction(tx)

	// Acknowledge the offset only after the event has been recorded and
	// broadcast, so an unprocessed message is redelivered after a crash
	if p.Consumer != nil {
		if err := p.Consumer.Commit(ctx, tx); err != nil {
			log.Printf("Error committing transaction %s: %v", tx.TransactionID, err)
		}
	}

	return nil
}
