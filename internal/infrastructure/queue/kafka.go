package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"txDashApp/internal/app/dto"
	"txDashApp/internal/domain/model"
)

// KafkaConfig holds Kafka connection configuration
type KafkaConfig struct {
	Brokers       []string
	Topic         string
	ConsumerGroup string
	BatchSize     int
	BatchTimeout  int // milliseconds
}

// TransactionProducer defines interface for producing transaction events
type TransactionProducer interface {
	PublishTransaction(ctx context.Context, tx *model.Transaction) error
	PublishTransactionBatch(ctx context.Context, txs []*dto.TransactionDTO) error
	Close() error
}

// TransactionConsumer defines interface for consuming transaction events
type TransactionConsumer interface {
	Subscribe(ctx context.Context) (<-chan *model.Transaction, error)
	Commit(ctx context.Context, tx *model.Transaction) error
	Close() error
}

// KafkaProducer implements TransactionProducer using Kafka
type KafkaProducer struct {
	writer *kafka.Writer
}

// NewKafkaProducer creates a new Kafka producer
func NewKafkaProducer(config KafkaConfig) *KafkaProducer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(config.Brokers...),
		Topic:        config.Topic,
		Balancer:     &kafka.Hash{}, // Hash-based partitioning keeps per-currency ordering
		RequiredAcks: kafka.RequireAll,
	}

	return &KafkaProducer{writer: writer}
}

// PublishTransaction sends a transaction event to Kafka
func (p *KafkaProducer) PublishTransaction(ctx context.Context, tx *model.Transaction) error {
	data, err := json.Marshal(dto.FromModel(tx))
	if err != nil {
		return err
	}

	// Use currency as key so events for the same currency stay ordered
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(tx.Details.Currency),
		Value: data,
		Time:  time.Now(),
	})
}

// PublishTransactionBatch sends a batch of transaction events to Kafka
func (p *KafkaProducer) PublishTransactionBatch(ctx context.Context, txs []*dto.TransactionDTO) error {
	msgSlice := make([]kafka.Message, len(txs))
	for i, tx := range txs {
		data, err := json.Marshal(tx)
		if err != nil {
			return err
		}
		msgSlice[i] = kafka.Message{
			Key:   []byte(tx.Details.Currency),
			Value: data,
			Time:  time.Now(),
		}
	}
	return p.writer.WriteMessages(ctx, msgSlice...)
}

// Close closes the producer
func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}

// KafkaConsumer implements TransactionConsumer using Kafka
type KafkaConsumer struct {
	reader        *kafka.Reader
	topic         string
	pendingMsgs   map[string]kafka.Message // Map of transaction ID to Kafka message
	pendingMsgsMu sync.RWMutex             // Mutex to protect the pendingMsgs map
	batchSize     int                      // Number of messages to accumulate before batch commit
	batchTimeout  time.Duration            // Max time to wait before committing a batch
}

// NewKafkaConsumer creates a new Kafka consumer
func NewKafkaConsumer(config KafkaConfig) *KafkaConsumer {
	// Disable auto-commit to allow explicit commits
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        config.Brokers,
		Topic:          config.Topic,
		GroupID:        config.ConsumerGroup,
		MinBytes:       10e3,              // 10KB
		MaxBytes:       10e6,              // 10MB
		CommitInterval: 0,                 // Disable auto commit - we'll handle this manually
		StartOffset:    kafka.FirstOffset, // Start from oldest message if no offset is stored
	})

	return &KafkaConsumer{
		reader:       reader,
		topic:        config.Topic,
		pendingMsgs:  make(map[string]kafka.Message),
		batchSize:    config.BatchSize,
		batchTimeout: time.Duration(config.BatchTimeout) * time.Millisecond,
	}
}

// Subscribe returns a channel of transaction events from Kafka
func (c *KafkaConsumer) Subscribe(ctx context.Context) (<-chan *model.Transaction, error) {
	txCh := make(chan *model.Transaction, 1000) // Buffer to handle bursts

	// Start a background goroutine for batch commits
	go c.startBatchCommitter(ctx)

	// Start the main consumer goroutine
	go func() {
		defer close(txCh)

		for {
			select {
			case <-ctx.Done():
				return
			default:
				msg, err := c.reader.FetchMessage(ctx)
				if err != nil {
					if ctx.Err() == nil { // Only log if not due to context cancellation
						log.Printf("Error fetching message: %v", err)
					}
					return
				}

				var txDto dto.TransactionDTO
				if err := json.Unmarshal(msg.Value, &txDto); err != nil {
					log.Printf("Error unmarshalling transaction: %v", err)
					// Commit bad messages to avoid getting stuck
					_ = c.reader.CommitMessages(ctx, msg)
					continue
				}

				tx := txDto.ToModel()

				// Make sure we have an ID for commit tracking
				if tx.TransactionID == "" {
					tx.TransactionID = fmt.Sprintf("%s-%d-%d", c.topic, msg.Partition, msg.Offset)
				}

				// Store message for later commit (before sending to channel to ensure we don't miss commits)
				c.pendingMsgsMu.Lock()
				c.pendingMsgs[tx.TransactionID] = msg
				pendingCount := len(c.pendingMsgs)
				c.pendingMsgsMu.Unlock()

				if pendingCount > c.batchSize*10 {
					log.Printf("Warning: Large number of uncommitted messages: %d, batchSize is %d", pendingCount, c.batchSize)
				}

				// Send to channel (blocking if buffer is full)
				select {
				case <-ctx.Done():
					return
				case txCh <- tx:
					// Message is now in the channel to be processed
					// Actual commit will happen in Commit() or batch committer
				}
			}
		}
	}()

	return txCh, nil
}

// startBatchCommitter runs a background process that periodically commits messages in batches
func (c *KafkaConsumer) startBatchCommitter(ctx context.Context) {
	ticker := time.NewTicker(c.batchTimeout)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			// Final commit before shutting down
			c.commitAllPending(context.Background()) // Use a new context since the original is canceled
			return
		case <-ticker.C:
			c.commitAllPending(ctx)
		}
	}
}

// commitAllPending commits all pending messages
func (c *KafkaConsumer) commitAllPending(ctx context.Context) {
	c.pendingMsgsMu.Lock()
	defer c.pendingMsgsMu.Unlock()

	if len(c.pendingMsgs) == 0 {
		return // Nothing to commit
	}

	msgs := make([]kafka.Message, 0, len(c.pendingMsgs))
	for _, msg := range c.pendingMsgs {
		msgs = append(msgs, msg)
	}

	if err := c.reader.CommitMessages(ctx, msgs...); err != nil {
		log.Printf("Error committing batch of %d messages: %v", len(msgs), err)
		return
	}

	log.Printf("Successfully committed batch of %d messages", len(msgs))
	c.pendingMsgs = make(map[string]kafka.Message)
}

// Commit acknowledges that a transaction has been processed
func (c *KafkaConsumer) Commit(ctx context.Context, tx *model.Transaction) error {
	if tx == nil || tx.TransactionID == "" {
		return fmt.Errorf("cannot commit nil transaction or transaction with empty ID")
	}

	c.pendingMsgsMu.Lock()
	msg, exists := c.pendingMsgs[tx.TransactionID]
	if !exists {
		c.pendingMsgsMu.Unlock()
		return fmt.Errorf("message for transaction %s not found in pending messages", tx.TransactionID)
	}

	// If we have enough messages, commit them all as a batch
	pendingCount := len(c.pendingMsgs)
	shouldBatchCommit := pendingCount >= c.batchSize

	// If not batch committing, just commit this one message
	if !shouldBatchCommit {
		delete(c.pendingMsgs, tx.TransactionID) // Remove from pending before unlocking
		c.pendingMsgsMu.Unlock()

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			return fmt.Errorf("failed to commit message for transaction %s: %w", tx.TransactionID, err)
		}
		return nil
	}

	// For batch commit, unlock and call the batch commit function
	c.pendingMsgsMu.Unlock()
	c.commitAllPending(ctx)
	return nil
}

// Close closes the consumer
func (c *KafkaConsumer) Close() error {
	// Final commit of any pending messages
	c.commitAllPending(context.Background())
	return c.reader.Close()
}
