package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"txDashApp/internal/domain/model"
	"txDashApp/internal/domain/repository"
)

// ClickHouseRepository implements the TransactionPersistence interface using
// ClickHouse as the backend database. It provides durable, analytical storage
// for individual transaction events.
type ClickHouseRepository struct {
	conn driver.Conn
}

type ClickHouseConfig struct {
	Addr     string
	Username string
	Password string
	Timeout  int
}

func NewClickHouseRepository(cfg ClickHouseConfig) (*ClickHouseRepository, error) {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{cfg.Addr},
		Auth: clickhouse.Auth{
			Database: "default",
			Username: cfg.Username,
			Password: cfg.Password,
		},
		DialTimeout: time.Duration(cfg.Timeout) * time.Second,
		Compression: &clickhouse.Compression{
			Method: clickhouse.CompressionLZ4,
		},
	})
	if err != nil {
		return nil, err
	}

	// Check the connection
	if err := conn.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}

	// Ensure tables exist
	if err := createTablesIfNotExist(conn); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return &ClickHouseRepository{conn: conn}, nil
}

// Ensure ClickHouseRepository implements the required interface
var _ repository.TransactionPersistence = (*ClickHouseRepository)(nil)

func createTablesIfNotExist(conn driver.Conn) error {
	return conn.Exec(context.Background(), `
		CREATE TABLE IF NOT EXISTS transactions (
			id String,
			user_name String,
			user_email String,
			amount Float64,
			currency String,
			merchant String,
			merchant_category String,
			city String,
			state String,
			country String,
			transaction_type String,
			flagged UInt8,
			fraud_reason String,
			event_time DateTime64(3),
			processed_at DateTime DEFAULT now()
		) ENGINE = MergeTree()
		ORDER BY (currency, event_time)
	`)
}

// SaveTransaction saves a transaction event to ClickHouse
func (r *ClickHouseRepository) SaveTransaction(ctx context.Context, tx *model.Transaction) error {
	query := `
		INSERT INTO transactions (
			id, user_name, user_email, amount, currency, merchant, merchant_category,
			city, state, country, transaction_type, flagged, fraud_reason, event_time
		) VALUES (
			?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?
		)
	`

	flagged := uint8(0)
	if tx.Fraud.Flagged {
		flagged = 1
	}

	return r.conn.AsyncInsert(ctx, query, false,
		tx.TransactionID,
		tx.User.Name,
		tx.User.Email,
		tx.Details.Amount,
		tx.Details.Currency,
		tx.Details.Merchant,
		tx.Details.MerchantCategory,
		tx.Details.Location.City,
		tx.Details.Location.State,
		tx.Details.Location.Country,
		tx.Details.TransactionType,
		flagged,
		tx.Fraud.Reason,
		eventTime(tx.Details.Timestamp),
	)
}

// GetTransactions retrieves stored transactions, newest first, with pagination
func (r *ClickHouseRepository) GetTransactions(ctx context.Context, limit, skip int) ([]*model.Transaction, error) {
	if limit <= 0 {
		limit = 100
	}
	if skip < 0 {
		skip = 0
	}

	query := `
		SELECT id, user_name, user_email, amount, currency, merchant, merchant_category,
			city, state, country, transaction_type, flagged, fraud_reason, event_time
		FROM transactions
		ORDER BY event_time DESC
		LIMIT ? OFFSET ?
	`

	rows, err := r.conn.Query(ctx, query, limit, skip)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// GetTransactionsSince retrieves all transactions after the given unix timestamp
func (r *ClickHouseRepository) GetTransactionsSince(ctx context.Context, since int64) ([]*model.Transaction, error) {
	query := `
		SELECT id, user_name, user_email, amount, currency, merchant, merchant_category,
			city, state, country, transaction_type, flagged, fraud_reason, event_time
		FROM transactions
		WHERE event_time >= fromUnixTimestamp(?)
		ORDER BY event_time
	`

	rows, err := r.conn.Query(ctx, query, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTransactions(rows)
}

func scanTransactions(rows driver.Rows) ([]*model.Transaction, error) {
	var results []*model.Transaction
	for rows.Next() {
		var (
			tx      model.Transaction
			flagged uint8
			ts      time.Time
		)
		if err := rows.Scan(
			&tx.TransactionID,
			&tx.User.Name,
			&tx.User.Email,
			&tx.Details.Amount,
			&tx.Details.Currency,
			&tx.Details.Merchant,
			&tx.Details.MerchantCategory,
			&tx.Details.Location.City,
			&tx.Details.Location.State,
			&tx.Details.Location.Country,
			&tx.Details.TransactionType,
			&flagged,
			&tx.Fraud.Reason,
			&ts,
		); err != nil {
			return nil, err
		}
		tx.Fraud.Flagged = flagged == 1
		tx.Details.Timestamp = float64(ts.UnixMilli()) / 1000
		results = append(results, &tx)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return results, nil
}

// eventTime converts the wire's float unix-seconds timestamp to time.Time
// with millisecond precision.
func eventTime(unixSeconds float64) time.Time {
	return time.UnixMilli(int64(unixSeconds * 1000)).UTC()
}
