package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"txDashApp/internal/domain/model"
	"txDashApp/internal/domain/repository"
)

// recentKey is the Redis list holding the most recent transactions, newest first.
const recentKey = "transactions:recent"

// maxCachedTransactions bounds the recent list so the cache never grows unbounded.
const maxCachedTransactions = 1000

// RedisRepository implements the TransactionCache interface using Redis as the backend.
// Recent transactions are kept in a capped list so the history endpoint's first
// page can be served without touching persistent storage.
type RedisRepository struct {
	client *redis.Client
}

func NewRedisRepository(addr, password string, db int) *RedisRepository {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisRepository{client: client}
}

// Ensure RedisRepository implements the TransactionCache interface
var _ repository.TransactionCache = (*RedisRepository)(nil)

// Generic Redis methods
func (r *RedisRepository) Set(ctx context.Context, key string, value interface{}) error {
	return r.client.Set(ctx, key, value, 0).Err()
}

func (r *RedisRepository) Get(ctx context.Context, key string) (string, error) {
	return r.client.Get(ctx, key).Result()
}

// SaveTransaction pushes a transaction onto the recent list and trims it to capacity.
func (r *RedisRepository) SaveTransaction(ctx context.Context, tx *model.Transaction) error {
	data, err := json.Marshal(tx)
	if err != nil {
		return fmt.Errorf("failed to marshal transaction: %w", err)
	}

	// Push and trim in one round trip
	pipe := r.client.Pipeline()
	pipe.LPush(ctx, recentKey, data)
	pipe.LTrim(ctx, recentKey, 0, maxCachedTransactions-1)
	_, err = pipe.Exec(ctx)
	return err
}

// GetRecentTransactions returns up to limit cached transactions, newest first.
func (r *RedisRepository) GetRecentTransactions(ctx context.Context, limit int) ([]*model.Transaction, error) {
	if limit <= 0 {
		limit = 100
	}

	values, err := r.client.LRange(ctx, recentKey, 0, int64(limit-1)).Result()
	if err != nil {
		if err == redis.Nil {
			return []*model.Transaction{}, nil
		}
		return nil, err
	}

	result := make([]*model.Transaction, 0, len(values))
	for _, data := range values {
		var tx model.Transaction
		if err := json.Unmarshal([]byte(data), &tx); err != nil {
			continue // Skip malformed data
		}
		result = append(result, &tx)
	}

	return result, nil
}
