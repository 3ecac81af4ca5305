package storage

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/rl1809/storefront-cart/internal/core/domain"
)

const (
	stockKeyPrefix = "stock:"
	scanBatchSize  = 100
)

type RedisAdapter struct {
	client *redis.Client
}

func NewRedisAdapter(client *redis.Client) *RedisAdapter {
	return &RedisAdapter{client: client}
}

func (r *RedisAdapter) GetItem(ctx context.Context, key string) (string, bool, error) {
	value, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	return value, true, nil
}

func (r *RedisAdapter) SetItem(ctx context.Context, key, value string) error {
	return r.client.Set(ctx, key, value, 0).Err()
}

func (r *RedisAdapter) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// SetStock seeds the stock counter of a product.
func (r *RedisAdapter) SetStock(ctx context.Context, productID, quantity int) error {
	return r.client.Set(ctx, stockKey(productID), quantity, 0).Err()
}

// Stock reads every stock:<id> counter. Keys with a non-numeric suffix are skipped.
func (r *RedisAdapter) Stock(ctx context.Context) ([]domain.StockEntry, error) {
	var keys []string
	iter := r.client.Scan(ctx, 0, stockKeyPrefix+"*", scanBatchSize).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scan stock keys: %w", err)
	}
	if len(keys) == 0 {
		return []domain.StockEntry{}, nil
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("read stock values: %w", err)
	}

	stock := make([]domain.StockEntry, 0, len(keys))
	for i, key := range keys {
		id, err := strconv.Atoi(strings.TrimPrefix(key, stockKeyPrefix))
		if err != nil {
			continue
		}
		raw, ok := values[i].(string)
		if !ok {
			continue
		}
		amount, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("stock %d: %w", id, err)
		}
		stock = append(stock, domain.StockEntry{ID: id, Amount: amount})
	}

	return stock, nil
}

func stockKey(productID int) string {
	return stockKeyPrefix + strconv.Itoa(productID)
}
