package storage

import (
	"context"
	"os"
	"sort"
	"testing"

	"github.com/redis/go-redis/v9"
)

func getRedisClient(t *testing.T) *redis.Client {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	return client
}

func TestRedisGetItem_Missing(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	ctx := context.Background()
	adapter := NewRedisAdapter(client)

	// Setup
	client.Del(ctx, "test:cart:missing")

	value, ok, err := adapter.GetItem(ctx, "test:cart:missing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok || value != "" {
		t.Errorf("expected missing key, got %q", value)
	}
}

func TestRedisSetItem_Overwrite(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	ctx := context.Background()
	adapter := NewRedisAdapter(client)
	defer client.Del(ctx, "test:cart")

	if err := adapter.SetItem(ctx, "test:cart", `[{"id":1,"amount":1}]`); err != nil {
		t.Fatalf("first set failed: %v", err)
	}
	if err := adapter.SetItem(ctx, "test:cart", "[]"); err != nil {
		t.Fatalf("second set failed: %v", err)
	}

	value, ok, err := adapter.GetItem(ctx, "test:cart")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok || value != "[]" {
		t.Errorf("expected [], got %q (ok=%v)", value, ok)
	}
}

func TestRedisStock(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	ctx := context.Background()
	adapter := NewRedisAdapter(client)

	// Setup
	keys, _ := client.Keys(ctx, "stock:*").Result()
	if len(keys) > 0 {
		client.Del(ctx, keys...)
	}
	adapter.SetStock(ctx, 1, 3)
	adapter.SetStock(ctx, 2, 0)
	client.Set(ctx, "stock:not-a-product", 9, 0)
	defer client.Del(ctx, "stock:1", "stock:2", "stock:not-a-product")

	stock, err := adapter.Stock(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sort.Slice(stock, func(i, j int) bool { return stock[i].ID < stock[j].ID })

	if len(stock) != 2 {
		t.Fatalf("expected 2 entries, got %d: %v", len(stock), stock)
	}
	if stock[0].ID != 1 || stock[0].Amount != 3 {
		t.Errorf("expected {1 3}, got %v", stock[0])
	}
	if stock[1].ID != 2 || stock[1].Amount != 0 {
		t.Errorf("expected {2 0}, got %v", stock[1])
	}
}
