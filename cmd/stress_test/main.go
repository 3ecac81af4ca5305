package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"reflect"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/rl1809/storefront-cart/internal/adapter/catalog"
	"github.com/rl1809/storefront-cart/internal/adapter/notify"
	"github.com/rl1809/storefront-cart/internal/adapter/storage"
	"github.com/rl1809/storefront-cart/internal/core/domain"
	"github.com/rl1809/storefront-cart/internal/core/service"
)

const (
	redisAddr     = "localhost:6379"
	storageKey    = "@stress:cart"
	productID     = 1
	initialStock  = 20
	totalRequests = 50
)

type countingNotifier struct {
	outOfStock atomic.Int32
	failures   atomic.Int32
}

func (n *countingNotifier) Error(ctx context.Context, message string) {
	if message == service.MsgOutOfStock {
		n.outOfStock.Add(1)
		return
	}
	n.failures.Add(1)
}

func main() {
	ctx := context.Background()
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(zerolog.WarnLevel)

	// Initialize Redis
	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatal().Err(err).Msg("failed to connect redis")
	}
	defer rdb.Close()

	// Clear previous test data
	rdb.Del(ctx, storageKey)
	keys, _ := rdb.Keys(ctx, "stock:*").Result()
	if len(keys) > 0 {
		rdb.Del(ctx, keys...)
	}

	// Initialize adapters and store
	redisAdapter := storage.NewRedisAdapter(rdb)
	if err := redisAdapter.SetStock(ctx, productID, initialStock); err != nil {
		log.Fatal().Err(err).Msg("failed to set stock")
	}
	source := catalog.NewStaticSource(catalog.Seed{
		Products: []domain.Product{{ID: productID, Title: "stress item"}},
	})

	counter := &countingNotifier{}
	cartStore := service.NewCartStore(ctx, source, redisAdapter, redisAdapter,
		notify.Multi{counter, notify.NewLogNotifier(log)},
		service.WithStorageKey(storageKey))

	// Spawn concurrent requests
	var wg sync.WaitGroup
	start := time.Now()

	for i := 0; i < totalRequests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cartStore.AddProduct(ctx, productID)
		}()
	}

	wg.Wait()
	elapsed := time.Since(start)

	// Results
	cart := cartStore.Cart()
	amount := 0
	if p, ok := cart.Find(productID); ok {
		amount = p.Amount
	}

	fmt.Println("========== STRESS TEST RESULTS ==========")
	fmt.Printf("Stock Limit:      %d\n", initialStock)
	fmt.Printf("Total Requests:   %d\n", totalRequests)
	fmt.Printf("Cart Amount:      %d\n", amount)
	fmt.Printf("Out Of Stock:     %d\n", counter.outOfStock.Load())
	fmt.Printf("Failures:         %d\n", counter.failures.Load())
	fmt.Printf("Duration:         %v\n", elapsed)
	fmt.Println("==========================================")

	// Assertions
	if amount == initialStock && counter.outOfStock.Load() == int32(totalRequests-initialStock) {
		fmt.Printf("PASS: amount capped at %d, %d rejected\n", initialStock, totalRequests-initialStock)
	} else {
		fmt.Printf("FAIL: expected amount %d with %d rejections, got %d/%d\n",
			initialStock, totalRequests-initialStock, amount, counter.outOfStock.Load())
	}

	// Verify the persisted cart in Redis
	raw, err := rdb.Get(ctx, storageKey).Result()
	if err != nil {
		fmt.Printf("FAIL: persisted cart unreadable: %v\n", err)
		return
	}
	var persisted domain.Cart
	if err := json.Unmarshal([]byte(raw), &persisted); err != nil {
		fmt.Printf("FAIL: persisted cart is not valid JSON: %v\n", err)
		return
	}
	if len(persisted) == 1 && persisted[0].ID == productID && persisted[0].Amount == amount {
		fmt.Println("PASS: persisted cart matches memory")
	} else {
		fmt.Printf("FAIL: persisted cart %s does not match memory\n", raw)
	}

	reloaded := service.NewCartStore(ctx, source, redisAdapter, redisAdapter, counter,
		service.WithStorageKey(storageKey))
	if reflect.DeepEqual(lineItems(reloaded.Cart()), lineItems(cart)) {
		fmt.Println("PASS: reloaded cart matches")
	} else {
		fmt.Println("FAIL: reloaded cart differs")
	}
}

func lineItems(c domain.Cart) []string {
	out := make([]string, 0, len(c))
	for _, p := range c {
		out = append(out, fmt.Sprintf("%d x%d", p.ID, p.Amount))
	}
	return out
}
