package main

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/rl1809/storefront-cart/internal/adapter/catalog"
	"github.com/rl1809/storefront-cart/internal/adapter/handler"
	"github.com/rl1809/storefront-cart/internal/adapter/notify"
	"github.com/rl1809/storefront-cart/internal/adapter/storage"
	"github.com/rl1809/storefront-cart/internal/core/service"
	"github.com/rl1809/storefront-cart/internal/port"
	"github.com/rl1809/storefront-cart/pkg/config"
)

const feedSize = 100

// storageKV is what a storage backend must provide to the server.
type storageKV interface {
	port.KeyValueStore
	port.Pinger
}

// app holds the wired cart server before any listener is opened.
type app struct {
	store      *service.CartStore
	router     *mux.Router
	grpcServer *grpc.Server
	health     *health.Server
	reporter   *handler.HealthReporter

	rdb *redis.Client
	db  *sql.DB
}

func newApp(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*app, error) {
	a := &app{}

	// Initialize backends
	if cfg.Cart.StorageBackend == config.BackendRedis || cfg.Cart.StockSource == config.BackendRedis {
		a.rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			DB:       cfg.Redis.DB,
			PoolSize: 20,
		})
		if err := a.rdb.Ping(ctx).Err(); err != nil {
			a.close()
			return nil, errors.Wrapf(err, "connect redis at %s", cfg.Redis.Addr)
		}
		log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to redis")
	}
	if cfg.Cart.StorageBackend == config.BackendMySQL || cfg.Cart.StockSource == config.BackendMySQL {
		db, err := sql.Open("mysql", cfg.MySQL.DSN)
		if err != nil {
			a.close()
			return nil, errors.Wrap(err, "open mysql")
		}
		a.db = db
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)

		if err := db.PingContext(ctx); err != nil {
			a.close()
			return nil, errors.Wrap(err, "ping mysql")
		}
		log.Info().Msg("connected to mysql")
	}

	// Initialize adapters
	var kv storageKV
	switch cfg.Cart.StorageBackend {
	case config.BackendRedis:
		kv = storage.NewRedisAdapter(a.rdb)
	case config.BackendMySQL:
		kv = storage.NewMySQLAdapter(a.db)
	default:
		kv = storage.NewMemoryAdapter()
	}

	httpSource := catalog.NewHTTPSource(cfg.Catalog.BaseURL, cfg.Catalog.Timeout, log)
	var stock port.StockSource = httpSource
	switch cfg.Cart.StockSource {
	case config.BackendRedis:
		stock = storage.NewRedisAdapter(a.rdb)
	case config.BackendMySQL:
		stock = storage.NewMySQLAdapter(a.db)
	}

	feed := notify.NewFeed(feedSize)
	notifier := notify.Multi{notify.NewLogNotifier(log), feed, notify.ContextNotifier{}}

	a.store = service.NewCartStore(ctx, httpSource, stock, kv, notifier,
		service.WithStorageKey(cfg.Cart.StorageKey),
		service.WithLogger(log.With().Str("component", "cart").Logger()),
	)
	log.Info().
		Str("storage", cfg.Cart.StorageBackend).
		Str("stock", cfg.Cart.StockSource).
		Int("line_items", len(a.store.Cart())).
		Msg("cart store ready")

	// gRPC health
	a.grpcServer = grpc.NewServer()
	a.health = health.NewServer()
	healthpb.RegisterHealthServer(a.grpcServer, a.health)
	a.reporter = handler.NewHealthReporter(a.health, kv, log)

	// HTTP routes
	a.router = mux.NewRouter()
	handler.NewHTTPHandler(a.store, feed).Register(a.router)

	return a, nil
}

func (a *app) close() {
	if a.rdb != nil {
		a.rdb.Close()
	}
	if a.db != nil {
		a.db.Close()
	}
}
