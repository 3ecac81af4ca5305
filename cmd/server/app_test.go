package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/rl1809/storefront-cart/internal/adapter/catalog"
	"github.com/rl1809/storefront-cart/internal/adapter/handler"
	"github.com/rl1809/storefront-cart/internal/core/domain"
	"github.com/rl1809/storefront-cart/internal/core/service"
	"github.com/rl1809/storefront-cart/pkg/config"
)

func catalogServer(t *testing.T) *httptest.Server {
	t.Helper()
	source := catalog.NewStaticSource(catalog.Seed{
		Products: []domain.Product{{ID: 1, Title: "Running shoe", Price: decimal.RequireFromString("179.9")}},
		Stock:    []domain.StockEntry{{ID: 1, Amount: 1}},
	})
	mux := http.NewServeMux()
	mux.HandleFunc("/products", func(w http.ResponseWriter, r *http.Request) {
		products, _ := source.Products(r.Context())
		json.NewEncoder(w).Encode(products)
	})
	mux.HandleFunc("/stock", func(w http.ResponseWriter, r *http.Request) {
		stock, _ := source.Stock(r.Context())
		json.NewEncoder(w).Encode(stock)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(catalogURL string) *config.Config {
	return &config.Config{
		GRPC:    config.GRPCConfig{Port: 0, HealthInterval: time.Second},
		Catalog: config.CatalogConfig{BaseURL: catalogURL, Timeout: time.Second},
		Cart: config.CartConfig{
			StorageBackend: config.BackendMemory,
			StockSource:    config.BackendHTTP,
			StorageKey:     service.DefaultStorageKey,
		},
	}
}

func TestNewApp_MemoryBackendServesCart(t *testing.T) {
	catalogSrv := catalogServer(t)
	ctx := context.Background()

	a, err := newApp(ctx, testConfig(catalogSrv.URL), zerolog.Nop())
	require.NoError(t, err)
	defer a.close()

	post := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/cart/items", strings.NewReader(`{"product_id":1}`))
		rec := httptest.NewRecorder()
		a.router.ServeHTTP(rec, req)
		return rec
	}

	rec := post()
	require.Equal(t, http.StatusOK, rec.Code)

	rec = post()
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = httptest.NewRecorder()
	a.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/cart", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp handler.CartHTTPResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Cart, 1)
	assert.Equal(t, 1, resp.Cart[0].Amount)

	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, a.reporter.Probe(ctx))
	check, err := a.health.Check(ctx, &healthpb.HealthCheckRequest{Service: handler.CartServiceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, check.GetStatus())
}

func TestNewApp_UnreachableRedis(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:1")
	cfg.Cart.StorageBackend = config.BackendRedis
	cfg.Redis.Addr = "127.0.0.1:1"

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := newApp(ctx, cfg, zerolog.Nop())
	assert.ErrorContains(t, err, "connect redis")
}
