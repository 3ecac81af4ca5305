// Command catalogserver is a stand-in for the storefront API. It serves the
// /products and /stock collections of a seed file.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/rl1809/storefront-cart/internal/adapter/catalog"
	"github.com/rl1809/storefront-cart/pkg/config"
	"github.com/rl1809/storefront-cart/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		boot := zerolog.New(os.Stderr).With().Timestamp().Logger()
		boot.Fatal().Err(err).Msg("load config")
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	seed, err := catalog.LoadSeedFile(cfg.Catalog.SeedFile)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load catalog seed")
	}
	source := catalog.NewStaticSource(seed)
	log.Info().Int("products", len(seed.Products)).Str("file", cfg.Catalog.SeedFile).Msg("catalog loaded")

	router := newRouter(source)

	addr := fmt.Sprintf(":%d", cfg.Catalog.Port)
	srv := &http.Server{Addr: addr, Handler: router, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		log.Info().Str("addr", addr).Msg("catalog server listening")
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("catalog server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	srv.Shutdown(ctx)
	log.Info().Msg("catalog server stopped")
}

// newRouter exposes the source as GET /products and GET /stock.
func newRouter(source *catalog.StaticSource) *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/products", func(w http.ResponseWriter, r *http.Request) {
		products, err := source.Products(r.Context())
		serve(w, products, err)
	}).Methods(http.MethodGet)
	router.HandleFunc("/stock", func(w http.ResponseWriter, r *http.Request) {
		stock, err := source.Stock(r.Context())
		serve(w, stock, err)
	}).Methods(http.MethodGet)
	return router
}

func serve(w http.ResponseWriter, data interface{}, err error) {
	w.Header().Set("Content-Type", "application/json")
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"message": err.Error()})
		return
	}
	json.NewEncoder(w).Encode(data)
}
