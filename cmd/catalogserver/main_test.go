package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rl1809/storefront-cart/internal/adapter/catalog"
)

func TestRouter_ServesSeedFile(t *testing.T) {
	seed, err := catalog.LoadSeedFile("../../configs/catalog.json")
	require.NoError(t, err)
	require.NotEmpty(t, seed.Products)

	srv := httptest.NewServer(newRouter(catalog.NewStaticSource(seed)))
	defer srv.Close()

	client := catalog.NewHTTPSource(srv.URL, time.Second, zerolog.Nop())
	ctx := context.Background()

	products, err := client.Products(ctx)
	require.NoError(t, err)
	assert.Len(t, products, len(seed.Products))
	assert.True(t, products[0].Price.Equal(seed.Products[0].Price))

	stock, err := client.Stock(ctx)
	require.NoError(t, err)
	assert.Equal(t, seed.Stock, stock)
}

func TestRouter_RejectsOtherMethods(t *testing.T) {
	srv := httptest.NewServer(newRouter(catalog.NewStaticSource(catalog.Seed{})))
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/products", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
