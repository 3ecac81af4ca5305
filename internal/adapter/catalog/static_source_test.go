package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rl1809/storefront-cart/internal/core/domain"
)

func TestLoadSeedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"products": [{"id": 1, "title": "Running shoe", "price": 179.9, "image": "a.jpg"}],
		"stock": [{"id": 1, "amount": 3}]
	}`), 0o600))

	seed, err := LoadSeedFile(path)
	require.NoError(t, err)
	assert.Len(t, seed.Products, 1)
	assert.Equal(t, []domain.StockEntry{{ID: 1, Amount: 3}}, seed.Stock)
}

func TestLoadSeedFile_Missing(t *testing.T) {
	_, err := LoadSeedFile(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestStaticSource_SetStock(t *testing.T) {
	source := NewStaticSource(Seed{Stock: []domain.StockEntry{{ID: 1, Amount: 3}}})
	ctx := context.Background()

	source.SetStock(1, 7)
	source.SetStock(2, 1)

	stock, err := source.Stock(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.StockEntry{{ID: 1, Amount: 7}, {ID: 2, Amount: 1}}, stock)
}

func TestStaticSource_ReturnsCopies(t *testing.T) {
	source := NewStaticSource(Seed{Products: []domain.Product{{ID: 1, Title: "Running shoe"}}})

	products, _ := source.Products(context.Background())
	products[0].Title = "changed"

	again, _ := source.Products(context.Background())
	assert.Equal(t, "Running shoe", again[0].Title)
}
