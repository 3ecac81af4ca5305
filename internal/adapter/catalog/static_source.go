package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/rl1809/storefront-cart/internal/core/domain"
)

// Seed is the on-disk shape of a catalog: the products and stock collections
// the storefront API serves.
type Seed struct {
	Products []domain.Product    `json:"products"`
	Stock    []domain.StockEntry `json:"stock"`
}

// StaticSource serves a fixed catalog from memory. Stock can be adjusted at runtime.
type StaticSource struct {
	mu       sync.RWMutex
	products []domain.Product
	stock    []domain.StockEntry
}

func NewStaticSource(seed Seed) *StaticSource {
	s := &StaticSource{
		products: make([]domain.Product, len(seed.Products)),
		stock:    make([]domain.StockEntry, len(seed.Stock)),
	}
	copy(s.products, seed.Products)
	copy(s.stock, seed.Stock)
	return s
}

func LoadSeedFile(path string) (Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Seed{}, fmt.Errorf("read seed: %w", err)
	}

	var seed Seed
	if err := json.Unmarshal(data, &seed); err != nil {
		return Seed{}, fmt.Errorf("parse seed %s: %w", path, err)
	}
	return seed, nil
}

func (s *StaticSource) Products(ctx context.Context) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Product, len(s.products))
	copy(out, s.products)
	return out, nil
}

func (s *StaticSource) Stock(ctx context.Context) ([]domain.StockEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.StockEntry, len(s.stock))
	copy(out, s.stock)
	return out, nil
}

// SetStock replaces or adds the stock entry of a product.
func (s *StaticSource) SetStock(productID, amount int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.stock {
		if s.stock[i].ID == productID {
			s.stock[i].Amount = amount
			return
		}
	}
	s.stock = append(s.stock, domain.StockEntry{ID: productID, Amount: amount})
}
