package port

import (
	"context"

	"github.com/rl1809/storefront-cart/internal/core/domain"
)

type CatalogSource interface {
	// Products returns the full product catalog
	Products(ctx context.Context) ([]domain.Product, error)
}

type StockSource interface {
	// Stock returns the current stock level of every product
	Stock(ctx context.Context) ([]domain.StockEntry, error)
}
