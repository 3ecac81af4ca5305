package domain

import "github.com/shopspring/decimal"

// Product is a catalog entry. Amount is only meaningful on cart line-items.
type Product struct {
	ID     int             `json:"id"`
	Title  string          `json:"title"`
	Price  decimal.Decimal `json:"price"`
	Image  string          `json:"image"`
	Amount int             `json:"amount,omitempty"`
}

// StockEntry is the remote count of purchasable units for a product.
type StockEntry struct {
	ID     int `json:"id"`
	Amount int `json:"amount"`
}

// StockLimit returns the available units for productID. A missing entry or a
// non-positive amount counts as 0.
func StockLimit(stock []StockEntry, productID int) int {
	for _, entry := range stock {
		if entry.ID == productID {
			if entry.Amount > 0 {
				return entry.Amount
			}
			return 0
		}
	}
	return 0
}

// HasStock reports whether required units of productID are available.
func HasStock(stock []StockEntry, productID, required int) bool {
	return StockLimit(stock, productID) >= required
}

// FindProduct looks up a catalog entry by id.
func FindProduct(products []Product, productID int) (Product, bool) {
	for _, p := range products {
		if p.ID == productID {
			return p, true
		}
	}
	return Product{}, false
}
