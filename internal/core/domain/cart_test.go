package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStockLimit(t *testing.T) {
	stock := []StockEntry{{ID: 1, Amount: 5}, {ID: 2, Amount: 0}, {ID: 3, Amount: -2}}

	assert.Equal(t, 5, StockLimit(stock, 1))
	assert.Equal(t, 0, StockLimit(stock, 2))
	assert.Equal(t, 0, StockLimit(stock, 3))
	assert.Equal(t, 0, StockLimit(stock, 99), "missing entry counts as 0")
	assert.Equal(t, 0, StockLimit(nil, 1))
}

func TestHasStock(t *testing.T) {
	stock := []StockEntry{{ID: 1, Amount: 5}}

	assert.True(t, HasStock(stock, 1, 5))
	assert.False(t, HasStock(stock, 1, 6))
	assert.False(t, HasStock(stock, 2, 1))
}

func TestCart_ReplaceKeepsPosition(t *testing.T) {
	cart := Cart{{ID: 1, Amount: 1}, {ID: 2, Amount: 1}, {ID: 3, Amount: 1}}

	next := cart.Replace(Product{ID: 2, Amount: 4})

	assert.Equal(t, []int{1, 2, 3}, ids(next))
	assert.Equal(t, 4, next[1].Amount)
	assert.Equal(t, 1, cart[1].Amount, "receiver must not be mutated")
}

func TestCart_AppendDoesNotAlias(t *testing.T) {
	cart := make(Cart, 1, 4)
	cart[0] = Product{ID: 1, Amount: 1}

	a := cart.Append(Product{ID: 2, Amount: 1})
	b := cart.Append(Product{ID: 3, Amount: 1})

	assert.Equal(t, []int{1, 2}, ids(a))
	assert.Equal(t, []int{1, 3}, ids(b))
}

func TestCart_Without(t *testing.T) {
	cart := Cart{{ID: 1, Amount: 2}, {ID: 2, Amount: 1}}

	assert.Equal(t, []int{2}, ids(cart.Without(1)))
	assert.Equal(t, []int{1, 2}, ids(cart.Without(42)))
	assert.Len(t, cart, 2)
}

func TestCart_Normalize(t *testing.T) {
	cart := Cart{
		{ID: 1, Amount: 2},
		{ID: 2, Amount: 0},
		{ID: 1, Amount: 7},
		{ID: 3, Amount: 1},
	}

	got := cart.Normalize()

	assert.Equal(t, []int{1, 3}, ids(got))
	assert.Equal(t, 2, got[0].Amount)
}

func ids(c Cart) []int {
	out := make([]int, 0, len(c))
	for _, p := range c {
		out = append(out, p.ID)
	}
	return out
}
