package domain

// Cart is an ordered list of line-items, unique by product id.
// Helpers never mutate the receiver.
type Cart []Product

func (c Cart) Find(productID int) (Product, bool) {
	return FindProduct(c, productID)
}

func (c Cart) Clone() Cart {
	out := make(Cart, len(c))
	copy(out, c)
	return out
}

// Append adds p as the last line-item.
func (c Cart) Append(p Product) Cart {
	out := make(Cart, 0, len(c)+1)
	out = append(out, c...)
	return append(out, p)
}

// Replace swaps the line-item with p.ID for p, keeping its position.
func (c Cart) Replace(p Product) Cart {
	out := c.Clone()
	for i := range out {
		if out[i].ID == p.ID {
			out[i] = p
		}
	}
	return out
}

// Without removes the line-item for productID, if any.
func (c Cart) Without(productID int) Cart {
	out := make(Cart, 0, len(c))
	for _, p := range c {
		if p.ID != productID {
			out = append(out, p)
		}
	}
	return out
}

// Normalize drops line-items with amount < 1 and repeated ids (first wins).
func (c Cart) Normalize() Cart {
	seen := make(map[int]struct{}, len(c))
	out := make(Cart, 0, len(c))
	for _, p := range c {
		if p.Amount < 1 {
			continue
		}
		if _, ok := seen[p.ID]; ok {
			continue
		}
		seen[p.ID] = struct{}{}
		out = append(out, p)
	}
	return out
}
