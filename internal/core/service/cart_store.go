package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/rl1809/storefront-cart/internal/core/domain"
	"github.com/rl1809/storefront-cart/internal/port"
)

const DefaultStorageKey = "@storefront:cart"

// User-facing notification messages.
const (
	MsgOutOfStock   = "quantity requested exceeds stock"
	MsgAddFailed    = "failed to add product"
	MsgRemoveFailed = "failed to remove product"
	MsgUpdateFailed = "failed to update product amount"
)

var ErrInsufficientStock = errors.New("insufficient stock")

type UpdateProductAmount struct {
	ProductID int `json:"product_id"`
	Amount    int `json:"amount"`
}

type Option func(*CartStore)

func WithStorageKey(key string) Option {
	return func(s *CartStore) { s.key = key }
}

func WithLogger(log zerolog.Logger) Option {
	return func(s *CartStore) { s.log = log }
}

// CartStore owns the committed cart. Every successful mutation is written to
// the key-value store before the in-memory cart is replaced, so the persisted
// value always equals Cart().
type CartStore struct {
	catalog  port.CatalogSource
	stock    port.StockSource
	storage  port.KeyValueStore
	notifier port.Notifier
	key      string
	log      zerolog.Logger

	// opMu serializes operations, remote fetches included. mu guards cart
	// alone, so Cart() never waits on a fetch.
	opMu sync.Mutex
	mu   sync.RWMutex
	cart domain.Cart

	subMu  sync.Mutex
	subs   map[int]chan domain.Cart
	nextID int
}

func NewCartStore(ctx context.Context, catalog port.CatalogSource, stock port.StockSource,
	storage port.KeyValueStore, notifier port.Notifier, opts ...Option) *CartStore {
	s := &CartStore{
		catalog:  catalog,
		stock:    stock,
		storage:  storage,
		notifier: notifier,
		key:      DefaultStorageKey,
		log:      zerolog.Nop(),
		subs:     make(map[int]chan domain.Cart),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.cart = s.load(ctx)
	return s
}

func (s *CartStore) load(ctx context.Context) domain.Cart {
	raw, ok, err := s.storage.GetItem(ctx, s.key)
	if err != nil {
		s.log.Warn().Err(err).Str("key", s.key).Msg("read persisted cart, starting empty")
		return domain.Cart{}
	}
	if !ok || raw == "" {
		return domain.Cart{}
	}

	var cart domain.Cart
	if err := json.Unmarshal([]byte(raw), &cart); err != nil {
		s.log.Warn().Err(err).Str("key", s.key).Msg("parse persisted cart, starting empty")
		return domain.Cart{}
	}
	if cart == nil {
		return domain.Cart{}
	}
	return cart.Normalize()
}

// Cart returns a copy of the committed cart.
func (s *CartStore) Cart() domain.Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cart.Clone()
}

// AddProduct puts one unit of productID in the cart. Unknown products are
// ignored; going over the stock limit raises MsgOutOfStock.
func (s *CartStore) AddProduct(ctx context.Context, productID int) domain.Cart {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	if err := s.addProduct(ctx, productID); err != nil {
		s.fail(ctx, err, MsgAddFailed, productID)
	}
	return s.cart.Clone()
}

func (s *CartStore) addProduct(ctx context.Context, productID int) error {
	products, err := s.catalog.Products(ctx)
	if err != nil {
		return fmt.Errorf("fetch products: %w", err)
	}
	stock, err := s.stock.Stock(ctx)
	if err != nil {
		return fmt.Errorf("fetch stock: %w", err)
	}

	existing, inCart := s.cart.Find(productID)
	if !inCart {
		product, ok := domain.FindProduct(products, productID)
		if !ok {
			s.log.Debug().Int("product_id", productID).Msg("add ignored: product not in catalog")
			return nil
		}
		if !domain.HasStock(stock, productID, 1) {
			return ErrInsufficientStock
		}
		product.Amount = 1
		return s.commit(ctx, s.cart.Append(product))
	}

	if !domain.HasStock(stock, productID, existing.Amount+1) {
		return ErrInsufficientStock
	}
	existing.Amount++
	return s.commit(ctx, s.cart.Replace(existing))
}

// RemoveProduct drops the line-item for productID, if present.
func (s *CartStore) RemoveProduct(ctx context.Context, productID int) domain.Cart {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	if err := s.commit(ctx, s.cart.Without(productID)); err != nil {
		s.fail(ctx, err, MsgRemoveFailed, productID)
	}
	return s.cart.Clone()
}

// UpdateProductAmount sets the absolute amount of a line-item already in the
// cart. Non-positive amounts and products outside the cart are ignored.
func (s *CartStore) UpdateProductAmount(ctx context.Context, req UpdateProductAmount) domain.Cart {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	if err := s.updateProductAmount(ctx, req); err != nil {
		s.fail(ctx, err, MsgUpdateFailed, req.ProductID)
	}
	return s.cart.Clone()
}

func (s *CartStore) updateProductAmount(ctx context.Context, req UpdateProductAmount) error {
	if req.Amount <= 0 {
		return nil
	}
	product, ok := s.cart.Find(req.ProductID)
	if !ok {
		return nil
	}

	stock, err := s.stock.Stock(ctx)
	if err != nil {
		return fmt.Errorf("fetch stock: %w", err)
	}
	if !domain.HasStock(stock, req.ProductID, req.Amount) {
		return ErrInsufficientStock
	}

	product.Amount = req.Amount
	return s.commit(ctx, s.cart.Replace(product))
}

func (s *CartStore) commit(ctx context.Context, next domain.Cart) error {
	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := s.storage.SetItem(ctx, s.key, string(data)); err != nil {
		return fmt.Errorf("persist cart: %w", err)
	}
	s.mu.Lock()
	s.cart = next
	s.mu.Unlock()
	s.publish(next)
	return nil
}

func (s *CartStore) fail(ctx context.Context, err error, message string, productID int) {
	if errors.Is(err, ErrInsufficientStock) {
		s.log.Info().Int("product_id", productID).Msg("quantity requested exceeds stock")
		s.notifier.Error(ctx, MsgOutOfStock)
		return
	}
	s.log.Error().Err(err).Int("product_id", productID).Msg(message)
	s.notifier.Error(ctx, message)
}

// Subscribe returns a channel receiving every committed cart. Slow readers
// only see the latest cart. Call the returned func to unsubscribe.
func (s *CartStore) Subscribe() (<-chan domain.Cart, func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextID
	s.nextID++
	ch := make(chan domain.Cart, 1)
	s.subs[id] = ch

	return ch, func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		if _, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(ch)
		}
	}
}

func (s *CartStore) publish(cart domain.Cart) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	for _, ch := range s.subs {
		select {
		case <-ch:
		default:
		}
		ch <- cart.Clone()
	}
}
