package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"

	"github.com/rl1809/storefront-cart/internal/core/domain"
)

const (
	productsPath = "/products"
	stockPath    = "/stock"
	maxBodyBytes = 4 << 20
)

// HTTPSource reads the catalog and stock levels from the storefront API.
type HTTPSource struct {
	baseURL string
	client  *http.Client
	timeout time.Duration
	cb      *gobreaker.CircuitBreaker
}

// NewHTTPSource builds a source for baseURL. A zero timeout leaves requests
// bounded only by the caller's context.
func NewHTTPSource(baseURL string, timeout time.Duration, log zerolog.Logger) *HTTPSource {
	st := gobreaker.Settings{
		Name:        "CatalogAPI",
		MaxRequests: 1,
		Interval:    10 * time.Second,
		Timeout:     15 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
				Msg("circuit breaker state changed")
		},
	}

	return &HTTPSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{},
		timeout: timeout,
		cb:      gobreaker.NewCircuitBreaker(st),
	}
}

func (s *HTTPSource) Products(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	if err := s.getJSON(ctx, productsPath, &products); err != nil {
		return nil, errors.Wrap(err, "get products")
	}
	return products, nil
}

func (s *HTTPSource) Stock(ctx context.Context) ([]domain.StockEntry, error) {
	var stock []domain.StockEntry
	if err := s.getJSON(ctx, stockPath, &stock); err != nil {
		return nil, errors.Wrap(err, "get stock")
	}
	return stock, nil
}

func (s *HTTPSource) getJSON(ctx context.Context, path string, out interface{}) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	body, err := s.cb.Execute(func() (interface{}, error) {
		return s.fetch(ctx, path)
	})
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body.([]byte), out); err != nil {
		return errors.Wrap(err, "decode response")
	}
	return nil
}

func (s *HTTPSource) fetch(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+path, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, errors.Wrap(err, "read response")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, path)
	}
	return body, nil
}
