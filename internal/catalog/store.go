package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dulcefe/storefront/internal/model"
)

// Store caches the product list served by the upstream Catalog Source and
// tracks the loading/error state of the last fetch. It is read-only for the
// rest of the service: the cart copies products out of it, never into it.
type Store struct {
	url    string
	client *http.Client

	mu      sync.Mutex
	items   []model.Product
	loading bool
	errMsg  string
}

// NewStore creates a catalog store for the given source URL.
func NewStore(url string, timeout time.Duration) *Store {
	return &Store{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// FetchProducts requests a fresh product list from the Catalog Source.
// It always refetches so admin-side catalog changes are visible immediately;
// there is no stale-cache fast path. Failures are recorded on the store's
// error state and returned; the previous item list is kept. Concurrent calls
// are not deduplicated and the last finished fetch wins.
func (s *Store) FetchProducts(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true
	s.errMsg = ""
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	}()

	products, err := s.fetch(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.errMsg = err.Error()
		log.Error().Err(err).Str("url", s.url).Msg("failed to fetch products")
		return err
	}
	s.items = products
	return nil
}

func (s *Store) fetch(ctx context.Context) ([]model.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build catalog request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch products: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog source returned status %d", resp.StatusCode)
	}

	var products []model.Product
	if err := json.NewDecoder(resp.Body).Decode(&products); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return products, nil
}

// Product resolves a product by ID. It refetches the catalog first, the same
// policy as the listing path, so a cart add always prices from the current
// upstream list and never from a stale cache.
func (s *Store) Product(ctx context.Context, id string) (model.Product, bool, error) {
	if err := s.FetchProducts(ctx); err != nil {
		return model.Product{}, false, err
	}
	p, ok := s.lookup(id)
	return p, ok, nil
}

func (s *Store) lookup(id string) (model.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.items {
		if p.ID == id {
			return p, true
		}
	}
	return model.Product{}, false
}

// Products returns the cached product list.
func (s *Store) Products() []model.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]model.Product, len(s.items))
	copy(items, s.items)
	return items
}

// Loading reports whether a fetch is in flight.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the error message of the last fetch, or "" after a success.
func (s *Store) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMsg
}
