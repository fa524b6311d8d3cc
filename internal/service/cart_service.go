package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dulcefe/storefront/internal/cart"
	"github.com/dulcefe/storefront/internal/model"
)

// persistTimeout bounds a single background snapshot write.
const persistTimeout = 5 * time.Second

// maxSessions caps the in-memory session cache. Engine state is always
// reconstructible from its snapshot, so eviction only costs the next request
// a hydration.
const maxSessions = 1024

// CartRepositoryInterface defines the interface for cart snapshot storage.
type CartRepositoryInterface interface {
	Load(ctx context.Context, sessionID string) ([]model.LineItem, error)
	Save(ctx context.Context, sessionID string, items []model.LineItem) error
}

// ProductSource resolves catalog products for cart adds. The boolean reports
// whether the product exists; the error reports an upstream failure.
type ProductSource interface {
	Product(ctx context.Context, id string) (model.Product, bool, error)
}

// snapshotWriter persists one session's snapshots in the background while
// keeping them ordered: writes are serialized by a mutex and a write whose
// snapshot has been superseded is skipped, so the newest snapshot always
// lands last regardless of how the goroutines interleave.
type snapshotWriter struct {
	repo      CartRepositoryInterface
	sessionID string

	seq atomic.Uint64
	mu  sync.Mutex
}

// notify is the engine's change observer. The engine invokes it in mutation
// order, which makes the sequence numbers monotonic per snapshot.
func (w *snapshotWriter) notify(items []model.LineItem) {
	seq := w.seq.Add(1)
	go func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		if w.seq.Load() != seq {
			return // superseded by a newer snapshot
		}
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		if err := w.repo.Save(ctx, w.sessionID, items); err != nil {
			log.Error().Err(err).Str("session_id", w.sessionID).
				Msg("failed to persist cart snapshot")
		}
	}()
}

// session pairs a cached engine with its writer and recency for eviction.
type session struct {
	engine   *cart.Engine
	lastUsed time.Time
}

// CartService owns one cart engine per client session. Engines are hydrated
// from the repository on first access and cached with LRU eviction; every
// structural change is written back asynchronously through the engine's
// change observer.
type CartService struct {
	repo     CartRepositoryInterface
	products ProductSource

	mu       sync.Mutex
	sessions map[string]*session
}

// NewCartService creates a CartService with the given repository and catalog.
func NewCartService(repo CartRepositoryInterface, products ProductSource) *CartService {
	return &CartService{
		repo:     repo,
		products: products,
		sessions: make(map[string]*session),
	}
}

// engine returns the session's engine, hydrating it on first access.
// A corrupt or invariant-violating snapshot is discarded with a warning and
// the session starts empty. A storage failure is a different case entirely:
// the stored snapshot may still be intact, so no engine is cached and the
// error propagates rather than letting a later mutation overwrite real state
// with an empty cart.
func (s *CartService) engine(ctx context.Context, sessionID string) (*cart.Engine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[sessionID]; ok {
		sess.lastUsed = time.Now()
		return sess.engine, nil
	}

	items, err := s.repo.Load(ctx, sessionID)
	if err != nil && !errors.Is(err, ErrCorruptSnapshot) {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	w := &snapshotWriter{repo: s.repo, sessionID: sessionID}
	e := cart.NewEngine(w.notify)
	if err != nil {
		log.Warn().Err(err).Str("session_id", sessionID).
			Msg("discarding corrupt cart snapshot, starting empty")
	} else if err := e.Hydrate(items); err != nil {
		log.Warn().Err(err).Str("session_id", sessionID).
			Msg("discarding invalid cart snapshot, starting empty")
	}

	s.evictLocked()
	s.sessions[sessionID] = &session{engine: e, lastUsed: time.Now()}
	return e, nil
}

// evictLocked drops the least recently used session once the cache is full.
func (s *CartService) evictLocked() {
	if len(s.sessions) < maxSessions {
		return
	}
	var oldestID string
	var oldest time.Time
	for id, sess := range s.sessions {
		if oldestID == "" || sess.lastUsed.Before(oldest) {
			oldestID = id
			oldest = sess.lastUsed
		}
	}
	delete(s.sessions, oldestID)
}

// GetCart returns the session's cart view.
func (s *CartService) GetCart(ctx context.Context, sessionID string) (*model.CartResponse, error) {
	e, err := s.engine(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return view(e), nil
}

// AddItem resolves a product from the catalog and adds one unit to the cart.
func (s *CartService) AddItem(ctx context.Context, sessionID, productID string) (*model.CartResponse, error) {
	p, ok, err := s.products.Product(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	if !ok {
		return nil, ErrProductNotFound
	}

	e, err := s.engine(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := e.AddToCart(p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPrice, err)
	}
	return view(e), nil
}

// UpdateQuantity sets a line's quantity; zero or less removes the line.
// Unknown products are a silent no-op.
func (s *CartService) UpdateQuantity(ctx context.Context, sessionID, productID string, quantity int) (*model.CartResponse, error) {
	e, err := s.engine(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	e.UpdateQuantity(productID, quantity)
	return view(e), nil
}

// RemoveItem removes a line. Unknown products are a silent no-op.
func (s *CartService) RemoveItem(ctx context.Context, sessionID, productID string) (*model.CartResponse, error) {
	e, err := s.engine(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	e.RemoveFromCart(productID)
	return view(e), nil
}

// ClearCart empties the cart and drops any coupon.
func (s *CartService) ClearCart(ctx context.Context, sessionID string) error {
	e, err := s.engine(ctx, sessionID)
	if err != nil {
		return err
	}
	e.ClearCart()
	return nil
}

// ApplyCoupon installs a coupon from the fixed registry.
// Returns ErrInvalidCoupon for unknown codes, leaving any active coupon as is.
func (s *CartService) ApplyCoupon(ctx context.Context, sessionID, code string) (*model.CartResponse, error) {
	e, err := s.engine(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !e.ApplyCoupon(code) {
		return nil, ErrInvalidCoupon
	}
	return view(e), nil
}

// SetCouponTarget points the active coupon at a line item.
func (s *CartService) SetCouponTarget(ctx context.Context, sessionID, itemID string) (*model.CartResponse, error) {
	e, err := s.engine(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	e.SetCouponTarget(itemID)
	return view(e), nil
}

// RemoveCoupon clears the active coupon.
func (s *CartService) RemoveCoupon(ctx context.Context, sessionID string) (*model.CartResponse, error) {
	e, err := s.engine(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	e.RemoveCoupon()
	return view(e), nil
}

func view(e *cart.Engine) *model.CartResponse {
	return &model.CartResponse{
		Items:  e.Items(),
		Coupon: e.Coupon(),
		Totals: e.Totals(),
	}
}
