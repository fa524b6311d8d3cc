package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dulcefe/storefront/internal/model"
	"github.com/dulcefe/storefront/internal/service"
)

// RedisClient is the slice of go-redis used by the cart repository.
// This allows for easier testing with mocks.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// CartRepository stores one JSON-encoded line-item snapshot per client
// session. The snapshot is the whole persisted cart state; coupons are never
// written.
type CartRepository struct {
	client    RedisClient
	keyPrefix string
	ttl       time.Duration
}

// NewCartRepository creates a CartRepository backed by the given Redis client.
// A ttl of zero keeps snapshots until explicitly overwritten.
func NewCartRepository(client *redis.Client, keyPrefix string, ttl time.Duration) *CartRepository {
	return &CartRepository{client: client, keyPrefix: keyPrefix, ttl: ttl}
}

// NewCartRepositoryWithClient creates a CartRepository with a custom client.
// This is primarily used for testing.
func NewCartRepositoryWithClient(client RedisClient, keyPrefix string, ttl time.Duration) *CartRepository {
	return &CartRepository{client: client, keyPrefix: keyPrefix, ttl: ttl}
}

func (r *CartRepository) key(sessionID string) string {
	return r.keyPrefix + ":" + sessionID
}

// Load reads the persisted snapshot for a session. A session with no
// snapshot yields an empty cart, not an error. A snapshot that is not valid
// JSON returns service.ErrCorruptSnapshot so the caller can tell bad data
// from a store it could not reach.
func (r *CartRepository) Load(ctx context.Context, sessionID string) ([]model.LineItem, error) {
	data, err := r.client.Get(ctx, r.key(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load cart %s: %w", sessionID, err)
	}

	var items []model.LineItem
	if err := json.Unmarshal([]byte(data), &items); err != nil {
		return nil, fmt.Errorf("%w: decode cart %s: %v", service.ErrCorruptSnapshot, sessionID, err)
	}
	return items, nil
}

// Save overwrites the session's snapshot with the given line items. An empty
// cart is stored as an empty array so a later hydration sees a cleared cart,
// not a missing one.
func (r *CartRepository) Save(ctx context.Context, sessionID string, items []model.LineItem) error {
	if items == nil {
		items = []model.LineItem{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode cart snapshot %s: %w", sessionID, err)
	}
	if err := r.client.Set(ctx, r.key(sessionID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("save cart %s: %w", sessionID, err)
	}
	return nil
}
