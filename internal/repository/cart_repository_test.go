package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dulcefe/storefront/internal/model"
	"github.com/dulcefe/storefront/internal/service"
)

// mockRedis implements RedisClient for testing.
type mockRedis struct {
	getFn func(ctx context.Context, key string) *redis.StringCmd
	setFn func(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

func (m *mockRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return redis.NewStringResult("", redis.Nil)
}

func (m *mockRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	if m.setFn != nil {
		return m.setFn(ctx, key, value, expiration)
	}
	return redis.NewStatusResult("OK", nil)
}

func TestCartRepository_Load_MissingSnapshot(t *testing.T) {
	repo := NewCartRepositoryWithClient(&mockRedis{}, "dulcefe_cart", 0)

	items, err := repo.Load(context.Background(), "s1")

	require.NoError(t, err, "a session without a snapshot is not an error")
	assert.Empty(t, items)
}

func TestCartRepository_Load_Success(t *testing.T) {
	var capturedKey string
	mock := &mockRedis{
		getFn: func(ctx context.Context, key string) *redis.StringCmd {
			capturedKey = key
			return redis.NewStringResult(
				`[{"id":"p1","name":"Torta","price":"S/ 20.00","quantity":2}]`, nil)
		},
	}
	repo := NewCartRepositoryWithClient(mock, "dulcefe_cart", 0)

	items, err := repo.Load(context.Background(), "s1")

	require.NoError(t, err)
	assert.Equal(t, "dulcefe_cart:s1", capturedKey)
	require.Len(t, items, 1)
	assert.Equal(t, "p1", items[0].ID)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestCartRepository_Load_CorruptSnapshot(t *testing.T) {
	mock := &mockRedis{
		getFn: func(ctx context.Context, key string) *redis.StringCmd {
			return redis.NewStringResult(`{not json`, nil)
		},
	}
	repo := NewCartRepositoryWithClient(mock, "dulcefe_cart", 0)

	_, err := repo.Load(context.Background(), "s1")

	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrCorruptSnapshot), "decode failures must be distinguishable from I/O failures")
}

func TestCartRepository_Load_RedisError(t *testing.T) {
	mock := &mockRedis{
		getFn: func(ctx context.Context, key string) *redis.StringCmd {
			return redis.NewStringResult("", errors.New("connection refused"))
		},
	}
	repo := NewCartRepositoryWithClient(mock, "dulcefe_cart", 0)

	_, err := repo.Load(context.Background(), "s1")

	require.Error(t, err)
	assert.False(t, errors.Is(err, service.ErrCorruptSnapshot), "an unreachable store is not a corrupt snapshot")
}

func TestCartRepository_Save_WritesSnapshot(t *testing.T) {
	var capturedKey string
	var capturedValue interface{}
	var capturedTTL time.Duration
	mock := &mockRedis{
		setFn: func(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
			capturedKey = key
			capturedValue = value
			capturedTTL = expiration
			return redis.NewStatusResult("OK", nil)
		},
	}
	repo := NewCartRepositoryWithClient(mock, "dulcefe_cart", 24*time.Hour)

	items := []model.LineItem{
		{Product: model.Product{ID: "p1", Name: "Torta", Price: "S/ 20.00"}, Quantity: 2},
	}
	err := repo.Save(context.Background(), "s1", items)

	require.NoError(t, err)
	assert.Equal(t, "dulcefe_cart:s1", capturedKey)
	assert.Equal(t, 24*time.Hour, capturedTTL)
	assert.JSONEq(t,
		`[{"id":"p1","name":"Torta","price":"S/ 20.00","quantity":2}]`,
		string(capturedValue.([]byte)))
}

func TestCartRepository_Save_NilItemsStoredAsEmptyArray(t *testing.T) {
	var capturedValue interface{}
	mock := &mockRedis{
		setFn: func(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
			capturedValue = value
			return redis.NewStatusResult("OK", nil)
		},
	}
	repo := NewCartRepositoryWithClient(mock, "dulcefe_cart", 0)

	require.NoError(t, repo.Save(context.Background(), "s1", nil))

	assert.JSONEq(t, `[]`, string(capturedValue.([]byte)))
}

func TestCartRepository_RoundTrip(t *testing.T) {
	stored := map[string]string{}
	mock := &mockRedis{
		getFn: func(ctx context.Context, key string) *redis.StringCmd {
			data, ok := stored[key]
			if !ok {
				return redis.NewStringResult("", redis.Nil)
			}
			return redis.NewStringResult(data, nil)
		},
		setFn: func(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
			stored[key] = string(value.([]byte))
			return redis.NewStatusResult("OK", nil)
		},
	}
	repo := NewCartRepositoryWithClient(mock, "dulcefe_cart", 0)

	items := []model.LineItem{
		{Product: model.Product{ID: "p2", Name: "Alfajor", Price: "S/ 5.00"}, Quantity: 1},
		{Product: model.Product{ID: "p1", Name: "Torta", Price: "S/ 20.00"}, Quantity: 3},
	}
	require.NoError(t, repo.Save(context.Background(), "s1", items))

	loaded, err := repo.Load(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, items, loaded, "order and quantities survive the round trip")
}
