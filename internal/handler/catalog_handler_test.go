package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dulcefe/storefront/internal/model"
)

// mockCatalogStore is a mock implementation of CatalogStoreInterface.
type mockCatalogStore struct {
	fetchFn  func(ctx context.Context) error
	products []model.Product
	errMsg   string
}

func (m *mockCatalogStore) FetchProducts(ctx context.Context) error {
	if m.fetchFn != nil {
		return m.fetchFn(ctx)
	}
	return nil
}

func (m *mockCatalogStore) Products() []model.Product { return m.products }
func (m *mockCatalogStore) Err() string               { return m.errMsg }

func setupCatalogApp(store *mockCatalogStore) *fiber.App {
	app := fiber.New()
	h := NewCatalogHandler(store)
	app.Get("/api/products", h.ListProducts)
	return app
}

func TestListProducts_Success(t *testing.T) {
	fetched := false
	store := &mockCatalogStore{
		fetchFn: func(ctx context.Context) error {
			fetched = true
			return nil
		},
		products: []model.Product{
			{ID: "p1", Name: "Torta de Chocolate", Price: "S/ 20.00"},
			{ID: "p2", Name: "Alfajor", Price: "S/ 5.00"},
		},
	}
	app := setupCatalogApp(store)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/products", nil))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.True(t, fetched, "every request refetches the catalog")

	var products []model.Product
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&products))
	require.Len(t, products, 2)
	assert.Equal(t, "S/ 20.00", products[0].Price)
}

func TestListProducts_UpstreamFailure(t *testing.T) {
	store := &mockCatalogStore{
		fetchFn: func(ctx context.Context) error {
			return errors.New("catalog source returned status 500")
		},
		errMsg: "catalog source returned status 500",
	}
	app := setupCatalogApp(store)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/products", nil))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)

	var result map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, "catalog source returned status 500", result["error"])
}
