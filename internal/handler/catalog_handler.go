package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/dulcefe/storefront/internal/model"
)

// CatalogStoreInterface defines the interface for the catalog store.
type CatalogStoreInterface interface {
	FetchProducts(ctx context.Context) error
	Products() []model.Product
	Err() string
}

// CatalogHandler handles HTTP requests for the product catalog.
type CatalogHandler struct {
	store CatalogStoreInterface
}

// NewCatalogHandler creates a new CatalogHandler with the given store.
func NewCatalogHandler(store CatalogStoreInterface) *CatalogHandler {
	return &CatalogHandler{store: store}
}

// ListProducts handles GET /api/products requests. Every request refetches
// from the Catalog Source so admin-side changes show up immediately.
func (h *CatalogHandler) ListProducts(c *fiber.Ctx) error {
	if err := h.store.FetchProducts(c.Context()); err != nil {
		log.Error().Err(err).Msg("failed to list products")
		msg := h.store.Err()
		if msg == "" {
			msg = "catalog source unavailable"
		}
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": msg})
	}
	return c.JSON(h.store.Products())
}
