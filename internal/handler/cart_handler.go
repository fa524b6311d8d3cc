package handler

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/dulcefe/storefront/internal/model"
	"github.com/dulcefe/storefront/internal/service"
)

// CartServiceInterface defines the interface for cart business logic.
type CartServiceInterface interface {
	GetCart(ctx context.Context, sessionID string) (*model.CartResponse, error)
	AddItem(ctx context.Context, sessionID, productID string) (*model.CartResponse, error)
	UpdateQuantity(ctx context.Context, sessionID, productID string, quantity int) (*model.CartResponse, error)
	RemoveItem(ctx context.Context, sessionID, productID string) (*model.CartResponse, error)
	ClearCart(ctx context.Context, sessionID string) error
	ApplyCoupon(ctx context.Context, sessionID, code string) (*model.CartResponse, error)
	SetCouponTarget(ctx context.Context, sessionID, itemID string) (*model.CartResponse, error)
	RemoveCoupon(ctx context.Context, sessionID string) (*model.CartResponse, error)
}

// CartHandler handles HTTP requests for cart operations.
type CartHandler struct {
	service   CartServiceInterface
	validator *validator.Validate
}

// NewCartHandler creates a new CartHandler with the given service and validator.
func NewCartHandler(svc CartServiceInterface, v *validator.Validate) *CartHandler {
	return &CartHandler{service: svc, validator: v}
}

// formatValidationError converts validator errors to stable client messages.
func formatValidationError(err error) string {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			field := fe.Field()
			tag := fe.Tag()

			switch field {
			case "ProductID":
				if tag == "required" {
					return "invalid request: product_id is required"
				}
				if tag == "notblank" {
					return "invalid request: product_id cannot be whitespace only"
				}
				return "invalid request: product_id is invalid"
			case "Quantity":
				if tag == "required" {
					return "invalid request: quantity is required"
				}
				return "invalid request: quantity is invalid"
			case "Code":
				if tag == "required" {
					return "invalid request: code is required"
				}
				if tag == "notblank" {
					return "invalid request: code cannot be whitespace only"
				}
				return "invalid request: code is invalid"
			case "ItemID":
				if tag == "required" {
					return "invalid request: item_id is required"
				}
				if tag == "notblank" {
					return "invalid request: item_id cannot be whitespace only"
				}
				return "invalid request: item_id is invalid"
			default:
				if tag == "required" {
					return "invalid request: " + field + " is required"
				}
				return "invalid request: " + field + " is invalid"
			}
		}
	}
	return "invalid request"
}

// serviceError maps service sentinels to HTTP responses. Everything
// unrecognized is logged and answered with a 500.
func (h *CartHandler) serviceError(c *fiber.Ctx, err error, op string) error {
	switch {
	case errors.Is(err, service.ErrProductNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "product not found"})
	case errors.Is(err, service.ErrInvalidCoupon):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "invalid coupon code"})
	case errors.Is(err, service.ErrCatalogUnavailable):
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "catalog source unavailable"})
	case errors.Is(err, service.ErrStorageUnavailable):
		log.Warn().Err(err).Str("session_id", SessionID(c)).Str("operation", op).
			Msg("cart storage unavailable")
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "cart storage unavailable"})
	}
	log.Error().Err(err).
		Str("request_id", c.GetRespHeader("X-Request-ID")).
		Str("session_id", SessionID(c)).
		Str("operation", op).
		Msg("cart operation failed")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
}

// GetCart handles GET /api/cart requests.
func (h *CartHandler) GetCart(c *fiber.Ctx) error {
	resp, err := h.service.GetCart(c.Context(), SessionID(c))
	if err != nil {
		return h.serviceError(c, err, "get")
	}
	return c.JSON(resp)
}

// AddItem handles POST /api/cart/items requests.
func (h *CartHandler) AddItem(c *fiber.Ctx) error {
	var req model.AddItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	resp, err := h.service.AddItem(c.Context(), SessionID(c), req.ProductID)
	if err != nil {
		return h.serviceError(c, err, "add_item")
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// UpdateQuantity handles PUT /api/cart/items/:id requests. A quantity of zero
// or less removes the line.
func (h *CartHandler) UpdateQuantity(c *fiber.Ctx) error {
	var req model.UpdateQuantityRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	resp, err := h.service.UpdateQuantity(c.Context(), SessionID(c), c.Params("id"), *req.Quantity)
	if err != nil {
		return h.serviceError(c, err, "update_quantity")
	}
	return c.JSON(resp)
}

// RemoveItem handles DELETE /api/cart/items/:id requests. Removing an absent
// line is a no-op, not an error.
func (h *CartHandler) RemoveItem(c *fiber.Ctx) error {
	resp, err := h.service.RemoveItem(c.Context(), SessionID(c), c.Params("id"))
	if err != nil {
		return h.serviceError(c, err, "remove_item")
	}
	return c.JSON(resp)
}

// ClearCart handles DELETE /api/cart requests.
func (h *CartHandler) ClearCart(c *fiber.Ctx) error {
	if err := h.service.ClearCart(c.Context(), SessionID(c)); err != nil {
		return h.serviceError(c, err, "clear")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ApplyCoupon handles POST /api/cart/coupon requests.
func (h *CartHandler) ApplyCoupon(c *fiber.Ctx) error {
	var req model.ApplyCouponRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	resp, err := h.service.ApplyCoupon(c.Context(), SessionID(c), req.Code)
	if err != nil {
		return h.serviceError(c, err, "apply_coupon")
	}

	log.Info().
		Str("session_id", SessionID(c)).
		Str("code", req.Code).
		Msg("coupon applied")
	return c.JSON(resp)
}

// SetCouponTarget handles PUT /api/cart/coupon/target requests.
func (h *CartHandler) SetCouponTarget(c *fiber.Ctx) error {
	var req model.CouponTargetRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	resp, err := h.service.SetCouponTarget(c.Context(), SessionID(c), req.ItemID)
	if err != nil {
		return h.serviceError(c, err, "set_coupon_target")
	}
	return c.JSON(resp)
}

// RemoveCoupon handles DELETE /api/cart/coupon requests.
func (h *CartHandler) RemoveCoupon(c *fiber.Ctx) error {
	resp, err := h.service.RemoveCoupon(c.Context(), SessionID(c))
	if err != nil {
		return h.serviceError(c, err, "remove_coupon")
	}
	return c.JSON(resp)
}
