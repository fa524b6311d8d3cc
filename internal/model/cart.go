package model

// CouponTypePercent is the only coupon type currently issued: a fractional
// discount applied to a single targeted line.
const CouponTypePercent = "percent"

// LineItem is one product entry in the cart. It carries the product's display
// fields as copied at add time plus the quantity. Identity is the product ID;
// the cart never holds two lines for the same product.
type LineItem struct {
	Product
	Quantity int `json:"quantity"`
}

// Coupon is the active discount descriptor. TargetID names the single line
// the discount applies to; while empty the coupon is selected but contributes
// zero discount. Coupons are never persisted.
type Coupon struct {
	Code        string  `json:"code"`
	Type        string  `json:"type"`
	Value       float64 `json:"value"`
	Description string  `json:"description"`
	TargetID    string  `json:"target_id,omitempty"`
}

// CartTotals holds the derived pricing values for a cart.
type CartTotals struct {
	TotalItems     int     `json:"total_items"`
	Subtotal       float64 `json:"subtotal"`
	DiscountAmount float64 `json:"discount_amount"`
	TotalPrice     float64 `json:"total_price"`
}

// CartResponse is the API view of a cart: items in insertion order, the
// active coupon if any, and the derived totals.
type CartResponse struct {
	Items  []LineItem `json:"items"`
	Coupon *Coupon    `json:"coupon,omitempty"`
	Totals CartTotals `json:"totals"`
}

// AddItemRequest is the DTO for POST /api/cart/items.
type AddItemRequest struct {
	ProductID string `json:"product_id" validate:"required,notblank,max=255"`
}

// UpdateQuantityRequest is the DTO for PUT /api/cart/items/:id. Zero and
// negative quantities are valid input and remove the line.
type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

// ApplyCouponRequest is the DTO for POST /api/cart/coupon.
type ApplyCouponRequest struct {
	Code string `json:"code" validate:"required,notblank,max=64"`
}

// CouponTargetRequest is the DTO for PUT /api/cart/coupon/target.
type CouponTargetRequest struct {
	ItemID string `json:"item_id" validate:"required,notblank,max=255"`
}
