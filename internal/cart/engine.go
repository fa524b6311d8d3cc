package cart

import (
	"fmt"
	"sync"

	"github.com/dulcefe/storefront/internal/model"
)

// ChangeFunc receives a snapshot of the line items after every structural
// change to the cart. The coupon is deliberately absent: it never survives a
// reload.
type ChangeFunc func(items []model.LineItem)

// line pairs a stored line item with its parsed unit price so derived reads
// never re-parse and can never fail.
type line struct {
	item model.LineItem
	unit float64
}

// Engine owns one client's cart: the ordered line items and at most one
// active coupon. Mutations are serialized by an internal mutex, so each
// operation is atomic with respect to the others. The engine itself performs
// no I/O; persistence happens through the registered change observer.
type Engine struct {
	mu       sync.Mutex
	lines    []line
	coupon   *model.Coupon
	onChange ChangeFunc
}

// NewEngine creates an empty engine. onChange may be nil for carts that do
// not persist (tests, previews).
func NewEngine(onChange ChangeFunc) *Engine {
	return &Engine{onChange: onChange}
}

// Hydrate seeds the engine from a persisted snapshot. The coupon always
// starts out empty. A snapshot that violates the cart invariants (duplicate
// product, non-positive quantity, malformed price) is rejected wholesale and
// the engine is left empty, so a corrupt snapshot can never poison a session.
// Hydration is not a structural change and does not notify the observer.
func (e *Engine) Hydrate(items []model.LineItem) error {
	lines := make([]line, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		if item.Quantity < 1 {
			return fmt.Errorf("snapshot line %q has quantity %d", item.ID, item.Quantity)
		}
		if seen[item.ID] {
			return fmt.Errorf("snapshot has duplicate line %q", item.ID)
		}
		unit, err := model.ParsePrice(item.Price)
		if err != nil {
			return fmt.Errorf("snapshot line %q: %w", item.ID, err)
		}
		seen[item.ID] = true
		lines = append(lines, line{item: item, unit: unit})
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.lines = lines
	e.coupon = nil
	return nil
}

// AddToCart adds one unit of a product. An existing line for the same product
// is incremented, otherwise a new line is appended with quantity 1. A product
// whose price cannot be parsed is a contract violation of the Catalog Source
// and is rejected before it can enter the cart.
func (e *Engine) AddToCart(p model.Product) error {
	unit, err := model.ParsePrice(p.Price)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.lines {
		if e.lines[i].item.ID == p.ID {
			e.lines[i].item.Quantity++
			e.notifyLocked()
			return nil
		}
	}
	e.lines = append(e.lines, line{
		item: model.LineItem{Product: p, Quantity: 1},
		unit: unit,
	})
	e.notifyLocked()
	return nil
}

// RemoveFromCart removes the line for a product. Absent products are a no-op.
func (e *Engine) RemoveFromCart(productID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.removeLocked(productID)
}

// UpdateQuantity sets a line's quantity. A quantity of zero or less removes
// the line; lines never exist with a non-positive quantity. Absent products
// are a no-op.
func (e *Engine) UpdateQuantity(productID string, quantity int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.lines {
		if e.lines[i].item.ID == productID {
			if quantity <= 0 {
				e.removeLocked(productID)
				return
			}
			e.lines[i].item.Quantity = quantity
			e.notifyLocked()
			return
		}
	}
}

// ApplyCoupon installs a fresh, untargeted coupon for a known code, replacing
// any previous coupon. Unknown codes return false and leave the current
// coupon untouched.
func (e *Engine) ApplyCoupon(code string) bool {
	coupon, ok := LookupCoupon(code)
	if !ok {
		return false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.coupon = &coupon
	return true
}

// SetCouponTarget points the active coupon at a line item. The target is not
// validated here; a target that does not resolve to a present line simply
// contributes zero discount. No-op without an active coupon.
func (e *Engine) SetCouponTarget(itemID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.coupon != nil {
		e.coupon.TargetID = itemID
	}
}

// RemoveCoupon clears the active coupon entirely.
func (e *Engine) RemoveCoupon() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.coupon = nil
}

// ClearCart empties the line items and drops the coupon in one step.
func (e *Engine) ClearCart() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lines = nil
	e.coupon = nil
	e.notifyLocked()
}

// Items returns the line items in insertion order.
func (e *Engine) Items() []model.LineItem {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// Coupon returns a copy of the active coupon, or nil.
func (e *Engine) Coupon() *model.Coupon {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.coupon == nil {
		return nil
	}
	c := *e.coupon
	return &c
}

// TotalItems is the sum of all line quantities.
func (e *Engine) TotalItems() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	total := 0
	for _, l := range e.lines {
		total += l.item.Quantity
	}
	return total
}

// Subtotal is the sum of unit price times quantity over all lines, before
// any discount.
func (e *Engine) Subtotal() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.subtotalLocked()
}

// DiscountAmount derives the coupon discount from the targeted line. It is
// zero whenever there is no coupon, the coupon has no target yet, or the
// target no longer resolves to a present line.
func (e *Engine) DiscountAmount() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.discountLocked()
}

// TotalPrice is the subtotal minus the discount amount.
func (e *Engine) TotalPrice() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.subtotalLocked() - e.discountLocked()
}

// Totals computes all derived values in one consistent read.
func (e *Engine) Totals() model.CartTotals {
	e.mu.Lock()
	defer e.mu.Unlock()
	subtotal := e.subtotalLocked()
	discount := e.discountLocked()
	totalItems := 0
	for _, l := range e.lines {
		totalItems += l.item.Quantity
	}
	return model.CartTotals{
		TotalItems:     totalItems,
		Subtotal:       subtotal,
		DiscountAmount: discount,
		TotalPrice:     subtotal - discount,
	}
}

func (e *Engine) removeLocked(productID string) {
	for i := range e.lines {
		if e.lines[i].item.ID == productID {
			e.lines = append(e.lines[:i], e.lines[i+1:]...)
			e.notifyLocked()
			return
		}
	}
}

func (e *Engine) subtotalLocked() float64 {
	total := 0.0
	for _, l := range e.lines {
		total += l.unit * float64(l.item.Quantity)
	}
	return total
}

func (e *Engine) discountLocked() float64 {
	if e.coupon == nil || e.coupon.TargetID == "" {
		return 0
	}
	for _, l := range e.lines {
		if l.item.ID == e.coupon.TargetID {
			return l.unit * float64(l.item.Quantity) * e.coupon.Value
		}
	}
	return 0
}

func (e *Engine) snapshotLocked() []model.LineItem {
	items := make([]model.LineItem, len(e.lines))
	for i, l := range e.lines {
		items[i] = l.item
	}
	return items
}

// notifyLocked hands the observer a fresh snapshot. Called with the mutex
// held; the observer must not call back into the engine.
func (e *Engine) notifyLocked() {
	if e.onChange != nil {
		e.onChange(e.snapshotLocked())
	}
}
