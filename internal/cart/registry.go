package cart

import "github.com/dulcefe/storefront/internal/model"

// discount is one entry of the coupon registry.
type discount struct {
	Type        string
	Value       float64
	Description string
}

// registry is the fixed set of redeemable codes. It is a configuration
// surface, not a lookup service: codes are matched exactly, no normalization.
// Every value must stay within (0, 1] so a discount can never exceed the
// targeted line's total.
var registry = map[string]discount{
	"NUEVO15": {Type: model.CouponTypePercent, Value: 0.15, Description: "15% de descuento en un producto"},
	"DULCE20": {Type: model.CouponTypePercent, Value: 0.20, Description: "20% de descuento en un producto"},
}

// LookupCoupon returns a fresh coupon for a known code with no target set.
// Unknown codes return false.
func LookupCoupon(code string) (model.Coupon, bool) {
	d, ok := registry[code]
	if !ok {
		return model.Coupon{}, false
	}
	return model.Coupon{
		Code:        code,
		Type:        d.Type,
		Value:       d.Value,
		Description: d.Description,
	}, true
}
