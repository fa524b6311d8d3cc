package model

import (
	"fmt"
	"strconv"
	"strings"
)

// PricePrefix is the literal currency prefix every catalog price carries,
// e.g. "S/ 20.00".
const PricePrefix = "S/ "

// Product represents a catalog product as served by the Catalog Source.
// The catalog is read-only for this service; products are copied into line
// items when added to a cart.
type Product struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Price       string `json:"price"`
	Image       string `json:"image,omitempty"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
}

// ParsePrice strips the fixed currency prefix and parses the remainder as a
// decimal amount. A price without the prefix or with a non-numeric remainder
// is a contract violation of the Catalog Source.
func ParsePrice(price string) (float64, error) {
	rest, ok := strings.CutPrefix(price, PricePrefix)
	if !ok {
		return 0, fmt.Errorf("price %q missing %q prefix", price, PricePrefix)
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(rest), 64)
	if err != nil {
		return 0, fmt.Errorf("parse price %q: %w", price, err)
	}
	return value, nil
}
