package service

import "errors"

var (
	// ErrProductNotFound is returned when a cart operation names a product the catalog does not serve
	ErrProductNotFound = errors.New("product not found")

	// ErrInvalidCoupon is returned when a coupon code is not in the registry
	ErrInvalidCoupon = errors.New("invalid coupon code")

	// ErrCatalogUnavailable is returned when the upstream Catalog Source cannot be reached
	ErrCatalogUnavailable = errors.New("catalog source unavailable")

	// ErrMalformedPrice is returned when the Catalog Source serves a price that violates the price prefix contract
	ErrMalformedPrice = errors.New("catalog price violates contract")

	// ErrCorruptSnapshot is returned when a persisted cart snapshot cannot be decoded
	ErrCorruptSnapshot = errors.New("cart snapshot is corrupt")

	// ErrStorageUnavailable is returned when the persistent cart store cannot be reached
	ErrStorageUnavailable = errors.New("cart storage unavailable")
)
