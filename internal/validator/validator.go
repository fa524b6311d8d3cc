package validator

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// New creates a validator with the custom validations this service relies on.
// Handlers and tests share the same configuration.
func New() *validator.Validate {
	v := validator.New()

	// "notblank" rejects whitespace-only strings. Product IDs and coupon
	// codes must carry real content; "required" alone lets "   " through.
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		str, ok := fl.Field().Interface().(string)
		if !ok {
			return true // not a string, leave it to other validators
		}
		return strings.TrimSpace(str) != ""
	})

	return v
}
