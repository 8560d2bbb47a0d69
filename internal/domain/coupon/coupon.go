// Package coupon defines the coupon record and its type-specific detail
// payloads. The engine treats a Coupon as an immutable value for the
// duration of one evaluation; its lifecycle belongs to the caller.
package coupon

import (
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
)

// Type enumerates the supported coupon kinds. The set is closed: an
// unrecognised tag has no evaluator and the coupon is never applicable.
type Type string

const (
	// TypeCart discounts the whole cart once its subtotal passes a threshold.
	TypeCart Type = "CART"
	// TypeProduct discounts every line of a single product.
	TypeProduct Type = "PRODUCT"
	// TypeBxGy grants free units of "get" products per bought "buy" units.
	TypeBxGy Type = "BXGY"
)

// Valid reports whether t is one of the known coupon types.
func (t Type) Valid() bool {
	switch t {
	case TypeCart, TypeProduct, TypeBxGy:
		return true
	}
	return false
}

// ErrUnknownType is returned when a coupon carries a type outside the
// closed enumeration.
var ErrUnknownType = errors.New("unknown coupon type")

// Coupon is a discount rule with a type-specific Details payload. Details
// holds the raw JSON exactly as received; it is parsed at the evaluator
// boundary, once per call.
type Coupon struct {
	ID        string
	Code      string
	Type      Type
	Active    bool
	ExpiresAt *time.Time
	Details   jx.Raw
}

// Expired reports whether the coupon's expiry lies strictly before now.
// A coupon without an expiry never expires.
func (c *Coupon) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && c.ExpiresAt.Before(now)
}
