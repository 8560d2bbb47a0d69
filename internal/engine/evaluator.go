// Package engine computes and applies coupon discounts over a cart
// snapshot. Each coupon type has one Evaluator; the Engine gates
// eligibility and dispatches through an immutable Registry.
package engine

import (
	"github.com/shopspring/decimal"

	"github.com/xenking/promo-engine/internal/domain/cart"
	"github.com/xenking/promo-engine/internal/domain/coupon"
)

// Evaluator implements the discount algorithm for one coupon type.
//
// Evaluate computes the discount without touching the cart. Apply mutates
// the matching items' TotalDiscount fields. Both return an error only for
// a malformed details payload; the Engine maps that to zero discount.
type Evaluator interface {
	Evaluate(c *coupon.Coupon, crt *cart.Cart) (decimal.Decimal, error)
	Apply(c *coupon.Coupon, crt *cart.Cart) error
}

// Registry maps coupon types to their evaluators. It is built once at
// startup and read-only afterwards, so concurrent lookups need no locking.
type Registry struct {
	evaluators map[coupon.Type]Evaluator
}

// NewRegistry returns a Registry covering every supported coupon type.
// Adding a coupon type means adding its evaluator here and nowhere else.
func NewRegistry() *Registry {
	return &Registry{
		evaluators: map[coupon.Type]Evaluator{
			coupon.TypeCart:    CartWise{},
			coupon.TypeProduct: ProductWise{},
			coupon.TypeBxGy:    BxGy{},
		},
	}
}

// Lookup returns the evaluator registered for the given type.
func (r *Registry) Lookup(t coupon.Type) (Evaluator, bool) {
	ev, ok := r.evaluators[t]
	return ev, ok
}
