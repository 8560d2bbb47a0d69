package engine

import (
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/xenking/promo-engine/internal/domain/cart"
	"github.com/xenking/promo-engine/internal/domain/coupon"
)

// Applicable pairs a coupon id with the discount it would yield.
type Applicable struct {
	CouponID string
	Discount decimal.Decimal
}

// Engine gates coupon eligibility and dispatches to the registered
// evaluators. A malformed or ineligible coupon never surfaces an error to
// the caller: it degrades to zero discount so the checkout flow keeps going.
type Engine struct {
	registry *Registry
	now      func() time.Time
	lg       *zap.Logger
}

// Option customises an Engine.
type Option func(*Engine)

// WithClock overrides the time source used by the eligibility gate.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithLogger sets the logger used to record degraded evaluations.
func WithLogger(lg *zap.Logger) Option {
	return func(e *Engine) { e.lg = lg }
}

// New creates an Engine over the given registry.
func New(registry *Registry, opts ...Option) *Engine {
	e := &Engine{
		registry: registry,
		now:      time.Now,
		lg:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// EvaluateDiscount returns the discount the coupon would yield for the
// cart. It never mutates the cart. Ineligible coupons and malformed
// details payloads yield zero.
func (e *Engine) EvaluateDiscount(c *coupon.Coupon, crt *cart.Cart) decimal.Decimal {
	ev, ok := e.eligible(c)
	if !ok {
		return decimal.Zero
	}

	discount, err := ev.Evaluate(c, crt)
	if err != nil {
		e.lg.Debug("coupon details failed to parse, treating as non-applicable",
			zap.String("coupon_id", c.ID),
			zap.String("type", string(c.Type)),
			zap.Error(err),
		)
		return decimal.Zero
	}
	return discount
}

// ApplyCoupon resets every item's TotalDiscount to zero and, when the
// coupon is eligible, lets its evaluator fill the per-item discounts. The
// mutated cart is returned in all cases; evaluator failures leave the
// zero-reset cart as the result.
func (e *Engine) ApplyCoupon(c *coupon.Coupon, crt *cart.Cart) *cart.Cart {
	crt.ResetDiscounts()

	ev, ok := e.eligible(c)
	if !ok {
		return crt
	}

	if err := ev.Apply(c, crt); err != nil {
		e.lg.Debug("coupon apply degraded to no-op",
			zap.String("coupon_id", c.ID),
			zap.String("type", string(c.Type)),
			zap.Error(err),
		)
	}
	return crt
}

// ApplicableCoupons evaluates every coupon in the set against the cart and
// returns the ones yielding a strictly positive discount, preserving the
// input order.
func (e *Engine) ApplicableCoupons(coupons []coupon.Coupon, crt *cart.Cart) []Applicable {
	result := make([]Applicable, 0, len(coupons))
	for i := range coupons {
		discount := e.EvaluateDiscount(&coupons[i], crt)
		if discount.Sign() > 0 {
			result = append(result, Applicable{
				CouponID: coupons[i].ID,
				Discount: discount,
			})
		}
	}
	return result
}

// eligible runs the gate shared by evaluation and application: the coupon
// must exist, be active, not be expired, and have a registered evaluator.
func (e *Engine) eligible(c *coupon.Coupon) (Evaluator, bool) {
	if c == nil || !c.Active || c.Expired(e.now()) {
		return nil, false
	}
	ev, ok := e.registry.Lookup(c.Type)
	if !ok {
		return nil, false
	}
	return ev, true
}
