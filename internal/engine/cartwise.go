package engine

import (
	"github.com/shopspring/decimal"

	"github.com/xenking/promo-engine/internal/domain/cart"
	"github.com/xenking/promo-engine/internal/domain/coupon"
	"github.com/xenking/promo-engine/internal/money"
)

// CartWise evaluates CART coupons: once the cart subtotal reaches the
// threshold, the whole cart is discounted by a percentage of the subtotal
// or by a flat amount.
type CartWise struct{}

// Evaluate returns the cart-wide discount. A missing threshold or a
// subtotal below it yields zero.
func (CartWise) Evaluate(c *coupon.Coupon, crt *cart.Cart) (decimal.Decimal, error) {
	det, err := coupon.ParseCartWise(c.Details)
	if err != nil {
		return decimal.Zero, err
	}
	return cartWiseDiscount(det, crt.Subtotal()), nil
}

// Apply distributes the cart-wide discount across items in proportion to
// their line totals, each share rounded half-up at the money scale. The
// shares may not sum exactly to the discount; the drift is accepted.
func (CartWise) Apply(c *coupon.Coupon, crt *cart.Cart) error {
	det, err := coupon.ParseCartWise(c.Details)
	if err != nil {
		return err
	}

	total := crt.Subtotal()
	discount := cartWiseDiscount(det, total)
	if discount.Sign() <= 0 || total.Sign() <= 0 {
		return nil
	}

	for i := range crt.Items {
		crt.Items[i].TotalDiscount = money.Share(crt.Items[i].Total(), total, discount)
	}
	return nil
}

func cartWiseDiscount(det coupon.CartWiseDetails, total decimal.Decimal) decimal.Decimal {
	if det.Threshold == nil || total.LessThan(*det.Threshold) {
		return decimal.Zero
	}
	if det.DiscountType.IsPercent() {
		return money.Percent(total, det.DiscountValue)
	}
	// Flat discounts are paid verbatim, not capped at the subtotal.
	return det.DiscountValue
}
