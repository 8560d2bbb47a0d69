package engine

import (
	"github.com/shopspring/decimal"

	"github.com/xenking/promo-engine/internal/domain/cart"
	"github.com/xenking/promo-engine/internal/domain/coupon"
	"github.com/xenking/promo-engine/internal/money"
)

// ProductWise evaluates PRODUCT coupons: every line matching the target
// product is discounted, percentage off the line total or a flat per-unit
// rate. Duplicate lines for the same product all count.
type ProductWise struct{}

// Evaluate sums the per-line discounts across all matching items.
func (ProductWise) Evaluate(c *coupon.Coupon, crt *cart.Cart) (decimal.Decimal, error) {
	det, err := coupon.ParseProductWise(c.Details)
	if err != nil {
		return decimal.Zero, err
	}

	discount := decimal.Zero
	for _, item := range crt.Items {
		if item.ProductID == det.ProductID {
			discount = discount.Add(productWiseLine(det, item))
		}
	}
	return discount, nil
}

// Apply sets TotalDiscount on every matching item. Non-matching items keep
// whatever discount they already carry so applies can compose.
func (ProductWise) Apply(c *coupon.Coupon, crt *cart.Cart) error {
	det, err := coupon.ParseProductWise(c.Details)
	if err != nil {
		return err
	}

	for i := range crt.Items {
		if crt.Items[i].ProductID == det.ProductID {
			crt.Items[i].TotalDiscount = productWiseLine(det, crt.Items[i])
		}
	}
	return nil
}

func productWiseLine(det coupon.ProductWiseDetails, item cart.Item) decimal.Decimal {
	if det.DiscountType.IsPercent() {
		return money.Percent(item.Total(), det.DiscountValue)
	}
	// Flat is a per-unit rate, not a per-line fee.
	return money.LineTotal(det.DiscountValue, item.Quantity)
}
