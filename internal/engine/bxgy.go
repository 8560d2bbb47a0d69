package engine

import (
	"github.com/shopspring/decimal"

	"github.com/xenking/promo-engine/internal/domain/cart"
	"github.com/xenking/promo-engine/internal/domain/coupon"
)

// BxGy evaluates BXGY coupons with a deterministic greedy walk: buy units
// across the cart earn repetitions, repetitions earn free get-units, and
// free units are rationed over the get list in declaration order. Buy and
// get sets may overlap; overlapping units count on both sides.
type BxGy struct{}

// Evaluate sums price * freed units over the get-product walk. Prices come
// from the cart, first occurrence winning for duplicated products.
func (BxGy) Evaluate(c *coupon.Coupon, crt *cart.Cart) (decimal.Decimal, error) {
	det, err := coupon.ParseBxGy(c.Details)
	if err != nil {
		return decimal.Zero, err
	}

	qty := crt.QuantityByProduct()
	reps, remaining := bxgyBudget(det, qty)
	if remaining <= 0 {
		return decimal.Zero, nil
	}

	prices := crt.PriceByProduct()
	discount := decimal.Zero
	for _, gp := range det.GetProducts {
		if remaining <= 0 {
			break
		}
		toFree := min(qty[gp.ProductID], gp.Quantity*reps, remaining)
		if toFree > 0 {
			price := prices[gp.ProductID]
			discount = discount.Add(price.Mul(decimal.NewFromInt(int64(toFree))))
			remaining -= toFree
		}
	}
	return discount, nil
}

// Apply writes price * freed units onto each get-product's first cart line.
// Get products absent from the cart are skipped; the freeable count per
// line is capped by that line's own quantity.
func (BxGy) Apply(c *coupon.Coupon, crt *cart.Cart) error {
	det, err := coupon.ParseBxGy(c.Details)
	if err != nil {
		return err
	}

	reps, remaining := bxgyBudget(det, crt.QuantityByProduct())
	if remaining <= 0 {
		return nil
	}

	items := crt.FirstItemByProduct()
	for _, gp := range det.GetProducts {
		if remaining <= 0 {
			break
		}
		item, ok := items[gp.ProductID]
		if !ok {
			continue
		}
		toFree := min(item.Quantity, gp.Quantity*reps, remaining)
		if toFree > 0 {
			item.TotalDiscount = item.Price.Mul(decimal.NewFromInt(int64(toFree)))
			remaining -= toFree
		}
	}
	return nil
}

// bxgyBudget computes the repetition count and the total free-unit budget
// for one application of the coupon against the given cart quantities.
func bxgyBudget(det coupon.BxGyDetails, qty map[int64]int) (reps, freeUnits int) {
	buyRequiredPerApply := 0
	for _, bp := range det.BuyProducts {
		buyRequiredPerApply += bp.Quantity
	}
	if buyRequiredPerApply <= 0 {
		return 0, 0
	}

	totalBuyUnits := 0
	for _, bp := range det.BuyProducts {
		totalBuyUnits += qty[bp.ProductID]
	}

	reps = totalBuyUnits / buyRequiredPerApply
	if det.RepetitionLimit != nil && reps > *det.RepetitionLimit {
		reps = *det.RepetitionLimit
	}
	if reps <= 0 {
		return 0, 0
	}

	getUnitsPerApply := 0
	getUnitsAvailable := 0
	for _, gp := range det.GetProducts {
		getUnitsPerApply += gp.Quantity
		getUnitsAvailable += qty[gp.ProductID]
	}

	freeUnits = min(getUnitsAvailable, reps*getUnitsPerApply)
	if freeUnits <= 0 {
		return reps, 0
	}
	return reps, freeUnits
}
