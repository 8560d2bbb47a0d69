// Package money provides the fixed-precision decimal arithmetic shared by
// every discount evaluator. All division rounds half-up at the same scale so
// results are reproducible across evaluators.
package money

import "github.com/shopspring/decimal"

// Scale is the number of fractional digits kept by rounding divisions.
const Scale = 6

var hundred = decimal.NewFromInt(100)

// Percent returns base * pct / 100 rounded half-up at Scale.
func Percent(base, pct decimal.Decimal) decimal.Decimal {
	return base.Mul(pct).DivRound(hundred, Scale)
}

// Share returns the proportional part of amount that corresponds to
// part/whole, rounded half-up at Scale. Whole must be non-zero.
func Share(part, whole, amount decimal.Decimal) decimal.Decimal {
	return part.Mul(amount).DivRound(whole, Scale)
}

// LineTotal returns price * quantity.
func LineTotal(price decimal.Decimal, quantity int) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(quantity)))
}
