// Package cart defines the cart snapshot that discounts are computed over.
// A Cart is built per evaluation request and discarded afterwards; only the
// per-item TotalDiscount field is ever mutated, and only by an apply call.
package cart

import (
	"github.com/shopspring/decimal"

	"github.com/xenking/promo-engine/internal/money"
)

// Item represents a single line item in the cart.
type Item struct {
	ProductID     int64
	Quantity      int
	Price         decimal.Decimal
	TotalDiscount decimal.Decimal
}

// Total returns the undiscounted line total (price * quantity).
func (i Item) Total() decimal.Decimal {
	return money.LineTotal(i.Price, i.Quantity)
}

// Cart is an ordered sequence of line items. It may be empty.
type Cart struct {
	Items []Item
}

// Subtotal returns the sum of line totals across all items.
func (c *Cart) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, item := range c.Items {
		sum = sum.Add(item.Total())
	}
	return sum
}

// QuantityByProduct sums quantities per product, combining duplicate lines.
func (c *Cart) QuantityByProduct() map[int64]int {
	qty := make(map[int64]int, len(c.Items))
	for _, item := range c.Items {
		qty[item.ProductID] += item.Quantity
	}
	return qty
}

// PriceByProduct maps each product to its unit price. When a product appears
// on multiple lines the first occurrence wins.
func (c *Cart) PriceByProduct() map[int64]decimal.Decimal {
	prices := make(map[int64]decimal.Decimal, len(c.Items))
	for _, item := range c.Items {
		if _, ok := prices[item.ProductID]; !ok {
			prices[item.ProductID] = item.Price
		}
	}
	return prices
}

// FirstItemByProduct maps each product to a pointer at its first line item.
// The pointers alias the cart's backing slice so callers can mutate discounts.
func (c *Cart) FirstItemByProduct() map[int64]*Item {
	items := make(map[int64]*Item, len(c.Items))
	for i := range c.Items {
		if _, ok := items[c.Items[i].ProductID]; !ok {
			items[c.Items[i].ProductID] = &c.Items[i]
		}
	}
	return items
}

// ResetDiscounts sets every item's TotalDiscount back to zero.
func (c *Cart) ResetDiscounts() {
	for i := range c.Items {
		c.Items[i].TotalDiscount = decimal.Zero
	}
}
