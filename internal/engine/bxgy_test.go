package engine

import (
	"testing"

	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/promo-engine/internal/domain/cart"
	"github.com/xenking/promo-engine/internal/domain/coupon"
)

func intptr(v int) *int {
	return &v
}

func bxgyCoupon(det coupon.BxGyDetails) *coupon.Coupon {
	return &coupon.Coupon{
		ID:      "b1",
		Code:    "B2G1",
		Type:    coupon.TypeBxGy,
		Active:  true,
		Details: coupon.EncodeBxGy(det),
	}
}

func TestBxGyEvaluate(t *testing.T) {
	tests := []struct {
		name  string
		det   coupon.BxGyDetails
		items []cart.Item
		want  decimal.Decimal
	}{
		{
			name: "buy two get one with repetition limit",
			det: coupon.BxGyDetails{
				BuyProducts:     []coupon.ProductQuantity{{ProductID: 1, Quantity: 2}},
				GetProducts:     []coupon.ProductQuantity{{ProductID: 3, Quantity: 1}},
				RepetitionLimit: intptr(2),
			},
			items: []cart.Item{
				{ProductID: 1, Quantity: 4, Price: d("10")},
				{ProductID: 3, Quantity: 1, Price: d("20")},
			},
			// reps = min(4/2, 2) = 2; free = min(1, 2*1) = 1 -> one unit of product 3.
			want: d("20"),
		},
		{
			name: "repetition limit caps free units",
			det: coupon.BxGyDetails{
				BuyProducts:     []coupon.ProductQuantity{{ProductID: 1, Quantity: 1}},
				GetProducts:     []coupon.ProductQuantity{{ProductID: 3, Quantity: 1}},
				RepetitionLimit: intptr(1),
			},
			items: []cart.Item{
				{ProductID: 1, Quantity: 5, Price: d("10")},
				{ProductID: 3, Quantity: 5, Price: d("20")},
			},
			want: d("20"),
		},
		{
			name: "no limit frees every earned unit",
			det: coupon.BxGyDetails{
				BuyProducts: []coupon.ProductQuantity{{ProductID: 1, Quantity: 2}},
				GetProducts: []coupon.ProductQuantity{{ProductID: 3, Quantity: 1}},
			},
			items: []cart.Item{
				{ProductID: 1, Quantity: 6, Price: d("10")},
				{ProductID: 3, Quantity: 2, Price: d("20")},
			},
			// reps = 3, free = min(2, 3) = 2.
			want: d("40"),
		},
		{
			name: "not enough buy units",
			det: coupon.BxGyDetails{
				BuyProducts: []coupon.ProductQuantity{{ProductID: 1, Quantity: 3}},
				GetProducts: []coupon.ProductQuantity{{ProductID: 3, Quantity: 1}},
			},
			items: []cart.Item{
				{ProductID: 1, Quantity: 2, Price: d("10")},
				{ProductID: 3, Quantity: 1, Price: d("20")},
			},
			want: decimal.Zero,
		},
		{
			name: "degenerate zero buy requirement",
			det: coupon.BxGyDetails{
				BuyProducts: []coupon.ProductQuantity{{ProductID: 1, Quantity: 0}},
				GetProducts: []coupon.ProductQuantity{{ProductID: 3, Quantity: 1}},
			},
			items: []cart.Item{
				{ProductID: 1, Quantity: 4, Price: d("10")},
				{ProductID: 3, Quantity: 1, Price: d("20")},
			},
			want: decimal.Zero,
		},
		{
			name: "get product absent from cart",
			det: coupon.BxGyDetails{
				BuyProducts: []coupon.ProductQuantity{{ProductID: 1, Quantity: 2}},
				GetProducts: []coupon.ProductQuantity{{ProductID: 3, Quantity: 1}},
			},
			items: []cart.Item{
				{ProductID: 1, Quantity: 4, Price: d("10")},
			},
			want: decimal.Zero,
		},
		{
			name: "buy units summed across multiple buy products",
			det: coupon.BxGyDetails{
				BuyProducts: []coupon.ProductQuantity{
					{ProductID: 1, Quantity: 1},
					{ProductID: 2, Quantity: 1},
				},
				GetProducts: []coupon.ProductQuantity{{ProductID: 3, Quantity: 1}},
			},
			items: []cart.Item{
				{ProductID: 1, Quantity: 1, Price: d("10")},
				{ProductID: 2, Quantity: 1, Price: d("10")},
				{ProductID: 3, Quantity: 1, Price: d("20")},
			},
			want: d("20"),
		},
		{
			name: "overlapping buy and get sets double count",
			det: coupon.BxGyDetails{
				BuyProducts: []coupon.ProductQuantity{{ProductID: 1, Quantity: 2}},
				GetProducts: []coupon.ProductQuantity{{ProductID: 1, Quantity: 1}},
			},
			items: []cart.Item{
				{ProductID: 1, Quantity: 4, Price: d("10")},
			},
			// The same units earn 2 reps and free min(4, 2) = 2 of themselves.
			want: d("20"),
		},
		{
			name: "duplicate cart lines use first price",
			det: coupon.BxGyDetails{
				BuyProducts: []coupon.ProductQuantity{{ProductID: 1, Quantity: 1}},
				GetProducts: []coupon.ProductQuantity{{ProductID: 3, Quantity: 1}},
			},
			items: []cart.Item{
				{ProductID: 1, Quantity: 1, Price: d("10")},
				{ProductID: 3, Quantity: 1, Price: d("25")},
				{ProductID: 3, Quantity: 1, Price: d("99")},
			},
			// reps = 1, free = min(2, 1) = 1, priced at the first line's 25.
			want: d("25"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BxGy{}.Evaluate(bxgyCoupon(tt.det), newCart(tt.items...))
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "expected %s, got %s", tt.want, got)
		})
	}
}

func TestBxGyEvaluateOrdering(t *testing.T) {
	// Two get products compete for a rationed free-unit budget: the
	// earlier-declared product must be served first.
	det := coupon.BxGyDetails{
		BuyProducts: []coupon.ProductQuantity{{ProductID: 1, Quantity: 2}},
		GetProducts: []coupon.ProductQuantity{
			{ProductID: 2, Quantity: 2},
			{ProductID: 3, Quantity: 2},
		},
		RepetitionLimit: intptr(1),
	}
	crt := newCart(
		cart.Item{ProductID: 1, Quantity: 2, Price: d("10")},
		cart.Item{ProductID: 2, Quantity: 3, Price: d("5")},
		cart.Item{ProductID: 3, Quantity: 3, Price: d("7")},
	)

	got, err := BxGy{}.Evaluate(bxgyCoupon(det), crt)
	require.NoError(t, err)

	// Budget: reps = 1, free = min(6, 4) = 4. Product 2 takes
	// min(3, 2, 4) = 2 units, product 3 the remaining 2.
	want := d("5").Mul(decimal.NewFromInt(2)).Add(d("7").Mul(decimal.NewFromInt(2)))
	assert.True(t, want.Equal(got), "expected %s, got %s", want, got)
}

func TestBxGyEvaluateMalformedDetails(t *testing.T) {
	c := &coupon.Coupon{
		ID:      "bad",
		Type:    coupon.TypeBxGy,
		Active:  true,
		Details: jx.Raw(`{"buyProducts":{"productId":1}}`),
	}

	_, err := BxGy{}.Evaluate(c, newCart(cart.Item{ProductID: 1, Quantity: 1, Price: d("10")}))
	require.Error(t, err)
}

func TestBxGyApply(t *testing.T) {
	det := coupon.BxGyDetails{
		BuyProducts:     []coupon.ProductQuantity{{ProductID: 1, Quantity: 2}},
		GetProducts:     []coupon.ProductQuantity{{ProductID: 3, Quantity: 1}},
		RepetitionLimit: intptr(2),
	}
	crt := newCart(
		cart.Item{ProductID: 1, Quantity: 4, Price: d("10")},
		cart.Item{ProductID: 3, Quantity: 1, Price: d("20")},
	)

	require.NoError(t, BxGy{}.Apply(bxgyCoupon(det), crt))

	assert.True(t, crt.Items[0].TotalDiscount.IsZero(),
		"buy line should carry no discount, got %s", crt.Items[0].TotalDiscount)
	assert.True(t, d("20").Equal(crt.Items[1].TotalDiscount),
		"expected 20, got %s", crt.Items[1].TotalDiscount)
}

func TestBxGyApplyCapsAtLineQuantity(t *testing.T) {
	// Free-unit budget exceeds the get line's own quantity: the line is
	// discounted only up to what it holds.
	det := coupon.BxGyDetails{
		BuyProducts: []coupon.ProductQuantity{{ProductID: 1, Quantity: 1}},
		GetProducts: []coupon.ProductQuantity{{ProductID: 3, Quantity: 2}},
	}
	crt := newCart(
		cart.Item{ProductID: 1, Quantity: 4, Price: d("10")},
		cart.Item{ProductID: 3, Quantity: 1, Price: d("20")},
	)

	require.NoError(t, BxGy{}.Apply(bxgyCoupon(det), crt))

	assert.True(t, d("20").Equal(crt.Items[1].TotalDiscount),
		"expected 20, got %s", crt.Items[1].TotalDiscount)
}

func TestBxGyApplySkipsAbsentGetProducts(t *testing.T) {
	det := coupon.BxGyDetails{
		BuyProducts: []coupon.ProductQuantity{{ProductID: 1, Quantity: 1}},
		GetProducts: []coupon.ProductQuantity{
			{ProductID: 9, Quantity: 1},
			{ProductID: 3, Quantity: 1},
		},
	}
	crt := newCart(
		cart.Item{ProductID: 1, Quantity: 2, Price: d("10")},
		cart.Item{ProductID: 3, Quantity: 1, Price: d("20")},
	)

	require.NoError(t, BxGy{}.Apply(bxgyCoupon(det), crt))

	assert.True(t, d("20").Equal(crt.Items[1].TotalDiscount),
		"expected 20, got %s", crt.Items[1].TotalDiscount)
}
