package coupon

import (
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"
)

// DiscountType selects between a percentage and a flat discount value.
// Matching is case-insensitive; anything that is not PERCENT is flat.
type DiscountType string

const (
	// DiscountPercent scales the discounted base by discountValue/100.
	DiscountPercent DiscountType = "PERCENT"
	// DiscountFlat uses discountValue directly. For product coupons the
	// value is a per-unit rate, not a per-line fee.
	DiscountFlat DiscountType = "FLAT"
)

// IsPercent reports whether t names a percentage discount, ignoring case.
func (t DiscountType) IsPercent() bool {
	return strings.EqualFold(string(t), string(DiscountPercent))
}

// CartWiseDetails parameterises a CART coupon. Threshold is the minimum
// cart subtotal; a missing threshold makes the coupon non-applicable.
type CartWiseDetails struct {
	Threshold     *decimal.Decimal
	DiscountType  DiscountType
	DiscountValue decimal.Decimal
}

// ProductWiseDetails parameterises a PRODUCT coupon.
type ProductWiseDetails struct {
	ProductID     int64
	DiscountType  DiscountType
	DiscountValue decimal.Decimal
}

// ProductQuantity is one entry of a BxGy buy or get list.
type ProductQuantity struct {
	ProductID int64
	Quantity  int
}

// BxGyDetails parameterises a BXGY coupon. Get products are rationed in
// declaration order when fewer free units are available than requested.
type BxGyDetails struct {
	BuyProducts     []ProductQuantity
	GetProducts     []ProductQuantity
	RepetitionLimit *int
}

// ParseCartWise decodes a CART details payload.
func ParseCartWise(raw []byte) (CartWiseDetails, error) {
	var det CartWiseDetails
	d := jx.DecodeBytes(raw)
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "threshold":
			v, err := decodeDecimal(d)
			if err != nil {
				return errors.Wrap(err, "threshold")
			}
			det.Threshold = &v
			return nil
		case "discountType":
			s, err := d.Str()
			if err != nil {
				return errors.Wrap(err, "discountType")
			}
			det.DiscountType = DiscountType(s)
			return nil
		case "discountValue":
			v, err := decodeDecimal(d)
			if err != nil {
				return errors.Wrap(err, "discountValue")
			}
			det.DiscountValue = v
			return nil
		default:
			return d.Skip()
		}
	}); err != nil {
		return CartWiseDetails{}, errors.Wrap(err, "decode cart-wise details")
	}
	return det, nil
}

// ParseProductWise decodes a PRODUCT details payload.
func ParseProductWise(raw []byte) (ProductWiseDetails, error) {
	var det ProductWiseDetails
	d := jx.DecodeBytes(raw)
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "productId":
			id, err := d.Int64()
			if err != nil {
				return errors.Wrap(err, "productId")
			}
			det.ProductID = id
			return nil
		case "discountType":
			s, err := d.Str()
			if err != nil {
				return errors.Wrap(err, "discountType")
			}
			det.DiscountType = DiscountType(s)
			return nil
		case "discountValue":
			v, err := decodeDecimal(d)
			if err != nil {
				return errors.Wrap(err, "discountValue")
			}
			det.DiscountValue = v
			return nil
		default:
			return d.Skip()
		}
	}); err != nil {
		return ProductWiseDetails{}, errors.Wrap(err, "decode product-wise details")
	}
	return det, nil
}

// ParseBxGy decodes a BXGY details payload.
func ParseBxGy(raw []byte) (BxGyDetails, error) {
	var det BxGyDetails
	d := jx.DecodeBytes(raw)
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "buyProducts":
			list, err := decodeProductQuantities(d)
			if err != nil {
				return errors.Wrap(err, "buyProducts")
			}
			det.BuyProducts = list
			return nil
		case "getProducts":
			list, err := decodeProductQuantities(d)
			if err != nil {
				return errors.Wrap(err, "getProducts")
			}
			det.GetProducts = list
			return nil
		case "repetitionLimit":
			if d.Next() == jx.Null {
				return d.Null()
			}
			limit, err := d.Int()
			if err != nil {
				return errors.Wrap(err, "repetitionLimit")
			}
			det.RepetitionLimit = &limit
			return nil
		default:
			return d.Skip()
		}
	}); err != nil {
		return BxGyDetails{}, errors.Wrap(err, "decode bxgy details")
	}
	return det, nil
}

func decodeProductQuantities(d *jx.Decoder) ([]ProductQuantity, error) {
	var list []ProductQuantity
	if err := d.Arr(func(d *jx.Decoder) error {
		var pq ProductQuantity
		if err := d.Obj(func(d *jx.Decoder, key string) error {
			switch key {
			case "productId":
				id, err := d.Int64()
				if err != nil {
					return errors.Wrap(err, "productId")
				}
				pq.ProductID = id
				return nil
			case "quantity":
				q, err := d.Int()
				if err != nil {
					return errors.Wrap(err, "quantity")
				}
				pq.Quantity = q
				return nil
			default:
				return d.Skip()
			}
		}); err != nil {
			return err
		}
		list = append(list, pq)
		return nil
	}); err != nil {
		return nil, err
	}
	return list, nil
}

func decodeDecimal(d *jx.Decoder) (decimal.Decimal, error) {
	n, err := d.Num()
	if err != nil {
		return decimal.Zero, err
	}
	// jx numbers may be string-encoded; decimal wants the bare digits.
	return decimal.NewFromString(strings.Trim(n.String(), `"`))
}

// EncodeCartWise renders CART details back into their wire shape.
func EncodeCartWise(det CartWiseDetails) jx.Raw {
	var e jx.Encoder
	e.ObjStart()
	if det.Threshold != nil {
		e.FieldStart("threshold")
		e.Num(jx.Num(det.Threshold.String()))
	}
	e.FieldStart("discountType")
	e.Str(string(det.DiscountType))
	e.FieldStart("discountValue")
	e.Num(jx.Num(det.DiscountValue.String()))
	e.ObjEnd()
	return e.Bytes()
}

// EncodeProductWise renders PRODUCT details back into their wire shape.
func EncodeProductWise(det ProductWiseDetails) jx.Raw {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("productId")
	e.Int64(det.ProductID)
	e.FieldStart("discountType")
	e.Str(string(det.DiscountType))
	e.FieldStart("discountValue")
	e.Num(jx.Num(det.DiscountValue.String()))
	e.ObjEnd()
	return e.Bytes()
}

// EncodeBxGy renders BXGY details back into their wire shape.
func EncodeBxGy(det BxGyDetails) jx.Raw {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("buyProducts")
	encodeProductQuantities(&e, det.BuyProducts)
	e.FieldStart("getProducts")
	encodeProductQuantities(&e, det.GetProducts)
	if det.RepetitionLimit != nil {
		e.FieldStart("repetitionLimit")
		e.Int(*det.RepetitionLimit)
	}
	e.ObjEnd()
	return e.Bytes()
}

func encodeProductQuantities(e *jx.Encoder, list []ProductQuantity) {
	e.ArrStart()
	for _, pq := range list {
		e.ObjStart()
		e.FieldStart("productId")
		e.Int64(pq.ProductID)
		e.FieldStart("quantity")
		e.Int(pq.Quantity)
		e.ObjEnd()
	}
	e.ArrEnd()
}
