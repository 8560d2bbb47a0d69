package cart

import (
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"
)

// Decode parses the cart wire shape {"items":[...]} into a Cart.
func Decode(data []byte) (*Cart, error) {
	var c Cart
	d := jx.DecodeBytes(data)
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "items":
			return d.Arr(func(d *jx.Decoder) error {
				item, err := decodeItem(d)
				if err != nil {
					return err
				}
				c.Items = append(c.Items, item)
				return nil
			})
		default:
			return d.Skip()
		}
	}); err != nil {
		return nil, errors.Wrap(err, "decode cart")
	}
	return &c, nil
}

func decodeItem(d *jx.Decoder) (Item, error) {
	item := Item{TotalDiscount: decimal.Zero}
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "productId":
			id, err := d.Int64()
			if err != nil {
				return errors.Wrap(err, "productId")
			}
			item.ProductID = id
			return nil
		case "quantity":
			q, err := d.Int()
			if err != nil {
				return errors.Wrap(err, "quantity")
			}
			item.Quantity = q
			return nil
		case "price":
			p, err := decodeDecimal(d)
			if err != nil {
				return errors.Wrap(err, "price")
			}
			item.Price = p
			return nil
		case "totalDiscount":
			td, err := decodeDecimal(d)
			if err != nil {
				return errors.Wrap(err, "totalDiscount")
			}
			item.TotalDiscount = td
			return nil
		default:
			return d.Skip()
		}
	}); err != nil {
		return Item{}, err
	}
	return item, nil
}

func decodeDecimal(d *jx.Decoder) (decimal.Decimal, error) {
	n, err := d.Num()
	if err != nil {
		return decimal.Zero, err
	}
	// jx numbers may be string-encoded; decimal wants the bare digits.
	return decimal.NewFromString(strings.Trim(n.String(), `"`))
}

// Encode renders the cart back into its wire shape, including the
// per-item totalDiscount fields.
func Encode(c *Cart) []byte {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("items")
	e.ArrStart()
	for _, item := range c.Items {
		e.ObjStart()
		e.FieldStart("productId")
		e.Int64(item.ProductID)
		e.FieldStart("quantity")
		e.Int(item.Quantity)
		e.FieldStart("price")
		e.Num(jx.Num(item.Price.String()))
		e.FieldStart("totalDiscount")
		e.Num(jx.Num(item.TotalDiscount.String()))
		e.ObjEnd()
	}
	e.ArrEnd()
	e.ObjEnd()
	return e.Bytes()
}
