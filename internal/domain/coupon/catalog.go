package coupon

import (
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/google/uuid"
)

// DecodeCatalog parses a JSON array of coupon records. Coupons without an
// id get a generated UUID, matching how the write side mints identities.
// The details payload is kept raw; it is only interpreted per coupon type
// at evaluation time.
func DecodeCatalog(data []byte) ([]Coupon, error) {
	var coupons []Coupon
	d := jx.DecodeBytes(data)
	if err := d.Arr(func(d *jx.Decoder) error {
		c, err := decodeCoupon(d)
		if err != nil {
			return err
		}
		coupons = append(coupons, c)
		return nil
	}); err != nil {
		return nil, errors.Wrap(err, "decode coupon catalog")
	}
	return coupons, nil
}

func decodeCoupon(d *jx.Decoder) (Coupon, error) {
	c := Coupon{Active: true}
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "id":
			id, err := d.Str()
			if err != nil {
				return errors.Wrap(err, "id")
			}
			c.ID = id
			return nil
		case "code":
			code, err := d.Str()
			if err != nil {
				return errors.Wrap(err, "code")
			}
			c.Code = code
			return nil
		case "type":
			s, err := d.Str()
			if err != nil {
				return errors.Wrap(err, "type")
			}
			c.Type = Type(s)
			return nil
		case "active":
			active, err := d.Bool()
			if err != nil {
				return errors.Wrap(err, "active")
			}
			c.Active = active
			return nil
		case "expiresAt":
			if d.Next() == jx.Null {
				return d.Null()
			}
			s, err := d.Str()
			if err != nil {
				return errors.Wrap(err, "expiresAt")
			}
			ts, err := time.Parse(time.RFC3339, s)
			if err != nil {
				return errors.Wrap(err, "expiresAt")
			}
			c.ExpiresAt = &ts
			return nil
		case "details":
			raw, err := d.Raw()
			if err != nil {
				return errors.Wrap(err, "details")
			}
			c.Details = append(jx.Raw(nil), raw...)
			return nil
		default:
			return d.Skip()
		}
	}); err != nil {
		return Coupon{}, err
	}
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return c, nil
}

// EncodeCoupon renders a coupon record to JSON, embedding the raw details
// payload untouched.
func EncodeCoupon(c *Coupon) []byte {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("id")
	e.Str(c.ID)
	e.FieldStart("code")
	e.Str(c.Code)
	e.FieldStart("type")
	e.Str(string(c.Type))
	e.FieldStart("active")
	e.Bool(c.Active)
	if c.ExpiresAt != nil {
		e.FieldStart("expiresAt")
		e.Str(c.ExpiresAt.Format(time.RFC3339))
	}
	if len(c.Details) > 0 {
		e.FieldStart("details")
		e.Raw(c.Details)
	}
	e.ObjEnd()
	return e.Bytes()
}
