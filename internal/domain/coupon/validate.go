package coupon

import "github.com/go-faster/errors"

// ValidateDetails checks that a details payload carries every field the
// given coupon type requires. The engine itself never calls this: a payload
// failing these rules simply evaluates to zero discount. It exists for
// write-side callers that want to reject malformed coupons up front.
func ValidateDetails(typ Type, raw []byte) error {
	switch typ {
	case TypeCart:
		det, err := ParseCartWise(raw)
		if err != nil {
			return err
		}
		if det.Threshold == nil {
			return errors.New("cart coupon requires threshold")
		}
		if det.DiscountType == "" {
			return errors.New("cart coupon requires discountType")
		}
		return nil
	case TypeProduct:
		det, err := ParseProductWise(raw)
		if err != nil {
			return err
		}
		if det.ProductID == 0 {
			return errors.New("product coupon requires productId")
		}
		if det.DiscountType == "" {
			return errors.New("product coupon requires discountType")
		}
		return nil
	case TypeBxGy:
		det, err := ParseBxGy(raw)
		if err != nil {
			return err
		}
		if len(det.BuyProducts) == 0 {
			return errors.New("bxgy coupon requires buyProducts")
		}
		if len(det.GetProducts) == 0 {
			return errors.New("bxgy coupon requires getProducts")
		}
		for _, bp := range det.BuyProducts {
			if bp.ProductID == 0 || bp.Quantity <= 0 {
				return errors.New("each buyProduct must have productId and positive quantity")
			}
		}
		for _, gp := range det.GetProducts {
			if gp.ProductID == 0 || gp.Quantity <= 0 {
				return errors.New("each getProduct must have productId and positive quantity")
			}
		}
		return nil
	default:
		return errors.Wrapf(ErrUnknownType, "%q", typ)
	}
}
