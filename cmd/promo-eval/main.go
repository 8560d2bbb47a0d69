// Command promo-eval evaluates a coupon catalog against cart snapshots.
// For each cart file it either lists the applicable coupons with their
// discounts, or applies one selected coupon and prints the mutated cart.
package main

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/app"
	pgzip "github.com/klauspost/pgzip"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/promo-engine/internal/domain/cart"
	"github.com/xenking/promo-engine/internal/domain/coupon"
	"github.com/xenking/promo-engine/internal/engine"
)

func main() {
	app.Run(func(ctx context.Context, lg *zap.Logger, _ *app.Metrics) error {
		cfg, err := LoadConfig()
		if err != nil {
			return err
		}
		return run(ctx, lg, cfg)
	})
}

func run(ctx context.Context, lg *zap.Logger, cfg *Config) error {
	data, err := readFile(cfg.Catalog)
	if err != nil {
		return errors.Wrap(err, "read catalog")
	}

	coupons, err := coupon.DecodeCatalog(data)
	if err != nil {
		return errors.Wrap(err, "decode catalog")
	}
	lg.Info("catalog loaded",
		zap.String("path", cfg.Catalog),
		zap.Int("coupons", len(coupons)),
	)

	if cfg.Strict {
		for i := range coupons {
			if err := coupon.ValidateDetails(coupons[i].Type, coupons[i].Details); err != nil {
				return errors.Wrapf(err, "coupon %s", coupons[i].ID)
			}
		}
	}

	var selected *coupon.Coupon
	if cfg.Apply != "" {
		selected = findCoupon(coupons, cfg.Apply)
		if selected == nil {
			return errors.Errorf("coupon %q not found in catalog", cfg.Apply)
		}
	}

	eng := engine.New(engine.NewRegistry(), engine.WithLogger(lg))

	// Evaluate cart files concurrently; results keep input order.
	results := make([][]byte, len(cfg.Carts))
	g, ctx := errgroup.WithContext(ctx)
	for i, path := range cfg.Carts {
		g.Go(evalCart(ctx, eng, coupons, selected, path, i, results))
	}
	if err := g.Wait(); err != nil {
		return err
	}

	out := os.Stdout
	for _, res := range results {
		if _, err := out.Write(append(res, '\n')); err != nil {
			return errors.Wrap(err, "write result")
		}
	}
	return nil
}

func evalCart(
	ctx context.Context,
	eng *engine.Engine,
	coupons []coupon.Coupon,
	selected *coupon.Coupon,
	path string,
	idx int,
	results [][]byte,
) func() error {
	return func() error {
		if err := ctx.Err(); err != nil {
			return err
		}

		data, err := readFile(path)
		if err != nil {
			return errors.Wrapf(err, "read cart %s", path)
		}
		crt, err := cart.Decode(data)
		if err != nil {
			return errors.Wrapf(err, "decode cart %s", path)
		}

		if selected != nil {
			eng.ApplyCoupon(selected, crt)
			results[idx] = encodeApplied(path, selected.ID, crt)
			return nil
		}

		results[idx] = encodeApplicable(path, eng.ApplicableCoupons(coupons, crt))
		return nil
	}
}

func encodeApplicable(path string, applicable []engine.Applicable) []byte {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("cart")
	e.Str(path)
	e.FieldStart("applicableCoupons")
	e.ArrStart()
	for _, a := range applicable {
		e.ObjStart()
		e.FieldStart("couponId")
		e.Str(a.CouponID)
		e.FieldStart("discount")
		e.Num(jx.Num(a.Discount.String()))
		e.ObjEnd()
	}
	e.ArrEnd()
	e.ObjEnd()
	return e.Bytes()
}

func encodeApplied(path, couponID string, crt *cart.Cart) []byte {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("cart")
	e.Str(path)
	e.FieldStart("couponId")
	e.Str(couponID)
	e.FieldStart("result")
	e.Raw(cart.Encode(crt))
	e.ObjEnd()
	return e.Bytes()
}

// findCoupon matches by id first, then by code ignoring case.
func findCoupon(coupons []coupon.Coupon, sel string) *coupon.Coupon {
	for i := range coupons {
		if coupons[i].ID == sel {
			return &coupons[i]
		}
	}
	for i := range coupons {
		if strings.EqualFold(coupons[i].Code, sel) {
			return &coupons[i]
		}
	}
	return nil
}

// readFile loads a whole file, transparently decompressing .gz inputs.
func readFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := pgzip.NewReader(f)
		if err != nil {
			return nil, errors.Wrap(err, "gzip reader")
		}
		defer gz.Close()
		r = gz
	}
	return io.ReadAll(r)
}
