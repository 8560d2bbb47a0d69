package main

import (
	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

// Config holds the evaluator CLI configuration, loadable from flags,
// environment variables (PROMO_ prefix), or a YAML config file.
type Config struct {
	Catalog string   `default:"coupons.json" usage:"coupon catalog JSON file, .gz accepted" flag:"catalog"`
	Carts   []string `usage:"cart JSON files to evaluate, .gz accepted" flag:"carts"`
	Apply   string   `default:"" usage:"coupon id or code to apply; empty lists applicable coupons" flag:"apply"`
	Strict  bool     `default:"false" usage:"reject catalog coupons with malformed details" flag:"strict"`
}

// LoadConfig loads configuration from flags, environment, and config files.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "PROMO",
		Files:     []string{"config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}

	if len(cfg.Carts) == 0 {
		return nil, errors.New("at least one cart file is required: set --carts")
	}

	return &cfg, nil
}
