package config

import (
	"errors"
	"fmt"

	"github.com/pisfinance/pis-vault/pkg"
)

const defaultFeeMultiplier = 20

type FeeConfig struct {
	FeeMultiplier   uint64   `mapstructure:"fee-multiplier"`
	ExemptAddresses []string `mapstructure:"exempt-addresses"`
}

func (cfg *FeeConfig) Validate() error {
	if cfg.FeeMultiplier == 0 {
		cfg.FeeMultiplier = defaultFeeMultiplier
	}
	if cfg.FeeMultiplier > 1000 {
		return errors.New("fee-multiplier cannot exceed 1000")
	}

	if _, err := pkg.ParseAddresses(cfg.ExemptAddresses); err != nil {
		return fmt.Errorf("exempt-addresses: %w", err)
	}

	return nil
}
