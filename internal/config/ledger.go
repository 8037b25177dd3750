package config

import (
	"errors"
	"fmt"

	"github.com/pisfinance/pis-vault/internal/utils"
	"github.com/pisfinance/pis-vault/pkg"
)

type GenesisBalance struct {
	Address string `mapstructure:"address"`
	Amount  string `mapstructure:"amount"`
}

type TokenConfig struct {
	Address  string           `mapstructure:"address"`
	Symbol   string           `mapstructure:"symbol"`
	Decimals uint8            `mapstructure:"decimals"`
	Balances []GenesisBalance `mapstructure:"balances"`
}

// LedgerConfig lists the tokens held by the in-process ledger together with
// their genesis balances.
type LedgerConfig struct {
	Tokens []TokenConfig `mapstructure:"tokens"`
}

func (cfg *LedgerConfig) Validate() error {
	if len(cfg.Tokens) == 0 {
		return errors.New("at least one token is required")
	}

	seen := make(map[string]struct{}, len(cfg.Tokens))
	for i, t := range cfg.Tokens {
		addr, err := pkg.ParseAddress(t.Address)
		if err != nil {
			return fmt.Errorf("tokens[%d]: %w", i, err)
		}
		if _, ok := seen[addr.Hex()]; ok {
			return fmt.Errorf("tokens[%d]: duplicate token %s", i, addr.Hex())
		}
		seen[addr.Hex()] = struct{}{}

		if t.Symbol == "" {
			return fmt.Errorf("tokens[%d]: symbol cannot be empty", i)
		}

		for j, b := range t.Balances {
			if _, err := pkg.ParseAddress(b.Address); err != nil {
				return fmt.Errorf("tokens[%d].balances[%d]: %w", i, j, err)
			}
			if _, err := utils.ParseAmount(b.Amount); err != nil {
				return fmt.Errorf("tokens[%d].balances[%d]: %w", i, j, err)
			}
		}
	}

	return nil
}
