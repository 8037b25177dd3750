package services

import (
	"context"
	"fmt"

	"github.com/pisfinance/pis-vault/internal/config"
	"github.com/pisfinance/pis-vault/internal/ledger"
	"github.com/pisfinance/pis-vault/internal/utils"
	"github.com/pisfinance/pis-vault/pkg"
)

// BuildLedgers creates the in-process token ledgers with their genesis
// balances.
func BuildLedgers(ctx context.Context, cfg *config.LedgerConfig) ([]*ledger.Token, error) {
	tokens := make([]*ledger.Token, 0, len(cfg.Tokens))
	for _, tc := range cfg.Tokens {
		addr, err := pkg.ParseAddress(tc.Address)
		if err != nil {
			return nil, fmt.Errorf("token %s: %w", tc.Symbol, err)
		}

		token := ledger.NewToken(addr, tc.Symbol, tc.Decimals)
		for _, b := range tc.Balances {
			holder, err := pkg.ParseAddress(b.Address)
			if err != nil {
				return nil, fmt.Errorf("token %s: %w", tc.Symbol, err)
			}
			amount, err := utils.ParseAmount(b.Amount)
			if err != nil {
				return nil, fmt.Errorf("token %s: %w", tc.Symbol, err)
			}
			if err := token.Mint(ctx, holder, amount); err != nil {
				return nil, fmt.Errorf("token %s: %w", tc.Symbol, err)
			}
		}
		tokens = append(tokens, token)
	}
	return tokens, nil
}
