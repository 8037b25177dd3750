package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pisfinance/pis-vault/internal/config"
)

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "1.5", formatAmount("1500000000000000000", 18))
	assert.Equal(t, "42", formatAmount("42", 0))
	assert.Equal(t, "not-a-number", formatAmount("not-a-number", 18))
}

func TestTokenDecimals(t *testing.T) {
	decimals := tokenDecimals(config.LedgerConfig{
		Tokens: []config.TokenConfig{
			{Address: "0x0000000000000000000000000000000000000b01", Decimals: 18},
			{Address: "bad", Decimals: 6},
		},
	})
	assert.Len(t, decimals, 1)
	assert.Equal(t, int32(18), decimals["0x0000000000000000000000000000000000000b01"])
}
