package testutil

import (
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/pisfinance/pis-vault/internal/config"
)

var (
	OwnerAddress  = common.HexToAddress("0x00000000000000000000000000000000000000a0")
	VaultAddress  = common.HexToAddress("0x00000000000000000000000000000000000000f0")
	DevAddress    = common.HexToAddress("0x00000000000000000000000000000000000000d0")
	RewardToken   = common.HexToAddress("0x0000000000000000000000000000000000000b01")
	StakedToken   = common.HexToAddress("0x0000000000000000000000000000000000000b02")
	GenesisAmount = "1000000"
)

// VaultConfig returns a validated in-memory deployment with one pool of
// weight 1000. The owner holds GenesisAmount of both tokens.
func VaultConfig() *config.Config {
	genesis := []config.GenesisBalance{{Address: OwnerAddress.Hex(), Amount: GenesisAmount}}

	cfg := &config.Config{
		Db: config.DbConfig{Type: config.DbTypeMemory},
		Vault: config.VaultConfig{
			Owner:       OwnerAddress.Hex(),
			Address:     VaultAddress.Hex(),
			RewardToken: RewardToken.Hex(),
			DevAddress:  DevAddress.Hex(),
			Pools: []config.PoolConfig{
				{StakedToken: StakedToken.Hex(), Weight: 1000},
			},
		},
		Fee: config.FeeConfig{FeeMultiplier: 20},
		Ledger: config.LedgerConfig{
			Tokens: []config.TokenConfig{
				{Address: RewardToken.Hex(), Symbol: "PIS", Decimals: 18, Balances: genesis},
				{Address: StakedToken.Hex(), Symbol: "PIS-WETH-LP", Decimals: 18, Balances: genesis},
			},
		},
		Server:  config.ServerConfig{Host: "127.0.0.1", Port: 0},
		Metrics: config.MetricsConfig{Host: "127.0.0.1", Port: 0},
		Poller:  config.PollerConfig{StatsPollingInterval: time.Minute},
	}
	if err := cfg.Validate(); err != nil {
		panic(err)
	}
	return cfg
}
