package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/pisfinance/pis-vault/internal/config"
	"github.com/pisfinance/pis-vault/internal/db"
	"github.com/pisfinance/pis-vault/internal/db/model"
	"github.com/pisfinance/pis-vault/pkg"
)

func DumpStateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump-state",
		Short: "Prints the persisted vault state, pools and positions as JSON",
		Args:  cobra.ExactArgs(0),
		RunE:  dumpState,
	}

	cmd.Flags().String("user", "", "Only dump the positions of this address")

	return cmd
}

type stateDump struct {
	State     map[string]string   `json:"state"`
	Pools     []map[string]string `json:"pools"`
	Positions []map[string]string `json:"positions"`
}

func dumpState(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.New(GetConfigPath())
	if err != nil {
		return err
	}

	user, err := cmd.Flags().GetString("user")
	if err != nil {
		return err
	}
	if user != "" {
		addr, err := pkg.ParseAddress(user)
		if err != nil {
			return err
		}
		user = addr.Hex()
	}

	dbClient, err := db.NewFromConfig(ctx, cfg.Db)
	if err != nil {
		return err
	}

	state, err := dbClient.GetVaultState(ctx)
	if err != nil {
		return fmt.Errorf("failed to load vault state: %w", err)
	}
	pools, err := dbClient.ListPools(ctx)
	if err != nil {
		return fmt.Errorf("failed to list pools: %w", err)
	}
	positions, err := dbClient.ListPositions(ctx, user)
	if err != nil {
		return fmt.Errorf("failed to list positions: %w", err)
	}

	decimals := tokenDecimals(cfg.Ledger)
	rewardDecimals := decimals[strings.ToLower(state.RewardToken)]

	dump := stateDump{
		State: map[string]string{
			"reward_token":         state.RewardToken,
			"reward_balance":       formatAmount(state.RewardBalance, rewardDecimals),
			"pending_rewards":      formatAmount(state.PendingRewards, rewardDecimals),
			"pending_dev_rewards":  formatAmount(state.PendingDevRewards, rewardDecimals),
			"total_fees_collected": formatAmount(state.TotalFeesCollected, rewardDecimals),
			"total_emitted":        formatAmount(state.TotalEmitted, rewardDecimals),
			"total_weight":         strconv.FormatUint(state.TotalWeight, 10),
			"pool_count":           strconv.FormatUint(state.PoolCount, 10),
		},
	}

	poolDecimals := make(map[uint64]int32, len(pools))
	for _, p := range pools {
		stakedDecimals := decimals[strings.ToLower(p.StakedToken)]
		poolDecimals[p.ID] = stakedDecimals
		dump.Pools = append(dump.Pools, poolDump(p, stakedDecimals, rewardDecimals))
	}
	for _, pos := range positions {
		dump.Positions = append(dump.Positions, positionDump(pos, poolDecimals[pos.PoolID], rewardDecimals))
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(dump)
}

func poolDump(p *model.PoolDocument, stakedDecimals, rewardDecimals int32) map[string]string {
	return map[string]string{
		"id":              strconv.FormatUint(p.ID, 10),
		"staked_token":    p.StakedToken,
		"weight":          strconv.FormatUint(p.Weight, 10),
		"total_staked":    formatAmount(p.TotalStaked, stakedDecimals),
		"unfolded_reward": formatAmount(p.UnfoldedReward, rewardDecimals),
	}
}

func positionDump(pos *model.PositionDocument, stakedDecimals, rewardDecimals int32) map[string]string {
	return map[string]string{
		"pool_id":       strconv.FormatUint(pos.PoolID, 10),
		"user":          pos.User,
		"amount":        formatAmount(pos.Amount, stakedDecimals),
		"reward_locked": formatAmount(pos.RewardLocked, rewardDecimals),
		"deposit_time":  strconv.FormatInt(pos.DepositTime, 10),
	}
}

// tokenDecimals maps the lower cased token addresses to their decimals.
func tokenDecimals(cfg config.LedgerConfig) map[string]int32 {
	result := make(map[string]int32, len(cfg.Tokens))
	for _, t := range cfg.Tokens {
		addr, err := pkg.ParseAddress(t.Address)
		if err != nil {
			continue
		}
		result[strings.ToLower(addr.Hex())] = int32(t.Decimals)
	}
	return result
}

// formatAmount renders a base unit amount in whole tokens. Unparsable
// values are returned unchanged.
func formatAmount(raw string, decimals int32) string {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return raw
	}
	return d.Shift(-decimals).String()
}
