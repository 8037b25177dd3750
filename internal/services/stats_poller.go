package services

import (
	"context"
	"fmt"
	"strconv"

	sdkmath "cosmossdk.io/math"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/pisfinance/pis-vault/internal/db/model"
	"github.com/pisfinance/pis-vault/internal/observability/metrics"
	"github.com/pisfinance/pis-vault/internal/utils"
	"github.com/pisfinance/pis-vault/internal/utils/poller"
)

// StartStatsPoller starts the stats polling service
func (s *Service) StartStatsPoller(ctx context.Context) {
	statsPoller := poller.NewPoller(
		"stats",
		s.cfg.Poller.StatsPollingInterval,
		metrics.RecordPollerDuration("stats", s.calculateAndUpdateStats),
		poller.WithImmediateStart(),
	)
	go statsPoller.Start(ctx)
}

// StartMassUpdatePoller periodically credits every pool. It is a no-op when
// the interval is zero.
func (s *Service) StartMassUpdatePoller(ctx context.Context) {
	if s.cfg.Poller.MassUpdatePollingInterval == 0 {
		return
	}

	massUpdatePoller := poller.NewPoller(
		"mass_update",
		s.cfg.Poller.MassUpdatePollingInterval,
		metrics.RecordPollerDuration("mass_update", s.vault.MassUpdatePools),
	)
	go massUpdatePoller.Start(ctx)
}

// calculateAndUpdateStats summarises the vault into the stats collection and
// the pool gauges.
func (s *Service) calculateAndUpdateStats(ctx context.Context) error {
	log := log.Ctx(ctx)

	state, err := s.vault.State(ctx)
	if err != nil {
		return fmt.Errorf("failed to load vault state: %w", err)
	}
	pools, err := s.vault.ListPools(ctx)
	if err != nil {
		return fmt.Errorf("failed to list pools: %w", err)
	}
	positions, err := s.db.ListPositions(ctx, "")
	if err != nil {
		return fmt.Errorf("failed to list positions: %w", err)
	}

	totalLocked := sdkmath.ZeroInt()
	for _, pos := range positions {
		locked, err := utils.ParseAmount(pos.RewardLocked)
		if err != nil {
			return fmt.Errorf("position %s: %w", pos.ID, err)
		}
		totalLocked = totalLocked.Add(locked)
	}

	doc := &model.VaultStatsDocument{
		ID:             model.VaultStatsID,
		PoolCount:      state.PoolCount,
		PositionCount:  uint64(len(positions)),
		RewardBalance:  state.RewardBalance.String(),
		PendingRewards: state.PendingRewards.String(),
		TotalLocked:    totalLocked.String(),
		TotalStaked:    make(map[string]string, len(pools)),
	}

	for _, p := range pools {
		doc.TotalStaked[strconv.FormatUint(p.ID, 10)] = p.TotalStaked.String()

		decimals := uint8(0)
		if l, err := s.ledgers.Get(p.StakedToken); err == nil {
			decimals = l.Decimals()
		}
		metrics.RecordPoolStats(p.ID, toUnits(p.TotalStaked, decimals), p.Weight)
	}

	if err := s.db.UpsertVaultStats(ctx, doc); err != nil {
		return fmt.Errorf("failed to upsert vault stats: %w", err)
	}

	rewardDecimals := uint8(0)
	if l, err := s.ledgers.Get(state.RewardToken); err == nil {
		rewardDecimals = l.Decimals()
	}
	metrics.RecordVaultStats(
		toUnits(state.RewardBalance, rewardDecimals),
		toUnits(state.PendingRewards, rewardDecimals),
		len(positions),
	)
	metrics.RecordFeeMultiplier(s.fee.FeeMultiplier())

	log.Info().
		Uint64("pool_count", state.PoolCount).
		Int("position_count", len(positions)).
		Str("reward_balance", state.RewardBalance.String()).
		Str("total_locked", totalLocked.String()).
		Msg("Updated vault stats")

	return nil
}

// toUnits converts a base unit amount to whole token units for gauges.
func toUnits(amount sdkmath.Int, decimals uint8) float64 {
	return decimal.NewFromBigInt(amount.BigInt(), -int32(decimals)).InexactFloat64()
}
