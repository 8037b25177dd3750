package vault

import (
	"fmt"

	sdkmath "cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog/log"

	"github.com/pisfinance/pis-vault/internal/types"
	"github.com/pisfinance/pis-vault/internal/utils"
)

// collect books every reward that reached the vault since the last operation
// into PendingRewards: fee income observed as growth of the vault's reward
// balance, plus emission due from the reserve. It runs once per operation,
// before any transfer is planned.
func (t *txn) collect() error {
	if t.collected {
		return nil
	}
	t.collected = true

	state, err := t.loadState()
	if err != nil {
		return err
	}
	rewards, err := t.rewardLedger()
	if err != nil {
		return err
	}

	observed, err := rewards.BalanceOf(t.ctx, t.v.params.Address)
	if err != nil {
		return types.NewInternalServiceError(fmt.Errorf("failed to read vault reward balance: %w", err))
	}

	switch {
	case observed.GT(state.RewardBalance):
		income := observed.Sub(state.RewardBalance)
		state.RewardBalance = observed
		state.PendingRewards = state.PendingRewards.Add(income)
		state.TotalFeesCollected = state.TotalFeesCollected.Add(income)
	case observed.LT(state.RewardBalance):
		log.Ctx(t.ctx).Warn().
			Str("observed", observed.String()).
			Str("accounted", state.RewardBalance.String()).
			Msg("vault reward balance is below the accounted balance")
	}

	if err := t.collectEmission(state); err != nil {
		return err
	}

	t.stateDirty = true
	return nil
}

// collectEmission pulls rate * elapsed from the reserve, bounded by what the
// reserve holds and has approved to the vault.
func (t *txn) collectEmission(state *State) error {
	if !t.v.params.emits() || t.now <= state.LastEmissionTime {
		return nil
	}

	elapsed := sdkmath.NewInt(t.now - state.LastEmissionTime)
	state.LastEmissionTime = t.now

	rewards, err := t.rewardLedger()
	if err != nil {
		return err
	}
	reserve := t.v.params.EmissionReserve

	balance, err := rewards.BalanceOf(t.ctx, reserve)
	if err != nil {
		return types.NewInternalServiceError(fmt.Errorf("failed to read emission reserve balance: %w", err))
	}
	allowance, err := rewards.Allowance(t.ctx, reserve, t.v.params.Address)
	if err != nil {
		return types.NewInternalServiceError(fmt.Errorf("failed to read emission reserve allowance: %w", err))
	}

	amount := utils.MinInt(t.v.params.EmissionPerSecond.Mul(elapsed), utils.MinInt(balance, allowance))
	if !amount.IsPositive() {
		return nil
	}

	t.pull(rewards, reserve, amount)
	state.RewardBalance = state.RewardBalance.Add(amount)
	state.PendingRewards = state.PendingRewards.Add(amount)
	state.TotalEmitted = state.TotalEmitted.Add(amount)
	return nil
}

// distribute credits PendingRewards to the global reward per weight index.
// The amount taken out of PendingRewards is rounded up so the pools together
// can never be entitled to more than was credited.
func (t *txn) distribute() error {
	if t.distributed {
		return nil
	}
	if err := t.collect(); err != nil {
		return err
	}
	t.distributed = true

	state := t.state
	if state.TotalWeight == 0 || !state.PendingRewards.IsPositive() {
		return nil
	}

	totalWeight := sdkmath.NewIntFromUint64(state.TotalWeight)
	delta, err := utils.MulDiv(state.PendingRewards, AccumulatorScale, totalWeight)
	if err != nil {
		return types.NewInternalServiceError(err)
	}
	if delta.IsZero() {
		return nil
	}

	credited, err := utils.MulDivCeil(totalWeight, delta, AccumulatorScale)
	if err != nil {
		return types.NewInternalServiceError(err)
	}

	state.AccRewardPerWeight = state.AccRewardPerWeight.Add(delta)
	state.PendingRewards = state.PendingRewards.Sub(credited)
	return nil
}

// payReward plans a reward token payout from the vault.
func (t *txn) payReward(to common.Address, amount sdkmath.Int, poolID *uint64, event types.EventTypes) error {
	if !amount.IsPositive() {
		return nil
	}

	state, err := t.loadState()
	if err != nil {
		return err
	}
	if amount.GT(state.RewardBalance) {
		return types.NewInternalServiceError(fmt.Errorf(
			"payout of %s exceeds accounted reward balance %s", amount, state.RewardBalance,
		))
	}
	rewards, err := t.rewardLedger()
	if err != nil {
		return err
	}

	state.RewardBalance = state.RewardBalance.Sub(amount)
	t.stateDirty = true
	t.push(rewards, to, amount)
	t.emit(event, poolID, to, amount)
	return nil
}

// payDevRewards sends the accumulated dev fee to the dev address.
func (t *txn) payDevRewards() error {
	state, err := t.loadState()
	if err != nil {
		return err
	}
	if !state.PendingDevRewards.IsPositive() {
		return nil
	}

	amount := state.PendingDevRewards
	state.PendingDevRewards = sdkmath.ZeroInt()
	return t.payReward(t.v.params.DevAddress, amount, nil, types.EventDevRewardPaid)
}
