package vault

import (
	"context"

	sdkmath "cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog/log"

	"github.com/pisfinance/pis-vault/internal/types"
	"github.com/pisfinance/pis-vault/internal/utils"
)

// Deposit stakes amount of the pool's token for user and settles the
// reward earned so far. A zero amount only harvests.
func (v *Vault) Deposit(ctx context.Context, poolID uint64, user common.Address, amount sdkmath.Int) error {
	if err := validateAmount(amount); err != nil {
		return err
	}
	log.Ctx(ctx).Debug().Uint64("pool_id", poolID).Str("user", user.Hex()).
		Str("amount", amount.String()).Msg("deposit")

	return v.execute(ctx, "deposit", func(t *txn) error {
		p, pos, err := t.userPosition(poolID, user)
		if err != nil {
			return err
		}
		if err := t.settle(p, pos); err != nil {
			return err
		}

		if amount.IsPositive() {
			staked, err := t.stakedLedger(p)
			if err != nil {
				return err
			}
			t.pull(staked, user, amount)

			pos.Amount = pos.Amount.Add(amount)
			pos.ReferenceAmount = pos.Amount
			pos.DepositTime = t.now
			p.TotalStaked = p.TotalStaked.Add(amount)
			t.emit(types.EventDeposit, &p.ID, user, amount)
		}

		pos.RewardDebt = pos.Amount.Mul(p.AccRewardPerShare)
		return t.payDevRewards()
	})
}

// Withdraw returns amount staked tokens to user. The amount is bounded by
// what the release schedule has unlocked. The matching share of the
// locked reward is released with it.
func (v *Vault) Withdraw(ctx context.Context, poolID uint64, user common.Address, amount sdkmath.Int) error {
	if err := validateAmount(amount); err != nil {
		return err
	}
	log.Ctx(ctx).Debug().Uint64("pool_id", poolID).Str("user", user.Hex()).
		Str("amount", amount.String()).Msg("withdraw")

	return v.execute(ctx, "withdraw", func(t *txn) error {
		p, pos, err := t.userPosition(poolID, user)
		if err != nil {
			return err
		}

		releasable := v.params.Releasable(pos, t.now)
		if amount.GT(pos.Amount) || amount.GT(releasable) {
			return types.NewInsufficientStakeError("withdraw: not good")
		}

		if err := t.settle(p, pos); err != nil {
			return err
		}

		if amount.IsPositive() {
			unlocked, err := utils.MulDiv(pos.RewardLocked, amount, pos.Amount)
			if err != nil {
				return types.NewInternalServiceError(err)
			}
			if err := t.payReward(user, unlocked, &p.ID, types.EventRewardPaid); err != nil {
				return err
			}
			pos.RewardLocked = pos.RewardLocked.Sub(unlocked)

			staked, err := t.stakedLedger(p)
			if err != nil {
				return err
			}
			t.push(staked, user, amount)

			pos.Amount = pos.Amount.Sub(amount)
			p.TotalStaked = p.TotalStaked.Sub(amount)
			t.emit(types.EventWithdraw, &p.ID, user, amount)
		}

		pos.RewardDebt = pos.Amount.Mul(p.AccRewardPerShare)
		return t.payDevRewards()
	})
}

// QuitPool closes the position once every staked token is releasable,
// returning the remaining stake and the whole locked reward.
func (v *Vault) QuitPool(ctx context.Context, poolID uint64, user common.Address) error {
	return v.execute(ctx, "quit_pool", func(t *txn) error {
		p, pos, err := t.userPosition(poolID, user)
		if err != nil {
			return err
		}
		if pos.Amount.IsPositive() && !v.params.Matured(pos, t.now) {
			return types.NewCannotQuitYetError("cannot withdraw all lp tokens before")
		}

		if err := t.settle(p, pos); err != nil {
			return err
		}
		if err := t.payReward(user, pos.RewardLocked, &p.ID, types.EventRewardPaid); err != nil {
			return err
		}

		remaining := pos.Amount
		if remaining.IsPositive() {
			staked, err := t.stakedLedger(p)
			if err != nil {
				return err
			}
			t.push(staked, user, remaining)
			p.TotalStaked = p.TotalStaked.Sub(remaining)
		}

		t.emit(types.EventQuitPool, &p.ID, user, remaining)
		clearPosition(pos)
		return t.payDevRewards()
	})
}

// ExitEarly withdraws the whole stake regardless of the release schedule.
// Unless the schedule has matured, the penalty share of the locked reward
// goes to the dev address instead of the user.
func (v *Vault) ExitEarly(ctx context.Context, poolID uint64, user common.Address) error {
	return v.execute(ctx, "exit_early", func(t *txn) error {
		p, pos, err := t.userPosition(poolID, user)
		if err != nil {
			return err
		}
		if pos.isEmpty() {
			return types.NewInsufficientStakeError("exit: nothing staked")
		}

		if err := t.settle(p, pos); err != nil {
			return err
		}

		penalty := sdkmath.ZeroInt()
		if !v.params.Matured(pos, t.now) {
			penalty = utils.Percent(pos.RewardLocked, v.params.EarlyExitPenaltyPercent)
		}
		if err := t.payReward(v.params.DevAddress, penalty, &p.ID, types.EventDevRewardPaid); err != nil {
			return err
		}
		if err := t.payReward(user, pos.RewardLocked.Sub(penalty), &p.ID, types.EventRewardPaid); err != nil {
			return err
		}

		remaining := pos.Amount
		if remaining.IsPositive() {
			staked, err := t.stakedLedger(p)
			if err != nil {
				return err
			}
			t.push(staked, user, remaining)
			p.TotalStaked = p.TotalStaked.Sub(remaining)
		}

		log.Ctx(t.ctx).Info().Uint64("pool_id", p.ID).Str("user", user.Hex()).
			Str("penalty", penalty.String()).Msg("early exit")
		t.emit(types.EventEarlyExit, &p.ID, user, remaining)
		clearPosition(pos)
		return t.payDevRewards()
	})
}

// userPosition updates the pool and loads the user's position in it. Both
// are marked dirty.
func (t *txn) userPosition(poolID uint64, user common.Address) (*Pool, *Position, error) {
	if user == (common.Address{}) {
		return nil, nil, types.NewBadRequestError("user address is required")
	}
	if _, err := t.loadState(); err != nil {
		return nil, nil, err
	}

	p, err := t.pool(poolID)
	if err != nil {
		return nil, nil, err
	}
	if err := t.updatePool(p); err != nil {
		return nil, nil, err
	}
	pos, err := t.position(poolID, user)
	if err != nil {
		return nil, nil, err
	}

	t.markPool(p)
	t.markPosition(pos)
	return p, pos, nil
}

// pendingReward is the reward the position earned since its last settlement.
func pendingReward(p *Pool, pos *Position) sdkmath.Int {
	pending := pos.Amount.Mul(p.AccRewardPerShare).Sub(pos.RewardDebt)
	if !pending.IsPositive() {
		return sdkmath.ZeroInt()
	}
	return pending.Quo(AccumulatorScale)
}

// settle pays the immediate part of the pending reward and locks the rest.
// The pool must be updated first.
func (t *txn) settle(p *Pool, pos *Position) error {
	pending := pendingReward(p, pos)
	pos.RewardDebt = pos.Amount.Mul(p.AccRewardPerShare)
	if pending.IsZero() {
		return nil
	}

	immediate := utils.Percent(pending, t.v.params.ImmediateRewardPercent)
	locked := pending.Sub(immediate)

	if err := t.payReward(pos.User, immediate, &p.ID, types.EventRewardPaid); err != nil {
		return err
	}
	if locked.IsPositive() {
		pos.RewardLocked = pos.RewardLocked.Add(locked)
		t.emit(types.EventRewardLocked, &p.ID, pos.User, locked)
	}
	return nil
}

func clearPosition(pos *Position) {
	pos.Amount = sdkmath.ZeroInt()
	pos.ReferenceAmount = sdkmath.ZeroInt()
	pos.RewardDebt = sdkmath.ZeroInt()
	pos.RewardLocked = sdkmath.ZeroInt()
	pos.DepositTime = 0
}

func validateAmount(amount sdkmath.Int) error {
	if amount.IsNil() || amount.IsNegative() {
		return types.NewBadRequestError("amount must be a non negative integer")
	}
	return nil
}
