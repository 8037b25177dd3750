package vault

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pisfinance/pis-vault/internal/types"
)

func TestPendingRewardsObservesFees(t *testing.T) {
	tv := newTestVault(t)
	tv.addPool(t, lpAddr, 1000)

	pending, err := tv.PendingRewards(tv.ctx)
	require.NoError(t, err)
	assert.True(t, pending.IsZero())

	tv.payFee(t, 1000)

	pending, err = tv.PendingRewards(tv.ctx)
	require.NoError(t, err)
	assert.Equal(t, "20", pending.String())
	assert.Equal(t, int64(980), tv.balance(t, tv.pis, carol))

	// views never commit
	assert.True(t, tv.state(t).RewardBalance.IsZero())
}

func TestDepositHarvest(t *testing.T) {
	tv := newTestVault(t)
	id := tv.addPool(t, lpAddr, 1000)

	require.NoError(t, tv.Deposit(tv.ctx, id, alice, amount(100)))
	assert.Equal(t, int64(900), tv.balance(t, tv.lp, alice))
	assert.Equal(t, int64(100), tv.balance(t, tv.lp, vaultAddr))
	assert.Equal(t, "100", tv.pool(t, id).TotalStaked.String())

	tv.payFee(t, 1000)
	tv.clock.advance(10 * time.Second)

	// 20 income, 1 dev fee, 19 to the only staker
	pending, err := tv.PendingPIS(tv.ctx, id, alice)
	require.NoError(t, err)
	assert.Equal(t, "19", pending.String())

	require.NoError(t, tv.Deposit(tv.ctx, id, alice, amount(0)))

	assert.Equal(t, int64(7), tv.balance(t, tv.pis, alice))
	assert.Equal(t, int64(1), tv.balance(t, tv.pis, devAddr))
	assert.Equal(t, int64(12), tv.balance(t, tv.pis, vaultAddr))

	pos := tv.position(t, id, alice)
	assert.Equal(t, "12", pos.RewardLocked.String())
	assert.Equal(t, "100", pos.Amount.String())
	assert.Equal(t, tv.clock.now.Add(-10*time.Second).Unix(), pos.DepositTime)

	state := tv.state(t)
	assert.Equal(t, "12", state.RewardBalance.String())
	assert.True(t, state.PendingRewards.IsZero())
	assert.True(t, state.PendingDevRewards.IsZero())
	assert.Equal(t, "20", state.TotalFeesCollected.String())

	pending, err = tv.PendingPIS(tv.ctx, id, alice)
	require.NoError(t, err)
	assert.True(t, pending.IsZero())
}

func TestDevFee(t *testing.T) {
	tv := newTestVault(t)
	id := tv.addPool(t, lpAddr, 1000)
	require.NoError(t, tv.Deposit(tv.ctx, id, alice, amount(100)))

	tv.payFee(t, 1_000_000)
	tv.clock.advance(time.Minute)
	require.NoError(t, tv.Deposit(tv.ctx, id, alice, amount(0)))

	// 20000 income, 7.24% of it to the dev address
	assert.Equal(t, int64(1448), tv.balance(t, tv.pis, devAddr))
	assert.Equal(t, int64(7420), tv.balance(t, tv.pis, alice))
	assert.Equal(t, "11132", tv.position(t, id, alice).RewardLocked.String())
}

func TestWeeklyRelease(t *testing.T) {
	tv := newTestVault(t)
	id := tv.addPool(t, lpAddr, 1000)
	require.NoError(t, tv.Deposit(tv.ctx, id, alice, amount(100)))
	tv.payFee(t, 1000)

	tv.clock.advance(day)
	err := tv.Withdraw(tv.ctx, id, alice, amount(1))
	requireCode(t, err, types.InsufficientStake)
	assert.Contains(t, err.Error(), "withdraw: not good")

	err = tv.QuitPool(tv.ctx, id, alice)
	requireCode(t, err, types.CannotQuitYet)
	assert.Contains(t, err.Error(), "cannot withdraw all lp tokens before")

	// failed calls leave nothing behind
	assert.True(t, tv.state(t).RewardBalance.IsZero())
	assert.Equal(t, int64(900), tv.balance(t, tv.lp, alice))

	steps := []struct {
		at            time.Duration
		weeks         uint64
		alicePIS      int64
		rewardLocked  string
		aliceLPBefore int64
	}{
		{at: 14 * day, weeks: 1, alicePIS: 10, rewardLocked: "9", aliceLPBefore: 900},
		{at: 21 * day, weeks: 2, alicePIS: 13, rewardLocked: "6", aliceLPBefore: 925},
		{at: 28 * day, weeks: 3, alicePIS: 16, rewardLocked: "3", aliceLPBefore: 950},
	}

	elapsed := day
	for _, step := range steps {
		tv.clock.advance(step.at - elapsed)
		elapsed = step.at

		weeks, err := tv.WeeksSinceLPReleaseTilNow(tv.ctx, id, alice)
		require.NoError(t, err)
		assert.Equal(t, step.weeks, weeks)

		releasable, err := tv.ComputeReleasableLP(tv.ctx, id, alice)
		require.NoError(t, err)
		assert.Equal(t, "25", releasable.String())

		assert.Equal(t, step.aliceLPBefore, tv.balance(t, tv.lp, alice))
		require.NoError(t, tv.Withdraw(tv.ctx, id, alice, amount(25)))
		assert.Equal(t, step.alicePIS, tv.balance(t, tv.pis, alice))
		assert.Equal(t, step.rewardLocked, tv.position(t, id, alice).RewardLocked.String())

		// the same tranche cannot be released twice
		releasable, err = tv.ComputeReleasableLP(tv.ctx, id, alice)
		require.NoError(t, err)
		assert.True(t, releasable.IsZero())
		requireCode(t, tv.Withdraw(tv.ctx, id, alice, amount(1)), types.InsufficientStake)
	}

	requireCode(t, tv.QuitPool(tv.ctx, id, alice), types.CannotQuitYet)

	tv.clock.advance(7 * day)
	weeks, err := tv.WeeksSinceLPReleaseTilNow(tv.ctx, id, alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(4), weeks)

	require.NoError(t, tv.QuitPool(tv.ctx, id, alice))
	assert.Equal(t, int64(1000), tv.balance(t, tv.lp, alice))
	assert.Equal(t, int64(19), tv.balance(t, tv.pis, alice))
	assert.Equal(t, int64(1), tv.balance(t, tv.pis, devAddr))
	assert.Equal(t, int64(0), tv.balance(t, tv.pis, vaultAddr))

	pos := tv.position(t, id, alice)
	assert.True(t, pos.isEmpty())
	positions, err := tv.Positions(tv.ctx, alice)
	require.NoError(t, err)
	assert.Empty(t, positions)
	assert.True(t, tv.pool(t, id).TotalStaked.IsZero())
	assert.True(t, tv.state(t).RewardBalance.IsZero())
}

func TestWithdrawBound(t *testing.T) {
	tv := newTestVault(t)
	id := tv.addPool(t, lpAddr, 1000)
	require.NoError(t, tv.Deposit(tv.ctx, id, alice, amount(100)))

	tv.clock.advance(60 * day)
	requireCode(t, tv.Withdraw(tv.ctx, id, alice, amount(101)), types.InsufficientStake)
	requireCode(t, tv.Withdraw(tv.ctx, id, bob, amount(1)), types.InsufficientStake)
	requireCode(t, tv.Withdraw(tv.ctx, id, alice, amount(-1)), types.BadRequest)

	require.NoError(t, tv.Withdraw(tv.ctx, id, alice, amount(100)))
	assert.Equal(t, int64(1000), tv.balance(t, tv.lp, alice))

	// a new deposit restarts the schedule for the whole position
	require.NoError(t, tv.Deposit(tv.ctx, id, alice, amount(40)))
	requireCode(t, tv.Withdraw(tv.ctx, id, alice, amount(1)), types.InsufficientStake)
}

func TestRedepositRestartsSchedule(t *testing.T) {
	tv := newTestVault(t)
	id := tv.addPool(t, lpAddr, 1000)
	require.NoError(t, tv.Deposit(tv.ctx, id, alice, amount(100)))

	tv.clock.advance(21 * day)
	require.NoError(t, tv.Withdraw(tv.ctx, id, alice, amount(50)))
	require.NoError(t, tv.Deposit(tv.ctx, id, alice, amount(30)))

	pos := tv.position(t, id, alice)
	assert.Equal(t, "80", pos.Amount.String())
	assert.Equal(t, "80", pos.ReferenceAmount.String())
	assert.Equal(t, tv.clock.now.Unix(), pos.DepositTime)

	tv.clock.advance(14 * day)
	releasable, err := tv.ComputeReleasableLP(tv.ctx, id, alice)
	require.NoError(t, err)
	assert.Equal(t, "20", releasable.String())
}

func TestExitEarly(t *testing.T) {
	t.Run("penalised before maturity", func(t *testing.T) {
		tv := newTestVault(t)
		id := tv.addPool(t, lpAddr, 1000)
		require.NoError(t, tv.Deposit(tv.ctx, id, alice, amount(100)))
		tv.payFee(t, 1000)
		tv.clock.advance(10 * time.Second)

		require.NoError(t, tv.ExitEarly(tv.ctx, id, alice))

		// 7 paid on settlement, 12 locked of which 40% goes to the dev address
		assert.Equal(t, int64(15), tv.balance(t, tv.pis, alice))
		assert.Equal(t, int64(5), tv.balance(t, tv.pis, devAddr))
		assert.Equal(t, int64(1000), tv.balance(t, tv.lp, alice))
		assert.Equal(t, int64(0), tv.balance(t, tv.pis, vaultAddr))
		assert.True(t, tv.position(t, id, alice).isEmpty())
		assert.True(t, tv.pool(t, id).TotalStaked.IsZero())

		var exits int
		for _, ev := range tv.events {
			if ev.Type == types.EventEarlyExit {
				exits++
				assert.Equal(t, "100", ev.Amount)
				assert.Equal(t, alice.Hex(), ev.Account)
			}
		}
		assert.Equal(t, 1, exits)
	})

	t.Run("no penalty once matured", func(t *testing.T) {
		tv := newTestVault(t)
		id := tv.addPool(t, lpAddr, 1000)
		require.NoError(t, tv.Deposit(tv.ctx, id, alice, amount(100)))
		tv.payFee(t, 1000)
		tv.clock.advance(10 * time.Second)
		require.NoError(t, tv.Deposit(tv.ctx, id, alice, amount(0)))

		tv.clock.advance(35 * day)
		require.NoError(t, tv.ExitEarly(tv.ctx, id, alice))
		assert.Equal(t, int64(19), tv.balance(t, tv.pis, alice))
		assert.Equal(t, int64(1), tv.balance(t, tv.pis, devAddr))
	})

	t.Run("nothing staked", func(t *testing.T) {
		tv := newTestVault(t)
		id := tv.addPool(t, lpAddr, 1000)
		requireCode(t, tv.ExitEarly(tv.ctx, id, alice), types.InsufficientStake)
	})
}

func TestQuitEmptyPosition(t *testing.T) {
	tv := newTestVault(t)
	id := tv.addPool(t, lpAddr, 1000)
	require.NoError(t, tv.QuitPool(tv.ctx, id, alice))
	requireCode(t, tv.QuitPool(tv.ctx, 7, alice), types.InvalidPool)
}

func TestLinearRelease(t *testing.T) {
	tv := newTestVault(t, withParams(func(p *Params) {
		p.Curve = CurveLinear
	}))
	id := tv.addPool(t, lpAddr, 1000)
	require.NoError(t, tv.Deposit(tv.ctx, id, alice, amount(100)))

	tv.clock.advance(14 * day)
	releasable, err := tv.ComputeReleasableLP(tv.ctx, id, alice)
	require.NoError(t, err)
	assert.True(t, releasable.IsZero())

	tv.clock.advance(14 * day)
	releasable, err = tv.ComputeReleasableLP(tv.ctx, id, alice)
	require.NoError(t, err)
	assert.Equal(t, "50", releasable.String())
	requireCode(t, tv.QuitPool(tv.ctx, id, alice), types.CannotQuitYet)

	require.NoError(t, tv.Withdraw(tv.ctx, id, alice, amount(30)))
	tv.clock.advance(7 * day)
	releasable, err = tv.ComputeReleasableLP(tv.ctx, id, alice)
	require.NoError(t, err)
	assert.Equal(t, "45", releasable.String())

	tv.clock.advance(7 * day)
	require.NoError(t, tv.QuitPool(tv.ctx, id, alice))
	assert.Equal(t, int64(1000), tv.balance(t, tv.lp, alice))
}
