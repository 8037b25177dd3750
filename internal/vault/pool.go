package vault

import (
	sdkmath "cosmossdk.io/math"

	"github.com/pisfinance/pis-vault/internal/utils"
)

// checkpointPool moves the pool's share of the global index growth since its
// last snapshot into UnfoldedReward. The division remainder is carried so
// the pool's entitlement telescopes exactly across checkpoints. It must run
// before the pool's weight changes.
func (t *txn) checkpointPool(p *Pool) error {
	if err := t.distribute(); err != nil {
		return err
	}

	index := t.state.AccRewardPerWeight
	if index.Equal(p.RewardIndex) {
		return nil
	}

	growth := index.Sub(p.RewardIndex)
	scaled := growth.Mul(sdkmath.NewIntFromUint64(p.Weight)).Add(p.IndexRemainder)
	entitled := scaled.Quo(AccumulatorScale)

	p.UnfoldedReward = p.UnfoldedReward.Add(entitled)
	p.IndexRemainder = scaled.Sub(entitled.Mul(AccumulatorScale))
	p.RewardIndex = index
	t.markPool(p)
	return nil
}

// updatePool credits the pool's unfolded reward to its stakers.
func (t *txn) updatePool(p *Pool) error {
	if err := t.checkpointPool(p); err != nil {
		return err
	}
	if t.now <= p.LastRewardTime {
		return nil
	}

	defer func() {
		p.LastRewardTime = t.now
		t.markPool(p)
	}()

	reward := p.UnfoldedReward
	if !reward.IsPositive() {
		return nil
	}

	if p.TotalStaked.IsZero() {
		// no stakers to credit, hand the reward back to the other pools
		t.state.PendingRewards = t.state.PendingRewards.Add(reward)
		t.stateDirty = true
		p.UnfoldedReward = sdkmath.ZeroInt()
		return nil
	}

	devCut := utils.Bps(reward, t.v.params.DevFeeBps)
	if devCut.IsPositive() {
		t.state.PendingDevRewards = t.state.PendingDevRewards.Add(devCut)
		t.stateDirty = true
	}

	scaled := reward.Sub(devCut).Mul(AccumulatorScale).Add(p.ShareRemainder)
	perShare := scaled.Quo(p.TotalStaked)
	p.AccRewardPerShare = p.AccRewardPerShare.Add(perShare)
	p.ShareRemainder = scaled.Sub(perShare.Mul(p.TotalStaked))
	p.UnfoldedReward = sdkmath.ZeroInt()
	return nil
}

// massUpdate updates every pool in ascending id order.
func (t *txn) massUpdate() error {
	pools, err := t.allPools()
	if err != nil {
		return err
	}
	for _, p := range pools {
		if err := t.updatePool(p); err != nil {
			return err
		}
	}
	return nil
}
