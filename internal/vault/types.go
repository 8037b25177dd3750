package vault

import (
	"fmt"

	sdkmath "cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"

	"github.com/pisfinance/pis-vault/internal/db/model"
	"github.com/pisfinance/pis-vault/internal/utils"
)

// Pool is a staking pool and its reward accumulator.
type Pool struct {
	ID             uint64         `json:"id"`
	StakedToken    common.Address `json:"staked_token"`
	Weight         uint64         `json:"weight"`
	LastRewardTime int64          `json:"last_reward_time"`
	// AccRewardPerShare is the reward earned by one staked unit since the
	// pool was created, scaled by AccumulatorScale.
	AccRewardPerShare sdkmath.Int `json:"acc_reward_per_share"`
	ShareRemainder    sdkmath.Int `json:"share_remainder"`
	TotalStaked       sdkmath.Int `json:"total_staked"`
	// RewardIndex is the global reward per weight index at the last checkpoint.
	RewardIndex    sdkmath.Int `json:"reward_index"`
	IndexRemainder sdkmath.Int `json:"index_remainder"`
	// UnfoldedReward is checkpointed entitlement not yet credited to stakers.
	UnfoldedReward sdkmath.Int `json:"unfolded_reward"`
	CreatedAt      int64       `json:"created_at"`
}

// Position is a user's stake in one pool.
type Position struct {
	PoolID          uint64         `json:"pool_id"`
	User            common.Address `json:"user"`
	Amount          sdkmath.Int    `json:"amount"`
	ReferenceAmount sdkmath.Int    `json:"reference_amount"`
	DepositTime     int64          `json:"deposit_time"`
	// RewardDebt is Amount * AccRewardPerShare at the last settlement, kept
	// at full scale.
	RewardDebt   sdkmath.Int `json:"reward_debt"`
	RewardLocked sdkmath.Int `json:"reward_locked"`
}

// State is the vault wide bookkeeping.
type State struct {
	RewardToken        common.Address `json:"reward_token"`
	RewardBalance      sdkmath.Int    `json:"reward_balance"`
	PendingRewards     sdkmath.Int    `json:"pending_rewards"`
	PendingDevRewards  sdkmath.Int    `json:"pending_dev_rewards"`
	AccRewardPerWeight sdkmath.Int    `json:"acc_reward_per_weight"`
	TotalWeight        uint64         `json:"total_weight"`
	PoolCount          uint64         `json:"pool_count"`
	LastEmissionTime   int64          `json:"last_emission_time"`
	TotalFeesCollected sdkmath.Int    `json:"total_fees_collected"`
	TotalEmitted       sdkmath.Int    `json:"total_emitted"`
}

func newPosition(poolID uint64, user common.Address) *Position {
	return &Position{
		PoolID:          poolID,
		User:            user,
		Amount:          sdkmath.ZeroInt(),
		ReferenceAmount: sdkmath.ZeroInt(),
		RewardDebt:      sdkmath.ZeroInt(),
		RewardLocked:    sdkmath.ZeroInt(),
	}
}

// isEmpty reports whether the position holds nothing and can be dropped.
func (p *Position) isEmpty() bool {
	return p.Amount.IsZero() && p.RewardLocked.IsZero()
}

func (p *Pool) toDocument() *model.PoolDocument {
	return &model.PoolDocument{
		ID:                p.ID,
		StakedToken:       p.StakedToken.Hex(),
		Weight:            p.Weight,
		LastRewardTime:    p.LastRewardTime,
		AccRewardPerShare: p.AccRewardPerShare.String(),
		ShareRemainder:    p.ShareRemainder.String(),
		TotalStaked:       p.TotalStaked.String(),
		RewardIndex:       p.RewardIndex.String(),
		IndexRemainder:    p.IndexRemainder.String(),
		UnfoldedReward:    p.UnfoldedReward.String(),
		CreatedAt:         p.CreatedAt,
	}
}

func poolFromDocument(doc *model.PoolDocument) (*Pool, error) {
	p := &Pool{
		ID:             doc.ID,
		StakedToken:    common.HexToAddress(doc.StakedToken),
		Weight:         doc.Weight,
		LastRewardTime: doc.LastRewardTime,
		CreatedAt:      doc.CreatedAt,
	}
	err := parseAmounts([]amountField{
		{doc.AccRewardPerShare, &p.AccRewardPerShare},
		{doc.ShareRemainder, &p.ShareRemainder},
		{doc.TotalStaked, &p.TotalStaked},
		{doc.RewardIndex, &p.RewardIndex},
		{doc.IndexRemainder, &p.IndexRemainder},
		{doc.UnfoldedReward, &p.UnfoldedReward},
	})
	if err != nil {
		return nil, fmt.Errorf("pool %d: %w", doc.ID, err)
	}
	return p, nil
}

func (p *Position) id() string {
	return model.PositionID(p.PoolID, p.User.Hex())
}

func (p *Position) toDocument() *model.PositionDocument {
	return &model.PositionDocument{
		ID:              p.id(),
		PoolID:          p.PoolID,
		User:            p.User.Hex(),
		Amount:          p.Amount.String(),
		ReferenceAmount: p.ReferenceAmount.String(),
		DepositTime:     p.DepositTime,
		RewardDebt:      p.RewardDebt.String(),
		RewardLocked:    p.RewardLocked.String(),
	}
}

func positionFromDocument(doc *model.PositionDocument) (*Position, error) {
	p := &Position{
		PoolID:      doc.PoolID,
		User:        common.HexToAddress(doc.User),
		DepositTime: doc.DepositTime,
	}
	err := parseAmounts([]amountField{
		{doc.Amount, &p.Amount},
		{doc.ReferenceAmount, &p.ReferenceAmount},
		{doc.RewardDebt, &p.RewardDebt},
		{doc.RewardLocked, &p.RewardLocked},
	})
	if err != nil {
		return nil, fmt.Errorf("position %s: %w", doc.ID, err)
	}
	return p, nil
}

func (s *State) toDocument() *model.VaultStateDocument {
	return &model.VaultStateDocument{
		ID:                 model.VaultStateID,
		RewardToken:        s.RewardToken.Hex(),
		RewardBalance:      s.RewardBalance.String(),
		PendingRewards:     s.PendingRewards.String(),
		PendingDevRewards:  s.PendingDevRewards.String(),
		AccRewardPerWeight: s.AccRewardPerWeight.String(),
		TotalWeight:        s.TotalWeight,
		PoolCount:          s.PoolCount,
		LastEmissionTime:   s.LastEmissionTime,
		TotalFeesCollected: s.TotalFeesCollected.String(),
		TotalEmitted:       s.TotalEmitted.String(),
	}
}

func stateFromDocument(doc *model.VaultStateDocument) (*State, error) {
	s := &State{
		RewardToken:      common.HexToAddress(doc.RewardToken),
		TotalWeight:      doc.TotalWeight,
		PoolCount:        doc.PoolCount,
		LastEmissionTime: doc.LastEmissionTime,
	}
	err := parseAmounts([]amountField{
		{doc.RewardBalance, &s.RewardBalance},
		{doc.PendingRewards, &s.PendingRewards},
		{doc.PendingDevRewards, &s.PendingDevRewards},
		{doc.AccRewardPerWeight, &s.AccRewardPerWeight},
		{doc.TotalFeesCollected, &s.TotalFeesCollected},
		{doc.TotalEmitted, &s.TotalEmitted},
	})
	if err != nil {
		return nil, fmt.Errorf("vault state: %w", err)
	}
	return s, nil
}

type amountField struct {
	raw string
	dst *sdkmath.Int
}

func parseAmounts(fields []amountField) error {
	for _, f := range fields {
		v, err := utils.ParseAmount(f.raw)
		if err != nil {
			return err
		}
		*f.dst = v
	}
	return nil
}
