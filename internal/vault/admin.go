package vault

import (
	"context"
	"fmt"

	sdkmath "cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog/log"

	"github.com/pisfinance/pis-vault/internal/auth"
	"github.com/pisfinance/pis-vault/internal/db"
	"github.com/pisfinance/pis-vault/internal/types"
)

// Initialize creates the vault state. It can run only once.
func (v *Vault) Initialize(ctx context.Context, capability *auth.Capability) error {
	if err := v.authorize(capability); err != nil {
		return err
	}

	return v.execute(ctx, "initialize", func(t *txn) error {
		_, err := v.store.GetVaultState(ctx)
		if err == nil {
			return types.NewBadRequestError("vault is already initialized")
		}
		if !db.IsNotFoundError(err) {
			return types.NewInternalServiceError(fmt.Errorf("failed to load vault state: %w", err))
		}

		rewards, err := t.rewardLedger()
		if err != nil {
			return err
		}
		// tokens already held by the vault are not income
		balance, err := rewards.BalanceOf(ctx, v.params.Address)
		if err != nil {
			return types.NewInternalServiceError(fmt.Errorf("failed to read vault reward balance: %w", err))
		}

		t.state = &State{
			RewardToken:        v.params.RewardToken,
			RewardBalance:      balance,
			PendingRewards:     sdkmath.ZeroInt(),
			PendingDevRewards:  sdkmath.ZeroInt(),
			AccRewardPerWeight: sdkmath.ZeroInt(),
			LastEmissionTime:   t.now,
			TotalFeesCollected: sdkmath.ZeroInt(),
			TotalEmitted:       sdkmath.ZeroInt(),
		}
		t.stateDirty = true
		t.collected = true
		return nil
	})
}

// IsInitialized reports whether Initialize has run.
func (v *Vault) IsInitialized(ctx context.Context) (bool, error) {
	var initialized bool
	err := v.view(ctx, func(t *txn) error {
		_, err := t.loadState()
		switch {
		case err == nil:
			initialized = true
		case types.IsCode(err, types.BadRequest):
		default:
			return err
		}
		return nil
	})
	return initialized, err
}

// Add creates a pool for stakedToken with the given allocation weight and
// returns its id.
func (v *Vault) Add(
	ctx context.Context, capability *auth.Capability, weight uint64, stakedToken common.Address, withUpdate bool,
) (uint64, error) {
	if err := v.authorize(capability); err != nil {
		return 0, err
	}
	if stakedToken == v.params.RewardToken {
		return 0, types.NewBadRequestError("reward token cannot be staked")
	}
	if _, err := v.ledgers.Get(stakedToken); err != nil {
		return 0, types.NewBadRequestError("unknown staked token %s", stakedToken.Hex())
	}

	var poolID uint64
	err := v.execute(ctx, "add_pool", func(t *txn) error {
		if withUpdate {
			if err := t.massUpdate(); err != nil {
				return err
			}
		}

		pools, err := t.allPools()
		if err != nil {
			return err
		}
		for _, p := range pools {
			if p.StakedToken == stakedToken {
				return types.NewBadRequestError("pool for %s already exists", stakedToken.Hex())
			}
		}

		// credit pending rewards under the old total weight
		if err := t.distribute(); err != nil {
			return err
		}
		state := t.state

		p := &Pool{
			ID:                state.PoolCount,
			StakedToken:       stakedToken,
			Weight:            weight,
			LastRewardTime:    t.now,
			AccRewardPerShare: sdkmath.ZeroInt(),
			ShareRemainder:    sdkmath.ZeroInt(),
			TotalStaked:       sdkmath.ZeroInt(),
			RewardIndex:       state.AccRewardPerWeight,
			IndexRemainder:    sdkmath.ZeroInt(),
			UnfoldedReward:    sdkmath.ZeroInt(),
			CreatedAt:         t.now,
		}
		t.pools[p.ID] = p
		t.markPool(p)

		state.TotalWeight += weight
		state.PoolCount++
		t.stateDirty = true

		poolID = p.ID
		t.emit(types.EventPoolAdded, &p.ID, stakedToken, sdkmath.Int{})
		t.events[len(t.events)-1].Weight = &p.Weight
		return nil
	})
	if err != nil {
		return 0, err
	}

	log.Ctx(ctx).Info().Uint64("pool_id", poolID).Str("staked_token", stakedToken.Hex()).
		Uint64("weight", weight).Msg("pool added")
	return poolID, nil
}

// Set changes a pool's allocation weight.
func (v *Vault) Set(ctx context.Context, capability *auth.Capability, poolID uint64, weight uint64, withUpdate bool) error {
	if err := v.authorize(capability); err != nil {
		return err
	}

	return v.execute(ctx, "set_pool", func(t *txn) error {
		if withUpdate {
			if err := t.massUpdate(); err != nil {
				return err
			}
		}

		p, err := t.pool(poolID)
		if err != nil {
			return err
		}
		if err := t.checkpointPool(p); err != nil {
			return err
		}

		state := t.state
		state.TotalWeight = state.TotalWeight - p.Weight + weight
		t.stateDirty = true
		p.Weight = weight
		t.markPool(p)

		t.emit(types.EventPoolWeightUpdated, &p.ID, common.Address{}, sdkmath.Int{})
		t.events[len(t.events)-1].Weight = &p.Weight
		return nil
	})
}

// UpdatePool credits the pool with everything it earned up to now.
func (v *Vault) UpdatePool(ctx context.Context, poolID uint64) error {
	return v.execute(ctx, "update_pool", func(t *txn) error {
		p, err := t.pool(poolID)
		if err != nil {
			return err
		}
		return t.updatePool(p)
	})
}

// MassUpdatePools updates every pool.
func (v *Vault) MassUpdatePools(ctx context.Context) error {
	return v.execute(ctx, "mass_update_pools", func(t *txn) error {
		return t.massUpdate()
	})
}
