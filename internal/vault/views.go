package vault

import (
	"context"
	"fmt"

	sdkmath "cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"

	"github.com/pisfinance/pis-vault/internal/types"
)

// PoolLength returns the number of pools, 0 before initialization.
func (v *Vault) PoolLength(ctx context.Context) (uint64, error) {
	var length uint64
	err := v.view(ctx, func(t *txn) error {
		state, err := t.loadState()
		if err != nil {
			if types.IsCode(err, types.BadRequest) {
				return nil
			}
			return err
		}
		length = state.PoolCount
		return nil
	})
	return length, err
}

func (v *Vault) PoolInfo(ctx context.Context, poolID uint64) (*Pool, error) {
	var pool *Pool
	err := v.view(ctx, func(t *txn) error {
		p, err := t.pool(poolID)
		pool = p
		return err
	})
	return pool, err
}

func (v *Vault) ListPools(ctx context.Context) ([]*Pool, error) {
	var pools []*Pool
	err := v.view(ctx, func(t *txn) error {
		var err error
		pools, err = t.allPools()
		return err
	})
	return pools, err
}

// UserInfo returns the user's position in the pool, empty if there is none.
func (v *Vault) UserInfo(ctx context.Context, poolID uint64, user common.Address) (*Position, error) {
	var pos *Position
	err := v.view(ctx, func(t *txn) error {
		if _, err := t.pool(poolID); err != nil {
			return err
		}
		var err error
		pos, err = t.position(poolID, user)
		return err
	})
	return pos, err
}

// Positions returns every open position of the user.
func (v *Vault) Positions(ctx context.Context, user common.Address) ([]*Position, error) {
	var positions []*Position
	err := v.view(ctx, func(t *txn) error {
		docs, err := v.store.ListPositions(ctx, user.Hex())
		if err != nil {
			return types.NewInternalServiceError(fmt.Errorf("failed to list positions: %w", err))
		}
		for _, doc := range docs {
			pos, err := positionFromDocument(doc)
			if err != nil {
				return types.NewInternalServiceError(err)
			}
			positions = append(positions, pos)
		}
		return nil
	})
	return positions, err
}

// PendingPIS returns the reward the user's next settlement in the pool would
// realise, paid and locked parts together.
func (v *Vault) PendingPIS(ctx context.Context, poolID uint64, user common.Address) (sdkmath.Int, error) {
	pending := sdkmath.ZeroInt()
	err := v.view(ctx, func(t *txn) error {
		p, err := t.pool(poolID)
		if err != nil {
			return err
		}
		if err := t.updatePool(p); err != nil {
			return err
		}
		pos, err := t.position(poolID, user)
		if err != nil {
			return err
		}
		pending = pendingReward(p, pos)
		return nil
	})
	return pending, err
}

// PendingRewards returns the reward collected by the vault but not yet
// credited to the pools, including income that arrived since the last
// operation.
func (v *Vault) PendingRewards(ctx context.Context) (sdkmath.Int, error) {
	pending := sdkmath.ZeroInt()
	err := v.view(ctx, func(t *txn) error {
		if err := t.collect(); err != nil {
			return err
		}
		pending = t.state.PendingRewards
		return nil
	})
	return pending, err
}

// ComputeReleasableLP returns how many staked tokens the user may withdraw now.
func (v *Vault) ComputeReleasableLP(ctx context.Context, poolID uint64, user common.Address) (sdkmath.Int, error) {
	releasable := sdkmath.ZeroInt()
	err := v.view(ctx, func(t *txn) error {
		if _, err := t.pool(poolID); err != nil {
			return err
		}
		pos, err := t.position(poolID, user)
		if err != nil {
			return err
		}
		releasable = v.params.Releasable(pos, t.now)
		return nil
	})
	return releasable, err
}

// WeeksSinceLPReleaseTilNow returns the number of release intervals started
// since the user's last deposit lock ended.
func (v *Vault) WeeksSinceLPReleaseTilNow(ctx context.Context, poolID uint64, user common.Address) (uint64, error) {
	var weeks uint64
	err := v.view(ctx, func(t *txn) error {
		if _, err := t.pool(poolID); err != nil {
			return err
		}
		pos, err := t.position(poolID, user)
		if err != nil {
			return err
		}
		if pos.Amount.IsZero() && pos.ReferenceAmount.IsZero() {
			return nil
		}
		weeks = v.params.WeeksSinceRelease(pos.DepositTime, t.now)
		return nil
	})
	return weeks, err
}

// State returns the vault wide bookkeeping as last committed.
func (v *Vault) State(ctx context.Context) (*State, error) {
	var state *State
	err := v.view(ctx, func(t *txn) error {
		var err error
		state, err = t.loadState()
		return err
	})
	return state, err
}
