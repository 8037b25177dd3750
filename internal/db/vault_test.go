//go:build integration

package db_test

import (
	"context"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pisfinance/pis-vault/internal/db"
	"github.com/pisfinance/pis-vault/internal/db/model"
)

func TestCommitVaultBatch(t *testing.T) {
	ctx := context.Background()

	poolID := uint64(gofakeit.Uint32())
	user := gofakeit.HexUint(160)

	batch := &model.VaultBatch{
		State: &model.VaultStateDocument{
			ID:            model.VaultStateID,
			RewardBalance: "100",
			TotalWeight:   1000,
		},
		Pools: []*model.PoolDocument{{
			ID:                poolID,
			StakedToken:       gofakeit.HexUint(160),
			Weight:            1000,
			AccRewardPerShare: "12",
			TotalStaked:       "500",
		}},
		Positions: []*model.PositionDocument{{
			ID:              model.PositionID(poolID, user),
			PoolID:          poolID,
			User:            user,
			Amount:          "500",
			ReferenceAmount: "500",
		}},
	}
	require.NoError(t, testDB.CommitVaultBatch(ctx, batch))

	state, err := testDB.GetVaultState(ctx)
	require.NoError(t, err)
	assert.Equal(t, "100", state.RewardBalance)

	pool, err := testDB.GetPool(ctx, poolID)
	require.NoError(t, err)
	assert.Equal(t, batch.Pools[0], pool)

	position, err := testDB.GetPosition(ctx, poolID, user)
	require.NoError(t, err)
	assert.Equal(t, batch.Positions[0], position)

	positions, err := testDB.ListPositions(ctx, user)
	require.NoError(t, err)
	assert.Len(t, positions, 1)

	err = testDB.CommitVaultBatch(ctx, &model.VaultBatch{DeletedPositions: []string{position.ID}})
	require.NoError(t, err)
	_, err = testDB.GetPosition(ctx, poolID, user)
	assert.True(t, db.IsNotFoundError(err))
}

func TestCommitVaultBatch_Atomic(t *testing.T) {
	ctx := context.Background()

	token := gofakeit.HexUint(160)
	first := uint64(gofakeit.Uint32())
	require.NoError(t, testDB.CommitVaultBatch(ctx, &model.VaultBatch{
		Pools: []*model.PoolDocument{{ID: first, StakedToken: token}},
	}))

	// the second pool reuses the staked token so the whole batch must fail
	second := first + 1
	err := testDB.CommitVaultBatch(ctx, &model.VaultBatch{
		State: &model.VaultStateDocument{ID: model.VaultStateID, RewardBalance: "999999"},
		Pools: []*model.PoolDocument{{ID: second, StakedToken: token}},
	})
	assert.True(t, db.IsDuplicateKeyError(err))

	_, err = testDB.GetPool(ctx, second)
	assert.True(t, db.IsNotFoundError(err))

	state, err := testDB.GetVaultState(ctx)
	if err == nil {
		assert.NotEqual(t, "999999", state.RewardBalance)
	}
}

func TestFeeConfig(t *testing.T) {
	ctx := context.Background()

	doc := &model.FeeConfigDocument{
		FeeMultiplier:   20,
		Paused:          true,
		Exempt:          []string{"0x00000000000000000000000000000000000000fe"},
		VaultAddress:    "0x00000000000000000000000000000000000000fe",
		VaultAddressSet: true,
	}
	require.NoError(t, testDB.SaveFeeConfig(ctx, doc))

	got, err := testDB.GetFeeConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, doc, got)
}

func TestVaultStats(t *testing.T) {
	ctx := context.Background()

	require.NoError(t, testDB.UpsertVaultStats(ctx, &model.VaultStatsDocument{
		PoolCount:   2,
		TotalStaked: map[string]string{"0": "10", "1": "20"},
	}))

	stats, err := testDB.GetVaultStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), stats.PoolCount)
	assert.Equal(t, "20", stats.TotalStaked["1"])
	assert.NotZero(t, stats.LastUpdated)
}
