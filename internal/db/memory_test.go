package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pisfinance/pis-vault/internal/db/model"
)

func TestMemoryDatabase_VaultBatch(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryDatabase()

	_, err := m.GetVaultState(ctx)
	assert.True(t, IsNotFoundError(err))
	_, err = m.GetPool(ctx, 0)
	assert.True(t, IsNotFoundError(err))

	position := &model.PositionDocument{
		ID:     model.PositionID(0, "0xA1"),
		PoolID: 0,
		User:   "0xA1",
		Amount: "100",
	}
	batch := &model.VaultBatch{
		State: &model.VaultStateDocument{ID: model.VaultStateID, TotalWeight: 1000, PoolCount: 2},
		Pools: []*model.PoolDocument{
			{ID: 1, StakedToken: "0xb2", Weight: 400},
			{ID: 0, StakedToken: "0xb1", Weight: 600},
		},
		Positions: []*model.PositionDocument{position},
	}
	require.NoError(t, m.CommitVaultBatch(ctx, batch))

	state, err := m.GetVaultState(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), state.TotalWeight)

	pools, err := m.ListPools(ctx)
	require.NoError(t, err)
	require.Len(t, pools, 2)
	assert.Equal(t, uint64(0), pools[0].ID)
	assert.Equal(t, uint64(1), pools[1].ID)

	got, err := m.GetPosition(ctx, 0, "0xa1")
	require.NoError(t, err)
	assert.Equal(t, "100", got.Amount)

	// returned documents are copies
	got.Amount = "1"
	again, err := m.GetPosition(ctx, 0, "0xA1")
	require.NoError(t, err)
	assert.Equal(t, "100", again.Amount)

	positions, err := m.ListPositions(ctx, "0xA1")
	require.NoError(t, err)
	assert.Len(t, positions, 1)
	positions, err = m.ListPositions(ctx, "0xB0")
	require.NoError(t, err)
	assert.Empty(t, positions)

	require.NoError(t, m.CommitVaultBatch(ctx, &model.VaultBatch{DeletedPositions: []string{position.ID}}))
	_, err = m.GetPosition(ctx, 0, "0xA1")
	assert.True(t, IsNotFoundError(err))
}

func TestMemoryDatabase_DuplicateStakedToken(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryDatabase()

	require.NoError(t, m.CommitVaultBatch(ctx, &model.VaultBatch{
		Pools: []*model.PoolDocument{{ID: 0, StakedToken: "0xb1"}},
	}))

	err := m.CommitVaultBatch(ctx, &model.VaultBatch{
		State: &model.VaultStateDocument{ID: model.VaultStateID, PoolCount: 2},
		Pools: []*model.PoolDocument{{ID: 1, StakedToken: "0xb1"}},
	})
	assert.True(t, IsDuplicateKeyError(err))

	// nothing of the failed batch was applied
	_, err = m.GetVaultState(ctx)
	assert.True(t, IsNotFoundError(err))
	_, err = m.GetPool(ctx, 1)
	assert.True(t, IsNotFoundError(err))
}

func TestMemoryDatabase_FeeConfigAndStats(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryDatabase()

	_, err := m.GetFeeConfig(ctx)
	assert.True(t, IsNotFoundError(err))

	require.NoError(t, m.SaveFeeConfig(ctx, &model.FeeConfigDocument{FeeMultiplier: 20, Exempt: []string{"0xfe"}}))
	cfg, err := m.GetFeeConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.FeeConfigID, cfg.ID)
	assert.Equal(t, uint64(20), cfg.FeeMultiplier)
	assert.Equal(t, []string{"0xfe"}, cfg.Exempt)

	require.NoError(t, m.UpsertVaultStats(ctx, &model.VaultStatsDocument{PoolCount: 3}))
	stats, err := m.GetVaultStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), stats.PoolCount)
}
