package vault

import (
	"context"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pisfinance/pis-vault/internal/auth"
	"github.com/pisfinance/pis-vault/internal/db"
	"github.com/pisfinance/pis-vault/internal/ledger"
	"github.com/pisfinance/pis-vault/internal/types"
)

func TestInitialize(t *testing.T) {
	ctx := context.Background()
	owner := auth.NewOwner(ownerAddr)
	pis := ledger.NewToken(pisAddr, "PIS", 18)

	v, err := New(DefaultParams(vaultAddr, pisAddr, devAddr), owner, db.NewMemoryDatabase(), ledger.NewRegistry(pis))
	require.NoError(t, err)

	initialized, err := v.IsInitialized(ctx)
	require.NoError(t, err)
	assert.False(t, initialized)

	length, err := v.PoolLength(ctx)
	require.NoError(t, err)
	assert.Zero(t, length)

	requireCode(t, v.Deposit(ctx, 0, alice, amount(1)), types.BadRequest)

	stranger, err := auth.NewOwner(alice).Authorize(alice)
	require.NoError(t, err)
	requireCode(t, v.Initialize(ctx, stranger), types.Unauthorized)
	requireCode(t, v.Initialize(ctx, nil), types.Unauthorized)

	admin, err := owner.Authorize(ownerAddr)
	require.NoError(t, err)
	require.NoError(t, v.Initialize(ctx, admin))
	requireCode(t, v.Initialize(ctx, admin), types.BadRequest)

	initialized, err = v.IsInitialized(ctx)
	require.NoError(t, err)
	assert.True(t, initialized)
}

func TestNewValidatesParams(t *testing.T) {
	owner := auth.NewOwner(ownerAddr)
	store := db.NewMemoryDatabase()

	_, err := New(DefaultParams(vaultAddr, pisAddr, devAddr), owner, store, ledger.NewRegistry())
	require.ErrorIs(t, err, ledger.ErrUnknownToken)

	registry := ledger.NewRegistry(ledger.NewToken(pisAddr, "PIS", 18))

	params := DefaultParams(vaultAddr, pisAddr, common.Address{})
	_, err = New(params, owner, store, registry)
	require.Error(t, err)

	params = DefaultParams(vaultAddr, pisAddr, devAddr)
	params.ReleaseTranches = 0
	_, err = New(params, owner, store, registry)
	require.Error(t, err)

	params = DefaultParams(vaultAddr, pisAddr, devAddr)
	params.EmissionPerSecond = amount(1)
	_, err = New(params, owner, store, registry)
	require.Error(t, err)
}

func TestAdd(t *testing.T) {
	tv := newTestVault(t)

	id := tv.addPool(t, lpAddr, 1000)
	assert.Equal(t, uint64(0), id)

	id2, err := tv.Add(tv.ctx, tv.admin, 500, lp2Addr, true)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), id2)

	_, err = tv.Add(tv.ctx, tv.admin, 1000, lpAddr, false)
	requireCode(t, err, types.BadRequest)
	_, err = tv.Add(tv.ctx, tv.admin, 1000, pisAddr, false)
	requireCode(t, err, types.BadRequest)
	_, err = tv.Add(tv.ctx, tv.admin, 1000, common.HexToAddress("0x0bad"), false)
	requireCode(t, err, types.BadRequest)

	stranger, err := auth.NewOwner(alice).Authorize(alice)
	require.NoError(t, err)
	_, err = tv.Add(tv.ctx, stranger, 1000, lp2Addr, false)
	requireCode(t, err, types.Unauthorized)

	length, err := tv.PoolLength(tv.ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), length)

	state := tv.state(t)
	assert.Equal(t, uint64(1500), state.TotalWeight)
	assert.Equal(t, uint64(2), state.PoolCount)

	pools, err := tv.ListPools(tv.ctx)
	require.NoError(t, err)
	require.Len(t, pools, 2)
	assert.Equal(t, lpAddr, pools[0].StakedToken)
	assert.Equal(t, lp2Addr, pools[1].StakedToken)
	assert.Equal(t, tv.clock.now.Unix(), pools[1].LastRewardTime)

	var added int
	for _, ev := range tv.events {
		if ev.Type == types.EventPoolAdded {
			added++
			require.NotNil(t, ev.Weight)
		}
	}
	assert.Equal(t, 2, added)
}

func TestAddDoesNotShareEarlierIncome(t *testing.T) {
	tv := newTestVault(t)
	first := tv.addPool(t, lpAddr, 1000)
	require.NoError(t, tv.Deposit(tv.ctx, first, alice, amount(100)))

	tv.payFee(t, 1000)
	tv.clock.advance(time.Minute)

	// income that arrived before the second pool exists belongs to the first
	second := tv.addPool(t, lp2Addr, 1000)
	require.NoError(t, tv.Deposit(tv.ctx, second, bob, amount(100)))
	tv.clock.advance(time.Minute)

	pending, err := tv.PendingPIS(tv.ctx, first, alice)
	require.NoError(t, err)
	assert.Equal(t, "19", pending.String())

	pending, err = tv.PendingPIS(tv.ctx, second, bob)
	require.NoError(t, err)
	assert.True(t, pending.IsZero())
}

func TestSet(t *testing.T) {
	tv := newTestVault(t)
	id := tv.addPool(t, lpAddr, 1000)
	require.NoError(t, tv.Deposit(tv.ctx, id, alice, amount(100)))

	tv.payFee(t, 1000)
	tv.clock.advance(time.Minute)

	require.NoError(t, tv.Set(tv.ctx, tv.admin, id, 3000, false))

	// income before the change is checkpointed with the old weight
	p := tv.pool(t, id)
	assert.Equal(t, uint64(3000), p.Weight)
	assert.Equal(t, "20", p.UnfoldedReward.String())
	assert.Equal(t, uint64(3000), tv.state(t).TotalWeight)

	require.NoError(t, tv.UpdatePool(tv.ctx, id))
	p = tv.pool(t, id)
	assert.True(t, p.UnfoldedReward.IsZero())

	pending, err := tv.PendingPIS(tv.ctx, id, alice)
	require.NoError(t, err)
	assert.Equal(t, "19", pending.String())

	requireCode(t, tv.Set(tv.ctx, tv.admin, 9, 10, false), types.InvalidPool)

	stranger, err := auth.NewOwner(alice).Authorize(alice)
	require.NoError(t, err)
	requireCode(t, tv.Set(tv.ctx, stranger, id, 10, false), types.Unauthorized)
}

func TestZeroWeightPoolEarnsNothing(t *testing.T) {
	tv := newTestVault(t)
	id := tv.addPool(t, lpAddr, 1000)
	idle := tv.addPool(t, lp2Addr, 0)
	require.NoError(t, tv.Deposit(tv.ctx, id, alice, amount(100)))
	require.NoError(t, tv.Deposit(tv.ctx, idle, bob, amount(100)))

	tv.payFee(t, 1000)
	tv.clock.advance(time.Minute)
	require.NoError(t, tv.MassUpdatePools(tv.ctx))

	pending, err := tv.PendingPIS(tv.ctx, idle, bob)
	require.NoError(t, err)
	assert.True(t, pending.IsZero())

	pending, err = tv.PendingPIS(tv.ctx, id, alice)
	require.NoError(t, err)
	assert.Equal(t, "19", pending.String())
}
