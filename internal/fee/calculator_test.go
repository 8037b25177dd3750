package fee

import (
	"context"
	"errors"
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pisfinance/pis-vault/internal/auth"
	"github.com/pisfinance/pis-vault/internal/types"
)

var (
	admin = common.HexToAddress("0xad")
	alice = common.HexToAddress("0xa1")
	vault = common.HexToAddress("0xfe")
)

func newCalculator(t *testing.T, cfg Config, opts ...Option) (*Calculator, *auth.Capability) {
	t.Helper()
	owner := auth.NewOwner(admin)
	c, err := owner.Authorize(admin)
	require.NoError(t, err)
	return NewCalculator(owner, cfg, opts...), c
}

func TestComputeFee(t *testing.T) {
	ctx := context.Background()

	t.Run("multiplier", func(t *testing.T) {
		calc, _ := newCalculator(t, Config{FeeMultiplier: 20})
		assert.Equal(t, "20", calc.ComputeFee(sdkmath.NewInt(1000), alice).String())
		assert.Equal(t, "0", calc.ComputeFee(sdkmath.NewInt(49), alice).String())
		assert.Equal(t, "0", calc.ComputeFee(sdkmath.ZeroInt(), alice).String())
	})
	t.Run("paused", func(t *testing.T) {
		calc, c := newCalculator(t, Config{FeeMultiplier: 20})
		require.NoError(t, calc.SetPaused(ctx, c, true))
		assert.True(t, calc.ComputeFee(sdkmath.NewInt(1000), alice).IsZero())

		require.NoError(t, calc.SetPaused(ctx, c, false))
		assert.Equal(t, "20", calc.ComputeFee(sdkmath.NewInt(1000), alice).String())
	})
	t.Run("exempt sender", func(t *testing.T) {
		calc, c := newCalculator(t, Config{FeeMultiplier: 20})
		require.NoError(t, calc.AddExempt(ctx, c, alice))
		require.NoError(t, calc.AddExempt(ctx, c, alice))
		assert.True(t, calc.IsExempt(alice))
		assert.Len(t, calc.Snapshot().Exempt, 1)
		assert.True(t, calc.ComputeFee(sdkmath.NewInt(1000), alice).IsZero())

		require.NoError(t, calc.EditExemptList(ctx, c, alice, false))
		assert.False(t, calc.IsExempt(alice))
		assert.Equal(t, "20", calc.ComputeFee(sdkmath.NewInt(1000), alice).String())

		require.NoError(t, calc.EditExemptList(ctx, c, alice, true))
		assert.True(t, calc.IsExempt(alice))
	})
}

func TestAdminChecks(t *testing.T) {
	ctx := context.Background()
	calc, _ := newCalculator(t, Config{FeeMultiplier: 20})

	other := auth.NewOwner(alice)
	c, err := other.Authorize(alice)
	require.NoError(t, err)

	err = calc.SetFeeMultiplier(ctx, c, 30)
	assert.True(t, types.IsCode(err, types.Unauthorized))
	assert.Equal(t, uint64(20), calc.Snapshot().FeeMultiplier)

	_, err = calc.Owner().Authorize(alice)
	assert.True(t, types.IsCode(err, types.Unauthorized))
}

func TestSetFeeMultiplier(t *testing.T) {
	ctx := context.Background()
	calc, c := newCalculator(t, Config{})

	require.NoError(t, calc.SetFeeMultiplier(ctx, c, 20))
	assert.Equal(t, uint64(20), calc.FeeMultiplier())

	err := calc.SetFeeMultiplier(ctx, c, MultiplierBase+1)
	assert.True(t, types.IsCode(err, types.BadRequest))
	assert.Equal(t, uint64(20), calc.Snapshot().FeeMultiplier)
}

func TestSetVaultAddress(t *testing.T) {
	ctx := context.Background()
	calc, c := newCalculator(t, Config{FeeMultiplier: 20})

	fee, to := calc.TransferHook(alice, vault, sdkmath.NewInt(1000))
	assert.True(t, fee.IsZero())
	assert.Equal(t, common.Address{}, to)

	require.NoError(t, calc.SetVaultAddress(ctx, c, vault))
	addr, ok := calc.VaultAddress()
	assert.True(t, ok)
	assert.Equal(t, vault, addr)

	fee, to = calc.TransferHook(alice, admin, sdkmath.NewInt(1000))
	assert.Equal(t, "20", fee.String())
	assert.Equal(t, vault, to)

	err := calc.SetVaultAddress(ctx, c, alice)
	assert.True(t, types.IsCode(err, types.AlreadyUnlocked))
	addr, _ = calc.VaultAddress()
	assert.Equal(t, vault, addr)
}

func TestPersister(t *testing.T) {
	ctx := context.Background()

	var saved []Config
	calc, c := newCalculator(t, Config{FeeMultiplier: 20}, WithPersister(func(_ context.Context, cfg Config) error {
		saved = append(saved, cfg)
		return nil
	}))
	require.NoError(t, calc.SetFeeMultiplier(ctx, c, 25))
	require.Len(t, saved, 1)
	assert.Equal(t, uint64(25), saved[0].FeeMultiplier)

	failing, c2 := newCalculator(t, Config{FeeMultiplier: 20}, WithPersister(func(context.Context, Config) error {
		return errors.New("db down")
	}))
	err := failing.SetFeeMultiplier(ctx, c2, 25)
	assert.True(t, types.IsCode(err, types.InternalServiceError))
	assert.Equal(t, uint64(20), failing.Snapshot().FeeMultiplier)
}
