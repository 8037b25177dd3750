package ledger

import (
	"context"
	"testing"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	alice    = common.HexToAddress("0xa1")
	bob      = common.HexToAddress("0xb0")
	treasury = common.HexToAddress("0xfe")
)

func newFundedToken(t *testing.T) *Token {
	t.Helper()
	token := NewToken(common.HexToAddress("0x01"), "PIS", 18)
	require.NoError(t, token.Mint(context.Background(), alice, sdkmath.NewInt(1000)))
	return token
}

func balance(t *testing.T, l Ledger, owner common.Address) string {
	t.Helper()
	b, err := l.BalanceOf(context.Background(), owner)
	require.NoError(t, err)
	return b.String()
}

func TestTransfer(t *testing.T) {
	ctx := context.Background()

	t.Run("ok", func(t *testing.T) {
		token := newFundedToken(t)
		require.NoError(t, token.Transfer(ctx, alice, bob, sdkmath.NewInt(400)))
		assert.Equal(t, "600", balance(t, token, alice))
		assert.Equal(t, "400", balance(t, token, bob))
	})
	t.Run("insufficient balance", func(t *testing.T) {
		token := newFundedToken(t)
		err := token.Transfer(ctx, alice, bob, sdkmath.NewInt(1001))
		assert.ErrorIs(t, err, ErrInsufficientBalance)
		assert.Equal(t, "1000", balance(t, token, alice))
	})
	t.Run("negative amount", func(t *testing.T) {
		token := newFundedToken(t)
		assert.ErrorIs(t, token.Transfer(ctx, alice, bob, sdkmath.NewInt(-1)), ErrNegativeAmount)
	})
	t.Run("fee hook", func(t *testing.T) {
		token := newFundedToken(t)
		token.SetFeeHook(func(from, _ common.Address, amount sdkmath.Int) (sdkmath.Int, common.Address) {
			if from == treasury {
				return sdkmath.ZeroInt(), common.Address{}
			}
			return amount.MulRaw(20).QuoRaw(1000), treasury
		})

		require.NoError(t, token.Transfer(ctx, alice, bob, sdkmath.NewInt(1000)))
		assert.Equal(t, "0", balance(t, token, alice))
		assert.Equal(t, "980", balance(t, token, bob))
		assert.Equal(t, "20", balance(t, token, treasury))

		require.NoError(t, token.Transfer(ctx, treasury, bob, sdkmath.NewInt(20)))
		assert.Equal(t, "1000", balance(t, token, bob))
	})
}

func TestTransferFrom(t *testing.T) {
	ctx := context.Background()
	token := newFundedToken(t)

	err := token.TransferFrom(ctx, bob, alice, bob, sdkmath.NewInt(100))
	assert.ErrorIs(t, err, ErrInsufficientAllowance)

	require.NoError(t, token.Approve(ctx, alice, bob, sdkmath.NewInt(150)))
	require.NoError(t, token.TransferFrom(ctx, bob, alice, bob, sdkmath.NewInt(100)))

	allowance, err := token.Allowance(ctx, alice, bob)
	require.NoError(t, err)
	assert.Equal(t, "50", allowance.String())
	assert.Equal(t, "900", balance(t, token, alice))
	assert.Equal(t, "100", balance(t, token, bob))

	require.NoError(t, token.TransferFrom(ctx, alice, alice, bob, sdkmath.NewInt(900)))
	assert.Equal(t, "1000", balance(t, token, bob))
}

func TestCheckpoint(t *testing.T) {
	ctx := context.Background()

	t.Run("revert", func(t *testing.T) {
		token := newFundedToken(t)
		require.NoError(t, token.Approve(ctx, alice, bob, sdkmath.NewInt(500)))

		sctx, cp := token.Checkpoint(ctx)
		require.NoError(t, token.TransferFrom(sctx, bob, alice, bob, sdkmath.NewInt(300)))
		require.NoError(t, token.Mint(sctx, treasury, sdkmath.NewInt(5)))
		token.RevertTo(cp)

		assert.Equal(t, "1000", balance(t, token, alice))
		assert.Equal(t, "0", balance(t, token, bob))
		assert.Equal(t, "0", balance(t, token, treasury))
		allowance, err := token.Allowance(ctx, alice, bob)
		require.NoError(t, err)
		assert.Equal(t, "500", allowance.String())
		supply, err := token.TotalSupply(ctx)
		require.NoError(t, err)
		assert.Equal(t, "1000", supply.String())
	})
	t.Run("commit", func(t *testing.T) {
		token := newFundedToken(t)
		sctx, cp := token.Checkpoint(ctx)
		require.NoError(t, token.Transfer(sctx, alice, bob, sdkmath.NewInt(300)))
		token.Commit(cp)

		assert.Equal(t, "300", balance(t, token, bob))
		assert.Empty(t, token.journal)
		assert.Nil(t, token.session)
	})
	t.Run("nested", func(t *testing.T) {
		token := newFundedToken(t)
		outerCtx, outer := token.Checkpoint(ctx)
		require.NoError(t, token.Transfer(outerCtx, alice, bob, sdkmath.NewInt(100)))

		innerCtx, inner := token.Checkpoint(outerCtx)
		require.NoError(t, token.Transfer(innerCtx, alice, bob, sdkmath.NewInt(100)))
		token.RevertTo(inner)
		assert.Equal(t, "100", balance(t, token, bob))

		token.RevertTo(outer)
		assert.Equal(t, "0", balance(t, token, bob))
		assert.Equal(t, "1000", balance(t, token, alice))
	})
	t.Run("other writers wait", func(t *testing.T) {
		token := newFundedToken(t)
		sctx, cp := token.Checkpoint(ctx)
		require.NoError(t, token.Transfer(sctx, alice, bob, sdkmath.NewInt(100)))

		done := make(chan error, 1)
		go func() { done <- token.Transfer(ctx, alice, treasury, sdkmath.NewInt(50)) }()

		select {
		case err := <-done:
			t.Fatalf("transfer ran inside another checkpoint: %v", err)
		case <-time.After(20 * time.Millisecond):
		}
		token.RevertTo(cp)

		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(time.Second):
			t.Fatal("transfer still blocked after revert")
		}
		assert.Equal(t, "950", balance(t, token, alice))
		assert.Equal(t, "0", balance(t, token, bob))
		assert.Equal(t, "50", balance(t, token, treasury))
	})
}

func TestRegistry(t *testing.T) {
	token := newFundedToken(t)
	registry := NewRegistry(token)

	l, err := registry.Get(token.Address())
	require.NoError(t, err)
	assert.Equal(t, "PIS", l.Symbol())

	_, err = registry.Get(bob)
	assert.ErrorIs(t, err, ErrUnknownToken)
	assert.Len(t, registry.All(), 1)
}
