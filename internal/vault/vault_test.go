package vault

import (
	"context"
	"testing"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/pisfinance/pis-vault/internal/auth"
	"github.com/pisfinance/pis-vault/internal/db"
	"github.com/pisfinance/pis-vault/internal/fee"
	"github.com/pisfinance/pis-vault/internal/ledger"
	"github.com/pisfinance/pis-vault/internal/types"
)

const day = 24 * time.Hour

var (
	ownerAddr = common.HexToAddress("0x00000000000000000000000000000000000000a0")
	vaultAddr = common.HexToAddress("0x00000000000000000000000000000000000000f0")
	devAddr   = common.HexToAddress("0x00000000000000000000000000000000000000d0")
	pisAddr   = common.HexToAddress("0x0000000000000000000000000000000000000b01")
	lpAddr    = common.HexToAddress("0x0000000000000000000000000000000000000b02")
	lp2Addr   = common.HexToAddress("0x0000000000000000000000000000000000000b03")
	alice     = common.HexToAddress("0x00000000000000000000000000000000000000a1")
	bob       = common.HexToAddress("0x00000000000000000000000000000000000000b1")
	carol     = common.HexToAddress("0x00000000000000000000000000000000000000c1")
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) advance(d time.Duration) {
	c.now = c.now.Add(d)
}

type testVault struct {
	*Vault
	ctx    context.Context
	clock  *fakeClock
	store  db.DbInterface
	pis    *ledger.Token
	lp     *ledger.Token
	lp2    *ledger.Token
	fee    *fee.Calculator
	admin  *auth.Capability
	events []*types.VaultEvent
}

type harnessOption func(*harnessConfig)

type harnessConfig struct {
	params    Params
	store     db.DbInterface
	stakedLPs []ledger.Ledger
}

func withParams(mutate func(p *Params)) harnessOption {
	return func(c *harnessConfig) {
		mutate(&c.params)
	}
}

func withStore(store db.DbInterface) harnessOption {
	return func(c *harnessConfig) {
		c.store = store
	}
}

func withLedger(l ledger.Ledger) harnessOption {
	return func(c *harnessConfig) {
		c.stakedLPs = append(c.stakedLPs, l)
	}
}

// newTestVault builds an initialized vault with fees at 20/1000 routed to
// it. Alice and bob hold 1000 of each staked token approved to the vault and
// the owner holds 1,000,000 PIS.
func newTestVault(t *testing.T, opts ...harnessOption) *testVault {
	t.Helper()
	ctx := context.Background()

	cfg := harnessConfig{
		params: DefaultParams(vaultAddr, pisAddr, devAddr),
		store:  db.NewMemoryDatabase(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	owner := auth.NewOwner(ownerAddr)
	admin, err := owner.Authorize(ownerAddr)
	require.NoError(t, err)

	calc := fee.NewCalculator(owner, fee.Config{FeeMultiplier: 20})
	require.NoError(t, calc.SetVaultAddress(ctx, admin, vaultAddr))
	require.NoError(t, calc.AddExempt(ctx, admin, vaultAddr))

	pis := ledger.NewToken(pisAddr, "PIS", 18)
	pis.SetFeeHook(calc.TransferHook)
	lp := ledger.NewToken(lpAddr, "PIS-WETH", 18)
	lp2 := ledger.NewToken(lp2Addr, "PIS-USDC", 18)

	require.NoError(t, pis.Mint(ctx, ownerAddr, sdkmath.NewInt(1_000_000)))
	for _, token := range []*ledger.Token{lp, lp2} {
		for _, user := range []common.Address{alice, bob} {
			require.NoError(t, token.Mint(ctx, user, sdkmath.NewInt(1000)))
			require.NoError(t, token.Approve(ctx, user, vaultAddr, sdkmath.NewInt(1000)))
		}
	}

	registry := ledger.NewRegistry(pis, lp, lp2)
	for _, l := range cfg.stakedLPs {
		registry.Register(l)
	}

	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	tv := &testVault{
		ctx:   ctx,
		clock: clock,
		store: cfg.store,
		pis:   pis,
		lp:    lp,
		lp2:   lp2,
		fee:   calc,
		admin: admin,
	}

	tv.Vault, err = New(cfg.params, owner, cfg.store, registry,
		WithClock(clock),
		WithEventSink(func(_ context.Context, events []*types.VaultEvent) {
			tv.events = append(tv.events, events...)
		}),
	)
	require.NoError(t, err)
	require.NoError(t, tv.Initialize(ctx, admin))
	return tv
}

func (tv *testVault) addPool(t *testing.T, token common.Address, weight uint64) uint64 {
	t.Helper()
	id, err := tv.Add(tv.ctx, tv.admin, weight, token, false)
	require.NoError(t, err)
	return id
}

// payFee makes the owner send amount PIS to carol, which routes the
// transfer fee to the vault.
func (tv *testVault) payFee(t *testing.T, amount int64) {
	t.Helper()
	require.NoError(t, tv.pis.Transfer(tv.ctx, ownerAddr, carol, sdkmath.NewInt(amount)))
}

func (tv *testVault) balance(t *testing.T, token *ledger.Token, who common.Address) int64 {
	t.Helper()
	b, err := token.BalanceOf(tv.ctx, who)
	require.NoError(t, err)
	return b.Int64()
}

func (tv *testVault) state(t *testing.T) *State {
	t.Helper()
	s, err := tv.State(tv.ctx)
	require.NoError(t, err)
	return s
}

func (tv *testVault) pool(t *testing.T, id uint64) *Pool {
	t.Helper()
	p, err := tv.PoolInfo(tv.ctx, id)
	require.NoError(t, err)
	return p
}

func (tv *testVault) position(t *testing.T, id uint64, user common.Address) *Position {
	t.Helper()
	p, err := tv.UserInfo(tv.ctx, id, user)
	require.NoError(t, err)
	return p
}

func amount(v int64) sdkmath.Int {
	return sdkmath.NewInt(v)
}

func requireCode(t *testing.T, err error, code types.ErrorCode) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, code, types.CodeOf(err), err.Error())
}
