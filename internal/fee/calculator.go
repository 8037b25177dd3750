package fee

import (
	"context"
	"fmt"
	"sort"
	"sync"

	sdkmath "cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog/log"

	"github.com/pisfinance/pis-vault/internal/auth"
	"github.com/pisfinance/pis-vault/internal/types"
)

// MultiplierBase is the denominator of the fee multiplier: a multiplier of
// 20 takes 2% of every transfer.
const MultiplierBase = 1000

// Config is the full state of the calculator.
type Config struct {
	FeeMultiplier   uint64
	Paused          bool
	Exempt          []common.Address
	VaultAddress    common.Address
	VaultAddressSet bool
}

// Persister stores a config snapshot after every admin change. A failing
// persister rolls the change back.
type Persister func(ctx context.Context, cfg Config) error

// Calculator decides the fee taken from a token transfer and where it goes.
type Calculator struct {
	mu      sync.RWMutex
	owner   *auth.Owner
	cfg     Config
	exempt  map[common.Address]struct{}
	persist Persister
}

type Option func(*Calculator)

func WithPersister(p Persister) Option {
	return func(c *Calculator) {
		c.persist = p
	}
}

func NewCalculator(owner *auth.Owner, cfg Config, opts ...Option) *Calculator {
	c := &Calculator{
		owner:  owner,
		exempt: make(map[common.Address]struct{}, len(cfg.Exempt)),
	}
	c.load(cfg)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Calculator) Owner() *auth.Owner {
	return c.owner
}

// ComputeFee returns the fee owed when sender transfers amount. Paused
// calculators and exempt senders pay nothing.
func (c *Calculator) ComputeFee(amount sdkmath.Int, sender common.Address) sdkmath.Int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.cfg.Paused || amount.IsNil() || !amount.IsPositive() {
		return sdkmath.ZeroInt()
	}
	if _, ok := c.exempt[sender]; ok {
		return sdkmath.ZeroInt()
	}

	return amount.Mul(sdkmath.NewIntFromUint64(c.cfg.FeeMultiplier)).QuoRaw(MultiplierBase)
}

// TransferHook adapts the calculator to a ledger fee hook. The fee is routed
// to the vault; before the vault address is set no fee is taken.
func (c *Calculator) TransferHook(from, _ common.Address, amount sdkmath.Int) (sdkmath.Int, common.Address) {
	vault, ok := c.VaultAddress()
	if !ok {
		return sdkmath.ZeroInt(), common.Address{}
	}
	return c.ComputeFee(amount, from), vault
}

func (c *Calculator) VaultAddress() (common.Address, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cfg.VaultAddress, c.cfg.VaultAddressSet
}

func (c *Calculator) FeeMultiplier() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cfg.FeeMultiplier
}

func (c *Calculator) IsExempt(addr common.Address) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.exempt[addr]
	return ok
}

// Snapshot returns a copy of the current config with the exemption list sorted.
func (c *Calculator) Snapshot() Config {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshotLocked()
}

func (c *Calculator) SetPaused(ctx context.Context, capability *auth.Capability, paused bool) error {
	return c.update(ctx, capability, "SetPaused", func(cfg *Config) error {
		cfg.Paused = paused
		return nil
	})
}

func (c *Calculator) SetFeeMultiplier(ctx context.Context, capability *auth.Capability, multiplier uint64) error {
	return c.update(ctx, capability, "SetFeeMultiplier", func(cfg *Config) error {
		if multiplier > MultiplierBase {
			return types.NewBadRequestError("fee multiplier %d exceeds %d", multiplier, MultiplierBase)
		}
		cfg.FeeMultiplier = multiplier
		return nil
	})
}

// EditExemptList adds addr to the exemption list or removes it from there.
func (c *Calculator) EditExemptList(ctx context.Context, capability *auth.Capability, addr common.Address, exempt bool) error {
	if exempt {
		return c.AddExempt(ctx, capability, addr)
	}
	return c.RemoveExempt(ctx, capability, addr)
}

func (c *Calculator) AddExempt(ctx context.Context, capability *auth.Capability, addr common.Address) error {
	return c.update(ctx, capability, "AddExempt", func(cfg *Config) error {
		for _, a := range cfg.Exempt {
			if a == addr {
				return nil
			}
		}
		cfg.Exempt = append(cfg.Exempt, addr)
		return nil
	})
}

func (c *Calculator) RemoveExempt(ctx context.Context, capability *auth.Capability, addr common.Address) error {
	return c.update(ctx, capability, "RemoveExempt", func(cfg *Config) error {
		kept := cfg.Exempt[:0]
		for _, a := range cfg.Exempt {
			if a != addr {
				kept = append(kept, a)
			}
		}
		cfg.Exempt = kept
		return nil
	})
}

// SetVaultAddress fixes the fee destination. It can be called only once.
func (c *Calculator) SetVaultAddress(ctx context.Context, capability *auth.Capability, addr common.Address) error {
	return c.update(ctx, capability, "SetVaultAddress", func(cfg *Config) error {
		if cfg.VaultAddressSet {
			return types.NewAlreadyUnlockedError("vault address already set to %s", cfg.VaultAddress.Hex())
		}
		if addr == (common.Address{}) {
			return types.NewBadRequestError("vault address cannot be the zero address")
		}
		cfg.VaultAddress = addr
		cfg.VaultAddressSet = true
		return nil
	})
}

func (c *Calculator) update(ctx context.Context, capability *auth.Capability, op string, mutate func(cfg *Config) error) error {
	if err := c.owner.Check(capability); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	prev := c.snapshotLocked()
	next := c.snapshotLocked()
	if err := mutate(&next); err != nil {
		return err
	}

	c.load(next)
	if c.persist != nil {
		if err := c.persist(ctx, c.snapshotLocked()); err != nil {
			c.load(prev)
			return types.NewInternalServiceError(fmt.Errorf("failed to persist fee config: %w", err))
		}
	}

	log.Ctx(ctx).Info().
		Str("op", op).
		Uint64("fee_multiplier", next.FeeMultiplier).
		Bool("paused", next.Paused).
		Int("exempt_count", len(next.Exempt)).
		Msg("fee config updated")

	return nil
}

func (c *Calculator) load(cfg Config) {
	c.cfg = cfg
	c.cfg.Exempt = nil
	c.exempt = make(map[common.Address]struct{}, len(cfg.Exempt))
	for _, a := range cfg.Exempt {
		c.exempt[a] = struct{}{}
	}
}

func (c *Calculator) snapshotLocked() Config {
	cfg := c.cfg
	cfg.Exempt = make([]common.Address, 0, len(c.exempt))
	for a := range c.exempt {
		cfg.Exempt = append(cfg.Exempt, a)
	}
	sort.Slice(cfg.Exempt, func(i, j int) bool {
		return cfg.Exempt[i].Cmp(cfg.Exempt[j]) < 0
	})
	return cfg
}
