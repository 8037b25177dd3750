package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"

	sdkmath "cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"
)

var (
	ErrInsufficientBalance   = errors.New("transfer amount exceeds balance")
	ErrInsufficientAllowance = errors.New("transfer amount exceeds allowance")
	ErrNegativeAmount        = errors.New("negative amount")
	ErrUnknownToken          = errors.New("unknown token")
)

// Ledger is a fungible token ledger. Transfers run between Checkpoint and
// either Commit or RevertTo so a failed multi transfer operation can be
// rolled back as a unit. Writes must use the context Checkpoint returns;
// writers holding any other context wait for the checkpoint to close.
type Ledger interface {
	Address() common.Address
	Symbol() string
	Decimals() uint8
	TotalSupply(ctx context.Context) (sdkmath.Int, error)
	BalanceOf(ctx context.Context, owner common.Address) (sdkmath.Int, error)
	Allowance(ctx context.Context, owner, spender common.Address) (sdkmath.Int, error)
	Approve(ctx context.Context, owner, spender common.Address, amount sdkmath.Int) error
	Transfer(ctx context.Context, from, to common.Address, amount sdkmath.Int) error
	TransferFrom(ctx context.Context, spender, from, to common.Address, amount sdkmath.Int) error

	Checkpoint(ctx context.Context) (context.Context, int)
	RevertTo(checkpoint int)
	Commit(checkpoint int)
}

// Registry resolves token addresses to their ledgers.
type Registry struct {
	mu      sync.RWMutex
	ledgers map[common.Address]Ledger
}

func NewRegistry(ledgers ...Ledger) *Registry {
	r := &Registry{ledgers: make(map[common.Address]Ledger, len(ledgers))}
	for _, l := range ledgers {
		r.Register(l)
	}
	return r
}

func (r *Registry) Register(l Ledger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ledgers[l.Address()] = l
}

func (r *Registry) Get(token common.Address) (Ledger, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.ledgers[token]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownToken, token.Hex())
	}
	return l, nil
}

// All returns every registered ledger in no particular order.
func (r *Registry) All() []Ledger {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Ledger, 0, len(r.ledgers))
	for _, l := range r.ledgers {
		result = append(result, l)
	}
	return result
}
