package ledger

import (
	"context"
	"fmt"
	"sync"

	sdkmath "cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"
)

// FeeHook returns the fee taken from a transfer and its recipient. A zero
// fee or a zero recipient leaves the transfer untouched.
type FeeHook func(from, to common.Address, amount sdkmath.Int) (sdkmath.Int, common.Address)

type allowanceKey struct {
	owner   common.Address
	spender common.Address
}

// journalEntry remembers the value a slot had before it was written.
type journalEntry struct {
	balance   *common.Address
	allowance *allowanceKey
	supply    bool
	prev      sdkmath.Int
	existed   bool
}

// sessionKey tags a context with the writer session it opened on a token.
type sessionKey struct{ token *Token }

type session struct {
	id uint64
}

// Token is an in-process ledger. A checkpoint opens an exclusive writer
// session: writes made with the session context are journaled, writes from
// any other context wait until the session is committed or reverted.
type Token struct {
	mu          sync.Mutex
	idle        *sync.Cond
	address     common.Address
	symbol      string
	decimals    uint8
	totalSupply sdkmath.Int
	balances    map[common.Address]sdkmath.Int
	allowances  map[allowanceKey]sdkmath.Int
	hook        FeeHook

	session  *session
	sessions uint64
	journal  []journalEntry
	depth    int
}

var _ Ledger = (*Token)(nil)

func NewToken(address common.Address, symbol string, decimals uint8) *Token {
	t := &Token{
		address:     address,
		symbol:      symbol,
		decimals:    decimals,
		totalSupply: sdkmath.ZeroInt(),
		balances:    make(map[common.Address]sdkmath.Int),
		allowances:  make(map[allowanceKey]sdkmath.Int),
	}
	t.idle = sync.NewCond(&t.mu)
	return t
}

// SetFeeHook installs the hook consulted on every transfer.
func (t *Token) SetFeeHook(hook FeeHook) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.hook = hook
}

func (t *Token) Address() common.Address { return t.address }
func (t *Token) Symbol() string          { return t.symbol }
func (t *Token) Decimals() uint8         { return t.decimals }

func (t *Token) TotalSupply(context.Context) (sdkmath.Int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.totalSupply, nil
}

func (t *Token) BalanceOf(_ context.Context, owner common.Address) (sdkmath.Int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.balanceOf(owner), nil
}

func (t *Token) Allowance(_ context.Context, owner, spender common.Address) (sdkmath.Int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.allowanceOf(allowanceKey{owner: owner, spender: spender}), nil
}

// Mint creates amount new tokens for to.
func (t *Token) Mint(ctx context.Context, to common.Address, amount sdkmath.Int) error {
	if amount.IsNegative() {
		return ErrNegativeAmount
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.awaitWriter(ctx)

	t.setSupply(t.totalSupply.Add(amount))
	t.setBalance(to, t.balanceOf(to).Add(amount))
	return nil
}

func (t *Token) Approve(ctx context.Context, owner, spender common.Address, amount sdkmath.Int) error {
	if amount.IsNegative() {
		return ErrNegativeAmount
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.awaitWriter(ctx)

	t.setAllowance(allowanceKey{owner: owner, spender: spender}, amount)
	return nil
}

func (t *Token) Transfer(ctx context.Context, from, to common.Address, amount sdkmath.Int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.awaitWriter(ctx)
	return t.transfer(from, to, amount)
}

func (t *Token) TransferFrom(ctx context.Context, spender, from, to common.Address, amount sdkmath.Int) error {
	if amount.IsNegative() {
		return ErrNegativeAmount
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.awaitWriter(ctx)

	if spender != from {
		key := allowanceKey{owner: from, spender: spender}
		allowed := t.allowanceOf(key)
		if allowed.LT(amount) {
			return fmt.Errorf("%w: allowance %s, amount %s", ErrInsufficientAllowance, allowed, amount)
		}
		if err := t.checkBalance(from, amount); err != nil {
			return err
		}
		t.setAllowance(key, allowed.Sub(amount))
	}

	return t.transfer(from, to, amount)
}

// Checkpoint opens a writer session, or nests inside the one ctx already
// holds, and returns the context to write with. It blocks while another
// session is open.
func (t *Token) Checkpoint(ctx context.Context) (context.Context, int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.session != nil && t.owns(ctx) {
		t.depth++
		return ctx, len(t.journal)
	}
	t.awaitWriter(ctx)

	t.sessions++
	t.session = &session{id: t.sessions}
	t.depth = 1
	return context.WithValue(ctx, sessionKey{token: t}, t.session), len(t.journal)
}

// RevertTo undoes every write made since checkpoint was taken.
func (t *Token) RevertTo(checkpoint int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i := len(t.journal) - 1; i >= checkpoint; i-- {
		t.undo(t.journal[i])
	}
	t.journal = t.journal[:checkpoint]
	t.release()
}

// Commit closes checkpoint keeping its writes. The journal is dropped once
// the outermost checkpoint is closed.
func (t *Token) Commit(int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.release()
}

func (t *Token) release() {
	if t.depth > 0 {
		t.depth--
	}
	if t.depth == 0 {
		t.journal = t.journal[:0]
		t.session = nil
		t.idle.Broadcast()
	}
}

// awaitWriter blocks until ctx may write. Must be called with mu held.
func (t *Token) awaitWriter(ctx context.Context) {
	for t.session != nil && !t.owns(ctx) {
		t.idle.Wait()
	}
}

func (t *Token) owns(ctx context.Context) bool {
	s, _ := ctx.Value(sessionKey{token: t}).(*session)
	return s != nil && s == t.session
}

func (t *Token) transfer(from, to common.Address, amount sdkmath.Int) error {
	if amount.IsNegative() {
		return ErrNegativeAmount
	}
	if err := t.checkBalance(from, amount); err != nil {
		return err
	}
	if amount.IsZero() {
		return nil
	}

	fee, feeTo := sdkmath.ZeroInt(), common.Address{}
	if t.hook != nil {
		fee, feeTo = t.hook(from, to, amount)
		if fee.IsNil() || !fee.IsPositive() || feeTo == (common.Address{}) {
			fee = sdkmath.ZeroInt()
		}
		if fee.GT(amount) {
			fee = amount
		}
	}

	t.setBalance(from, t.balanceOf(from).Sub(amount))
	t.setBalance(to, t.balanceOf(to).Add(amount.Sub(fee)))
	if fee.IsPositive() {
		t.setBalance(feeTo, t.balanceOf(feeTo).Add(fee))
	}
	return nil
}

func (t *Token) checkBalance(owner common.Address, amount sdkmath.Int) error {
	if balance := t.balanceOf(owner); balance.LT(amount) {
		return fmt.Errorf("%w: balance %s, amount %s", ErrInsufficientBalance, balance, amount)
	}
	return nil
}

func (t *Token) balanceOf(owner common.Address) sdkmath.Int {
	if b, ok := t.balances[owner]; ok {
		return b
	}
	return sdkmath.ZeroInt()
}

func (t *Token) allowanceOf(key allowanceKey) sdkmath.Int {
	if a, ok := t.allowances[key]; ok {
		return a
	}
	return sdkmath.ZeroInt()
}

func (t *Token) setBalance(owner common.Address, v sdkmath.Int) {
	if t.depth > 0 {
		prev, ok := t.balances[owner]
		t.journal = append(t.journal, journalEntry{balance: &owner, prev: prev, existed: ok})
	}
	t.balances[owner] = v
}

func (t *Token) setAllowance(key allowanceKey, v sdkmath.Int) {
	if t.depth > 0 {
		prev, ok := t.allowances[key]
		t.journal = append(t.journal, journalEntry{allowance: &key, prev: prev, existed: ok})
	}
	t.allowances[key] = v
}

func (t *Token) setSupply(v sdkmath.Int) {
	if t.depth > 0 {
		t.journal = append(t.journal, journalEntry{supply: true, prev: t.totalSupply, existed: true})
	}
	t.totalSupply = v
}

func (t *Token) undo(e journalEntry) {
	switch {
	case e.balance != nil:
		if e.existed {
			t.balances[*e.balance] = e.prev
		} else {
			delete(t.balances, *e.balance)
		}
	case e.allowance != nil:
		if e.existed {
			t.allowances[*e.allowance] = e.prev
		} else {
			delete(t.allowances, *e.allowance)
		}
	case e.supply:
		t.totalSupply = e.prev
	}
}
