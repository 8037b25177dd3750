package vault

import (
	"context"
	"fmt"
	"sort"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"

	"github.com/pisfinance/pis-vault/internal/db"
	"github.com/pisfinance/pis-vault/internal/db/model"
	"github.com/pisfinance/pis-vault/internal/ledger"
	"github.com/pisfinance/pis-vault/internal/types"
)

type positionKey struct {
	poolID uint64
	user   common.Address
}

// transfer is a ledger movement planned by an operation and executed on commit.
type transfer struct {
	ledger ledger.Ledger
	from   common.Address
	to     common.Address
	amount sdkmath.Int
	// pull transfers are TransferFrom calls with the vault as spender
	pull bool
}

// txn is the working set of one vault operation.
type txn struct {
	ctx context.Context
	v   *Vault
	now int64

	state      *State
	stateDirty bool

	pools      map[uint64]*Pool
	dirtyPools map[uint64]struct{}

	positions      map[positionKey]*Position
	dirtyPositions map[positionKey]struct{}

	collected   bool
	distributed bool

	transfers []transfer
	events    []*types.VaultEvent
}

func (v *Vault) begin(ctx context.Context) *txn {
	return &txn{
		ctx:            ctx,
		v:              v,
		now:            v.clock.Now().Unix(),
		pools:          make(map[uint64]*Pool),
		dirtyPools:     make(map[uint64]struct{}),
		positions:      make(map[positionKey]*Position),
		dirtyPositions: make(map[positionKey]struct{}),
	}
}

func (t *txn) loadState() (*State, error) {
	if t.state != nil {
		return t.state, nil
	}

	doc, err := t.v.store.GetVaultState(t.ctx)
	if err != nil {
		if db.IsNotFoundError(err) {
			return nil, types.NewBadRequestError("vault is not initialized")
		}
		return nil, types.NewInternalServiceError(fmt.Errorf("failed to load vault state: %w", err))
	}

	state, err := stateFromDocument(doc)
	if err != nil {
		return nil, types.NewInternalServiceError(err)
	}
	t.state = state
	return state, nil
}

func (t *txn) pool(id uint64) (*Pool, error) {
	if p, ok := t.pools[id]; ok {
		return p, nil
	}

	doc, err := t.v.store.GetPool(t.ctx, id)
	if err != nil {
		if db.IsNotFoundError(err) {
			return nil, types.NewInvalidPoolError("invalid pool id %d", id)
		}
		return nil, types.NewInternalServiceError(fmt.Errorf("failed to load pool %d: %w", id, err))
	}

	p, err := poolFromDocument(doc)
	if err != nil {
		return nil, types.NewInternalServiceError(err)
	}
	t.pools[id] = p
	return p, nil
}

// allPools returns every pool ordered by id, preferring working set copies.
func (t *txn) allPools() ([]*Pool, error) {
	docs, err := t.v.store.ListPools(t.ctx)
	if err != nil {
		return nil, types.NewInternalServiceError(fmt.Errorf("failed to list pools: %w", err))
	}

	for _, doc := range docs {
		if _, ok := t.pools[doc.ID]; ok {
			continue
		}
		p, err := poolFromDocument(doc)
		if err != nil {
			return nil, types.NewInternalServiceError(err)
		}
		t.pools[doc.ID] = p
	}

	pools := make([]*Pool, 0, len(t.pools))
	for _, p := range t.pools {
		pools = append(pools, p)
	}
	sort.Slice(pools, func(i, j int) bool { return pools[i].ID < pools[j].ID })
	return pools, nil
}

// position returns the user's position, or a fresh empty one.
func (t *txn) position(poolID uint64, user common.Address) (*Position, error) {
	key := positionKey{poolID: poolID, user: user}
	if p, ok := t.positions[key]; ok {
		return p, nil
	}

	var pos *Position
	doc, err := t.v.store.GetPosition(t.ctx, poolID, user.Hex())
	switch {
	case err == nil:
		pos, err = positionFromDocument(doc)
		if err != nil {
			return nil, types.NewInternalServiceError(err)
		}
	case db.IsNotFoundError(err):
		pos = newPosition(poolID, user)
	default:
		return nil, types.NewInternalServiceError(fmt.Errorf("failed to load position: %w", err))
	}

	t.positions[key] = pos
	return pos, nil
}

func (t *txn) markPool(p *Pool) {
	t.dirtyPools[p.ID] = struct{}{}
}

func (t *txn) markPosition(p *Position) {
	t.dirtyPositions[positionKey{poolID: p.PoolID, user: p.User}] = struct{}{}
}

func (t *txn) rewardLedger() (ledger.Ledger, error) {
	l, err := t.v.ledgers.Get(t.v.params.RewardToken)
	if err != nil {
		return nil, types.NewInternalServiceError(err)
	}
	return l, nil
}

func (t *txn) stakedLedger(p *Pool) (ledger.Ledger, error) {
	l, err := t.v.ledgers.Get(p.StakedToken)
	if err != nil {
		return nil, types.NewInternalServiceError(fmt.Errorf("pool %d: %w", p.ID, err))
	}
	return l, nil
}

// pull plans moving amount from an account into the vault.
func (t *txn) pull(l ledger.Ledger, from common.Address, amount sdkmath.Int) {
	if !amount.IsPositive() {
		return
	}
	t.transfers = append(t.transfers, transfer{ledger: l, from: from, to: t.v.params.Address, amount: amount, pull: true})
}

// push plans moving amount out of the vault.
func (t *txn) push(l ledger.Ledger, to common.Address, amount sdkmath.Int) {
	if !amount.IsPositive() {
		return
	}
	t.transfers = append(t.transfers, transfer{ledger: l, from: t.v.params.Address, to: to, amount: amount})
}

func (t *txn) emit(typ types.EventTypes, poolID *uint64, account common.Address, amount sdkmath.Int) {
	ev := &types.VaultEvent{
		Type:      typ,
		PoolID:    poolID,
		Timestamp: time.Unix(t.now, 0).UTC(),
	}
	if account != (common.Address{}) {
		ev.Account = account.Hex()
	}
	if !amount.IsNil() {
		ev.Amount = amount.String()
	}
	t.events = append(t.events, ev)
}

func (t *txn) batch() *model.VaultBatch {
	batch := &model.VaultBatch{}
	if t.stateDirty && t.state != nil {
		batch.State = t.state.toDocument()
	}

	for id := range t.dirtyPools {
		batch.Pools = append(batch.Pools, t.pools[id].toDocument())
	}
	sort.Slice(batch.Pools, func(i, j int) bool { return batch.Pools[i].ID < batch.Pools[j].ID })

	for key := range t.dirtyPositions {
		pos := t.positions[key]
		if pos.isEmpty() {
			batch.DeletedPositions = append(batch.DeletedPositions, pos.id())
			continue
		}
		batch.Positions = append(batch.Positions, pos.toDocument())
	}
	sort.Strings(batch.DeletedPositions)
	sort.Slice(batch.Positions, func(i, j int) bool { return batch.Positions[i].ID < batch.Positions[j].ID })

	return batch
}

type openCheckpoint struct {
	ledger     ledger.Ledger
	checkpoint int
}

// commit runs the planned transfers behind ledger checkpoints and persists
// the working set. Any failure reverts every ledger touched so far. Other
// writers on a touched ledger wait until the checkpoints close.
func (t *txn) commit() error {
	ctx := t.ctx
	var open []openCheckpoint
	opened := make(map[common.Address]struct{})
	rollback := func() {
		for i := len(open) - 1; i >= 0; i-- {
			open[i].ledger.RevertTo(open[i].checkpoint)
		}
	}

	for _, tr := range t.transfers {
		if _, ok := opened[tr.ledger.Address()]; !ok {
			opened[tr.ledger.Address()] = struct{}{}
			var cp int
			ctx, cp = tr.ledger.Checkpoint(ctx)
			open = append(open, openCheckpoint{ledger: tr.ledger, checkpoint: cp})
		}

		var err error
		if tr.pull {
			err = tr.ledger.TransferFrom(ctx, t.v.params.Address, tr.from, tr.to, tr.amount)
		} else {
			err = tr.ledger.Transfer(ctx, tr.from, tr.to, tr.amount)
		}
		if err != nil {
			rollback()
			return types.NewTransferFailedError(fmt.Errorf(
				"%s transfer of %s from %s to %s: %w",
				tr.ledger.Symbol(), tr.amount, tr.from.Hex(), tr.to.Hex(), err,
			))
		}
	}

	if err := t.v.store.CommitVaultBatch(t.ctx, t.batch()); err != nil {
		rollback()
		if db.IsDuplicateKeyError(err) {
			return types.NewBadRequestError("%s", err.Error())
		}
		return types.NewInternalServiceError(fmt.Errorf("failed to commit vault batch: %w", err))
	}

	for i := len(open) - 1; i >= 0; i-- {
		open[i].ledger.Commit(open[i].checkpoint)
	}
	return nil
}
