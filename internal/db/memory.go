package db

import (
	"context"
	"sort"
	"strconv"
	"sync"

	"github.com/pisfinance/pis-vault/internal/db/model"
)

// MemoryDatabase keeps every document in process. It is used by tests and by
// single node deployments that do not need durability.
type MemoryDatabase struct {
	mu        sync.RWMutex
	state     *model.VaultStateDocument
	pools     map[uint64]model.PoolDocument
	positions map[string]model.PositionDocument
	feeConfig *model.FeeConfigDocument
	stats     *model.VaultStatsDocument
}

var _ DbInterface = (*MemoryDatabase)(nil)

func NewMemoryDatabase() *MemoryDatabase {
	return &MemoryDatabase{
		pools:     make(map[uint64]model.PoolDocument),
		positions: make(map[string]model.PositionDocument),
	}
}

func (m *MemoryDatabase) Ping(context.Context) error {
	return nil
}

func (m *MemoryDatabase) GetVaultState(context.Context) (*model.VaultStateDocument, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.state == nil {
		return nil, &NotFoundError{Key: model.VaultStateID, Message: "vault state not found"}
	}
	state := *m.state
	return &state, nil
}

func (m *MemoryDatabase) GetPool(_ context.Context, id uint64) (*model.PoolDocument, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	pool, ok := m.pools[id]
	if !ok {
		return nil, &NotFoundError{Key: strconv.FormatUint(id, 10), Message: "pool not found"}
	}
	return &pool, nil
}

func (m *MemoryDatabase) ListPools(context.Context) ([]*model.PoolDocument, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	pools := make([]*model.PoolDocument, 0, len(m.pools))
	for _, p := range m.pools {
		pool := p
		pools = append(pools, &pool)
	}
	sort.Slice(pools, func(i, j int) bool { return pools[i].ID < pools[j].ID })
	return pools, nil
}

func (m *MemoryDatabase) GetPosition(_ context.Context, poolID uint64, user string) (*model.PositionDocument, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id := model.PositionID(poolID, user)
	position, ok := m.positions[id]
	if !ok {
		return nil, &NotFoundError{Key: id, Message: "position not found"}
	}
	return &position, nil
}

func (m *MemoryDatabase) ListPositions(_ context.Context, user string) ([]*model.PositionDocument, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	positions := make([]*model.PositionDocument, 0)
	for _, p := range m.positions {
		if user != "" && p.User != user {
			continue
		}
		position := p
		positions = append(positions, &position)
	}
	sort.Slice(positions, func(i, j int) bool {
		if positions[i].PoolID != positions[j].PoolID {
			return positions[i].PoolID < positions[j].PoolID
		}
		return positions[i].User < positions[j].User
	})
	return positions, nil
}

func (m *MemoryDatabase) CommitVaultBatch(_ context.Context, batch *model.VaultBatch) error {
	if batch.IsEmpty() {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// unique staked token is checked before anything is written
	for _, pool := range batch.Pools {
		for id, existing := range m.pools {
			if id != pool.ID && existing.StakedToken == pool.StakedToken {
				return &DuplicateKeyError{
					Key:     pool.StakedToken,
					Message: "pool for staked token already exists",
				}
			}
		}
	}

	if batch.State != nil {
		state := *batch.State
		m.state = &state
	}
	for _, pool := range batch.Pools {
		m.pools[pool.ID] = *pool
	}
	for _, position := range batch.Positions {
		m.positions[position.ID] = *position
	}
	for _, id := range batch.DeletedPositions {
		delete(m.positions, id)
	}

	return nil
}

func (m *MemoryDatabase) GetFeeConfig(context.Context) (*model.FeeConfigDocument, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.feeConfig == nil {
		return nil, &NotFoundError{Key: model.FeeConfigID, Message: "fee config not found"}
	}
	doc := *m.feeConfig
	doc.Exempt = append([]string(nil), m.feeConfig.Exempt...)
	return &doc, nil
}

func (m *MemoryDatabase) SaveFeeConfig(_ context.Context, doc *model.FeeConfigDocument) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	saved := *doc
	saved.ID = model.FeeConfigID
	saved.Exempt = append([]string(nil), doc.Exempt...)
	m.feeConfig = &saved
	return nil
}

func (m *MemoryDatabase) GetVaultStats(context.Context) (*model.VaultStatsDocument, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.stats == nil {
		return nil, &NotFoundError{Key: model.VaultStatsID, Message: "vault stats not found"}
	}
	doc := *m.stats
	return &doc, nil
}

func (m *MemoryDatabase) UpsertVaultStats(_ context.Context, doc *model.VaultStatsDocument) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	saved := *doc
	saved.ID = model.VaultStatsID
	m.stats = &saved
	return nil
}
