package model

// VaultBatch is the complete set of writes produced by one vault operation.
// It is applied all or nothing.
type VaultBatch struct {
	State            *VaultStateDocument
	Pools            []*PoolDocument
	Positions        []*PositionDocument
	DeletedPositions []string
}

func (b *VaultBatch) IsEmpty() bool {
	return b == nil || (b.State == nil && len(b.Pools) == 0 && len(b.Positions) == 0 && len(b.DeletedPositions) == 0)
}
