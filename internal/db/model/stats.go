package model

const (
	VaultStatsCollection = "vault_stats"
	VaultStatsID         = "overall_stats"
)

// VaultStatsDocument is a periodically refreshed summary of the vault.
type VaultStatsDocument struct {
	ID             string            `bson:"_id"`
	PoolCount      uint64            `bson:"pool_count"`
	PositionCount  uint64            `bson:"position_count"`
	RewardBalance  string            `bson:"reward_balance"`
	PendingRewards string            `bson:"pending_rewards"`
	TotalLocked    string            `bson:"total_locked"`
	TotalStaked    map[string]string `bson:"total_staked"` // pool id -> staked amount
	LastUpdated    int64             `bson:"last_updated"`
}
