package model

const (
	VaultStateCollection = "vault_state"
	VaultStateID         = "singleton"
)

// VaultStateDocument holds the vault wide accumulators.
type VaultStateDocument struct {
	ID                 string `bson:"_id"`
	RewardToken        string `bson:"reward_token"`
	RewardBalance      string `bson:"reward_balance"`
	PendingRewards     string `bson:"pending_rewards"`
	PendingDevRewards  string `bson:"pending_dev_rewards"`
	AccRewardPerWeight string `bson:"acc_reward_per_weight"`
	TotalWeight        uint64 `bson:"total_weight"`
	PoolCount          uint64 `bson:"pool_count"`
	LastEmissionTime   int64  `bson:"last_emission_time"`
	TotalFeesCollected string `bson:"total_fees_collected"`
	TotalEmitted       string `bson:"total_emitted"`
}
