package model

const PoolCollection = "pools"

// PoolDocument is a staking pool. Amounts and fixed point values are decimal
// strings since they do not fit in a 64 bit integer.
type PoolDocument struct {
	ID                uint64 `bson:"_id"`
	StakedToken       string `bson:"staked_token"`
	Weight            uint64 `bson:"weight"`
	LastRewardTime    int64  `bson:"last_reward_time"`
	AccRewardPerShare string `bson:"acc_reward_per_share"`
	ShareRemainder    string `bson:"share_remainder"`
	TotalStaked       string `bson:"total_staked"`
	RewardIndex       string `bson:"reward_index"`
	IndexRemainder    string `bson:"index_remainder"`
	UnfoldedReward    string `bson:"unfolded_reward"`
	CreatedAt         int64  `bson:"created_at"`
}
