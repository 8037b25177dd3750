package model

import (
	"fmt"
	"strings"
)

const PositionCollection = "positions"

type PositionDocument struct {
	ID              string `bson:"_id"`
	PoolID          uint64 `bson:"pool_id"`
	User            string `bson:"user"`
	Amount          string `bson:"amount"`
	ReferenceAmount string `bson:"reference_amount"`
	DepositTime     int64  `bson:"deposit_time"`
	RewardDebt      string `bson:"reward_debt"`
	RewardLocked    string `bson:"reward_locked"`
}

// PositionID is the primary key of a (pool, user) position.
func PositionID(poolID uint64, user string) string {
	return fmt.Sprintf("%d:%s", poolID, strings.ToLower(user))
}
