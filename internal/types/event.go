package types

import "time"

type EventTypes string

func (e EventTypes) String() string {
	return string(e)
}

const (
	EventPoolAdded         EventTypes = "pis.vault.PoolAdded"
	EventPoolWeightUpdated EventTypes = "pis.vault.PoolWeightUpdated"
	EventDeposit           EventTypes = "pis.vault.Deposit"
	EventWithdraw          EventTypes = "pis.vault.Withdraw"
	EventQuitPool          EventTypes = "pis.vault.QuitPool"
	EventEarlyExit         EventTypes = "pis.vault.EarlyExit"
	EventRewardPaid        EventTypes = "pis.vault.RewardPaid"
	EventRewardLocked      EventTypes = "pis.vault.RewardLocked"
	EventDevRewardPaid     EventTypes = "pis.vault.DevRewardPaid"
	EventFeeConfigUpdated  EventTypes = "pis.fee.ConfigUpdated"
)

// VaultEvent is the message published for every committed state change.
// Amounts are decimal strings in the reward token's base unit.
type VaultEvent struct {
	Type      EventTypes `json:"type"`
	PoolID    *uint64    `json:"pool_id,omitempty"`
	Account   string     `json:"account,omitempty"`
	Amount    string     `json:"amount,omitempty"`
	Weight    *uint64    `json:"weight,omitempty"`
	Timestamp time.Time  `json:"timestamp"`
}
