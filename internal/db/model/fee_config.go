package model

const (
	FeeConfigCollection = "fee_config"
	FeeConfigID         = "singleton"
)

type FeeConfigDocument struct {
	ID              string   `bson:"_id"`
	FeeMultiplier   uint64   `bson:"fee_multiplier"`
	Paused          bool     `bson:"paused"`
	Exempt          []string `bson:"exempt"`
	VaultAddress    string   `bson:"vault_address"`
	VaultAddressSet bool     `bson:"vault_address_set"`
}
