package db

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pisfinance/pis-vault/internal/db/model"
)

func (db *Database) GetVaultStats(ctx context.Context) (*model.VaultStatsDocument, error) {
	res := db.collection(model.VaultStatsCollection).FindOne(ctx, bson.M{"_id": model.VaultStatsID})

	var doc model.VaultStatsDocument
	if err := res.Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &NotFoundError{
				Key:     model.VaultStatsID,
				Message: "vault stats not found",
			}
		}
		return nil, err
	}

	return &doc, nil
}

// UpsertVaultStats updates or inserts the overall vault stats
func (db *Database) UpsertVaultStats(ctx context.Context, doc *model.VaultStatsDocument) error {
	filter := bson.M{"_id": model.VaultStatsID}
	update := bson.M{
		"$set": bson.M{
			"pool_count":      doc.PoolCount,
			"position_count":  doc.PositionCount,
			"reward_balance":  doc.RewardBalance,
			"pending_rewards": doc.PendingRewards,
			"total_locked":    doc.TotalLocked,
			"total_staked":    doc.TotalStaked,
			"last_updated":    time.Now().Unix(),
		},
	}
	opts := options.Update().SetUpsert(true)

	_, err := db.collection(model.VaultStatsCollection).UpdateOne(ctx, filter, update, opts)
	return err
}
