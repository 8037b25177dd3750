package model

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pisfinance/pis-vault/internal/config"
)

const namespaceExistsErrorCode = 48

type index struct {
	Keys   bson.D
	Unique bool
}

var collections = map[string][]index{
	PoolCollection: {
		{Keys: bson.D{{Key: "staked_token", Value: 1}}, Unique: true},
	},
	PositionCollection: {
		{Keys: bson.D{{Key: "pool_id", Value: 1}, {Key: "user", Value: 1}}, Unique: true},
		{Keys: bson.D{{Key: "user", Value: 1}}},
	},
	VaultStateCollection: nil,
	FeeConfigCollection:  nil,
	VaultStatsCollection: nil,
}

// Setup creates the collections and indexes used by the vault.
func Setup(ctx context.Context, cfg *config.DbConfig) error {
	clientOps := options.Client().ApplyURI(cfg.Address)
	if cfg.Username != "" {
		clientOps.SetAuth(options.Credential{
			Username: cfg.Username,
			Password: cfg.Password,
		})
	}
	client, err := mongo.Connect(ctx, clientOps)
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Disconnect(ctx); err != nil {
			log.Ctx(ctx).Error().Err(err).Msg("failed to disconnect setup client")
		}
	}()

	database := client.Database(cfg.DbName)

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	for name, idxs := range collections {
		createCollection(ctx, database, name)
		for _, idx := range idxs {
			if err := createIndex(ctx, database, name, idx); err != nil {
				return err
			}
		}
	}

	log.Ctx(ctx).Info().Msg("Collections and indexes created successfully")
	return nil
}

func createCollection(ctx context.Context, database *mongo.Database, name string) {
	// an already existing collection is not an error worth failing on
	if err := database.CreateCollection(ctx, name); err != nil {
		var commandErr mongo.CommandError
		if errors.As(err, &commandErr) && commandErr.HasErrorCode(namespaceExistsErrorCode) {
			return
		}
		log.Ctx(ctx).Debug().Err(err).Str("collection", name).Msg("create collection")
	}
}

func createIndex(ctx context.Context, database *mongo.Database, collectionName string, idx index) error {
	indexModel := mongo.IndexModel{
		Keys:    idx.Keys,
		Options: options.Index().SetUnique(idx.Unique),
	}

	if _, err := database.Collection(collectionName).Indexes().CreateOne(ctx, indexModel); err != nil {
		return fmt.Errorf("failed to create index on %s: %w", collectionName, err)
	}
	return nil
}
