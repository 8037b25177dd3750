package db

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pisfinance/pis-vault/internal/db/model"
)

func (db *Database) GetVaultState(ctx context.Context) (*model.VaultStateDocument, error) {
	filter := bson.M{"_id": model.VaultStateID}
	res := db.collection(model.VaultStateCollection).FindOne(ctx, filter)

	var state model.VaultStateDocument
	if err := res.Decode(&state); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &NotFoundError{
				Key:     model.VaultStateID,
				Message: "vault state not found",
			}
		}
		return nil, err
	}

	return &state, nil
}

func (db *Database) GetPool(ctx context.Context, id uint64) (*model.PoolDocument, error) {
	filter := bson.M{"_id": id}
	res := db.collection(model.PoolCollection).FindOne(ctx, filter)

	var pool model.PoolDocument
	if err := res.Decode(&pool); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &NotFoundError{
				Key:     strconv.FormatUint(id, 10),
				Message: "pool not found",
			}
		}
		return nil, err
	}

	return &pool, nil
}

func (db *Database) ListPools(ctx context.Context) ([]*model.PoolDocument, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := db.collection(model.PoolCollection).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var pools []*model.PoolDocument
	if err := cursor.All(ctx, &pools); err != nil {
		return nil, err
	}

	return pools, nil
}

func (db *Database) GetPosition(ctx context.Context, poolID uint64, user string) (*model.PositionDocument, error) {
	id := model.PositionID(poolID, user)
	res := db.collection(model.PositionCollection).FindOne(ctx, bson.M{"_id": id})

	var position model.PositionDocument
	if err := res.Decode(&position); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &NotFoundError{
				Key:     id,
				Message: "position not found",
			}
		}
		return nil, err
	}

	return &position, nil
}

func (db *Database) ListPositions(ctx context.Context, user string) ([]*model.PositionDocument, error) {
	filter := bson.M{}
	if user != "" {
		filter["user"] = user
	}
	opts := options.Find().SetSort(bson.D{{Key: "pool_id", Value: 1}, {Key: "user", Value: 1}})

	cursor, err := db.collection(model.PositionCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var positions []*model.PositionDocument
	if err := cursor.All(ctx, &positions); err != nil {
		return nil, err
	}

	return positions, nil
}

// CommitVaultBatch writes the batch inside a single transaction.
func (db *Database) CommitVaultBatch(ctx context.Context, batch *model.VaultBatch) error {
	if batch.IsEmpty() {
		return nil
	}

	session, err := db.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (any, error) {
		upsert := options.Replace().SetUpsert(true)

		if batch.State != nil {
			_, err := db.collection(model.VaultStateCollection).
				ReplaceOne(sessCtx, bson.M{"_id": batch.State.ID}, batch.State, upsert)
			if err != nil {
				return nil, fmt.Errorf("failed to write vault state: %w", err)
			}
		}

		for _, pool := range batch.Pools {
			_, err := db.collection(model.PoolCollection).
				ReplaceOne(sessCtx, bson.M{"_id": pool.ID}, pool, upsert)
			if err != nil {
				if mongo.IsDuplicateKeyError(err) {
					return nil, &DuplicateKeyError{
						Key:     pool.StakedToken,
						Message: "pool for staked token already exists",
					}
				}
				return nil, fmt.Errorf("failed to write pool %d: %w", pool.ID, err)
			}
		}

		for _, position := range batch.Positions {
			_, err := db.collection(model.PositionCollection).
				ReplaceOne(sessCtx, bson.M{"_id": position.ID}, position, upsert)
			if err != nil {
				return nil, fmt.Errorf("failed to write position %s: %w", position.ID, err)
			}
		}

		if len(batch.DeletedPositions) > 0 {
			filter := bson.M{"_id": bson.M{"$in": batch.DeletedPositions}}
			if _, err := db.collection(model.PositionCollection).DeleteMany(sessCtx, filter); err != nil {
				return nil, fmt.Errorf("failed to delete positions: %w", err)
			}
		}

		return nil, nil
	})

	return err
}
