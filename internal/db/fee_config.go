package db

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pisfinance/pis-vault/internal/db/model"
)

func (db *Database) GetFeeConfig(ctx context.Context) (*model.FeeConfigDocument, error) {
	res := db.collection(model.FeeConfigCollection).FindOne(ctx, bson.M{"_id": model.FeeConfigID})

	var doc model.FeeConfigDocument
	if err := res.Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &NotFoundError{
				Key:     model.FeeConfigID,
				Message: "fee config not found",
			}
		}
		return nil, err
	}

	return &doc, nil
}

func (db *Database) SaveFeeConfig(ctx context.Context, doc *model.FeeConfigDocument) error {
	doc.ID = model.FeeConfigID
	opts := options.Replace().SetUpsert(true)

	_, err := db.collection(model.FeeConfigCollection).ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, opts)
	return err
}
