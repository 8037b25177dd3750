package db

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/pisfinance/pis-vault/internal/config"
)

type Database struct {
	dbName string
	client *mongo.Client
}

var _ DbInterface = (*Database)(nil)

// New connects to the mongo deployment described by cfg. Batches are
// committed in multi document transactions, so the deployment must be a
// replica set.
func New(ctx context.Context, cfg config.DbConfig) (*Database, error) {
	clientOps := options.Client().ApplyURI(cfg.Address)
	if cfg.Username != "" {
		clientOps.SetAuth(options.Credential{
			Username: cfg.Username,
			Password: cfg.Password,
		})
	}
	client, err := mongo.Connect(ctx, clientOps)
	if err != nil {
		return nil, err
	}

	return &Database{
		dbName: cfg.DbName,
		client: client,
	}, nil
}

func (db *Database) Ping(ctx context.Context) error {
	return db.client.Ping(ctx, readpref.Primary())
}

func (db *Database) Close(ctx context.Context) error {
	return db.client.Disconnect(ctx)
}

func (db *Database) collection(name string) *mongo.Collection {
	return db.client.Database(db.dbName).Collection(name)
}

// NewFromConfig returns the store selected by cfg.Type.
func NewFromConfig(ctx context.Context, cfg config.DbConfig) (DbInterface, error) {
	if cfg.Type == config.DbTypeMemory {
		return NewMemoryDatabase(), nil
	}
	return New(ctx, cfg)
}
