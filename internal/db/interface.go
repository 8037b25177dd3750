package db

import (
	"context"

	"github.com/pisfinance/pis-vault/internal/db/model"
)

//go:generate mockery --name=DbInterface --output=../../testutil/mocks --outpkg=mocks --filename=mock_db_client.go
type DbInterface interface {
	Ping(ctx context.Context) error

	// GetVaultState returns NotFoundError before the vault is initialised.
	GetVaultState(ctx context.Context) (*model.VaultStateDocument, error)
	GetPool(ctx context.Context, id uint64) (*model.PoolDocument, error)
	// ListPools returns every pool ordered by id.
	ListPools(ctx context.Context) ([]*model.PoolDocument, error)
	GetPosition(ctx context.Context, poolID uint64, user string) (*model.PositionDocument, error)
	// ListPositions returns the positions of user, or of everyone if user is empty.
	ListPositions(ctx context.Context, user string) ([]*model.PositionDocument, error)
	// CommitVaultBatch applies every write of batch atomically.
	CommitVaultBatch(ctx context.Context, batch *model.VaultBatch) error

	GetFeeConfig(ctx context.Context) (*model.FeeConfigDocument, error)
	SaveFeeConfig(ctx context.Context, doc *model.FeeConfigDocument) error

	GetVaultStats(ctx context.Context) (*model.VaultStatsDocument, error)
	UpsertVaultStats(ctx context.Context, doc *model.VaultStatsDocument) error
}
