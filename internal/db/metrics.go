package db

import (
	"context"
	"time"

	"github.com/pisfinance/pis-vault/internal/db/model"
	"github.com/pisfinance/pis-vault/internal/observability/metrics"
)

type DbWithMetrics struct {
	db DbInterface
}

var _ DbInterface = (*DbWithMetrics)(nil)

func NewDbWithMetrics(db DbInterface) *DbWithMetrics {
	return &DbWithMetrics{db: db}
}

func (d *DbWithMetrics) Ping(ctx context.Context) error {
	return d.db.Ping(ctx)
}

func (d *DbWithMetrics) GetVaultState(ctx context.Context) (result *model.VaultStateDocument, err error) {
	//nolint:errcheck
	d.run("GetVaultState", func() error {
		result, err = d.db.GetVaultState(ctx)
		return err
	})
	return
}

func (d *DbWithMetrics) GetPool(ctx context.Context, id uint64) (result *model.PoolDocument, err error) {
	//nolint:errcheck
	d.run("GetPool", func() error {
		result, err = d.db.GetPool(ctx, id)
		return err
	})
	return
}

func (d *DbWithMetrics) ListPools(ctx context.Context) (result []*model.PoolDocument, err error) {
	//nolint:errcheck
	d.run("ListPools", func() error {
		result, err = d.db.ListPools(ctx)
		return err
	})
	return
}

func (d *DbWithMetrics) GetPosition(ctx context.Context, poolID uint64, user string) (result *model.PositionDocument, err error) {
	//nolint:errcheck
	d.run("GetPosition", func() error {
		result, err = d.db.GetPosition(ctx, poolID, user)
		return err
	})
	return
}

func (d *DbWithMetrics) ListPositions(ctx context.Context, user string) (result []*model.PositionDocument, err error) {
	//nolint:errcheck
	d.run("ListPositions", func() error {
		result, err = d.db.ListPositions(ctx, user)
		return err
	})
	return
}

func (d *DbWithMetrics) CommitVaultBatch(ctx context.Context, batch *model.VaultBatch) error {
	return d.run("CommitVaultBatch", func() error {
		return d.db.CommitVaultBatch(ctx, batch)
	})
}

func (d *DbWithMetrics) GetFeeConfig(ctx context.Context) (result *model.FeeConfigDocument, err error) {
	//nolint:errcheck
	d.run("GetFeeConfig", func() error {
		result, err = d.db.GetFeeConfig(ctx)
		return err
	})
	return
}

func (d *DbWithMetrics) SaveFeeConfig(ctx context.Context, doc *model.FeeConfigDocument) error {
	return d.run("SaveFeeConfig", func() error {
		return d.db.SaveFeeConfig(ctx, doc)
	})
}

func (d *DbWithMetrics) GetVaultStats(ctx context.Context) (result *model.VaultStatsDocument, err error) {
	//nolint:errcheck
	d.run("GetVaultStats", func() error {
		result, err = d.db.GetVaultStats(ctx)
		return err
	})
	return
}

func (d *DbWithMetrics) UpsertVaultStats(ctx context.Context, doc *model.VaultStatsDocument) error {
	return d.run("UpsertVaultStats", func() error {
		return d.db.UpsertVaultStats(ctx, doc)
	})
}

// run records the latency of f. A not found result is an expected outcome
// and is not counted as a failure.
func (d *DbWithMetrics) run(method string, f func() error) error {
	startTime := time.Now()
	err := f()
	duration := time.Since(startTime)

	metrics.RecordDbLatency(duration, method, err != nil && !IsNotFoundError(err))
	return err
}
