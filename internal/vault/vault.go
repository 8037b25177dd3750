package vault

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/pisfinance/pis-vault/internal/auth"
	"github.com/pisfinance/pis-vault/internal/db"
	"github.com/pisfinance/pis-vault/internal/ledger"
	"github.com/pisfinance/pis-vault/internal/observability/metrics"
	"github.com/pisfinance/pis-vault/internal/types"
)

// Clock returns the current time. Tests replace it to travel in time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// EventSink receives the events of every committed operation, in order.
type EventSink func(ctx context.Context, events []*types.VaultEvent)

// Vault is the staking reward engine. Every operation, reads included, runs
// under one lock: the working set is loaded from the store, effects are
// computed, ledger transfers run behind checkpoints and the writes are
// committed to the store in one batch.
type Vault struct {
	mu      sync.Mutex
	params  Params
	owner   *auth.Owner
	store   db.DbInterface
	ledgers *ledger.Registry
	clock   Clock
	sink    EventSink
}

type Option func(*Vault)

func WithClock(c Clock) Option {
	return func(v *Vault) {
		v.clock = c
	}
}

func WithEventSink(sink EventSink) Option {
	return func(v *Vault) {
		v.sink = sink
	}
}

func New(params Params, owner *auth.Owner, store db.DbInterface, ledgers *ledger.Registry, opts ...Option) (*Vault, error) {
	if params.EmissionPerSecond.IsNil() {
		params.EmissionPerSecond = sdkmath.ZeroInt()
	}
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid vault params: %w", err)
	}
	if _, err := ledgers.Get(params.RewardToken); err != nil {
		return nil, fmt.Errorf("reward token ledger: %w", err)
	}

	v := &Vault{
		params:  params,
		owner:   owner,
		store:   store,
		ledgers: ledgers,
		clock:   systemClock{},
	}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

func (v *Vault) Params() Params {
	return v.params
}

func (v *Vault) Owner() *auth.Owner {
	return v.owner
}

// execute runs fn on a fresh working set and commits its effects. Nothing
// is written if fn or any transfer fails.
func (v *Vault) execute(ctx context.Context, op string, fn func(t *txn) error) (err error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	startTime := time.Now()
	defer func() {
		metrics.RecordVaultOperation(time.Since(startTime), op, err != nil)
	}()

	logger := log.Ctx(ctx).With().Str("op", op).Logger()
	logger.Debug().Msg("vault operation started")

	t := v.begin(ctx)
	if err = fn(t); err != nil {
		logFailure(&logger, err)
		return err
	}
	if err = t.commit(); err != nil {
		logFailure(&logger, err)
		return err
	}

	logger.Info().Int("transfers", len(t.transfers)).Msg("vault operation committed")
	if v.sink != nil && len(t.events) > 0 {
		v.sink(ctx, t.events)
	}
	return nil
}

// view runs fn on a working set that is thrown away afterwards.
func (v *Vault) view(ctx context.Context, fn func(t *txn) error) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	return fn(v.begin(ctx))
}

func (v *Vault) authorize(capability *auth.Capability) error {
	return v.owner.Check(capability)
}

// logFailure logs business rule rejections at warn and everything else at error.
func logFailure(logger *zerolog.Logger, err error) {
	var vaultErr *types.Error
	if errors.As(err, &vaultErr) && vaultErr.ErrorCode != types.InternalServiceError {
		logger.Warn().Err(err).Str("code", vaultErr.ErrorCode.String()).Msg("vault operation rejected")
		return
	}
	logger.Error().Err(err).Msg("vault operation failed")
}
