package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/ethereum/go-ethereum/common"

	"github.com/pisfinance/pis-vault/consumer"
	"github.com/pisfinance/pis-vault/internal/auth"
	"github.com/pisfinance/pis-vault/internal/config"
	"github.com/pisfinance/pis-vault/internal/db"
	"github.com/pisfinance/pis-vault/internal/fee"
	"github.com/pisfinance/pis-vault/internal/ledger"
	"github.com/pisfinance/pis-vault/internal/types"
	"github.com/pisfinance/pis-vault/internal/vault"
	"github.com/pisfinance/pis-vault/pkg"
)

const eventBufferSize = 5000

type Service struct {
	cfg       *config.Config
	db        db.DbInterface
	owner     *auth.Owner
	fee       *fee.Calculator
	vault     *vault.Vault
	ledgers   *ledger.Registry
	publisher consumer.EventConsumer
	events    chan *types.VaultEvent
}

type Option func(*options)

type options struct {
	clock vault.Clock
}

// WithClock replaces the wall clock of the vault.
func WithClock(c vault.Clock) Option {
	return func(o *options) {
		o.clock = c
	}
}

// NewService wires the fee calculator into the reward token ledger and
// builds the vault on top of the store. The fee configuration persisted by
// an earlier run wins over the config file. publisher may be nil, events are
// then only logged.
func NewService(
	ctx context.Context,
	cfg *config.Config,
	dbClient db.DbInterface,
	tokens []*ledger.Token,
	publisher consumer.EventConsumer,
	opts ...Option,
) (*Service, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	ownerAddr, err := pkg.ParseAddress(cfg.Vault.Owner)
	if err != nil {
		return nil, fmt.Errorf("vault owner: %w", err)
	}
	params, err := vault.ParamsFromConfig(&cfg.Vault)
	if err != nil {
		return nil, err
	}

	s := &Service{
		cfg:       cfg,
		db:        dbClient,
		owner:     auth.NewOwner(ownerAddr),
		publisher: publisher,
		events:    make(chan *types.VaultEvent, eventBufferSize),
	}

	feeCfg, err := s.loadFeeConfig(ctx)
	if err != nil {
		return nil, err
	}
	s.fee = fee.NewCalculator(s.owner, feeCfg, fee.WithPersister(s.persistFeeConfig))

	s.ledgers = ledger.NewRegistry()
	var rewardFound bool
	for _, token := range tokens {
		if token.Address() == params.RewardToken {
			token.SetFeeHook(s.fee.TransferHook)
			rewardFound = true
		}
		s.ledgers.Register(ledger.NewLedgerWithMetrics(token))
	}
	if !rewardFound {
		return nil, fmt.Errorf("reward token %s has no ledger", params.RewardToken.Hex())
	}

	vaultOpts := []vault.Option{vault.WithEventSink(s.enqueueEvents)}
	if o.clock != nil {
		vaultOpts = append(vaultOpts, vault.WithClock(o.clock))
	}
	s.vault, err = vault.New(params, s.owner, dbClient, s.ledgers, vaultOpts...)
	if err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Service) Vault() *vault.Vault {
	return s.vault
}

func (s *Service) Fee() *fee.Calculator {
	return s.fee
}

func (s *Service) Owner() *auth.Owner {
	return s.owner
}

func (s *Service) Ledgers() *ledger.Registry {
	return s.ledgers
}

// Ledger returns the ledger of token, or a NotFound error.
func (s *Service) Ledger(token common.Address) (ledger.Ledger, error) {
	l, err := s.ledgers.Get(token)
	if err != nil {
		return nil, types.NewErrorWithMsg(http.StatusNotFound, types.NotFound, "unknown token %s", token.Hex())
	}
	return l, nil
}

// Start bootstraps the vault and runs the background workers until ctx is
// cancelled.
func (s *Service) Start(ctx context.Context) error {
	if err := s.Bootstrap(ctx); err != nil {
		return err
	}

	go s.StartEventPublisher(ctx)
	s.StartStatsPoller(ctx)
	s.StartMassUpdatePoller(ctx)
	return nil
}
