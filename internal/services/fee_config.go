package services

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog/log"

	"github.com/pisfinance/pis-vault/internal/db"
	"github.com/pisfinance/pis-vault/internal/db/model"
	"github.com/pisfinance/pis-vault/internal/fee"
	"github.com/pisfinance/pis-vault/internal/types"
	"github.com/pisfinance/pis-vault/pkg"
)

// loadFeeConfig returns the persisted fee config, or the config file values
// on the first run.
func (s *Service) loadFeeConfig(ctx context.Context) (fee.Config, error) {
	doc, err := s.db.GetFeeConfig(ctx)
	if err != nil {
		if !db.IsNotFoundError(err) {
			return fee.Config{}, fmt.Errorf("failed to load fee config: %w", err)
		}

		exempt, err := pkg.ParseAddresses(s.cfg.Fee.ExemptAddresses)
		if err != nil {
			return fee.Config{}, err
		}
		log.Ctx(ctx).Info().Msg("no persisted fee config, starting from the config file")
		return fee.Config{FeeMultiplier: s.cfg.Fee.FeeMultiplier, Exempt: exempt}, nil
	}

	return feeConfigFromDocument(doc)
}

func (s *Service) persistFeeConfig(ctx context.Context, cfg fee.Config) error {
	if err := s.db.SaveFeeConfig(ctx, feeConfigToDocument(cfg)); err != nil {
		return err
	}

	s.enqueueEvents(ctx, []*types.VaultEvent{{
		Type:      types.EventFeeConfigUpdated,
		Timestamp: s.now(),
	}})
	return nil
}

func feeConfigToDocument(cfg fee.Config) *model.FeeConfigDocument {
	exempt := make([]string, 0, len(cfg.Exempt))
	for _, a := range cfg.Exempt {
		exempt = append(exempt, a.Hex())
	}

	doc := &model.FeeConfigDocument{
		ID:              model.FeeConfigID,
		FeeMultiplier:   cfg.FeeMultiplier,
		Paused:          cfg.Paused,
		Exempt:          exempt,
		VaultAddressSet: cfg.VaultAddressSet,
	}
	if cfg.VaultAddressSet {
		doc.VaultAddress = cfg.VaultAddress.Hex()
	}
	return doc
}

func feeConfigFromDocument(doc *model.FeeConfigDocument) (fee.Config, error) {
	exempt, err := pkg.ParseAddresses(doc.Exempt)
	if err != nil {
		return fee.Config{}, fmt.Errorf("persisted fee config: %w", err)
	}

	cfg := fee.Config{
		FeeMultiplier:   doc.FeeMultiplier,
		Paused:          doc.Paused,
		Exempt:          exempt,
		VaultAddressSet: doc.VaultAddressSet,
	}
	if doc.VaultAddressSet {
		cfg.VaultAddress = common.HexToAddress(doc.VaultAddress)
	}
	return cfg, nil
}
