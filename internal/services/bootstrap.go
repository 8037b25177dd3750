package services

import (
	"context"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog/log"

	"github.com/pisfinance/pis-vault/internal/auth"
	"github.com/pisfinance/pis-vault/internal/types"
	"github.com/pisfinance/pis-vault/pkg"
)

const (
	bootstrapRetryInterval = 2 * time.Second
	bootstrapMaxRetries    = 10
)

// Bootstrap brings a fresh deployment to its operating state: fee paused,
// vault initialized, fee multiplier applied, vault address registered once,
// exemptions applied, configured pools added, fee unpaused. On restarts only
// missing exemptions and pools are added, runtime fee changes are kept.
// Only internal failures are retried.
func (s *Service) Bootstrap(ctx context.Context) error {
	return retry.Do(
		func() error {
			return s.attemptBootstrap(ctx)
		},
		retry.Context(ctx),
		retry.Attempts(bootstrapMaxRetries),
		retry.Delay(bootstrapRetryInterval),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return types.CodeOf(err) == types.InternalServiceError
		}),
		retry.OnRetry(func(n uint, err error) {
			log.Ctx(ctx).Warn().Err(err).
				Msgf("Failed to bootstrap vault, attempt %d/%d", n+1, bootstrapMaxRetries)
		}),
	)
}

func (s *Service) attemptBootstrap(ctx context.Context) error {
	log := log.Ctx(ctx)

	capability, err := s.owner.Authorize(s.owner.Address())
	if err != nil {
		return err
	}
	params := s.vault.Params()

	initialized, err := s.vault.IsInitialized(ctx)
	if err != nil {
		return err
	}

	// the fee stays paused until the vault is ready to account for it
	if !initialized {
		if err := s.fee.SetPaused(ctx, capability, true); err != nil {
			return fmt.Errorf("pause fee: %w", err)
		}
		if err := s.vault.Initialize(ctx, capability); err != nil {
			return fmt.Errorf("initialize vault: %w", err)
		}
		if err := s.fee.SetFeeMultiplier(ctx, capability, s.cfg.Fee.FeeMultiplier); err != nil {
			return fmt.Errorf("set fee multiplier: %w", err)
		}
		log.Info().Str("reward_token", params.RewardToken.Hex()).Msg("vault initialized")
	}

	if _, set := s.fee.VaultAddress(); !set {
		if err := s.fee.SetVaultAddress(ctx, capability, params.Address); err != nil {
			return fmt.Errorf("set vault address: %w", err)
		}
	}

	if err := s.applyExemptions(ctx, capability); err != nil {
		return err
	}

	if err := s.addConfiguredPools(ctx, capability); err != nil {
		return err
	}

	if !initialized {
		if err := s.fee.SetPaused(ctx, capability, false); err != nil {
			return fmt.Errorf("unpause fee: %w", err)
		}
	}

	log.Info().Bool("first_run", !initialized).Msg("Successfully bootstrapped vault")
	return nil
}

// applyExemptions exempts the vault, the emission reserve and the configured
// addresses from the transfer fee.
func (s *Service) applyExemptions(ctx context.Context, capability *auth.Capability) error {
	params := s.vault.Params()
	exempt := []common.Address{params.Address}
	if params.EmissionReserve != (common.Address{}) {
		exempt = append(exempt, params.EmissionReserve)
	}

	configured, err := pkg.ParseAddresses(s.cfg.Fee.ExemptAddresses)
	if err != nil {
		return err
	}
	exempt = append(exempt, configured...)

	for _, addr := range exempt {
		if s.fee.IsExempt(addr) {
			continue
		}
		if err := s.fee.AddExempt(ctx, capability, addr); err != nil {
			return fmt.Errorf("exempt %s: %w", addr.Hex(), err)
		}
	}
	return nil
}

func (s *Service) addConfiguredPools(ctx context.Context, capability *auth.Capability) error {
	pools, err := s.vault.ListPools(ctx)
	if err != nil {
		return err
	}
	existing := make(map[common.Address]struct{}, len(pools))
	for _, p := range pools {
		existing[p.StakedToken] = struct{}{}
	}

	for _, pc := range s.cfg.Vault.Pools {
		token, err := pkg.ParseAddress(pc.StakedToken)
		if err != nil {
			return err
		}
		if _, ok := existing[token]; ok {
			continue
		}

		if _, err := s.vault.Add(ctx, capability, pc.Weight, token, true); err != nil {
			return fmt.Errorf("add pool for %s: %w", token.Hex(), err)
		}
		existing[token] = struct{}{}
	}
	return nil
}
