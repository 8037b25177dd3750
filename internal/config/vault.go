package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/pisfinance/pis-vault/internal/utils"
	"github.com/pisfinance/pis-vault/pkg"
)

const (
	ReleaseCurveStepped = "stepped"
	ReleaseCurveLinear  = "linear"

	defaultInitialLock             = 14 * 24 * time.Hour
	defaultReleaseInterval         = 7 * 24 * time.Hour
	defaultReleaseTranches         = 4
	defaultImmediateRewardPercent  = 40
	defaultEarlyExitPenaltyPercent = 40
	defaultDevFeeBps               = 724
)

type PoolConfig struct {
	StakedToken string `mapstructure:"staked-token"`
	Weight      uint64 `mapstructure:"weight"`
}

type VaultConfig struct {
	Owner       string `mapstructure:"owner"`
	Address     string `mapstructure:"address"`
	RewardToken string `mapstructure:"reward-token"`
	DevAddress  string `mapstructure:"dev-address"`

	InitialLock     time.Duration `mapstructure:"initial-lock"`
	ReleaseInterval time.Duration `mapstructure:"release-interval"`
	ReleaseTranches uint32        `mapstructure:"release-tranches"`
	ReleaseCurve    string        `mapstructure:"release-curve"`

	ImmediateRewardPercent  uint64 `mapstructure:"immediate-reward-percent"`
	EarlyExitPenaltyPercent uint64 `mapstructure:"early-exit-penalty-percent"`
	DevFeeBps               uint64 `mapstructure:"dev-fee-bps"`

	// EmissionPerSecond is an optional decimal amount pulled from
	// EmissionReserve every second on top of fee income.
	EmissionPerSecond string `mapstructure:"emission-per-second"`
	EmissionReserve   string `mapstructure:"emission-reserve"`

	// Pools are created once by the bootstrap sequence.
	Pools []PoolConfig `mapstructure:"pools"`
}

func (cfg *VaultConfig) Validate() error {
	for name, addr := range map[string]string{
		"owner":        cfg.Owner,
		"address":      cfg.Address,
		"reward-token": cfg.RewardToken,
		"dev-address":  cfg.DevAddress,
	} {
		if _, err := pkg.ParseAddress(addr); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}

	if cfg.InitialLock == 0 {
		cfg.InitialLock = defaultInitialLock
	}
	if cfg.InitialLock < 0 {
		return errors.New("initial-lock cannot be negative")
	}

	if cfg.ReleaseInterval == 0 {
		cfg.ReleaseInterval = defaultReleaseInterval
	}
	if cfg.ReleaseInterval < time.Second {
		return errors.New("release-interval must be at least one second")
	}

	if cfg.ReleaseTranches == 0 {
		cfg.ReleaseTranches = defaultReleaseTranches
	}

	if cfg.ReleaseCurve == "" {
		cfg.ReleaseCurve = ReleaseCurveStepped
	}
	if !utils.Contains([]string{ReleaseCurveStepped, ReleaseCurveLinear}, cfg.ReleaseCurve) {
		return fmt.Errorf("release-curve must be one of %q, %q", ReleaseCurveStepped, ReleaseCurveLinear)
	}

	if cfg.ImmediateRewardPercent == 0 {
		cfg.ImmediateRewardPercent = defaultImmediateRewardPercent
	}
	if cfg.ImmediateRewardPercent > utils.PercentBase {
		return errors.New("immediate-reward-percent cannot exceed 100")
	}

	if cfg.EarlyExitPenaltyPercent == 0 {
		cfg.EarlyExitPenaltyPercent = defaultEarlyExitPenaltyPercent
	}
	if cfg.EarlyExitPenaltyPercent > utils.PercentBase {
		return errors.New("early-exit-penalty-percent cannot exceed 100")
	}

	if cfg.DevFeeBps == 0 {
		cfg.DevFeeBps = defaultDevFeeBps
	}
	if cfg.DevFeeBps > utils.BpsBase {
		return errors.New("dev-fee-bps cannot exceed 10000")
	}

	if cfg.EmissionPerSecond != "" {
		if _, err := utils.ParseAmount(cfg.EmissionPerSecond); err != nil {
			return fmt.Errorf("emission-per-second: %w", err)
		}
		if _, err := pkg.ParseAddress(cfg.EmissionReserve); err != nil {
			return fmt.Errorf("emission-reserve: %w", err)
		}
	}

	for i, p := range cfg.Pools {
		if _, err := pkg.ParseAddress(p.StakedToken); err != nil {
			return fmt.Errorf("pools[%d]: %w", i, err)
		}
	}

	return nil
}
