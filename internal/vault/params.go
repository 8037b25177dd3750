package vault

import (
	"fmt"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"

	"github.com/pisfinance/pis-vault/internal/config"
	"github.com/pisfinance/pis-vault/internal/utils"
	"github.com/pisfinance/pis-vault/pkg"
)

// AccumulatorScale is the fixed point scale of accRewardPerShare and of the
// global reward per weight index.
var AccumulatorScale = sdkmath.NewInt(1_000_000_000_000)

type Curve string

const (
	// CurveStepped unlocks one tranche per release interval.
	CurveStepped Curve = config.ReleaseCurveStepped
	// CurveLinear unlocks pro rata by seconds after the initial lock.
	CurveLinear Curve = config.ReleaseCurveLinear
)

type Params struct {
	// Address is the account that holds staked tokens and rewards.
	Address     common.Address
	RewardToken common.Address
	// DevAddress receives the dev fee and early exit penalties.
	DevAddress common.Address

	InitialLock     time.Duration
	ReleaseInterval time.Duration
	ReleaseTranches uint32
	Curve           Curve

	ImmediateRewardPercent  uint64
	EarlyExitPenaltyPercent uint64
	DevFeeBps               uint64

	EmissionPerSecond sdkmath.Int
	EmissionReserve   common.Address
}

// DefaultParams returns the production schedule: two weeks of lock, then four
// weekly tranches, 40% of every reward paid immediately and a 7.24% dev fee.
func DefaultParams(address, rewardToken, devAddress common.Address) Params {
	return Params{
		Address:                 address,
		RewardToken:             rewardToken,
		DevAddress:              devAddress,
		InitialLock:             14 * 24 * time.Hour,
		ReleaseInterval:         7 * 24 * time.Hour,
		ReleaseTranches:         4,
		Curve:                   CurveStepped,
		ImmediateRewardPercent:  40,
		EarlyExitPenaltyPercent: 40,
		DevFeeBps:               724,
		EmissionPerSecond:       sdkmath.ZeroInt(),
	}
}

// ParamsFromConfig converts a validated vault config.
func ParamsFromConfig(cfg *config.VaultConfig) (Params, error) {
	address, err := pkg.ParseAddress(cfg.Address)
	if err != nil {
		return Params{}, fmt.Errorf("vault address: %w", err)
	}
	rewardToken, err := pkg.ParseAddress(cfg.RewardToken)
	if err != nil {
		return Params{}, fmt.Errorf("reward token: %w", err)
	}
	devAddress, err := pkg.ParseAddress(cfg.DevAddress)
	if err != nil {
		return Params{}, fmt.Errorf("dev address: %w", err)
	}

	p := DefaultParams(address, rewardToken, devAddress)
	p.InitialLock = cfg.InitialLock
	p.ReleaseInterval = cfg.ReleaseInterval
	p.ReleaseTranches = cfg.ReleaseTranches
	p.Curve = Curve(cfg.ReleaseCurve)
	p.ImmediateRewardPercent = cfg.ImmediateRewardPercent
	p.EarlyExitPenaltyPercent = cfg.EarlyExitPenaltyPercent
	p.DevFeeBps = cfg.DevFeeBps

	if cfg.EmissionPerSecond != "" {
		rate, err := utils.ParseAmount(cfg.EmissionPerSecond)
		if err != nil {
			return Params{}, fmt.Errorf("emission per second: %w", err)
		}
		reserve, err := pkg.ParseAddress(cfg.EmissionReserve)
		if err != nil {
			return Params{}, fmt.Errorf("emission reserve: %w", err)
		}
		p.EmissionPerSecond = rate
		p.EmissionReserve = reserve
	}

	return p, p.Validate()
}

func (p Params) Validate() error {
	if p.Address == (common.Address{}) || p.RewardToken == (common.Address{}) {
		return fmt.Errorf("vault and reward token addresses are required")
	}
	if p.DevAddress == (common.Address{}) {
		return fmt.Errorf("dev address is required")
	}
	if p.ReleaseTranches == 0 {
		return fmt.Errorf("release tranches must be positive")
	}
	if p.ReleaseInterval < time.Second {
		return fmt.Errorf("release interval must be at least one second")
	}
	if p.InitialLock < 0 {
		return fmt.Errorf("initial lock cannot be negative")
	}
	if p.Curve != CurveStepped && p.Curve != CurveLinear {
		return fmt.Errorf("unknown release curve %q", p.Curve)
	}
	if p.ImmediateRewardPercent > utils.PercentBase || p.EarlyExitPenaltyPercent > utils.PercentBase {
		return fmt.Errorf("percentages cannot exceed 100")
	}
	if p.DevFeeBps > utils.BpsBase {
		return fmt.Errorf("dev fee cannot exceed %d bps", utils.BpsBase)
	}
	if p.emits() && p.EmissionReserve == (common.Address{}) {
		return fmt.Errorf("emission requires a reserve account")
	}
	return nil
}

func (p Params) lockSeconds() int64 {
	return int64(p.InitialLock / time.Second)
}

func (p Params) intervalSeconds() int64 {
	return int64(p.ReleaseInterval / time.Second)
}

func (p Params) emits() bool {
	return !p.EmissionPerSecond.IsNil() && p.EmissionPerSecond.IsPositive()
}
