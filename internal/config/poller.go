package config

import (
	"errors"
	"time"
)

const defaultStatsPollingInterval = 5 * time.Minute

type PollerConfig struct {
	StatsPollingInterval time.Duration `mapstructure:"stats-polling-interval"`
	// MassUpdatePollingInterval folds rewards into every pool periodically.
	// Zero disables it.
	MassUpdatePollingInterval time.Duration `mapstructure:"mass-update-polling-interval"`
}

func (cfg *PollerConfig) Validate() error {
	if cfg.StatsPollingInterval <= 0 {
		cfg.StatsPollingInterval = defaultStatsPollingInterval
	}

	if cfg.MassUpdatePollingInterval < 0 {
		return errors.New("mass-update-polling-interval cannot be negative")
	}

	return nil
}
