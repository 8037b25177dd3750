package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Db      DbConfig      `mapstructure:"db"`
	Vault   VaultConfig   `mapstructure:"vault"`
	Fee     FeeConfig     `mapstructure:"fee"`
	Ledger  LedgerConfig  `mapstructure:"ledger"`
	Server  ServerConfig  `mapstructure:"server"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Poller  PollerConfig  `mapstructure:"poller"`
	// Queue is optional, events are only logged when it is absent.
	Queue *QueueConfig `mapstructure:"queue"`
}

func (cfg *Config) Validate() error {
	if err := cfg.Db.Validate(); err != nil {
		return fmt.Errorf("db: %w", err)
	}

	if err := cfg.Vault.Validate(); err != nil {
		return fmt.Errorf("vault: %w", err)
	}

	if err := cfg.Fee.Validate(); err != nil {
		return fmt.Errorf("fee: %w", err)
	}

	if err := cfg.Ledger.Validate(); err != nil {
		return fmt.Errorf("ledger: %w", err)
	}

	if err := cfg.Server.Validate(); err != nil {
		return fmt.Errorf("server: %w", err)
	}

	if err := cfg.Metrics.Validate(); err != nil {
		return fmt.Errorf("metrics: %w", err)
	}

	if err := cfg.Poller.Validate(); err != nil {
		return fmt.Errorf("poller: %w", err)
	}

	if cfg.Queue != nil {
		if err := cfg.Queue.Validate(); err != nil {
			return fmt.Errorf("queue: %w", err)
		}
	}

	return nil
}

// New reads the config file at cfgFile. Every key can be overridden by an
// environment variable, e.g. VAULT__DEV_ADDRESS for vault.dev-address.
func New(cfgFile string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(cfgFile)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "__", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
