package config

import (
	"errors"
	"time"
)

const (
	defaultExchange         = "pis-vault-events"
	defaultMaxRetryAttempts = 5
	defaultRetryDelay       = 500 * time.Millisecond
	defaultPublishTimeout   = 5 * time.Second
)

type QueueConfig struct {
	Url              string        `mapstructure:"url"`
	QueueUser        string        `mapstructure:"queue-user"`
	QueuePassword    string        `mapstructure:"queue-password"`
	Exchange         string        `mapstructure:"exchange"`
	MaxRetryAttempts uint          `mapstructure:"max-retry-attempts"`
	RetryDelay       time.Duration `mapstructure:"retry-delay"`
	PublishTimeout   time.Duration `mapstructure:"publish-timeout"`
}

func (cfg *QueueConfig) Validate() error {
	if cfg.Url == "" {
		return errors.New("url cannot be empty")
	}

	if cfg.QueueUser == "" {
		return errors.New("queue-user cannot be empty")
	}

	if cfg.QueuePassword == "" {
		return errors.New("queue-password cannot be empty")
	}

	if cfg.Exchange == "" {
		cfg.Exchange = defaultExchange
	}
	if cfg.MaxRetryAttempts == 0 {
		cfg.MaxRetryAttempts = defaultMaxRetryAttempts
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = defaultRetryDelay
	}
	if cfg.PublishTimeout <= 0 {
		cfg.PublishTimeout = defaultPublishTimeout
	}

	return nil
}
