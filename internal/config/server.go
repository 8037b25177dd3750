package config

import (
	"errors"
	"time"
)

const defaultServerTimeout = 30 * time.Second

type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	WriteTimeout time.Duration `mapstructure:"write-timeout"`
	ReadTimeout  time.Duration `mapstructure:"read-timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle-timeout"`
}

func (cfg *ServerConfig) Validate() error {
	if cfg.Host == "" {
		return errors.New("host cannot be empty")
	}

	if cfg.Port < 0 || cfg.Port > 65535 {
		return errors.New("port must be between 0 and 65535")
	}

	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = defaultServerTimeout
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = defaultServerTimeout
	}
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = defaultServerTimeout
	}

	return nil
}
