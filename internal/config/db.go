package config

import (
	"errors"
	"fmt"
)

const (
	DbTypeMemory = "memory"
	DbTypeMongo  = "mongo"
)

type DbConfig struct {
	Type     string `mapstructure:"type"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	DbName   string `mapstructure:"db-name"`
	Address  string `mapstructure:"address"`
}

func (cfg *DbConfig) Validate() error {
	switch cfg.Type {
	case "":
		cfg.Type = DbTypeMongo
	case DbTypeMemory:
		return nil
	case DbTypeMongo:
	default:
		return fmt.Errorf("unsupported db type %q", cfg.Type)
	}

	if cfg.Address == "" {
		return errors.New("database address cannot be empty")
	}

	if cfg.DbName == "" {
		return errors.New("database name cannot be empty")
	}

	return nil
}
