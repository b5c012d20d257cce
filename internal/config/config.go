package config

import (
	"fmt"
	"slices"

	"github.com/caarlos0/env/v11"
	"go.uber.org/zap/zapcore"
)

// Storage backends a character repository can be built from
const (
	StorageFile   = "file"
	StorageRedis  = "redis"
	StorageSQLite = "sqlite"
	StorageMemory = "memory"
)

var storageKinds = []string{StorageFile, StorageRedis, StorageSQLite, StorageMemory}

// Config holds all configuration for the application
type Config struct {
	Storage StorageConfig
	Redis   RedisConfig

	// RulesPath replaces the bundled rule tables when set
	RulesPath string `env:"SHEET_RULES_PATH"`
	LogLevel  string `env:"SHEET_LOG_LEVEL" envDefault:"warn"`
	// Roll shows rolled ability scores as suggestions during setup
	Roll bool `env:"SHEET_ROLL_SCORES" envDefault:"false"`
}

// StorageConfig selects where character records live
type StorageConfig struct {
	Kind       string `env:"SHEET_STORAGE" envDefault:"file"`
	DataDir    string `env:"SHEET_DATA_DIR" envDefault:"characters"`
	SQLitePath string `env:"SHEET_SQLITE_PATH" envDefault:"characters.db"`
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	URL string `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values env tags cannot express
func (c *Config) Validate() error {
	if !slices.Contains(storageKinds, c.Storage.Kind) {
		return fmt.Errorf("SHEET_STORAGE must be one of %v, got %q", storageKinds, c.Storage.Kind)
	}
	if c.Storage.Kind == StorageFile && c.Storage.DataDir == "" {
		return fmt.Errorf("SHEET_DATA_DIR is required for file storage")
	}
	if c.Storage.Kind == StorageSQLite && c.Storage.SQLitePath == "" {
		return fmt.Errorf("SHEET_SQLITE_PATH is required for sqlite storage")
	}
	if c.Storage.Kind == StorageRedis && c.Redis.URL == "" {
		return fmt.Errorf("REDIS_URL is required for redis storage")
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel
func (c *Config) Level() (zapcore.Level, error) {
	lvl, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return lvl, fmt.Errorf("SHEET_LOG_LEVEL: %w", err)
	}
	return lvl, nil
}
