// Package config loads orglens settings from config files and the
// environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config represents the orglens configuration
type Config struct {
	// CacheDir is the root directory for snapshot caches and the org registry
	CacheDir string `mapstructure:"cache_dir"`

	// APIVersion is the Salesforce REST API version used for sync
	APIVersion string `mapstructure:"api_version"`

	// Org selects a registered org alias when more than one is cached
	Org string `mapstructure:"org"`

	Serve ServeConfig `mapstructure:"serve"`
	Redis RedisConfig `mapstructure:"redis"`
	Log   LogConfig   `mapstructure:"log"`
}

// ServeConfig holds serve-mode settings
type ServeConfig struct {
	// Address is the listen address for the HTTP API and MCP endpoint
	Address string `mapstructure:"address"`
}

// RedisConfig holds render-cache settings. An empty Addr keeps the
// cache in process memory.
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// Load reads configuration from orglens.yaml and the environment.
// Missing config files are fine; defaults cover everything.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("cache_dir", defaultCacheDir())
	v.SetDefault("api_version", "v60.0")
	v.SetDefault("org", "")
	v.SetDefault("serve.address", ":7099")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", 10*time.Minute)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)

	v.SetConfigName("orglens")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
	}

	// ORGLENS_CACHE_DIR, ORGLENS_SERVE_ADDRESS, and so on
	v.SetEnvPrefix("ORGLENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// defaultCacheDir returns ~/.orglens, falling back to a relative
// directory when the home directory cannot be resolved.
func defaultCacheDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".orglens"
	}
	return filepath.Join(home, ".orglens")
}

func validateConfig(config *Config) error {
	if config.CacheDir == "" {
		return fmt.Errorf("cache_dir cannot be empty")
	}

	if !strings.HasPrefix(config.APIVersion, "v") {
		return fmt.Errorf("invalid api_version %q: must look like v60.0", config.APIVersion)
	}

	if !strings.Contains(config.Serve.Address, ":") {
		return fmt.Errorf("invalid serve.address %q: must contain a port, e.g. :7099", config.Serve.Address)
	}

	if config.Redis.TTL < 0 {
		return fmt.Errorf("redis.ttl cannot be negative")
	}

	if _, err := zapcore.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log.level %q: %w", config.Log.Level, err)
	}

	return nil
}

// Build constructs a zap logger from the log settings.
func (c LogConfig) Build() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", c.Level, err)
	}

	var cfg zap.Config
	if c.Development {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(level)

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	return logger, nil
}
