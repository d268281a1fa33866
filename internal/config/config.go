// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type UpstreamConfig struct {
	BaseURL              string `yaml:"base_url,omitempty"`
	TimeoutSeconds       int    `yaml:"timeout_seconds"`
	MaxConcurrentFetches int    `yaml:"max_concurrent_fetches"`
	Token                string `yaml:"-"` // Loaded from environment
}

type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	Filename string `yaml:"filename"`
}

type Config struct {
	App struct {
		Name        string `yaml:"name"`
		Environment string `yaml:"environment"`
		Port        int    `yaml:"port"`
	} `yaml:"app"`

	Upstream UpstreamConfig `yaml:"upstream"`
	Database DatabaseConfig `yaml:"database"`

	Refresh struct {
		PropertiesCron string `yaml:"properties_cron,omitempty"`
	} `yaml:"refresh"`
}

// Load loads both .env and yaml configuration
func Load(configPath string) (*Config, error) {
	// Load .env file if it exists
	envPath := filepath.Join(filepath.Dir(configPath), ".env")
	if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	// Sensitive values come from the environment, never from YAML
	cfg.Upstream.Token = os.Getenv("HOSTFOLIO_API_TOKEN")

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app name is required")
	}
	if c.App.Port == 0 {
		return fmt.Errorf("app port is required")
	}

	if c.Upstream.BaseURL != "" {
		if c.Upstream.Token == "" {
			return fmt.Errorf("HOSTFOLIO_API_TOKEN is required when upstream is configured")
		}
		return nil
	}

	// No upstream: the local SQLite source is the system of record
	switch c.Database.Driver {
	case "sqlite":
		if c.Database.Filename == "" {
			return fmt.Errorf("database filename is required for sqlite")
		}
	case "":
		return fmt.Errorf("either upstream.base_url or database.driver is required")
	default:
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}

	return nil
}

// UpstreamTimeout returns the configured per-fetch timeout, or zero when
// unset so callers apply their default.
func (c *Config) UpstreamTimeout() time.Duration {
	return time.Duration(c.Upstream.TimeoutSeconds) * time.Second
}
