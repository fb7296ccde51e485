package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration
type Config struct {
	Cache       CacheConfig                 `yaml:"cache"`
	RateLimits  RateLimitsConfig            `yaml:"rate_limits"`
	Providers   []ProviderConfig            `yaml:"providers"`
	Credentials map[string]CredentialConfig `yaml:"credentials"`
	Enrichment  EnrichmentConfig            `yaml:"enrichment"`
	Health      HealthConfig                `yaml:"health"`
	Stream      StreamConfig                `yaml:"stream"`
}

// CacheConfig configures the in-memory payload cache
type CacheConfig struct {
	// DefaultExpiration default expiration time for cache items
	DefaultExpiration time.Duration `yaml:"default_expiration"`

	// CleanupInterval interval for cleaning up expired items
	CleanupInterval time.Duration `yaml:"cleanup_interval"`

	// Enabled whether caching is enabled
	Enabled bool `yaml:"enabled"`
}

// EnrichmentConfig configures the enrichment orchestrator
type EnrichmentConfig struct {
	// MaxSources default cap on providers queried per enrichment
	MaxSources int `yaml:"max_sources"`

	// BatchConcurrency maximum number of concurrent enrichments in a batch
	BatchConcurrency int64 `yaml:"batch_concurrency"`

	// FetchTimeout per-provider fetch timeout
	FetchTimeout time.Duration `yaml:"fetch_timeout"`

	// CacheTTL time to live for cached provider payloads
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

// HealthConfig configures the passive health tracker
type HealthConfig struct {
	// SweepInterval how often silent providers are re-evaluated
	SweepInterval time.Duration `yaml:"sweep_interval"`

	// WindowSize number of recent outcomes kept per provider
	WindowSize int `yaml:"window_size"`
}

// LoadConfig reads and validates configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Cache.DefaultExpiration == 0 {
		c.Cache.DefaultExpiration = 5 * time.Minute
	}
	if c.Cache.CleanupInterval == 0 {
		c.Cache.CleanupInterval = 10 * time.Minute
	}
	if c.Enrichment.MaxSources <= 0 {
		c.Enrichment.MaxSources = 10
	}
	if c.Enrichment.BatchConcurrency <= 0 {
		c.Enrichment.BatchConcurrency = 50
	}
	if c.Enrichment.FetchTimeout <= 0 {
		c.Enrichment.FetchTimeout = 30 * time.Second
	}
	if c.Enrichment.CacheTTL <= 0 {
		c.Enrichment.CacheTTL = 30 * time.Second
	}
	if c.Health.SweepInterval <= 0 {
		c.Health.SweepInterval = time.Minute
	}
	if c.Health.WindowSize <= 0 {
		c.Health.WindowSize = 50
	}
	c.RateLimits.applyDefaults()
}

// Validate checks every provider policy at load time so a malformed
// entry fails startup instead of the first request that touches it
func (c *Config) Validate() error {
	if err := c.RateLimits.Validate(); err != nil {
		return err
	}

	seen := make(map[string]bool)
	for i := range c.Providers {
		p := &c.Providers[i]
		if err := p.Validate(); err != nil {
			return fmt.Errorf("provider %q: %w", p.Name, err)
		}
		if seen[p.Name] {
			return fmt.Errorf("duplicate provider name %q", p.Name)
		}
		seen[p.Name] = true
	}
	return nil
}

// DefaultConfig returns a configuration with all defaults applied,
// useful for tests and for running without a config file
func DefaultConfig() *Config {
	cfg := &Config{
		Cache: CacheConfig{Enabled: true},
	}
	cfg.applyDefaults()
	return cfg
}
