package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	path := writeConfigFile(t, `
cache:
  enabled: true
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 5*time.Minute, cfg.Cache.DefaultExpiration)
	assert.Equal(t, 10*time.Minute, cfg.Cache.CleanupInterval)
	assert.Equal(t, 10, cfg.Enrichment.MaxSources)
	assert.Equal(t, int64(50), cfg.Enrichment.BatchConcurrency)
	assert.Equal(t, 30*time.Second, cfg.Enrichment.FetchTimeout)

	// Global and default rate limit policies must always be usable
	assert.Greater(t, cfg.RateLimits.Global.RequestsPerSecond, 0.0)
	assert.GreaterOrEqual(t, cfg.RateLimits.Global.Burst, 1)
	assert.Greater(t, cfg.RateLimits.Default.RequestsPerSecond, 0.0)
}

func TestLoadConfig_Providers(t *testing.T) {
	path := writeConfigFile(t, `
providers:
  - name: coingecko
    category: price
    base_url: https://api.coingecko.com/api/v3
    endpoint: /coins/{address}
    reliability: 0.95
  - name: goplus
    category: security
    base_url: https://api.gopluslabs.io/api/v1
    endpoint: /token_security/{address}
    reliability: 0.9
rate_limits:
  providers:
    coingecko:
      requests_per_second: 10
      burst: 20
      adaptive: true
      priority: 1.0
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Len(t, cfg.Providers, 2)

	assert.Equal(t, "coingecko", cfg.Providers[0].Name)
	assert.Equal(t, CategoryPrice, cfg.Providers[0].Category)

	policy := cfg.RateLimits.PolicyFor("coingecko")
	assert.Equal(t, 10.0, policy.RequestsPerSecond)
	assert.Equal(t, 20, policy.Burst)
	assert.True(t, policy.Adaptive)

	// Unknown providers fall back to the default policy
	fallback := cfg.RateLimits.PolicyFor("unknown-provider")
	assert.Equal(t, cfg.RateLimits.Default, fallback)
}

func TestLoadConfig_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name: "unknown category",
			content: `
providers:
  - name: mystery
    category: astrology
    base_url: https://example.com
    reliability: 0.5
`,
		},
		{
			name: "bad reliability",
			content: `
providers:
  - name: p1
    category: price
    base_url: https://example.com
    reliability: 1.5
`,
		},
		{
			name: "duplicate provider",
			content: `
providers:
  - name: p1
    category: price
    base_url: https://example.com
    reliability: 0.5
  - name: p1
    category: social
    base_url: https://example.org
    reliability: 0.5
`,
		},
		{
			name: "negative rate",
			content: `
rate_limits:
  providers:
    p1:
      requests_per_second: -5
      burst: 1
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfigFile(t, tt.content)
			_, err := LoadConfig(path)
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig("does-not-exist.yaml")
	assert.Error(t, err)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.True(t, cfg.Cache.Enabled)
}

func TestRateLimitPolicy_Validate(t *testing.T) {
	valid := RateLimitPolicy{RequestsPerSecond: 2, Burst: 4, Priority: 0.8}
	assert.NoError(t, valid.Validate())

	assert.Error(t, RateLimitPolicy{RequestsPerSecond: 0, Burst: 1}.Validate())
	assert.Error(t, RateLimitPolicy{RequestsPerSecond: 1, Burst: 0}.Validate())
	assert.Error(t, RateLimitPolicy{RequestsPerSecond: 1, Burst: 1, Priority: 2}.Validate())
}
