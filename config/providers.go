package config

import (
	"fmt"
	"strings"
)

// Provider categories. A provider belongs to exactly one category;
// enrichment requests may ask for any subset or "all".
const (
	CategoryAll        = "all"
	CategoryPrice      = "price"
	CategoryBlockchain = "blockchain"
	CategoryDeFi       = "defi"
	CategorySocial     = "social"
	CategorySecurity   = "security"
	CategoryWhale      = "whale"
)

var knownCategories = map[string]bool{
	CategoryPrice:      true,
	CategoryBlockchain: true,
	CategoryDeFi:       true,
	CategorySocial:     true,
	CategorySecurity:   true,
	CategoryWhale:      true,
}

// ProviderConfig describes one external data provider: where to fetch
// from and how much to trust it. Endpoint is a path template where
// {address} and {symbol} are substituted per request.
type ProviderConfig struct {
	Name     string `yaml:"name"`
	Category string `yaml:"category"`

	BaseURL  string            `yaml:"base_url"`
	Endpoint string            `yaml:"endpoint"`
	Query    map[string]string `yaml:"query"`

	// Reliability static trust weight in [0..1] used to bias fusion
	// toward historically dependable sources
	Reliability float64 `yaml:"reliability"`
}

// Validate checks one provider entry
func (p *ProviderConfig) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	if !knownCategories[p.Category] {
		return fmt.Errorf("unknown category %q", p.Category)
	}
	if p.BaseURL == "" {
		return fmt.Errorf("base_url is required")
	}
	if !strings.HasPrefix(p.BaseURL, "http://") && !strings.HasPrefix(p.BaseURL, "https://") {
		return fmt.Errorf("base_url must be http(s), got %q", p.BaseURL)
	}
	if p.Reliability < 0 || p.Reliability > 1 {
		return fmt.Errorf("reliability must be in [0..1], got %f", p.Reliability)
	}
	return nil
}

// CredentialConfig describes how to authenticate against one provider.
// Exactly one of Header or Param names the field carrying the token.
type CredentialConfig struct {
	// Header request header name carrying the token (e.g. "x-cg-pro-api-key")
	Header string `yaml:"header"`

	// Param query parameter name carrying the token
	Param string `yaml:"param"`

	// Token the credential itself. TokensFile takes precedence if set.
	Token string `yaml:"token"`

	// TokensFile path to a file containing the token
	TokensFile string `yaml:"tokens_file"`
}

// StreamConfig configures the optional live-quote websocket feed
type StreamConfig struct {
	Enabled bool   `yaml:"enabled"`
	WSURL   string `yaml:"ws_url"`

	// QuoteCurrency pair suffix for ticker subscriptions (e.g. "USDT")
	QuoteCurrency string `yaml:"quote_currency"`
}
