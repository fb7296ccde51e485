package providers

import (
	"github.com/status-im/token-aggregator/config"
)

// Registry is an immutable lookup over the configured data providers.
// Configuration order is preserved so selection is deterministic.
type Registry struct {
	providers []config.ProviderConfig
	byName    map[string]config.ProviderConfig
}

// NewRegistry builds a registry from validated provider configuration
func NewRegistry(providers []config.ProviderConfig) *Registry {
	byName := make(map[string]config.ProviderConfig, len(providers))
	for _, p := range providers {
		byName[p.Name] = p
	}
	return &Registry{
		providers: providers,
		byName:    byName,
	}
}

// ByName looks up a single provider
func (r *Registry) ByName(name string) (config.ProviderConfig, bool) {
	p, ok := r.byName[name]
	return p, ok
}

// All returns every configured provider in configuration order
func (r *Registry) All() []config.ProviderConfig {
	out := make([]config.ProviderConfig, len(r.providers))
	copy(out, r.providers)
	return out
}

// ByCategories returns providers matching any of the given categories.
// An empty list or a list containing "all" matches every provider.
func (r *Registry) ByCategories(categories []string) []config.ProviderConfig {
	if matchesAll(categories) {
		return r.All()
	}

	wanted := make(map[string]bool, len(categories))
	for _, c := range categories {
		wanted[c] = true
	}

	var out []config.ProviderConfig
	for _, p := range r.providers {
		if wanted[p.Category] {
			out = append(out, p)
		}
	}
	return out
}

// Names returns every provider name in configuration order
func (r *Registry) Names() []string {
	names := make([]string, len(r.providers))
	for i, p := range r.providers {
		names[i] = p.Name
	}
	return names
}

func matchesAll(categories []string) bool {
	if len(categories) == 0 {
		return true
	}
	for _, c := range categories {
		if c == config.CategoryAll {
			return true
		}
	}
	return false
}
