package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/status-im/token-aggregator/aggregator"
	"github.com/status-im/token-aggregator/config"
	"github.com/status-im/token-aggregator/interfaces"
	"github.com/status-im/token-aggregator/metrics"
)

// Fetcher executes provider API calls and decodes the payloads. One
// retrying client is shared; per-provider metrics are attached per
// call through the status handler.
type Fetcher struct {
	registry *Registry
	client   *Client
	auth     interfaces.AuthProvider

	// statusHandler overrides the per-provider metrics writer in tests
	statusHandler func(provider string) StatusHandler
}

// NewFetcher creates a fetcher over the given registry and client
func NewFetcher(registry *Registry, client *Client, auth interfaces.AuthProvider) *Fetcher {
	return &Fetcher{
		registry: registry,
		client:   client,
		auth:     auth,
		statusHandler: func(provider string) StatusHandler {
			return metrics.NewMetricsWriter(provider)
		},
	}
}

// Fetch queries one provider for one token and returns the decoded
// payload. Rate-limit failures unwrap to ErrRateLimited.
func (f *Fetcher) Fetch(ctx context.Context, providerName, tokenAddress, symbol string) (aggregator.RawPayload, time.Duration, error) {
	provider, ok := f.registry.ByName(providerName)
	if !ok {
		return nil, 0, fmt.Errorf("unknown provider %q", providerName)
	}

	req, err := f.buildRequest(ctx, provider, tokenAddress, symbol)
	if err != nil {
		return nil, 0, fmt.Errorf("building request for %s: %w", providerName, err)
	}

	client := *f.client
	client.status = f.statusHandler(providerName)

	body, duration, err := client.Execute(req)
	if err != nil {
		return nil, duration, err
	}

	payload, err := decodePayload(body)
	if err != nil {
		return nil, duration, fmt.Errorf("decoding %s response: %w", providerName, err)
	}

	return payload, duration, nil
}

func (f *Fetcher) buildRequest(ctx context.Context, provider config.ProviderConfig, tokenAddress, symbol string) (*http.Request, error) {
	endpoint := substitutePlaceholders(provider.Endpoint, tokenAddress, symbol)

	rb := NewRequestBuilder(provider.BaseURL, endpoint)
	for key, value := range provider.Query {
		rb.With(key, substitutePlaceholders(value, tokenAddress, symbol))
	}

	if f.auth != nil {
		rb.WithParams(f.auth.GetAuthParams(provider.Name))
		rb.WithHeaders(f.auth.GetAuthHeaders(provider.Name))
	}

	return rb.Build(ctx)
}

// decodePayload parses a JSON body. Top-level arrays are wrapped under
// a "data" key so downstream extraction always sees an object.
func decodePayload(body []byte) (aggregator.RawPayload, error) {
	var raw interface{}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, err
	}

	switch v := raw.(type) {
	case map[string]interface{}:
		return v, nil
	case []interface{}:
		return aggregator.RawPayload{"data": v}, nil
	default:
		return nil, fmt.Errorf("unexpected top-level JSON type %T", raw)
	}
}

// substitutePlaceholders fills {address} and {symbol} in endpoint
// templates and query values
func substitutePlaceholders(template, tokenAddress, symbol string) string {
	r := strings.NewReplacer(
		"{address}", tokenAddress,
		"{symbol}", symbol,
	)
	return r.Replace(template)
}
