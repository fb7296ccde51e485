package providers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildURLJoinsBaseAndPath(t *testing.T) {
	rb := NewRequestBuilder("https://api.example.com/", "/v3/coins/ethereum")
	assert.Equal(t, "https://api.example.com/v3/coins/ethereum", rb.BuildURL())
}

func TestBuildURLEncodesParams(t *testing.T) {
	rb := NewRequestBuilder("https://api.example.com", "v1/quotes").
		With("symbol", "ETH USD").
		With("convert", "usd")

	url := rb.BuildURL()
	assert.Contains(t, url, "symbol=ETH+USD")
	assert.Contains(t, url, "convert=usd")
}

func TestBuildSetsHeaders(t *testing.T) {
	rb := NewRequestBuilder("https://api.example.com", "v1/token").
		WithHeader("X-API-Key", "secret").
		WithUserAgent("custom-agent")

	req, err := rb.Build(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "GET", req.Method)
	assert.Equal(t, "application/json", req.Header.Get("Accept"))
	assert.Equal(t, "secret", req.Header.Get("X-API-Key"))
	assert.Equal(t, "custom-agent", req.Header.Get("User-Agent"))
}

func TestWithParamsAndHeadersMerge(t *testing.T) {
	rb := NewRequestBuilder("https://api.example.com", "v1/token").
		WithParams(map[string]string{"apikey": "k1", "module": "token"}).
		WithHeaders(map[string]string{"X-One": "1", "X-Two": "2"})

	req, err := rb.Build(context.Background())
	require.NoError(t, err)

	query := req.URL.Query()
	assert.Equal(t, "k1", query.Get("apikey"))
	assert.Equal(t, "token", query.Get("module"))
	assert.Equal(t, "1", req.Header.Get("X-One"))
	assert.Equal(t, "2", req.Header.Get("X-Two"))
}
