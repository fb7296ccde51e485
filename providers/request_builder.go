package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const defaultUserAgent = "Token-Aggregator/1.0"

// buildURL safely combines a base URL with a path
func buildURL(baseURL, path string) string {
	baseURL = strings.TrimRight(baseURL, "/")
	trimmedPath := strings.TrimLeft(path, "/")

	return baseURL + "/" + trimmedPath
}

// RequestBuilder assembles provider API requests
type RequestBuilder struct {
	baseURL    string
	apiPath    string
	httpMethod string
	params     map[string]string
	headers    map[string]string
	userAgent  string
}

// NewRequestBuilder creates a builder for one provider endpoint
func NewRequestBuilder(baseURL, apiPath string) *RequestBuilder {
	rb := &RequestBuilder{
		baseURL:    baseURL,
		apiPath:    apiPath,
		httpMethod: "GET",
		params:     make(map[string]string),
		headers:    make(map[string]string),
		userAgent:  defaultUserAgent,
	}

	rb.headers["Accept"] = "application/json"

	return rb
}

// With adds a query parameter
func (rb *RequestBuilder) With(key, value string) *RequestBuilder {
	rb.params[key] = value
	return rb
}

// WithParams adds every entry of the given map as a query parameter
func (rb *RequestBuilder) WithParams(params map[string]string) *RequestBuilder {
	for key, value := range params {
		rb.params[key] = value
	}
	return rb
}

// WithHeader adds a custom HTTP header
func (rb *RequestBuilder) WithHeader(name, value string) *RequestBuilder {
	rb.headers[name] = value
	return rb
}

// WithHeaders adds every entry of the given map as an HTTP header
func (rb *RequestBuilder) WithHeaders(headers map[string]string) *RequestBuilder {
	for name, value := range headers {
		rb.headers[name] = value
	}
	return rb
}

// WithUserAgent sets the User-Agent header
func (rb *RequestBuilder) WithUserAgent(userAgent string) *RequestBuilder {
	rb.userAgent = userAgent
	return rb
}

// BuildURL builds the complete URL for the request
func (rb *RequestBuilder) BuildURL() string {
	fullPath := buildURL(rb.baseURL, rb.apiPath)

	query := url.Values{}
	for key, value := range rb.params {
		query.Add(key, value)
	}

	finalURL := fullPath
	if queryString := query.Encode(); queryString != "" {
		finalURL = fmt.Sprintf("%s?%s", finalURL, queryString)
	}

	return finalURL
}

// Build creates an http.Request bound to the given context
func (rb *RequestBuilder) Build(ctx context.Context) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, rb.httpMethod, rb.BuildURL(), nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", rb.userAgent)

	for key, value := range rb.headers {
		req.Header.Set(key, value)
	}

	return req, nil
}
