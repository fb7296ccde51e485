package providers

import (
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// ErrRateLimited marks failures caused by provider-side throttling so
// callers can report the violation to the rate coordinator
var ErrRateLimited = errors.New("provider rate limit exceeded")

// StatusHandler receives the outcome of every HTTP attempt
type StatusHandler interface {
	// OnRequest handles a request with its status result
	OnRequest(status string)
	// OnRetry handles retry events
	OnRetry()
}

// RetryOptions configures retry behavior for HTTP requests
type RetryOptions struct {
	MaxRetries        int
	BaseBackoff       time.Duration
	LogPrefix         string
	ConnectionTimeout time.Duration // Timeout for establishing connection
	RequestTimeout    time.Duration // Total request timeout including reading response
}

// DefaultRetryOptions returns default retry options
func DefaultRetryOptions() RetryOptions {
	return RetryOptions{
		MaxRetries:        3,
		BaseBackoff:       1000 * time.Millisecond,
		LogPrefix:         "Providers",
		ConnectionTimeout: 10 * time.Second,
		RequestTimeout:    30 * time.Second,
	}
}

// Client wraps an HTTP client with retries and optional request
// pacing. The pacer smooths bursts at the transport level; adaptive
// per-provider budgeting happens in the rate coordinator above it.
type Client struct {
	client *http.Client
	opts   RetryOptions
	status StatusHandler
	pacer  *rate.Limiter
}

// NewClient creates a retrying HTTP client. handler and pacer may be
// nil.
func NewClient(opts RetryOptions, handler StatusHandler, pacer *rate.Limiter) *Client {
	client := &http.Client{
		Timeout: opts.RequestTimeout,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout: opts.ConnectionTimeout,
			}).DialContext,
		},
	}

	return &Client{
		client: client,
		opts:   opts,
		status: handler,
		pacer:  pacer,
	}
}

// Execute performs the request with retry logic and returns the
// response body and the duration of the successful attempt
func (c *Client) Execute(req *http.Request) ([]byte, time.Duration, error) {
	var lastErr error

	for attempt := 0; attempt < c.opts.MaxRetries; attempt++ {
		if attempt > 0 {
			log.Printf("%s: Retry %d/%d after error: %v",
				c.opts.LogPrefix, attempt, c.opts.MaxRetries-1, lastErr)

			if c.status != nil {
				c.status.OnRetry()
			}

			backoffDuration := calculateBackoffWithJitter(c.opts.BaseBackoff, attempt)
			select {
			case <-req.Context().Done():
				return nil, 0, req.Context().Err()
			case <-time.After(backoffDuration):
			}
		}

		if c.pacer != nil {
			if err := c.pacer.Wait(req.Context()); err != nil {
				return nil, 0, fmt.Errorf("pacer wait failed: %w", err)
			}
		}

		requestStart := time.Now()
		resp, err := c.client.Do(req)
		requestDuration := time.Since(requestStart)

		if err != nil {
			lastErr = fmt.Errorf("request failed after %.2fs: %v", requestDuration.Seconds(), err)
			if c.status != nil {
				c.status.OnRequest("error")
			}
			continue
		}

		body, err := processResponse(resp, requestDuration)
		resp.Body.Close()

		if err != nil {
			if isRetryableStatus(resp.StatusCode) {
				lastErr = err
				if c.status != nil {
					if resp.StatusCode == http.StatusTooManyRequests {
						c.status.OnRequest("rate_limited")
					} else {
						c.status.OnRequest("error")
					}
				}
				continue
			}

			if c.status != nil {
				c.status.OnRequest("error")
			}
			return nil, requestDuration, err
		}

		if c.status != nil {
			c.status.OnRequest("success")
		}
		return body, requestDuration, nil
	}

	return nil, 0, fmt.Errorf("all %d attempts failed, last error: %w",
		c.opts.MaxRetries, lastErr)
}

// calculateBackoffWithJitter calculates backoff duration with jitter for retries
func calculateBackoffWithJitter(baseBackoff time.Duration, attempt int) time.Duration {
	if attempt <= 0 {
		return baseBackoff
	}

	multiplier := uint(1) << uint(attempt-1)
	backoff := time.Duration(float64(baseBackoff) * float64(multiplier))
	jitter := time.Duration(rand.Int63n(int64(backoff / 2)))
	return backoff + jitter
}

// processResponse reads and classifies the HTTP response
func processResponse(resp *http.Response, requestDuration time.Duration) ([]byte, error) {
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)

		if resp.StatusCode == http.StatusTooManyRequests {
			retryAfter := resp.Header.Get("Retry-After")
			return nil, fmt.Errorf("%w (status %d), retry after %q: %s",
				ErrRateLimited, resp.StatusCode, retryAfter, string(body))
		}

		return nil, fmt.Errorf("API request failed with status %d after %.2fs: %s",
			resp.StatusCode, requestDuration.Seconds(), string(body))
	}

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response: %v", err)
	}

	return responseBody, nil
}

// isRetryableStatus determines if a status code should trigger a retry
func isRetryableStatus(statusCode int) bool {
	return statusCode == http.StatusTooManyRequests ||
		statusCode == http.StatusInternalServerError ||
		statusCode == http.StatusBadGateway ||
		statusCode == http.StatusServiceUnavailable ||
		statusCode == http.StatusGatewayTimeout
}
