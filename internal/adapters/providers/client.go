// Package providers implements the upstream score, valuation and wallet lookups.
package providers

import (
	"net/http"
	"time"

	"github.com/okian/creatorscore/pkg/logger"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// Client defaults.
const (
	defaultTimeout        = 30 * time.Second
	defaultMaxRetries     = 3
	defaultRetryBackoff   = time.Second
	defaultBreakerFails   = 3
	defaultBreakerTimeout = 60 * time.Second
	defaultBreakerWindow  = 60 * time.Second
)

// Client is a small REST client shared by every upstream provider.
type Client struct {
	name         string
	baseURL      string
	apiKey       string
	apiKeyHeader string
	headers      map[string]string
	httpClient   *http.Client
	logger       logger.Logger

	maxRetries   int
	retryBackoff time.Duration

	limiter        *rate.Limiter
	breakerFails   uint32
	breakerTimeout time.Duration
	breaker        *gobreaker.CircuitBreaker
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// NewClient creates a REST client for one upstream. apiKey is sent in apiKeyHeader;
// an empty apiKey leaves the client unconfigured and every call fails fast with
// ErrNotConfigured.
func NewClient(name, baseURL, apiKeyHeader, apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		name:         name,
		baseURL:      baseURL,
		apiKey:       apiKey,
		apiKeyHeader: apiKeyHeader,
		headers:      map[string]string{},
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger:         logger.Nop(),
		maxRetries:     defaultMaxRetries,
		retryBackoff:   defaultRetryBackoff,
		breakerFails:   defaultBreakerFails,
		breakerTimeout: defaultBreakerTimeout,
	}

	for _, opt := range opts {
		opt(c)
	}

	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:     name,
		Interval: defaultBreakerWindow,
		Timeout:  c.breakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= c.breakerFails
		},
		IsSuccessful: breakerSuccess,
	})

	return c
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithRetries sets the retry configuration.
func WithRetries(max int, backoff time.Duration) ClientOption {
	return func(c *Client) {
		if max >= 0 {
			c.maxRetries = max
		}
		if backoff > 0 {
			c.retryBackoff = backoff
		}
	}
}

// WithRateLimit caps outgoing requests with a token bucket.
func WithRateLimit(rps float64, burst int) ClientOption {
	return func(c *Client) {
		if rps > 0 && burst > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
		}
	}
}

// WithBreaker sets how many consecutive failures open the breaker and how long it stays open.
func WithBreaker(maxFailures int, openFor time.Duration) ClientOption {
	return func(c *Client) {
		if maxFailures > 0 {
			c.breakerFails = uint32(maxFailures)
		}
		if openFor > 0 {
			c.breakerTimeout = openFor
		}
	}
}

// WithHeader adds a static header to every request.
func WithHeader(key, value string) ClientOption {
	return func(c *Client) {
		c.headers[key] = value
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) ClientOption {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// Name returns the upstream name used in logs and metrics.
func (c *Client) Name() string { return c.name }

// Configured reports whether the client has an API key.
func (c *Client) Configured() bool { return c.apiKey != "" }
