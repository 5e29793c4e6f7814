package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/okian/creatorscore/pkg/logger"
	"github.com/okian/creatorscore/pkg/metrics"
	"github.com/sony/gobreaker"
)

const maxErrorBody = 4 << 10

// breakerSuccess keeps client-side errors from tripping the breaker.
func breakerSuccess(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return true
	}
	var apiErr *APIError
	return errors.As(err, &apiErr) && !apiErr.IsRetryable()
}

// doRequest performs a single HTTP request.
func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set(c.apiKeyHeader, c.apiKey)
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		return nil, &APIError{
			Provider:   c.name,
			StatusCode: resp.StatusCode,
			Message:    http.StatusText(resp.StatusCode),
			Body:       body,
		}
	}

	return body, nil
}

// doWithRetry performs a request with exponential backoff retry.
func (c *Client) doWithRetry(ctx context.Context, method, path string, query url.Values) ([]byte, error) {
	var lastErr error
	backoff := c.retryBackoff

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			// Add jitter: backoff * (0.5 to 1.5)
			jitter := backoff/2 + time.Duration(rand.Int64N(int64(backoff)))
			c.logger.Debug(ctx, "retrying request",
				logger.String("provider", c.name),
				logger.Int("attempt", attempt),
				logger.Duration("backoff", jitter),
				logger.String("path", path),
			)

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(jitter):
			}

			backoff *= 2
		}

		body, err := c.doRequest(ctx, method, path, query)
		if err == nil {
			return body, nil
		}

		lastErr = err
		if ctx.Err() != nil {
			return nil, err
		}

		var apiErr *APIError
		if errors.As(err, &apiErr) && !apiErr.IsRetryable() {
			return nil, err
		}
	}

	return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
}

// get performs a GET through the breaker and decodes the JSON body into result.
func (c *Client) get(ctx context.Context, path string, query url.Values, result any) error {
	if !c.Configured() {
		return fmt.Errorf("%s: %w", c.name, ErrNotConfigured)
	}

	start := time.Now()
	out, err := c.breaker.Execute(func() (interface{}, error) {
		return c.doWithRetry(ctx, http.MethodGet, path, query)
	})
	latencyMs := float64(time.Since(start).Milliseconds())
	metrics.UpdateBreakerState(c.name, int(c.breaker.State()))

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.RecordUpstreamRequest(c.name, "rejected", latencyMs)
			return fmt.Errorf("%s: %w: %w", c.name, ErrUnavailable, err)
		}
		metrics.RecordUpstreamRequest(c.name, outcome(err), latencyMs)
		logFn := c.logger.Warn
		if errors.Is(err, ErrNotFound) {
			logFn = c.logger.Debug
		}
		logFn(ctx, "upstream request failed",
			logger.String("provider", c.name),
			logger.String("path", path),
			logger.Error(err),
		)
		return err
	}
	metrics.RecordUpstreamRequest(c.name, "success", latencyMs)

	body, _ := out.([]byte)
	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("%s: unmarshal response: %w", c.name, err)
	}
	return nil
}

func outcome(err error) string {
	var apiErr *APIError
	switch {
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.As(err, &apiErr):
		return "http_" + strconv.Itoa(apiErr.StatusCode)
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "error"
	}
}
