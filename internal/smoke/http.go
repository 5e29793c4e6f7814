package smoke

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/okian/creatorscore/internal/domain/ratio"
)

// httpClient wraps http.Client with a base URL.
type httpClient struct {
	client  *http.Client
	baseURL string
}

func newHTTPClient(baseURL string, timeout time.Duration) *httpClient {
	return &httpClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

func (c *httpClient) do(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, bytes.TrimSpace(data))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// thresholds reads the calibration the server is running with from /stats.
func (c *httpClient) thresholds(ctx context.Context) (ratio.Thresholds, error) {
	var stats struct {
		Version string  `json:"thresholdsVersion"`
		Low     float64 `json:"lowThreshold"`
		High    float64 `json:"highThreshold"`
	}
	if err := c.do(ctx, http.MethodGet, "/stats", nil, &stats); err != nil {
		return ratio.Thresholds{}, err
	}
	t := ratio.Thresholds{Version: stats.Version, Low: stats.Low, High: stats.High}
	if err := t.Validate(); err != nil {
		return ratio.Thresholds{}, fmt.Errorf("server thresholds: %w", err)
	}
	return t, nil
}

type simulateResponse struct {
	Simulation ratio.Simulation `json:"simulation"`
}

func (c *httpClient) simulate(ctx context.Context, tc Case) (ratio.Simulation, error) {
	var out simulateResponse
	err := c.do(ctx, http.MethodPost, "/api/simulate", tc, &out)
	return out.Simulation, err
}
