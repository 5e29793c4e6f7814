// Package smoke drives a running server with generated what-if cases and checks
// every answer against a local engine.
package smoke

import (
	"errors"
	"time"
)

// Defaults for a smoke run.
const (
	DefaultBaseURL = "http://localhost:9080"
	DefaultCases   = 500
	DefaultWorkers = 8
	DefaultTimeout = 10 * time.Second
)

// Sentinel errors.
var (
	ErrUnhealthy = errors.New("service unhealthy")
	ErrMismatch  = errors.New("server answers disagree with local engine")
)

// Config holds the configuration for a smoke run.
type Config struct {
	BaseURL string
	Cases   int
	Workers int
	Timeout time.Duration
	// Seed makes the generated cases reproducible.
	Seed uint64
}

func (c *Config) withDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Cases <= 0 {
		c.Cases = DefaultCases
	}
	if c.Workers <= 0 {
		c.Workers = DefaultWorkers
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
}

// Stats summarizes a smoke run.
type Stats struct {
	Cases      int           `json:"cases"`
	Succeeded  int64         `json:"succeeded"`
	Failed     int64         `json:"failed"`
	Mismatched int64         `json:"mismatched"`
	Duration   time.Duration `json:"duration"`
	Errors     []string      `json:"errors,omitempty"`
}
