package providers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Sentinel kinds for provider errors.
var (
	// ErrNotConfigured means the provider has no API key and was skipped.
	ErrNotConfigured = errors.New("provider not configured")
	// ErrNotFound means the upstream answered but had no usable data.
	ErrNotFound = errors.New("not found")
	// ErrUnavailable means the circuit breaker rejected the call.
	ErrUnavailable = errors.New("provider unavailable")
)

// APIError represents a non-2xx answer from an upstream API.
type APIError struct {
	Provider   string
	StatusCode int
	Message    string
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s api error %d: %s", e.Provider, e.StatusCode, e.Message)
}

// IsRetryable returns true if the error should trigger a retry.
func (e *APIError) IsRetryable() bool {
	return e.StatusCode >= http.StatusInternalServerError || e.StatusCode == http.StatusTooManyRequests
}

// Is lets errors.Is(err, ErrNotFound) match an upstream 404.
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// Attempt records the outcome of one lookup strategy.
type Attempt struct {
	Strategy string
	Err      error
}

// LookupError is returned when every lookup strategy failed.
// It matches ErrNotFound only when no strategy hit a real failure, and
// ErrNotConfigured when no strategy was configured at all.
type LookupError struct {
	Kind     string
	Attempts []Attempt
}

func (e *LookupError) Error() string {
	if len(e.Attempts) == 0 {
		return e.Kind + " lookup: no strategies"
	}
	parts := make([]string, len(e.Attempts))
	for i, a := range e.Attempts {
		parts[i] = a.Strategy + ": " + a.Err.Error()
	}
	return e.Kind + " lookup failed: " + strings.Join(parts, "; ")
}

// Is reports ErrNotFound when every attempt was benign.
func (e *LookupError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.benign()
	case ErrNotConfigured:
		return e.unconfigured()
	}
	return false
}

func (e *LookupError) unconfigured() bool {
	for _, a := range e.Attempts {
		if !errors.Is(a.Err, ErrNotConfigured) {
			return false
		}
	}
	return len(e.Attempts) > 0
}

func (e *LookupError) benign() bool {
	for _, a := range e.Attempts {
		if !isBenign(a.Err) {
			return false
		}
	}
	return true
}

// isBenign reports failures that mean "no data here" rather than "something broke".
func isBenign(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrNotConfigured)
}
