package service

import (
	"errors"

	"github.com/okian/creatorscore/internal/adapters/providers"
)

// Errors surfaced by the service. The provider sentinels are re-exported so
// callers do not need to import the providers package to classify failures.
var (
	ErrNotFound      = providers.ErrNotFound
	ErrNotConfigured = providers.ErrNotConfigured
	ErrUnavailable   = providers.ErrUnavailable

	// ErrLookupFailed is returned when neither score nor valuation could be fetched
	// because of upstream failures.
	ErrLookupFailed = errors.New("lookup failed")
)

// missing reports errors that mean the data is absent rather than unreachable.
func missing(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrNotConfigured)
}
