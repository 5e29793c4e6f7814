package ratio

import "errors"

// Sentinel kinds for ratio analysis errors.
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidThresholds = errors.New("invalid thresholds")
	ErrInvalidSweep      = errors.New("invalid sweep")
)
