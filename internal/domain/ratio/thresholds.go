package ratio

import (
	"fmt"
	"math"
)

// Default calibration. Ratios are USD of market cap per creator-score point.
const (
	DefaultThresholdsVersion = "v1"
	DefaultLowThreshold      = 1_000.0
	DefaultHighThreshold     = 5_000.0
)

// Thresholds partitions the non-negative ratios into three categories.
// Low and High both belong to the balanced interval.
type Thresholds struct {
	Version string  `json:"version"`
	Low     float64 `json:"low"`
	High    float64 `json:"high"`
}

// DefaultThresholds returns the v1 calibration.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Version: DefaultThresholdsVersion,
		Low:     DefaultLowThreshold,
		High:    DefaultHighThreshold,
	}
}

// Validate checks that both bounds are finite, non-negative and strictly ordered.
func (t Thresholds) Validate() error {
	switch {
	case math.IsNaN(t.Low) || math.IsInf(t.Low, 0):
		return fmt.Errorf("%w: low must be finite, got %v", ErrInvalidThresholds, t.Low)
	case math.IsNaN(t.High) || math.IsInf(t.High, 0):
		return fmt.Errorf("%w: high must be finite, got %v", ErrInvalidThresholds, t.High)
	case t.Low < 0:
		return fmt.Errorf("%w: low must not be negative, got %v", ErrInvalidThresholds, t.Low)
	case t.Low >= t.High:
		return fmt.Errorf("%w: low (%v) must be below high (%v)", ErrInvalidThresholds, t.Low, t.High)
	}
	return nil
}

// Classify maps a ratio to its category. +Inf is always overvalued.
func (t Thresholds) Classify(ratio float64) Category {
	switch {
	case ratio < t.Low:
		return Undervalued
	case ratio <= t.High:
		return Balanced
	default:
		return Overvalued
	}
}

// Position returns where ratio sits on a 0-100 meter spanning [Low, High].
func (t Thresholds) Position(ratio float64) float64 {
	if math.IsInf(ratio, 1) {
		return 100
	}
	p := (ratio - t.Low) / (t.High - t.Low)
	return math.Max(0, math.Min(1, p)) * 100
}
