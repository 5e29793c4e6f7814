// Package ratio turns a (valuation, score) pair into a categorized analysis and
// answers "what if the score were different" questions.
//
// Every function in this package is pure: no I/O, no shared mutable state.
// A zero score yields a ratio of +Inf, which flows through classification and
// formatting as "maximal overvaluation".
package ratio

import (
	"encoding/json"
	"fmt"
	"math"
)

// ComputeRatio returns valuation / score at full precision, or +Inf when score is zero.
func ComputeRatio(valuation, score float64) float64 {
	if score == 0 {
		return math.Inf(1)
	}
	return valuation / score
}

// Ratio is a valuation-to-score ratio that survives a JSON round trip even when infinite.
type Ratio float64

const infinityJSON = `"Infinity"`

// IsInf reports whether the ratio is the zero-score sentinel.
func (r Ratio) IsInf() bool { return math.IsInf(float64(r), 1) }

// MarshalJSON encodes +Inf as the string "Infinity" and everything else as a number.
func (r Ratio) MarshalJSON() ([]byte, error) {
	if r.IsInf() {
		return []byte(infinityJSON), nil
	}
	return json.Marshal(float64(r))
}

// UnmarshalJSON accepts a number or the string "Infinity".
func (r *Ratio) UnmarshalJSON(b []byte) error {
	if string(b) == infinityJSON {
		*r = Ratio(math.Inf(1))
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return fmt.Errorf("decode ratio: %w", err)
	}
	*r = Ratio(f)
	return nil
}

// String renders the ratio with FormatRatio.
func (r Ratio) String() string { return FormatRatio(float64(r)) }

// Analysis is the categorized view of a single ratio.
type Analysis struct {
	Ratio         Ratio    `json:"ratio"`
	Category      Category `json:"category"`
	Label         string   `json:"category_label"`
	Glyph         string   `json:"category_emoji"`
	Description   string   `json:"description"`
	RatioDisplay  string   `json:"ratio_display"`
	MeterPosition float64  `json:"meter_position"`
}

// validateAmount rejects values the engine is not defined for.
func validateAmount(field string, v float64) error {
	switch {
	case math.IsNaN(v):
		return fmt.Errorf("%w: %s is NaN", ErrInvalidInput, field)
	case math.IsInf(v, 0):
		return fmt.Errorf("%w: %s must be finite", ErrInvalidInput, field)
	case v < 0:
		return fmt.Errorf("%w: %s must not be negative, got %v", ErrInvalidInput, field, v)
	}
	return nil
}
