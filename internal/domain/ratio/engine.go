package ratio

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Engine defaults.
const (
	defaultRelativeEpsilon = 1e-9
	maxSweepSteps          = 1000
)

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithThresholds overrides the calibration. Invalid thresholds are ignored.
func WithThresholds(t Thresholds) Option {
	return func(e *Engine) {
		if t.Validate() == nil {
			e.thresholds = t
		}
	}
}

// WithRelativeEpsilon sets the tolerance used to call two ratios equal.
func WithRelativeEpsilon(eps float64) Option {
	return func(e *Engine) {
		if eps >= 0 && !math.IsNaN(eps) && !math.IsInf(eps, 0) {
			e.epsilon = eps
		}
	}
}

// Engine classifies ratios and runs simulations against a fixed calibration.
// An Engine is immutable after construction and safe for concurrent use.
type Engine struct {
	thresholds Thresholds
	epsilon    float64
}

// NewEngine creates an engine with the default calibration unless overridden.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		thresholds: DefaultThresholds(),
		epsilon:    defaultRelativeEpsilon,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Thresholds returns the active calibration.
func (e *Engine) Thresholds() Thresholds { return e.thresholds }

// Classify maps ratio to a category using the active calibration.
func (e *Engine) Classify(ratio float64) Category { return e.thresholds.Classify(ratio) }

// AnalyzeRatio builds the analysis of an already-computed ratio.
func (e *Engine) AnalyzeRatio(ratio float64) Analysis {
	c := e.thresholds.Classify(ratio)
	return Analysis{
		Ratio:         Ratio(ratio),
		Category:      c,
		Label:         c.Label(),
		Glyph:         c.Glyph(),
		Description:   c.Description(),
		RatioDisplay:  FormatRatio(ratio),
		MeterPosition: e.thresholds.Position(ratio),
	}
}

// Analyze computes and classifies valuation / score.
func (e *Engine) Analyze(valuation, score float64) (Analysis, error) {
	if err := validateAmount("valuation", valuation); err != nil {
		return Analysis{}, err
	}
	if err := validateAmount("score", score); err != nil {
		return Analysis{}, err
	}
	return e.AnalyzeRatio(ComputeRatio(valuation, score)), nil
}

// Simulate compares the analysis at originalScore with the one at hypotheticalScore,
// holding valuation fixed.
func (e *Engine) Simulate(valuation, originalScore, hypotheticalScore float64) (Simulation, error) {
	original, err := e.Analyze(valuation, originalScore)
	if err != nil {
		return Simulation{}, err
	}
	if err := validateAmount("hypothetical score", hypotheticalScore); err != nil {
		return Simulation{}, err
	}
	simulated := e.AnalyzeRatio(ComputeRatio(valuation, hypotheticalScore))
	return Simulation{
		Valuation:         valuation,
		OriginalScore:     originalScore,
		HypotheticalScore: hypotheticalScore,
		Original:          original,
		Simulated:         simulated,
		Change:            e.compare(float64(original.Ratio), float64(simulated.Ratio)),
	}, nil
}

// Sweep simulates steps evenly spaced hypothetical scores across [from, to].
func (e *Engine) Sweep(valuation, originalScore, from, to float64, steps int) ([]SweepPoint, error) {
	if steps < 2 || steps > maxSweepSteps {
		return nil, fmt.Errorf("%w: steps must be within [2, %d], got %d", ErrInvalidSweep, maxSweepSteps, steps)
	}
	if err := validateAmount("from", from); err != nil {
		return nil, err
	}
	if err := validateAmount("to", to); err != nil {
		return nil, err
	}
	if from > to {
		return nil, fmt.Errorf("%w: from (%v) is above to (%v)", ErrInvalidSweep, from, to)
	}
	original, err := e.Analyze(valuation, originalScore)
	if err != nil {
		return nil, err
	}

	scores := floats.Span(make([]float64, steps), from, to)
	points := make([]SweepPoint, len(scores))
	for i, s := range scores {
		a := e.AnalyzeRatio(ComputeRatio(valuation, s))
		points[i] = SweepPoint{
			Score:    s,
			Analysis: a,
			Change:   e.compare(float64(original.Ratio), float64(a.Ratio)),
		}
	}
	return points, nil
}

// compare yields the verdict of moving from the original ratio to the simulated one.
// A lower ratio is more favourable.
func (e *Engine) compare(original, simulated float64) Verdict {
	if original == simulated {
		return Unchanged
	}
	if !math.IsInf(original, 0) && !math.IsInf(simulated, 0) {
		scale := math.Max(math.Abs(original), math.Abs(simulated))
		if math.Abs(simulated-original) <= e.epsilon*scale {
			return Unchanged
		}
	}
	if simulated < original {
		return Improved
	}
	return Worsened
}
