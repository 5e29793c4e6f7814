package ratio

// Verdict describes how a simulated ratio moved relative to the original.
type Verdict string

// Possible verdicts.
const (
	Improved  Verdict = "improved"
	Worsened  Verdict = "worsened"
	Unchanged Verdict = "unchanged"
)

// Simulation pairs the current analysis with a counterfactual one.
type Simulation struct {
	Valuation         float64  `json:"valuation"`
	OriginalScore     float64  `json:"original_score"`
	HypotheticalScore float64  `json:"hypothetical_score"`
	Original          Analysis `json:"original"`
	Simulated         Analysis `json:"simulated"`
	Change            Verdict  `json:"change"`
}

// CategoryChanged reports whether the counterfactual crossed a threshold.
func (s Simulation) CategoryChanged() bool {
	return s.Original.Category != s.Simulated.Category
}

// SweepPoint is one position of the score slider.
type SweepPoint struct {
	Score    float64  `json:"score"`
	Analysis Analysis `json:"analysis"`
	Change   Verdict  `json:"change"`
}
