package smoke

import (
	"math"
	"math/rand/v2"
)

// Case is one what-if question sent to the server.
type Case struct {
	Valuation         float64 `json:"valuation"`
	Score             float64 `json:"score"`
	HypotheticalScore float64 `json:"hypothetical_score"`
}

// edgeCases are always included: zero scores, an unchanged score and boundary ratios.
var edgeCases = []Case{
	{Valuation: 1000, Score: 0, HypotheticalScore: 0},
	{Valuation: 1000, Score: 0, HypotheticalScore: 10},
	{Valuation: 1000, Score: 100, HypotheticalScore: 0},
	{Valuation: 1000, Score: 100, HypotheticalScore: 100},
	{Valuation: 0, Score: 100, HypotheticalScore: 50},
	{Valuation: 1_000_000, Score: 1000, HypotheticalScore: 200},
	{Valuation: 5_000_000, Score: 1000, HypotheticalScore: 999},
}

// generateCases returns n cases: the edge cases first, then random ones drawn
// log-uniformly so every category is well represented.
func generateCases(n int, seed uint64) []Case {
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	out := make([]Case, 0, n)
	for i := 0; i < len(edgeCases) && len(out) < n; i++ {
		out = append(out, edgeCases[i])
	}
	for len(out) < n {
		out = append(out, Case{
			Valuation:         logUniform(r, 1e2, 1e8),
			Score:             math.Round(logUniform(r, 1, 5000)),
			HypotheticalScore: math.Round(logUniform(r, 1, 5000)),
		})
	}
	return out
}

func logUniform(r *rand.Rand, lo, hi float64) float64 {
	return math.Exp(math.Log(lo) + r.Float64()*(math.Log(hi)-math.Log(lo)))
}
