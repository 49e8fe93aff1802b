package valueobject

import (
	"math"
	"sort"
)

// RiskFactor is one feature's signed contribution to a risk score.
type RiskFactor struct {
	Feature   string  `json:"feature"`
	SHAPScore float64 `json:"shap_score"`
}

// RankFactors returns a copy of factors sorted by absolute contribution,
// largest first, truncated to topN (topN <= 0 keeps all).
func RankFactors(factors []RiskFactor, topN int) []RiskFactor {
	ranked := make([]RiskFactor, len(factors))
	copy(ranked, factors)
	sort.SliceStable(ranked, func(i, j int) bool {
		return math.Abs(ranked[i].SHAPScore) > math.Abs(ranked[j].SHAPScore)
	})
	if topN > 0 && len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked
}
