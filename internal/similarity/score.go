package similarity

import "strings"

// Score rates how likely two folder names refer to the same concept, in
// [0, 1]. Exact normalized equality wins outright, one name containing the
// other scores just below it, and everything else falls back to token
// overlap over union.
func Score(aNorm, bNorm string, aTokens, bTokens map[string]struct{}) float64 {
	if aNorm != "" && aNorm == bNorm {
		return 1
	}
	if aNorm != "" && bNorm != "" &&
		(strings.Contains(aNorm, bNorm) || strings.Contains(bNorm, aNorm)) {
		return 0.85
	}
	if len(aTokens) == 0 || len(bTokens) == 0 {
		return 0
	}

	intersection := 0
	for tok := range aTokens {
		if _, ok := bTokens[tok]; ok {
			intersection++
		}
	}
	union := len(aTokens) + len(bTokens) - intersection
	return float64(intersection) / float64(union)
}
